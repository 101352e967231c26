// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"timebank/config"

	"github.com/go-redis/redis/v8"
)

// AuthCachePrefix prefixes keys holding session token hashes.
const AuthCachePrefix = "authToken:"

var (
	// AuthCacheClient is the dedicated client for session token caching.
	AuthCacheClient *redis.Client
	// OTPCacheClient is the dedicated client for one-time codes.
	OTPCacheClient *redis.Client
	// ChatCacheClient is the dedicated client for the chat transport (pub/sub).
	ChatCacheClient *redis.Client
	// GuardCacheClient is the dedicated client for in-flight submission guards.
	GuardCacheClient *redis.Client
)

// InitRedis initializes all Redis clients.
func InitRedis() {
	InitAuthCache()
	InitOTPCache()
	InitChatCache()
	InitGuardCache()
}

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

func mustPing(client *redis.Client, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
}

// InitAuthCache initializes the Redis client for session token caching.
func InitAuthCache() {
	AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB)
	mustPing(AuthCacheClient, "Auth Cache")
}

// GetAuthCacheClient returns the Redis client for session token caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// InitOTPCache initializes the Redis client for one-time codes.
func InitOTPCache() {
	OTPCacheClient = newRedisClient(config.AppConfig.RedisOTPDB)
	mustPing(OTPCacheClient, "OTP Cache")
}

// GetOTPCacheClient returns the Redis client for one-time codes.
func GetOTPCacheClient() *redis.Client {
	if OTPCacheClient == nil {
		InitOTPCache()
	}
	return OTPCacheClient
}

// InitChatCache initializes the Redis client backing the chat transport.
func InitChatCache() {
	ChatCacheClient = newRedisClient(config.AppConfig.RedisChatDB)
	mustPing(ChatCacheClient, "Chat Cache")
}

// GetChatCacheClient returns the Redis client backing the chat transport.
func GetChatCacheClient() *redis.Client {
	if ChatCacheClient == nil {
		InitChatCache()
	}
	return ChatCacheClient
}

// InitGuardCache initializes the Redis client for in-flight submission guards.
func InitGuardCache() {
	GuardCacheClient = newRedisClient(config.AppConfig.RedisGuardDB)
	mustPing(GuardCacheClient, "Guard Cache")
}

// GetGuardCacheClient returns the Redis client for in-flight submission guards.
func GetGuardCacheClient() *redis.Client {
	if GuardCacheClient == nil {
		InitGuardCache()
	}
	return GuardCacheClient
}
