package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RedisCheck pairs a Redis client with the concern it backs, so the health
// snapshot names what is degraded (auth, otp, chat, guard) instead of
// reporting an anonymous list.
type RedisCheck struct {
	Name   string
	Client *redis.Client
}

// HealthStatus represents the current status of external services, keyed by
// concern for the Redis clients.
type HealthStatus struct {
	Mongo     bool            `json:"mongo"`
	Redis     map[string]bool `json:"redis"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// checkHealth pings every dependency once and builds a snapshot.
func checkHealth(ctx context.Context, checks []RedisCheck, mongoClient *mongo.Client) HealthStatus {
	redisHealth := make(map[string]bool, len(checks))
	for _, check := range checks {
		err := check.Client.Ping(ctx).Err()
		redisHealth[check.Name] = err == nil
		if err != nil {
			GetLogger().Warn("health: redis ping failed",
				zap.String("concern", check.Name), zap.Error(err))
		}
	}

	mongoHealthy := false
	if mongoClient != nil {
		err := mongoClient.Ping(ctx, nil)
		mongoHealthy = err == nil
		if err != nil {
			GetLogger().Warn("health: mongo ping failed", zap.Error(err))
		}
	}

	return HealthStatus{
		Mongo:     mongoHealthy,
		Redis:     redisHealth,
		CheckedAt: time.Now(),
	}
}

// StartHealthMonitor performs periodic health checks and updates the
// in-memory snapshot served by the health route.
func StartHealthMonitor(checks []RedisCheck, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()
		for range ticker.C {
			status := checkHealth(ctx, checks, mongoClient)
			mu.Lock()
			currentHealth = status
			mu.Unlock()
		}
	}()
}
