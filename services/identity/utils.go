package identity

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"timebank/models"
	"timebank/utils"

	"go.uber.org/zap"
)

// VerifyPasswordComplexity enforces the minimum password rules.
func VerifyPasswordComplexity(pw string) error {
	var (
		hasMinLen = len(pw) >= 8
		hasUpper  = regexp.MustCompile(`[A-Z]`).MatchString(pw)
		hasLower  = regexp.MustCompile(`[a-z]`).MatchString(pw)
		hasNumber = regexp.MustCompile(`[0-9]`).MatchString(pw)
	)
	if !hasMinLen {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if !hasUpper {
		return fmt.Errorf("password must include at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must include at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must include at least one number")
	}
	return nil
}

// issueSession generates a session token for the user, caches its hash, and
// builds the auth response handed back to the client.
func (s *DefaultIdentityService) issueSession(user *models.User, demo bool) (*AuthResponse, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, demo)
	if err != nil {
		utils.GetLogger().Error("issueSession: failed to generate token", zap.Error(err))
		return nil, ErrProviderUnavailable
	}

	if s.TokenCache != nil {
		cacheKey := utils.AuthCachePrefix + user.ID
		ctx := context.Background()
		if err := s.TokenCache.Set(ctx, cacheKey, utils.HashToken(token), utils.TokenDuration).Err(); err != nil {
			utils.GetLogger().Error("issueSession: failed to cache token hash", zap.Error(err))
		}
	}

	return &AuthResponse{
		ID:          user.ID,
		Token:       token,
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Demo:        demo,
	}, nil
}

// RevokeSession drops the cached token hash so the token stops validating
// against the cache.
func (s *DefaultIdentityService) RevokeSession(userID string) error {
	if s.TokenCache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.TokenCache.Del(ctx, utils.AuthCachePrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
