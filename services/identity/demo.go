package identity

import (
	"time"

	"timebank/config"
	"timebank/models"
	"timebank/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartDemoSession issues a read-only browsing session bound to the shared
// demo account. The demo flag rides inside the token, so every downstream
// service sees it without consulting ambient state.
func (s *DefaultIdentityService) StartDemoSession() (*AuthResponse, error) {
	email := config.AppConfig.DemoUserEmail
	if email == "" {
		email = "demo@timebank.com"
	}

	userRec, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("StartDemoSession: failed to fetch demo user", zap.Error(err))
		return nil, ErrProviderUnavailable
	}
	if userRec == nil {
		userRec = &models.User{
			ID:        uuid.New().String(),
			Username:  "Demo User",
			Email:     email,
			Demo:      true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.Repo.Create(userRec); err != nil {
			utils.GetLogger().Error("StartDemoSession: failed to provision demo user", zap.Error(err))
			return nil, ErrProviderUnavailable
		}
	}

	return s.issueSession(userRec, true)
}
