package identity

import (
	"fmt"
	"time"

	"timebank/models"
	"timebank/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register validates basic data, checks for duplicates, persists the user
// record, and issues a session.
func (s *DefaultIdentityService) Register(req RegistrationRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return nil, fmt.Errorf("username, email and password are required")
	}

	existing, err := s.Repo.GetByEmail(req.Email)
	if err != nil {
		utils.GetLogger().Error("Register: failed to check for existing user", zap.Error(err))
		return nil, ErrProviderUnavailable
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	if err := VerifyPasswordComplexity(req.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("Register: failed to hash password", zap.Error(err))
		return nil, ErrProviderUnavailable
	}

	userObj := models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.Repo.Create(&userObj); err != nil {
		utils.GetLogger().Error("Register: failed to create user", zap.Error(err))
		return nil, ErrProviderUnavailable
	}

	return s.issueSession(&userObj, false)
}
