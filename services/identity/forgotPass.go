package identity

import (
	"errors"

	"timebank/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go.mongodb.org/mongo-driver/bson"
)

// SendResetCode issues a password-reset code to a registered email address.
func (s *DefaultIdentityService) SendResetCode(email string) error {
	userRec, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("SendResetCode: failed to fetch user", zap.Error(err))
		return ErrProviderUnavailable
	}
	if userRec == nil {
		// Do not reveal whether the account exists.
		return nil
	}

	if err := utils.InitiateOTP(email, email); err != nil {
		utils.GetLogger().Error("SendResetCode: failed to issue code", zap.Error(err))
		return ErrProviderUnavailable
	}
	return nil
}

// ResetPassword verifies the reset code and replaces the password. The old
// session token hash is dropped so existing sessions stop validating.
func (s *DefaultIdentityService) ResetPassword(email, code, newPassword string) error {
	userRec, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("ResetPassword: failed to fetch user", zap.Error(err))
		return ErrProviderUnavailable
	}
	if userRec == nil {
		return ErrCodeMismatch
	}

	if err := utils.VerifyOTPRecord(email, code); err != nil {
		if errors.Is(err, utils.ErrOTPNotFound) || errors.Is(err, utils.ErrOTPMismatch) {
			return ErrCodeMismatch
		}
		utils.GetLogger().Error("ResetPassword: code verification failed", zap.Error(err))
		return ErrProviderUnavailable
	}

	if err := VerifyPasswordComplexity(newPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("ResetPassword: failed to hash password", zap.Error(err))
		return ErrProviderUnavailable
	}

	if err := s.Repo.UpdateSetDocument(userRec.ID, bson.M{"password_hash": string(hashed)}); err != nil {
		utils.GetLogger().Error("ResetPassword: failed to update password", zap.Error(err))
		return ErrProviderUnavailable
	}

	return s.RevokeSession(userRec.ID)
}
