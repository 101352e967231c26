package identity

import (
	"errors"

	"timebank/utils"

	"go.uber.org/zap"
)

// SendCode issues a verification code to a registered phone number. The code
// travels out of band only; it is never part of the API response.
func (s *DefaultIdentityService) SendCode(phone string) error {
	userRec, err := s.Repo.GetByPhone(phone)
	if err != nil {
		utils.GetLogger().Error("SendCode: failed to fetch user", zap.Error(err))
		return ErrProviderUnavailable
	}
	if userRec == nil {
		return ErrPhoneUnverified
	}

	if err := utils.InitiateOTP(phone, phone); err != nil {
		utils.GetLogger().Error("SendCode: failed to issue code", zap.Error(err))
		return ErrProviderUnavailable
	}
	return nil
}

// AuthenticateByPhone verifies a phone/code pair and issues a session.
func (s *DefaultIdentityService) AuthenticateByPhone(phone, code string) (*AuthResponse, error) {
	userRec, err := s.Repo.GetByPhone(phone)
	if err != nil {
		utils.GetLogger().Error("AuthenticateByPhone: failed to fetch user", zap.Error(err))
		return nil, ErrProviderUnavailable
	}
	if userRec == nil {
		return nil, ErrPhoneUnverified
	}

	if err := utils.VerifyOTPRecord(phone, code); err != nil {
		if errors.Is(err, utils.ErrOTPNotFound) || errors.Is(err, utils.ErrOTPMismatch) {
			return nil, ErrCodeMismatch
		}
		utils.GetLogger().Error("AuthenticateByPhone: code verification failed", zap.Error(err))
		return nil, ErrProviderUnavailable
	}

	return s.issueSession(userRec, userRec.Demo)
}
