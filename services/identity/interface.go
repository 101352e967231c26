package identity

import (
	userRepo "timebank/database/repository/user"

	"github.com/go-redis/redis/v8"
)

// IdentityService is the identity provider boundary: every way a session can
// be obtained, plus the opaque code-issue/verify pair for phone and reset
// flows. Codes are issued and checked server-side only.
type IdentityService interface {
	// Registration
	Register(req RegistrationRequest) (*AuthResponse, error)

	// Authentication
	Authenticate(email, password string) (*AuthResponse, error)
	SendCode(phone string) error
	AuthenticateByPhone(phone, code string) (*AuthResponse, error)
	AuthenticateWithOAuth(provider, idToken string) (*AuthResponse, error)
	StartDemoSession() (*AuthResponse, error)

	// Session management
	RevokeSession(userID string) error

	// Password reset
	SendResetCode(email string) error
	ResetPassword(email, code, newPassword string) error
}

// DefaultIdentityService is the production implementation.
type DefaultIdentityService struct {
	Repo userRepo.UserRepository
	// TokenCache holds hashes of issued session tokens. Optional; when nil,
	// tokens are validated by signature alone.
	TokenCache *redis.Client
}

// RegistrationRequest carries a new account's basic data.
type RegistrationRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

// AuthResponse contains the user's ID, token, and additional details.
type AuthResponse struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Demo        bool   `json:"demo,omitempty"`
}
