package identity

import "errors"

var (
	// ErrInvalidCredentials covers a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrProviderUnavailable means the identity backend could not be reached.
	ErrProviderUnavailable = errors.New("authentication failed, please try again")
	// ErrCodeMismatch means the provided verification code is wrong or expired.
	ErrCodeMismatch = errors.New("verification code is incorrect or has expired")
	// ErrPhoneUnverified means no account is associated with the phone number.
	ErrPhoneUnverified = errors.New("phone number is not associated with an account")
	// ErrUserCancelled means the OAuth flow was abandoned by the user.
	ErrUserCancelled = errors.New("sign-in was cancelled")
	// ErrProviderError means the OAuth provider rejected the token.
	ErrProviderError = errors.New("sign-in provider rejected the request")
	// ErrUserExists means an account with this email or username already exists.
	ErrUserExists = errors.New("a user with this email or username already exists")
)
