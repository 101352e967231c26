package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"timebank/config"
	"timebank/models"

	"github.com/golang-jwt/jwt"
)

// TokenDuration is the lifetime of issued session tokens.
const TokenDuration = 24 * time.Hour

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		secret = "timebank-dev-secret"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT token for the given user. The demo flag
// marks read-only browsing sessions and travels inside the token so that
// downstream services receive it explicitly.
func GenerateToken(userID, email string, demo bool) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"demo":  demo,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// SessionFromToken extracts the session carried by a valid token string.
func SessionFromToken(tokenString string) (*models.Session, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	email, _ := claims["email"].(string)
	demo, _ := claims["demo"].(bool)

	return &models.Session{UserID: sub, Email: email, Demo: demo}, nil
}
