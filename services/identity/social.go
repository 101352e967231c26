package identity

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"timebank/config"
	"timebank/models"
	"timebank/utils"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	googlePublicKeys  map[string]*rsa.PublicKey
	googleKeysMutex   sync.RWMutex
	googleKeysExpires time.Time
)

// googleJWK represents a single JSON Web Key from Google's keys endpoint.
type googleJWK struct {
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type googleJWKResponse struct {
	Keys []googleJWK `json:"keys"`
}

// socialUserInfo holds extracted user info from provider tokens.
type socialUserInfo struct {
	Email string
	Name  string
}

// AuthenticateWithOAuth validates a provider-issued ID token and issues a
// session, provisioning a user record on first sign-in. An empty token means
// the client abandoned the provider flow.
func (s *DefaultIdentityService) AuthenticateWithOAuth(provider, idToken string) (*AuthResponse, error) {
	if idToken == "" {
		return nil, ErrUserCancelled
	}

	var info *socialUserInfo
	var err error
	switch provider {
	case "google":
		info, err = validateGoogleToken(idToken, config.AppConfig.GoogleOAuthClientID)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrProviderError, provider)
	}
	if err != nil {
		utils.GetLogger().Warn("AuthenticateWithOAuth: token validation failed",
			zap.String("provider", provider), zap.Error(err))
		return nil, ErrProviderError
	}

	userRec, err := s.Repo.GetByEmail(info.Email)
	if err != nil {
		utils.GetLogger().Error("AuthenticateWithOAuth: failed to fetch user", zap.Error(err))
		return nil, ErrProviderUnavailable
	}
	if userRec == nil {
		userRec = &models.User{
			ID:        uuid.New().String(),
			Username:  info.Name,
			Email:     info.Email,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if userRec.Username == "" {
			userRec.Username = info.Email
		}
		if err := s.Repo.Create(userRec); err != nil {
			utils.GetLogger().Error("AuthenticateWithOAuth: failed to provision user", zap.Error(err))
			return nil, ErrProviderUnavailable
		}
	}

	return s.issueSession(userRec, userRec.Demo)
}

// getGooglePublicKeys fetches and caches Google's public keys.
func getGooglePublicKeys() (map[string]*rsa.PublicKey, error) {
	googleKeysMutex.RLock()
	if time.Now().Before(googleKeysExpires) && googlePublicKeys != nil {
		defer googleKeysMutex.RUnlock()
		return googlePublicKeys, nil
	}
	googleKeysMutex.RUnlock()

	resp, err := http.Get("https://www.googleapis.com/oauth2/v3/certs")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google certs: %w", err)
	}
	defer resp.Body.Close()

	var keyResp googleJWKResponse
	if err := json.NewDecoder(resp.Body).Decode(&keyResp); err != nil {
		return nil, fmt.Errorf("failed to decode Google keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey)
	for _, key := range keyResp.Keys {
		pubKey, err := convertJWKToPublicKey(key.N, key.E)
		if err != nil {
			return nil, fmt.Errorf("failed to convert JWK to public key: %w", err)
		}
		keys[key.Kid] = pubKey
	}

	googleKeysMutex.Lock()
	googlePublicKeys = keys
	// Cache keys for 1 hour (Google rotates keys frequently)
	googleKeysExpires = time.Now().Add(1 * time.Hour)
	googleKeysMutex.Unlock()

	return keys, nil
}

// convertJWKToPublicKey converts base64url encoded modulus and exponent to rsa.PublicKey.
func convertJWKToPublicKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	var exp int
	for _, b := range eb {
		exp = exp<<8 + int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: exp,
	}, nil
}

// validateGoogleToken validates the Google ID token and returns user info.
func validateGoogleToken(tokenStr string, audience string) (*socialUserInfo, error) {
	keys, err := getGooglePublicKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to get Google public keys: %w", err)
	}

	// Parse token without verification to get the kid from header
	parser := new(jwt.Parser)
	unverifiedToken, _, err := parser.ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	kid, ok := unverifiedToken.Header["kid"].(string)
	if !ok {
		return nil, errors.New("token missing kid header")
	}

	pubKey, exists := keys[kid]
	if !exists {
		return nil, errors.New("no matching Google public key found")
	}

	// Parse and verify token using the right public key
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return pubKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid Google ID token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse claims")
	}

	if aud, ok := claims["aud"].(string); !ok || aud != audience {
		return nil, errors.New("invalid audience in Google ID token")
	}
	if iss, ok := claims["iss"].(string); !ok || (iss != "accounts.google.com" && iss != "https://accounts.google.com") {
		return nil, errors.New("invalid issuer in Google ID token")
	}
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < time.Now().Unix() {
		return nil, errors.New("google ID token expired")
	}

	email, emailOk := claims["email"].(string)
	if !emailOk {
		return nil, errors.New("email claim not found in Google ID token")
	}

	email = strings.ToLower(email)
	name, _ := claims["name"].(string)

	return &socialUserInfo{Email: email, Name: name}, nil
}
