package utils

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// OTPTTL is how long an issued code stays valid.
const OTPTTL = 5 * time.Minute

var (
	// ErrOTPNotFound indicates the code expired or was never issued.
	ErrOTPNotFound = errors.New("verification code not found or expired")
	// ErrOTPMismatch indicates the provided code does not match the issued one.
	ErrOTPMismatch = errors.New("verification code does not match")
)

// generateSecureOTP generates a secure random OTP of the specified length.
// It returns a base32 encoded string (without padding) truncated to the desired length.
func generateSecureOTP(length int) (string, error) {
	numBytes := (length*5 + 7) / 8 // Calculate the required number of bytes.
	randomBytes := make([]byte, numBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	otp := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	if len(otp) > length {
		otp = otp[:length]
	}
	return otp, nil
}

// SendSMSMessage delivers a verification code to the given phone number.
// Replace the body of this function with your actual SMS gateway integration.
// The code itself is never returned to the calling client.
func SendSMSMessage(phoneNumber, message string) error {
	GetLogger().Sugar().Infof("Sending SMS to %s", phoneNumber)
	return nil
}

// InitiateOTP generates a code, stores it in Redis under the given subject
// (a phone number or email) with a 5-minute TTL, and sends it out of band.
func InitiateOTP(subject, destination string) error {
	otp, err := generateSecureOTP(6)
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	otpKey := fmt.Sprintf("otp:%s", subject)

	ctx := context.Background()
	client := GetOTPCacheClient()
	if client == nil {
		return fmt.Errorf("OTP cache client not initialized")
	}

	if err := client.Set(ctx, otpKey, otp, OTPTTL).Err(); err != nil {
		GetLogger().Error("Failed to cache OTP", zap.Error(err))
		return fmt.Errorf("failed to initiate verification code")
	}

	message := fmt.Sprintf("Your TimeBank verification code is: %s. It expires in 5 minutes.", otp)
	if err := SendSMSMessage(destination, message); err != nil {
		GetLogger().Error("Failed to send verification code", zap.Error(err))
		return fmt.Errorf("failed to send verification code")
	}

	GetLogger().Sugar().Infof("Issued verification code for %s (expires in %v)", subject, OTPTTL)
	return nil
}

// VerifyOTPRecord retrieves the stored code and compares it to the provided one.
// If they match, it deletes the code from the cache.
func VerifyOTPRecord(subject, providedOTP string) error {
	otpKey := fmt.Sprintf("otp:%s", subject)
	ctx := context.Background()
	client := GetOTPCacheClient()
	if client == nil {
		return fmt.Errorf("OTP cache client not initialized")
	}

	storedOTP, err := client.Get(ctx, otpKey).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrOTPNotFound
		}
		return fmt.Errorf("failed to retrieve verification code: %w", err)
	}

	if storedOTP != providedOTP {
		return ErrOTPMismatch
	}

	if err := client.Del(ctx, otpKey).Err(); err != nil {
		GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
	}
	return nil
}
