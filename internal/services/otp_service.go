package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cosmosecure/web/domain"
)

// OTPServiceImpl implements domain.VerificationProvider with Redis
// persistence. It is the local stand-in for an external verification
// provider: codes live in Redis under the owning email with a TTL and
// are delivered through the notification service.
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	config          OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewOTPService creates a new Redis-based OTP service.
func NewOTPService(notificationSvc domain.NotificationService, redisClient *redis.Client, config OTPConfig) *OTPServiceImpl {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		config:          config,
	}
}

// Start implements domain.VerificationProvider.
func (s *OTPServiceImpl) Start(ctx context.Context, email string) error {
	otpKey := fmt.Sprintf("otp:%s", email)
	resendKey := fmt.Sprintf("otp:res:%s", email)
	attemptsKey := fmt.Sprintf("otp:att:%s", email)

	// Check resend throttle
	if canResend, waitTime, _ := s.CanResend(ctx, email); !canResend {
		return fmt.Errorf("%w: wait %d seconds before requesting a new code", domain.ErrOTPResendLimit, waitTime)
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}

	if err := s.redisClient.Set(ctx, otpKey, code, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store OTP in Redis: %w", err)
	}

	if err := s.redisClient.Set(ctx, attemptsKey, 0, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to initialize attempts counter: %w", err)
	}

	if err := s.redisClient.Set(ctx, resendKey, 1, s.config.ResendWindow).Err(); err != nil {
		return fmt.Errorf("failed to set resend throttle: %w", err)
	}

	subject := "Your CosmoSecure verification code"
	body := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.notificationSvc.SendEmail(email, subject, body); err != nil {
		// Clean up Redis entries if dispatch fails
		s.redisClient.Del(ctx, otpKey, attemptsKey, resendKey)
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	return nil
}

// Check implements domain.VerificationProvider.
func (s *OTPServiceImpl) Check(ctx context.Context, email, code string) (bool, error) {
	otpKey := fmt.Sprintf("otp:%s", email)
	attemptsKey := fmt.Sprintf("otp:att:%s", email)

	attempts, err := s.redisClient.Incr(ctx, attemptsKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment attempts: %w", err)
	}

	if attempts > int64(s.config.MaxAttempts) {
		s.redisClient.Del(ctx, otpKey, attemptsKey)
		return false, domain.ErrOTPMaxAttempts
	}

	storedCode, err := s.redisClient.Get(ctx, otpKey).Result()
	if err == redis.Nil {
		return false, domain.ErrOTPNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to get OTP from Redis: %w", err)
	}

	if storedCode != code {
		return false, nil
	}

	// Success - a code is good for exactly one check
	s.redisClient.Del(ctx, otpKey, attemptsKey)

	return true, nil
}

// CanResend reports whether the resend throttle allows a new code for
// this email, and how many seconds remain otherwise.
func (s *OTPServiceImpl) CanResend(ctx context.Context, email string) (bool, int64, error) {
	resendKey := fmt.Sprintf("otp:res:%s", email)

	ttl, err := s.redisClient.TTL(ctx, resendKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	if ttl <= 0 {
		return true, 0, nil
	}

	return false, int64(ttl.Seconds()), nil
}

// generateSecureCode generates a cryptographically secure numeric code.
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
