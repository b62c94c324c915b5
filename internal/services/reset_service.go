package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cosmosecure/web/domain"
	"github.com/cosmosecure/web/internal/validation"
)

// ResetServiceImpl implements domain.ResetService. It coordinates two
// systems of record: the user collection (session bookkeeping) and the
// verification provider (one-time codes). The two are not
// transactionally linked, so Request compensates by deleting the
// session when code dispatch fails.
type ResetServiceImpl struct {
	userRepo    domain.UserRepository
	verifier    domain.VerificationProvider
	passwordSvc domain.PasswordService
	sessionTTL  time.Duration
	logger      *slog.Logger
	audit       domain.AuditLogger
}

// NewResetService creates a new password-reset service.
func NewResetService(
	userRepo domain.UserRepository,
	verifier domain.VerificationProvider,
	passwordSvc domain.PasswordService,
	sessionTTL time.Duration,
	logger *slog.Logger,
	audit domain.AuditLogger,
) domain.ResetService {
	return &ResetServiceImpl{
		userRepo:    userRepo,
		verifier:    verifier,
		passwordSvc: passwordSvc,
		sessionTTL:  sessionTTL,
		logger:      logger,
		audit:       audit,
	}
}

func (s *ResetServiceImpl) emit(ctx context.Context, event *domain.AuditEvent) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, event)
	}
}

// Request implements domain.ResetService. Unknown emails return
// ErrUserNotFound without persisting anything; the handler answers
// with the same body either way.
func (s *ResetServiceImpl) Request(ctx context.Context, email string) (*domain.ResetSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	prior := user.ResetSession

	now := time.Now()
	session := &domain.ResetSession{
		ID:        fmt.Sprintf("pwdreset_%s", uuid.NewString()),
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.userRepo.SetResetSession(ctx, user.Email, session); err != nil {
		return nil, fmt.Errorf("failed to persist reset session: %w", err)
	}

	if err := s.verifier.Start(ctx, user.Email); err != nil {
		if errors.Is(err, domain.ErrOTPResendLimit) && prior != nil && !prior.Expired(now) && !prior.Verified {
			// The throttle means the previously emailed code is still
			// live; put back the session it belongs to.
			if restoreErr := s.userRepo.SetResetSession(ctx, user.Email, prior); restoreErr != nil {
				return nil, fmt.Errorf("failed to restore reset session: %w", restoreErr)
			}
			return prior, nil
		}
		// Compensating action: don't leave an orphaned session behind
		// a code that was never sent.
		if cleanupErr := s.userRepo.SetResetSession(ctx, user.Email, nil); cleanupErr != nil {
			s.logger.Error("failed to clean up reset session after dispatch failure",
				"email", user.Email, "error", cleanupErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	s.emit(ctx, domain.NewAuditEvent(domain.ResetRequestedEvent).WithUser(user.ID).WithEmail(user.Email))
	return session, nil
}

// VerifyCode implements domain.ResetService.
func (s *ResetServiceImpl) VerifyCode(ctx context.Context, email, sessionID, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return domain.ErrResetSessionInvalid
	}

	session := user.ResetSession
	if session == nil || session.ID != sessionID {
		return domain.ErrResetSessionInvalid
	}
	now := time.Now()
	if session.Expired(now) {
		return domain.ErrResetSessionExpired
	}
	if session.Verified {
		return domain.ErrResetAlreadyVerified
	}

	ok, err := s.verifier.Check(ctx, email, code)
	if err != nil {
		if errors.Is(err, domain.ErrOTPNotFound) || errors.Is(err, domain.ErrOTPMaxAttempts) {
			return domain.ErrResetCodeInvalid
		}
		return fmt.Errorf("code check failed: %w", err)
	}
	if !ok {
		s.emit(ctx, domain.NewAuditEvent(domain.ResetFailureEvent).WithEmail(email).WithError(domain.ErrResetCodeInvalid))
		return domain.ErrResetCodeInvalid
	}

	// The filtered update re-checks token, expiry and verified state,
	// so a concurrent transition loses here rather than double-firing.
	if err := s.userRepo.MarkResetVerified(ctx, email, sessionID, now); err != nil {
		return err
	}
	s.emit(ctx, domain.NewAuditEvent(domain.ResetVerifiedEvent).WithUser(user.ID).WithEmail(email))
	return nil
}

// Complete implements domain.ResetService.
func (s *ResetServiceImpl) Complete(ctx context.Context, email, sessionID, newPassword string) error {
	if !validation.AcceptablePassword(newPassword) {
		return domain.ErrWeakPassword
	}

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return domain.ErrResetSessionInvalid
	}

	session := user.ResetSession
	if session == nil || session.ID != sessionID {
		return domain.ErrResetSessionInvalid
	}
	now := time.Now()
	if session.Expired(now) {
		return domain.ErrResetSessionExpired
	}
	if !session.Verified {
		return domain.ErrResetNotVerified
	}

	hash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.CompletePasswordReset(ctx, email, sessionID, hash, now); err != nil {
		return err
	}
	s.emit(ctx, domain.NewAuditEvent(domain.ResetCompletedEvent).WithUser(user.ID).WithEmail(email))
	return nil
}
