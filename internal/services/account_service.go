package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cosmosecure/web/domain"
)

// PasswordsMax is the password-history ceiling recorded on new accounts.
const PasswordsMax = 25

// AccountServiceImpl implements domain.AccountService.
type AccountServiceImpl struct {
	userRepo      domain.UserRepository
	sessionRepo   domain.SessionRepository
	passwordSvc   domain.PasswordService
	tokenSvc      domain.TokenService
	disposableSvc domain.DisposableEmailChecker
	sessionTTL    time.Duration
	logger        *slog.Logger
	audit         domain.AuditLogger
}

// NewAccountService creates a new account service.
func NewAccountService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	disposableSvc domain.DisposableEmailChecker,
	sessionTTL time.Duration,
	logger *slog.Logger,
	audit domain.AuditLogger,
) domain.AccountService {
	return &AccountServiceImpl{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		passwordSvc:   passwordSvc,
		tokenSvc:      tokenSvc,
		disposableSvc: disposableSvc,
		sessionTTL:    sessionTTL,
		logger:        logger,
		audit:         audit,
	}
}

func (s *AccountServiceImpl) emit(ctx context.Context, event *domain.AuditEvent) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, event)
	}
}

// Register implements domain.AccountService. The pre-checks give the
// caller a precise conflict message; the unique indexes behind
// userRepo.Create are the authority when two registrations race.
func (s *AccountServiceImpl) Register(ctx context.Context, username, name, email, password string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Username:     username,
		Name:         name,
		Email:        email,
		Credential:   domain.Credential{Hash: hash},
		CreatedAt:    now,
		LastLogin:    now,
		PasswordsMax: PasswordsMax,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.emit(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent).WithUser(user.ID).WithEmail(user.Email))
	return user, nil
}

// Login implements domain.AccountService. Unknown identifier and wrong
// password both collapse to ErrInvalidCredentials so the response
// cannot be used to probe for accounts.
func (s *AccountServiceImpl) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		s.emit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if user.Credential.Hash == "" {
		return nil, domain.ErrAccountMisconfigured
	}

	if !s.passwordSvc.Verify(user.Credential.Hash, password) {
		s.emit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent).WithUser(user.ID).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = now

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokenSvc.Generate(user.ID, user.Username, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.emit(ctx, domain.NewAuditEvent(domain.UserLoginEvent).WithUser(user.ID).WithSession(session.ID))

	return &domain.AuthResult{
		User:      user,
		Token:     token,
		SessionID: session.ID,
		ExpiresIn: int64(s.sessionTTL.Seconds()),
	}, nil
}

// Logout implements domain.AccountService.
func (s *AccountServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.emit(ctx, domain.NewAuditEvent(domain.UserLogoutEvent).WithSession(sessionID))
	return nil
}

// CheckUsername implements domain.AccountService.
func (s *AccountServiceImpl) CheckUsername(ctx context.Context, username string) (*domain.Availability, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return &domain.Availability{Available: false, Reason: "Username is already taken"}, nil
	}
	if err != domain.ErrUserNotFound {
		return nil, err
	}

	return &domain.Availability{Available: true, Reason: "Username is available"}, nil
}

// CheckEmail implements domain.AccountService. The disposable-address
// lookup is advisory: a failing third-party service must never block
// signup.
func (s *AccountServiceImpl) CheckEmail(ctx context.Context, email string) (*domain.Availability, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.disposableSvc != nil {
		disposable, err := s.disposableSvc.IsDisposable(ctx, email)
		if err != nil {
			s.logger.Warn("disposable email check failed", "error", err)
		} else if disposable {
			return &domain.Availability{Available: false, Reason: "Disposable email addresses are not allowed"}, nil
		}
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return &domain.Availability{Available: false, Reason: "Email is already registered"}, nil
	}
	if err != domain.ErrUserNotFound {
		return nil, err
	}

	return &domain.Availability{Available: true, Reason: "Email is available"}, nil
}

// GetProfile implements domain.AccountService.
func (s *AccountServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
