package mocks

import (
	"context"

	"github.com/cosmosecure/web/domain"
)

// MockPasswordService implements domain.PasswordService for testing.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool
}

func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

// MockTokenService implements domain.TokenService for testing.
type MockTokenService struct {
	GenerateFunc func(userID, username, sessionID string) (string, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Generate(userID, username, sessionID string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(userID, username, sessionID)
	}
	return "token_" + userID, nil
}

func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// MockVerificationProvider implements domain.VerificationProvider for testing.
type MockVerificationProvider struct {
	StartFunc func(ctx context.Context, email string) error
	CheckFunc func(ctx context.Context, email, code string) (bool, error)
}

func NewMockVerificationProvider() *MockVerificationProvider {
	return &MockVerificationProvider{}
}

func (m *MockVerificationProvider) Start(ctx context.Context, email string) error {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, email)
	}
	return nil
}

func (m *MockVerificationProvider) Check(ctx context.Context, email, code string) (bool, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, email, code)
	}
	return true, nil
}

// MockNotificationService implements domain.NotificationService for testing.
type MockNotificationService struct {
	SendEmailFunc func(to, subject, body string) error
	SentEmails    []SentEmail
}

// SentEmail records one dispatched message.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	m.SentEmails = append(m.SentEmails, SentEmail{To: to, Subject: subject, Body: body})
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	return nil
}

// MockDisposableEmailChecker implements domain.DisposableEmailChecker for testing.
type MockDisposableEmailChecker struct {
	IsDisposableFunc func(ctx context.Context, email string) (bool, error)
}

func NewMockDisposableEmailChecker() *MockDisposableEmailChecker {
	return &MockDisposableEmailChecker{}
}

func (m *MockDisposableEmailChecker) IsDisposable(ctx context.Context, email string) (bool, error) {
	if m.IsDisposableFunc != nil {
		return m.IsDisposableFunc(ctx, email)
	}
	return false, nil
}

// MockSessionRepository implements domain.SessionRepository for testing.
type MockSessionRepository struct {
	CreateFunc   func(ctx context.Context, session *domain.Session) error
	FindByIDFunc func(ctx context.Context, sessionID string) (*domain.Session, error)
	DeleteFunc   func(ctx context.Context, sessionID string) error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sessionID)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	return nil
}

// MockAccountService implements domain.AccountService for testing.
type MockAccountService struct {
	RegisterFunc      func(ctx context.Context, username, name, email, password string) (*domain.User, error)
	LoginFunc         func(ctx context.Context, identifier, password string) (*domain.AuthResult, error)
	LogoutFunc        func(ctx context.Context, sessionID string) error
	CheckUsernameFunc func(ctx context.Context, username string) (*domain.Availability, error)
	CheckEmailFunc    func(ctx context.Context, email string) (*domain.Availability, error)
	GetProfileFunc    func(ctx context.Context, userID string) (*domain.User, error)
}

func NewMockAccountService() *MockAccountService {
	return &MockAccountService{}
}

func (m *MockAccountService) Register(ctx context.Context, username, name, email, password string) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, name, email, password)
	}
	return &domain.User{Username: username, Name: name, Email: email}, nil
}

func (m *MockAccountService) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAccountService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockAccountService) CheckUsername(ctx context.Context, username string) (*domain.Availability, error) {
	if m.CheckUsernameFunc != nil {
		return m.CheckUsernameFunc(ctx, username)
	}
	return &domain.Availability{Available: true, Reason: "Username is available"}, nil
}

func (m *MockAccountService) CheckEmail(ctx context.Context, email string) (*domain.Availability, error) {
	if m.CheckEmailFunc != nil {
		return m.CheckEmailFunc(ctx, email)
	}
	return &domain.Availability{Available: true, Reason: "Email is available"}, nil
}

func (m *MockAccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// MockResetService implements domain.ResetService for testing.
type MockResetService struct {
	RequestFunc    func(ctx context.Context, email string) (*domain.ResetSession, error)
	VerifyCodeFunc func(ctx context.Context, email, sessionID, code string) error
	CompleteFunc   func(ctx context.Context, email, sessionID, newPassword string) error
}

func NewMockResetService() *MockResetService {
	return &MockResetService{}
}

func (m *MockResetService) Request(ctx context.Context, email string) (*domain.ResetSession, error) {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockResetService) VerifyCode(ctx context.Context, email, sessionID, code string) error {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, email, sessionID, code)
	}
	return nil
}

func (m *MockResetService) Complete(ctx context.Context, email, sessionID, newPassword string) error {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, email, sessionID, newPassword)
	}
	return nil
}

// MockAuditLogger implements domain.AuditLogger for testing. Events
// are recorded in order of emission.
type MockAuditLogger struct {
	Events []*domain.AuditEvent
}

func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	m.Events = append(m.Events, event)
}
