package mocks

import (
	"context"
	"time"

	"github.com/cosmosecure/web/domain"
)

// MockUserRepository implements domain.UserRepository for testing.
type MockUserRepository struct {
	CreateFunc                func(ctx context.Context, user *domain.User) error
	FindByIDFunc              func(ctx context.Context, userID string) (*domain.User, error)
	FindByUsernameFunc        func(ctx context.Context, username string) (*domain.User, error)
	FindByEmailFunc           func(ctx context.Context, email string) (*domain.User, error)
	FindByIdentifierFunc      func(ctx context.Context, identifier string) (*domain.User, error)
	UpdateLastLoginFunc       func(ctx context.Context, userID string, at time.Time) error
	SetResetSessionFunc       func(ctx context.Context, email string, session *domain.ResetSession) error
	MarkResetVerifiedFunc     func(ctx context.Context, email, sessionID string, at time.Time) error
	CompletePasswordResetFunc func(ctx context.Context, email, sessionID, passwordHash string, at time.Time) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	if m.FindByIdentifierFunc != nil {
		return m.FindByIdentifierFunc(ctx, identifier)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, userID, at)
	}
	return nil
}

func (m *MockUserRepository) SetResetSession(ctx context.Context, email string, session *domain.ResetSession) error {
	if m.SetResetSessionFunc != nil {
		return m.SetResetSessionFunc(ctx, email, session)
	}
	return nil
}

func (m *MockUserRepository) MarkResetVerified(ctx context.Context, email, sessionID string, at time.Time) error {
	if m.MarkResetVerifiedFunc != nil {
		return m.MarkResetVerifiedFunc(ctx, email, sessionID, at)
	}
	return nil
}

func (m *MockUserRepository) CompletePasswordReset(ctx context.Context, email, sessionID, passwordHash string, at time.Time) error {
	if m.CompletePasswordResetFunc != nil {
		return m.CompletePasswordResetFunc(ctx, email, sessionID, passwordHash, at)
	}
	return nil
}
