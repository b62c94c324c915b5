package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Account events
	UserRegistrationEvent AuditEventType = "USER_REGISTERED"
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserLogoutEvent       AuditEventType = "USER_LOGOUT"

	// Password reset events
	ResetRequestedEvent AuditEventType = "PASSWORD_RESET_REQUESTED"
	ResetVerifiedEvent  AuditEventType = "PASSWORD_RESET_VERIFIED"
	ResetCompletedEvent AuditEventType = "PASSWORD_RESET_COMPLETED"
	ResetFailureEvent   AuditEventType = "PASSWORD_RESET_FAILED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    string                 `json:"user_id,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithUser sets the user identity field
func (e *AuditEvent) WithUser(userID string) *AuditEvent {
	e.UserID = userID
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithSession sets the session field
func (e *AuditEvent) WithSession(sessionID string) *AuditEvent {
	e.SessionID = sessionID
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}
