package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cosmosecure/web/domain"
	"github.com/cosmosecure/web/internal/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func performJSON(handler gin.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestAccountHandlers_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		body            string
		setupMocks      func(*mocks.MockAccountService)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "successful registration",
			body: `{"username":"newuser","name":"New User","email":"new@example.com","password":"Aa1!aaaa"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.RegisterFunc = func(ctx context.Context, username, name, email, password string) (*domain.User, error) {
					return &domain.User{ID: "user_abc", Username: username, Name: name, Email: email}, nil
				}
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Account created successfully",
		},
		{
			name:            "missing fields",
			body:            `{"username":"newuser","email":"new@example.com"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "All fields are required",
		},
		{
			name:            "malformed json",
			body:            `{"username":`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "All fields are required",
		},
		{
			name:            "short username",
			body:            `{"username":"ab","name":"New User","email":"new@example.com","password":"Aa1!aaaa"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Username must be at least 3 characters long",
		},
		{
			name:            "short password",
			body:            `{"username":"newuser","name":"New User","email":"new@example.com","password":"Aa1!"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Password must be at least 8 characters long",
		},
		{
			name:            "weak password",
			body:            `{"username":"newuser","name":"New User","email":"new@example.com","password":"aaaaaaaa"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Password is too weak. Mix uppercase, lowercase, numbers and symbols.",
		},
		{
			name: "username conflict",
			body: `{"username":"taken","name":"New User","email":"new@example.com","password":"Aa1!aaaa"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.RegisterFunc = func(ctx context.Context, username, name, email, password string) (*domain.User, error) {
					return nil, domain.ErrUsernameTaken
				}
			},
			expectedStatus:  http.StatusConflict,
			expectedMessage: "Username is already registered",
		},
		{
			name: "email conflict",
			body: `{"username":"newuser","name":"New User","email":"taken@example.com","password":"Aa1!aaaa"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.RegisterFunc = func(ctx context.Context, username, name, email, password string) (*domain.User, error) {
					return nil, domain.ErrEmailTaken
				}
			},
			expectedStatus:  http.StatusConflict,
			expectedMessage: "Email is already registered",
		},
		{
			name: "storage failure",
			body: `{"username":"newuser","name":"New User","email":"new@example.com","password":"Aa1!aaaa"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.RegisterFunc = func(ctx context.Context, username, name, email, password string) (*domain.User, error) {
					return nil, errors.New("write failed")
				}
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Error creating account. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAccountService()
			if tt.setupMocks != nil {
				tt.setupMocks(svc)
			}
			h := NewAccountHandlers(svc, testLogger())

			w, resp := performJSON(h.Register, tt.body)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if resp["message"] != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, resp["message"])
			}
		})
	}
}

func TestAccountHandlers_Register_ReturnsUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := mocks.NewMockAccountService()
	svc.RegisterFunc = func(ctx context.Context, username, name, email, password string) (*domain.User, error) {
		return &domain.User{ID: "user_abc"}, nil
	}
	h := NewAccountHandlers(svc, testLogger())

	_, resp := performJSON(h.Register, `{"username":"newuser","name":"n","email":"new@example.com","password":"Aa1!aaaa"}`)

	if resp["userId"] != "user_abc" {
		t.Errorf("expected userId user_abc, got %v", resp["userId"])
	}
	if resp["success"] != true {
		t.Errorf("expected success true, got %v", resp["success"])
	}
}

func TestAccountHandlers_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &domain.User{
		ID:        "user_abc",
		Username:  "alice",
		Email:     "alice@example.com",
		Name:      "Alice",
		LastLogin: time.Now(),
	}

	tests := []struct {
		name            string
		body            string
		setupMocks      func(*mocks.MockAccountService)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "successful login",
			body: `{"identifier":"alice","password":"Aa1!aaaa"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.LoginFunc = func(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
					return &domain.AuthResult{User: user, Token: "jwt-token", SessionID: "sess-1", ExpiresIn: 3600}, nil
				}
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Login successful",
		},
		{
			name:            "missing credentials",
			body:            `{"identifier":"alice"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Username/email and password are required",
		},
		{
			name: "unknown identifier",
			body: `{"identifier":"ghost","password":"Aa1!aaaa"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.LoginFunc = func(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrInvalidCredentials
				}
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid username/email or password",
		},
		{
			name: "wrong password uses the same response as unknown user",
			body: `{"identifier":"alice","password":"wrong"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.LoginFunc = func(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrInvalidCredentials
				}
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid username/email or password",
		},
		{
			name: "account without a stored hash",
			body: `{"identifier":"alice","password":"Aa1!aaaa"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.LoginFunc = func(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrAccountMisconfigured
				}
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Account not properly configured. Please contact support.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAccountService()
			if tt.setupMocks != nil {
				tt.setupMocks(svc)
			}
			h := NewAccountHandlers(svc, testLogger())

			w, resp := performJSON(h.Login, tt.body)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if resp["message"] != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, resp["message"])
			}
		})
	}
}

func TestAccountHandlers_Login_ResponseShape(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := mocks.NewMockAccountService()
	svc.LoginFunc = func(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
		return &domain.AuthResult{
			User:      &domain.User{ID: "user_abc", Username: "alice", Email: "alice@example.com", Credential: domain.Credential{Hash: "secret-hash"}},
			Token:     "jwt-token",
			ExpiresIn: 3600,
		}, nil
	}
	h := NewAccountHandlers(svc, testLogger())

	w, resp := performJSON(h.Login, `{"identifier":"alice","password":"Aa1!aaaa"}`)

	if resp["token"] != "jwt-token" {
		t.Errorf("expected token in response, got %v", resp["token"])
	}
	if resp["expiresIn"] != float64(3600) {
		t.Errorf("expected expiresIn 3600, got %v", resp["expiresIn"])
	}
	userObj, ok := resp["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected user object, got %v", resp["user"])
	}
	if userObj["username"] != "alice" {
		t.Errorf("expected username alice, got %v", userObj["username"])
	}
	if bytes.Contains(w.Body.Bytes(), []byte("secret-hash")) {
		t.Error("response body leaks the credential hash")
	}
}

func TestAccountHandlers_CheckEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name              string
		body              string
		setupMocks        func(*mocks.MockAccountService)
		expectedStatus    int
		expectedAvailable bool
		expectedMessage   string
	}{
		{
			name: "available email",
			body: `{"email":"fresh@example.com"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.CheckEmailFunc = func(ctx context.Context, email string) (*domain.Availability, error) {
					return &domain.Availability{Available: true, Reason: "Email is available"}, nil
				}
			},
			expectedStatus:    http.StatusOK,
			expectedAvailable: true,
			expectedMessage:   "Email is available",
		},
		{
			name: "taken email",
			body: `{"email":"taken@example.com"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.CheckEmailFunc = func(ctx context.Context, email string) (*domain.Availability, error) {
					return &domain.Availability{Available: false, Reason: "Email is already registered"}, nil
				}
			},
			expectedStatus:    http.StatusOK,
			expectedAvailable: false,
			expectedMessage:   "Email is already registered",
		},
		{
			name:            "missing email",
			body:            `{}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Email is required",
		},
		{
			name:            "invalid format",
			body:            `{"email":"not-an-email"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid email format",
		},
		{
			name: "lookup failure",
			body: `{"email":"fresh@example.com"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.CheckEmailFunc = func(ctx context.Context, email string) (*domain.Availability, error) {
					return nil, errors.New("db down")
				}
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Error checking email availability",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAccountService()
			if tt.setupMocks != nil {
				tt.setupMocks(svc)
			}
			h := NewAccountHandlers(svc, testLogger())

			w, resp := performJSON(h.CheckEmail, tt.body)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if resp["message"] != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, resp["message"])
			}
			if w.Code == http.StatusOK && resp["available"] != tt.expectedAvailable {
				t.Errorf("expected available %v, got %v", tt.expectedAvailable, resp["available"])
			}
		})
	}
}

func TestAccountHandlers_CheckUsername(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name              string
		body              string
		setupMocks        func(*mocks.MockAccountService)
		expectedStatus    int
		expectedAvailable bool
		expectedMessage   string
	}{
		{
			name: "available username",
			body: `{"username":"fresh"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.CheckUsernameFunc = func(ctx context.Context, username string) (*domain.Availability, error) {
					return &domain.Availability{Available: true, Reason: "Username is available"}, nil
				}
			},
			expectedStatus:    http.StatusOK,
			expectedAvailable: true,
			expectedMessage:   "Username is available",
		},
		{
			name: "taken username",
			body: `{"username":"taken"}`,
			setupMocks: func(svc *mocks.MockAccountService) {
				svc.CheckUsernameFunc = func(ctx context.Context, username string) (*domain.Availability, error) {
					return &domain.Availability{Available: false, Reason: "Username is already taken"}, nil
				}
			},
			expectedStatus:    http.StatusOK,
			expectedAvailable: false,
			expectedMessage:   "Username is already taken",
		},
		{
			name:            "too short",
			body:            `{"username":"ab"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Username must be at least 3 characters long",
		},
		{
			name:            "missing username",
			body:            `{}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Username must be at least 3 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAccountService()
			if tt.setupMocks != nil {
				tt.setupMocks(svc)
			}
			h := NewAccountHandlers(svc, testLogger())

			w, resp := performJSON(h.CheckUsername, tt.body)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if resp["message"] != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, resp["message"])
			}
			if w.Code == http.StatusOK && resp["available"] != tt.expectedAvailable {
				t.Errorf("expected available %v, got %v", tt.expectedAvailable, resp["available"])
			}
		})
	}
}

func TestAccountHandlers_Me(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := mocks.NewMockAccountService()
	svc.GetProfileFunc = func(ctx context.Context, userID string) (*domain.User, error) {
		if userID == "user_abc" {
			return &domain.User{ID: "user_abc", Username: "alice", Email: "alice@example.com"}, nil
		}
		return nil, domain.ErrUserNotFound
	}
	h := NewAccountHandlers(svc, testLogger())

	t.Run("authenticated user", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/me", nil)
		c.Set("user_id", "user_abc")

		h.Me(c)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		var resp map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		userObj, _ := resp["user"].(map[string]interface{})
		if userObj["id"] != "user_abc" {
			t.Errorf("expected user id user_abc, got %v", userObj["id"])
		}
	})

	t.Run("missing context user", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/me", nil)

		h.Me(c)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/me", nil)
		c.Set("user_id", "gone")

		h.Me(c)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
	})
}

func TestAccountHandlers_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var deleted string
	svc := mocks.NewMockAccountService()
	svc.LogoutFunc = func(ctx context.Context, sessionID string) error {
		deleted = sessionID
		return nil
	}
	h := NewAccountHandlers(svc, testLogger())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	c.Set("session_id", "sess-1")

	h.Logout(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if deleted != "sess-1" {
		t.Errorf("expected session sess-1 to be deleted, got %q", deleted)
	}
}
