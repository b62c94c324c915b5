package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cosmosecure/web/domain"
	"github.com/cosmosecure/web/internal/validation"
)

// AccountHandlers handles registration, login and availability checks.
type AccountHandlers struct {
	accountSvc domain.AccountService
	logger     *slog.Logger
}

// NewAccountHandlers creates new account handlers.
func NewAccountHandlers(accountSvc domain.AccountService, logger *slog.Logger) *AccountHandlers {
	return &AccountHandlers{
		accountSvc: accountSvc,
		logger:     logger,
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// CheckEmailRequest represents an email availability request.
type CheckEmailRequest struct {
	Email string `json:"email"`
}

// CheckUsernameRequest represents a username availability request.
type CheckUsernameRequest struct {
	Username string `json:"username"`
}

// Register handles POST /api/register.
func (h *AccountHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
		return
	}

	if !validation.ValidUsername(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username must be at least 3 characters long"})
		return
	}
	if len(req.Password) < validation.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 8 characters long"})
		return
	}
	if !validation.AcceptablePassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password is too weak. Mix uppercase, lowercase, numbers and symbols."})
		return
	}

	user, err := h.accountSvc.Register(c.Request.Context(), req.Username, req.Name, req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrUsernameTaken:
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Username is already registered"})
		case domain.ErrEmailTaken:
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email is already registered"})
		default:
			h.logger.Error("registration failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating account. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account created successfully",
		"userId":  user.ID,
	})
}

// Login handles POST /api/login.
func (h *AccountHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Identifier == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username/email and password are required"})
		return
	}

	result, err := h.accountSvc.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid username/email or password"})
		case domain.ErrAccountMisconfigured:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Account not properly configured. Please contact support."})
		default:
			h.logger.Error("login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Login successful",
		"user":      result.User.Profile(),
		"token":     result.Token,
		"expiresIn": result.ExpiresIn,
	})
}

// CheckEmail handles POST /api/check-email.
func (h *AccountHandlers) CheckEmail(c *gin.Context) {
	var req CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"available": false, "message": "Email is required"})
		return
	}
	if !validation.ValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"available": false, "message": "Invalid email format"})
		return
	}

	availability, err := h.accountSvc.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("email availability check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"available": false, "message": "Error checking email availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": availability.Available, "message": availability.Reason})
}

// CheckUsername handles POST /api/check-username.
func (h *AccountHandlers) CheckUsername(c *gin.Context) {
	var req CheckUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validation.ValidUsername(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"available": false, "message": "Username must be at least 3 characters long"})
		return
	}

	availability, err := h.accountSvc.CheckUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.logger.Error("username availability check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"available": false, "message": "Error checking username availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": availability.Available, "message": availability.Reason})
}

// Me handles GET /api/me (requires authentication).
func (h *AccountHandlers) Me(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	user, err := h.accountSvc.GetProfile(c.Request.Context(), userID.(string))
	if err != nil {
		if err == domain.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		h.logger.Error("profile lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.Profile()})
}

// Logout handles POST /api/logout (requires authentication).
func (h *AccountHandlers) Logout(c *gin.Context) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Session ID not found"})
		return
	}

	if err := h.accountSvc.Logout(c.Request.Context(), sessionID.(string)); err != nil {
		h.logger.Error("logout failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}
