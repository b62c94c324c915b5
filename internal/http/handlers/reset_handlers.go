package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cosmosecure/web/domain"
	"github.com/cosmosecure/web/internal/validation"
)

// The body returned for a reset request against an unknown email is
// identical to the happy-path wording so responses cannot be used to
// enumerate accounts.
const resetRequestedGeneric = "If this email is registered, you will receive password reset instructions."

// ResetHandlers handles the password-reset workflow endpoints.
type ResetHandlers struct {
	resetSvc domain.ResetService
	logger   *slog.Logger
}

// NewResetHandlers creates new reset handlers.
func NewResetHandlers(resetSvc domain.ResetService, logger *slog.Logger) *ResetHandlers {
	return &ResetHandlers{
		resetSvc: resetSvc,
		logger:   logger,
	}
}

// ForgotPasswordRequest represents a reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyResetOTPRequest represents a code verification request.
type VerifyResetOTPRequest struct {
	Email          string `json:"email"`
	Code           string `json:"code"`
	ResetSessionID string `json:"resetSessionId"`
}

// ResetPasswordRequest represents a password update request.
type ResetPasswordRequest struct {
	Email          string `json:"email"`
	NewPassword    string `json:"newPassword"`
	ResetSessionID string `json:"resetSessionId"`
}

// ForgotPassword handles POST /api/forgot-password.
func (h *ResetHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}
	if !validation.ValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please enter a valid email address"})
		return
	}

	session, err := h.resetSvc.Request(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			// Intentionally identical to the success body.
			c.JSON(http.StatusOK, gin.H{"success": true, "message": resetRequestedGeneric})
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			// The session was already compensated away; the caller
			// still gets the generic body.
			h.logger.Warn("reset code dispatch failed", "error", err)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": resetRequestedGeneric})
		default:
			h.logger.Error("forgot password failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "An error occurred. Please try again later."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Password reset verification code has been sent to your email.",
		"resetSessionId": session.ID,
		"email":          session.Email,
	})
}

// VerifyResetOTP handles POST /api/verify-reset-otp.
func (h *ResetHandlers) VerifyResetOTP(c *gin.Context) {
	var req VerifyResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Code == "" || req.ResetSessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email, verification code, and session ID are required"})
		return
	}
	if !validation.ValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please enter a valid email address"})
		return
	}
	if !validation.ValidResetCode(req.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Verification code must be a 6-digit number"})
		return
	}

	err := h.resetSvc.VerifyCode(c.Request.Context(), req.Email, req.ResetSessionID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrResetSessionInvalid),
			errors.Is(err, domain.ErrResetSessionExpired),
			errors.Is(err, domain.ErrResetAlreadyVerified):
			// Merged wording: don't disclose which check failed.
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired reset session"})
		case errors.Is(err, domain.ErrResetCodeInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid verification code"})
		default:
			h.logger.Error("reset code verification failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "An error occurred. Please try again later."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Verification code confirmed. You can now set your new password.",
	})
}

// ResetPassword handles POST /api/reset-password.
func (h *ResetHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.NewPassword == "" || req.ResetSessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email, new password, and session ID are required"})
		return
	}
	if !validation.ValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please enter a valid email address"})
		return
	}
	if len(req.NewPassword) < validation.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 8 characters long"})
		return
	}

	err := h.resetSvc.Complete(c.Request.Context(), req.Email, req.ResetSessionID, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password is too weak. Mix uppercase, lowercase, numbers and symbols."})
		case errors.Is(err, domain.ErrResetSessionInvalid),
			errors.Is(err, domain.ErrResetSessionExpired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired reset session"})
		case errors.Is(err, domain.ErrResetNotVerified):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Reset session has not been verified"})
		default:
			h.logger.Error("password reset failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password has been successfully reset",
	})
}
