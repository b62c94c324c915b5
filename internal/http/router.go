package httpx

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cosmosecure/web/domain"
	"github.com/cosmosecure/web/internal/http/handlers"
	"github.com/cosmosecure/web/internal/http/middleware"
)

// RouterConfig carries the cross-cutting settings the router needs.
type RouterConfig struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
}

func BuildRouter(
	ah *handlers.AccountHandlers,
	rh *handlers.ResetHandlers,
	tokenSvc domain.TokenService,
	sessionRepo domain.SessionRepository,
	logger *slog.Logger,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RateLimitPerMinute > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute).Middleware())
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")
	api.POST("/check-email", ah.CheckEmail)
	api.POST("/check-username", ah.CheckUsername)
	api.POST("/register", ah.Register)
	api.POST("/login", ah.Login)
	api.POST("/forgot-password", rh.ForgotPassword)
	api.POST("/verify-reset-otp", rh.VerifyResetOTP)
	api.POST("/reset-password", rh.ResetPassword)

	authd := api.Group("/").Use(middleware.AuthMiddleware(tokenSvc, sessionRepo))
	authd.GET("/me", ah.Me)
	authd.POST("/logout", ah.Logout)

	return r
}
