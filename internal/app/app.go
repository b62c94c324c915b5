package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/cosmosecure/web/domain"
	"github.com/cosmosecure/web/internal/config"
	httpx "github.com/cosmosecure/web/internal/http"
	"github.com/cosmosecure/web/internal/http/handlers"
	"github.com/cosmosecure/web/internal/infrastructure/auth"
	"github.com/cosmosecure/web/internal/infrastructure/database"
	"github.com/cosmosecure/web/internal/infrastructure/notifications"
	"github.com/cosmosecure/web/internal/infrastructure/repositories"
	"github.com/cosmosecure/web/internal/services"
)

// Run wires the service together and serves until interrupted.
func Run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()

	mongo, err := database.OpenMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase, cfg.UsersCollection)
	if err != nil {
		return err
	}
	defer mongo.Close(context.Background())

	if err := mongo.EnsureIndexes(connectCtx); err != nil {
		return err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client
	if err := rdb.Ping(connectCtx).Err(); err != nil {
		return err
	}

	passwordSvc := auth.NewPasswordService()
	tokenSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)

	userRepo := repositories.NewUserRepository(mongo.Users)
	sessionRepo := repositories.NewSessionRepository(rdb, cfg.SessionTTL)

	verifier := buildVerifier(cfg, rdb, logger)

	disposableSvc := services.NewDebounceChecker(cfg.DisposableCheckURL)
	auditLogger := services.NewSlogAuditLogger(logger)
	accountSvc := services.NewAccountService(userRepo, sessionRepo, passwordSvc, tokenSvc, disposableSvc, cfg.SessionTTL, logger, auditLogger)
	resetSvc := services.NewResetService(userRepo, verifier, passwordSvc, cfg.ResetSessionTTL, logger, auditLogger)

	accountH := handlers.NewAccountHandlers(accountSvc, logger)
	resetH := handlers.NewResetHandlers(resetSvc, logger)

	router := httpx.BuildRouter(accountH, resetH, tokenSvc, sessionRepo, logger, httpx.RouterConfig{
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildVerifier picks the code-verification backend. With a Verify
// service SID configured the check is delegated to Twilio; otherwise
// codes are generated locally and delivered over SMTP.
func buildVerifier(cfg *config.Config, rdb *redis.Client, logger *slog.Logger) domain.VerificationProvider {
	if cfg.TwilioVerifySID != "" {
		logger.Info("using twilio verify for reset codes")
		return notifications.NewTwilioVerifyService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioVerifySID)
	}

	notificationSvc := notifications.NewSMTPService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	return services.NewOTPService(notificationSvc, rdb, services.OTPConfig{
		Length:       cfg.OTPLength,
		TTL:          cfg.OTPTTL,
		MaxAttempts:  cfg.OTPMaxAttempts,
		ResendWindow: cfg.OTPResendWindow,
	})
}
