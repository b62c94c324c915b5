package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	Env     string `yaml:"env"`
}

type MongoConfig struct {
	URI             string `yaml:"uri"`
	Database        string `yaml:"database"`
	UsersCollection string `yaml:"users_collection"`
	Timeout         string `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	SessionTTL string `yaml:"session_ttl"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type ResetConfig struct {
	SessionTTL string `yaml:"session_ttl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type TwilioConfig struct {
	AccountSID       string `yaml:"account_sid"`
	AuthToken        string `yaml:"auth_token"`
	VerifyServiceSID string `yaml:"verify_service_sid"`
}

type HTTPConfig struct {
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	RequestTimeout     string   `yaml:"request_timeout"`
}

type DisposableConfig struct {
	CheckURL string `yaml:"check_url"`
}

type ConfigFile struct {
	App        AppConfig        `yaml:"app"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	OTP        OTPConfig        `yaml:"otp"`
	Reset      ResetConfig      `yaml:"reset"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Twilio     TwilioConfig     `yaml:"twilio"`
	HTTP       HTTPConfig       `yaml:"http"`
	Disposable DisposableConfig `yaml:"disposable"`
}

// Config is the fully parsed runtime configuration.
type Config struct {
	Port    string
	GinMode string
	Env     string

	MongoURI        string
	MongoDatabase   string
	UsersCollection string
	MongoTimeout    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	OTPTTL          time.Duration
	OTPLength       int
	OTPMaxAttempts  int
	OTPResendWindow time.Duration

	ResetSessionTTL time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	TwilioSID       string
	TwilioToken     string
	TwilioVerifySID string

	RateLimitPerMinute int
	AllowedOrigins     []string
	RequestTimeout     time.Duration

	DisposableCheckURL string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// Load reads config/config.yml and applies environment overrides for
// the secrets that should not live in the file.
func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

// LoadFrom parses the given yaml file.
func LoadFrom(path string) (*Config, error) {
	file, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	sessionTTL, err := time.ParseDuration(file.JWT.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt session TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(file.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	resendWindow, err := time.ParseDuration(file.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	resetTTL, err := time.ParseDuration(file.Reset.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid reset session TTL: %w", err)
	}

	mongoTimeout, err := time.ParseDuration(file.Mongo.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo timeout: %w", err)
	}

	requestTimeout, err := time.ParseDuration(file.HTTP.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	return &Config{
		Port:    fmt.Sprintf("%d", file.App.Port),
		GinMode: file.App.GinMode,
		Env:     env("APP_ENV", file.App.Env),

		MongoURI:        env("MONGODB_URI", file.Mongo.URI),
		MongoDatabase:   env("MONGODB_DB_NAME", file.Mongo.Database),
		UsersCollection: env("MONGODB_USERS_COLLECTION", file.Mongo.UsersCollection),
		MongoTimeout:    mongoTimeout,

		RedisAddr:     env("REDIS_ADDR", file.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:       envInt("REDIS_DB", file.Redis.DB),

		JWTSecret:  env("JWT_SECRET", file.JWT.Secret),
		JWTIssuer:  file.JWT.Issuer,
		SessionTTL: sessionTTL,

		OTPTTL:          otpTTL,
		OTPLength:       file.OTP.Length,
		OTPMaxAttempts:  file.OTP.MaxAttempts,
		OTPResendWindow: resendWindow,

		ResetSessionTTL: resetTTL,

		SMTPHost:     env("SMTP_HOST", file.SMTP.Host),
		SMTPPort:     envInt("SMTP_PORT", file.SMTP.Port),
		SMTPUsername: env("SMTP_USERNAME", file.SMTP.Username),
		SMTPPassword: env("SMTP_PASSWORD", file.SMTP.Password),
		SMTPFrom:     env("SMTP_FROM", file.SMTP.From),

		TwilioSID:       env("TWILIO_ACCOUNT_SID", file.Twilio.AccountSID),
		TwilioToken:     env("TWILIO_AUTH_TOKEN", file.Twilio.AuthToken),
		TwilioVerifySID: env("TWILIO_VERIFY_SERVICE_SID", file.Twilio.VerifyServiceSID),

		RateLimitPerMinute: file.HTTP.RateLimitPerMinute,
		AllowedOrigins:     file.HTTP.AllowedOrigins,
		RequestTimeout:     requestTimeout,

		DisposableCheckURL: file.Disposable.CheckURL,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
