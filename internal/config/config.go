// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Guard    GuardConfig
	Media    MediaConfig
	Realtime RealtimeConfig
	Jobs     JobsConfig
	Alert    AlertConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret    string
	TokenExpiry  time.Duration
	CookieName   string
	CookieSecure bool
}

// GuardConfig holds route guard settings for the admin UI.
type GuardConfig struct {
	CookieMarker      string
	ProtectedPrefixes []string
	AuthPrefixes      []string
	LoginPath         string
	HomePath          string
}

// MediaConfig holds S3 photo storage settings.
type MediaConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	URLExpiry       time.Duration
}

// RealtimeConfig holds LISTEN/NOTIFY settings.
type RealtimeConfig struct {
	Collections    []string
	ReconnectDelay time.Duration
}

// JobsConfig holds background job settings.
type JobsConfig struct {
	AppointmentReminderSchedule string
	ListingExpirySchedule       string
	ListingExpiryAfter          time.Duration
}

// AlertConfig holds alert and transactional email settings.
type AlertConfig struct {
	SlackWebhookURL string
	EmailSMTPHost   string
	EmailSMTPPort   int
	EmailFrom       string
	EmailPassword   string
	EmailRecipients string // comma-separated
	WebhookURLs     string // comma-separated
	ResetBaseURL    string
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			CORSOrigins:     getEnvList("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "mrcars"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "mrcars"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvDuration("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenExpiry:  getEnvDuration("JWT_EXPIRY", 24*time.Hour),
			CookieName:   getEnv("AUTH_COOKIE_NAME", "mrcars-auth-token"),
			CookieSecure: getEnvBool("AUTH_COOKIE_SECURE", true),
		},
		Guard: GuardConfig{
			CookieMarker:      getEnv("GUARD_COOKIE_MARKER", "auth-token"),
			ProtectedPrefixes: getEnvList("GUARD_PROTECTED_PREFIXES", []string{"/dashboard"}),
			AuthPrefixes:      getEnvList("GUARD_AUTH_PREFIXES", []string{"/auth"}),
			LoginPath:         getEnv("GUARD_LOGIN_PATH", "/auth/login"),
			HomePath:          getEnv("GUARD_HOME_PATH", "/dashboard"),
		},
		Media: MediaConfig{
			Region:          getEnv("MEDIA_S3_REGION", "eu-west-1"),
			Bucket:          getEnv("MEDIA_S3_BUCKET", ""),
			AccessKeyID:     getEnv("MEDIA_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("MEDIA_S3_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("MEDIA_S3_ENDPOINT", ""),
			URLExpiry:       getEnvDuration("MEDIA_URL_EXPIRY", 15*time.Minute),
		},
		Realtime: RealtimeConfig{
			Collections:    getEnvList("REALTIME_COLLECTIONS", []string{"users", "listings", "orders", "inquiries", "appointments", "forum_posts", "notifications"}),
			ReconnectDelay: getEnvDuration("REALTIME_RECONNECT_DELAY", 5*time.Second),
		},
		Jobs: JobsConfig{
			AppointmentReminderSchedule: getEnv("JOB_APPOINTMENT_REMINDERS", "0 * * * *"),
			ListingExpirySchedule:       getEnv("JOB_LISTING_EXPIRY", "30 2 * * *"),
			ListingExpiryAfter:          getEnvDuration("JOB_LISTING_EXPIRY_AFTER", 30*24*time.Hour),
		},
		Alert: AlertConfig{
			SlackWebhookURL: getEnv("ALERT_SLACK_WEBHOOK", ""),
			EmailSMTPHost:   getEnv("ALERT_EMAIL_SMTP_HOST", ""),
			EmailSMTPPort:   getEnvInt("ALERT_EMAIL_SMTP_PORT", 587),
			EmailFrom:       getEnv("ALERT_EMAIL_FROM", ""),
			EmailPassword:   getEnv("ALERT_EMAIL_PASSWORD", ""),
			EmailRecipients: getEnv("ALERT_EMAIL_RECIPIENTS", ""),
			WebhookURLs:     getEnv("ALERT_WEBHOOK_URLS", ""),
			ResetBaseURL:    getEnv("ALERT_RESET_BASE_URL", "https://admin.mrcars.example/auth/reset"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if !strings.Contains(c.Auth.CookieName, c.Guard.CookieMarker) {
		return fmt.Errorf("AUTH_COOKIE_NAME must contain GUARD_COOKIE_MARKER, got %q / %q", c.Auth.CookieName, c.Guard.CookieMarker)
	}
	return nil
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Helper functions
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
