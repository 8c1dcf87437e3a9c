package config

import (
	"os"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Port        string
	DBPath      string
	UploadsDir  string
	FrontendURL string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ActivationTTL   time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// Load reads the configuration from environment variables, falling back to
// defaults suitable for local development.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		DBPath:      getEnv("DB_PATH", "database.db"),
		UploadsDir:  getEnv("UPLOADS_DIR", "uploads"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 24*time.Hour*7),
		ActivationTTL:   getDuration("ACTIVATION_TOKEN_TTL", 48*time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "25"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "noreply@localhost"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
