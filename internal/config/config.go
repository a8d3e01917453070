package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the Pressroom server.
type Config struct {
	DBPath        string
	ServerPort    int
	LogLevel      string
	SentryDSN     string
	Environment   string
	BaseURL       string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	MailFrom      string
	ContactTo     string
	ShutdownGrace time.Duration
}

const (
	defaultDBPath        = "./data/pressroom.db"
	defaultServerPort    = 8080
	defaultLogLevel      = "info"
	defaultBaseURL       = "http://localhost:8080"
	defaultSMTPPort      = 587
	defaultShutdownGrace = 10 * time.Second
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Environment:   os.Getenv("ENV"),
		BaseURL:       strings.TrimRight(getEnv("BASE_URL", defaultBaseURL), "/"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		MailFrom:      os.Getenv("MAIL_FROM"),
		ContactTo:     os.Getenv("CONTACT_RECIPIENT"),
		ShutdownGrace: defaultShutdownGrace,
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	smtpPortValue := getEnv("SMTP_PORT", strconv.Itoa(defaultSMTPPort))
	smtpPort, err := strconv.Atoi(smtpPortValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SMTP_PORT value: %s", smtpPortValue)
	}
	cfg.SMTPPort = smtpPort

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
