package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the server reads from the environment.
type Config struct {
	// ServerAddr is the listen address, e.g. "0.0.0.0:8080".
	ServerAddr string

	// AllowedOrigins is the cross-origin allow list for both the websocket
	// upgrade and the REST CORS headers. "*" allows any origin.
	AllowedOrigins []string

	// IceServers is the static STUN/TURN URL list handed to clients for
	// connection setup. Production TURN credentials are provisioned outside
	// this service.
	IceServers []string

	// JWTSecret signs and verifies the bearer tokens on the REST endpoints.
	JWTSecret string

	LogLevel string
	AppEnv   string
}

// The public STUN entries clients fall back to when ICE_SERVERS is unset.
var defaultIceServers = []string{
	"stun:stun.l.google.com:19302",
	"stun:stun1.l.google.com:19302",
	"stun:stun2.l.google.com:19302",
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	// Ignore the error: running with plain environment variables is fine.
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr: os.Getenv("SERVER_ADDR"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
		AppEnv:     os.Getenv("APP_ENV"),
	}

	if cfg.ServerAddr == "" {
		cfg.ServerAddr = "0.0.0.0:8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.JWTSecret == "" {
		if cfg.AppEnv == "production" {
			return nil, fmt.Errorf("environment variable JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "development-secret"
	}

	cfg.AllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	cfg.IceServers = splitList(os.Getenv("ICE_SERVERS"))
	if len(cfg.IceServers) == 0 {
		cfg.IceServers = defaultIceServers
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL %q, using default \"info\"", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// ConfigureLogger applies the log level and output format to the global
// logrus logger.
func (c *Config) ConfigureLogger() {
	if c.AppEnv == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, _ := logrus.ParseLevel(c.LogLevel)
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
