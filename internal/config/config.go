package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSecret = "changethis"

type Config struct {
	Project  ProjectConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	SMTP     SMTPConfig
	Admin    AdminConfig
}

type ProjectConfig struct {
	Name string
	// FrontendHost is used to build password recovery links
	FrontendHost string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type JWTConfig struct {
	AccessSecret       string
	RefreshSecret      string
	ResetSecret        string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	ResetTokenExpiry   time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type AdminConfig struct {
	Email    string
	Password string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Project: ProjectConfig{
			Name:         getEnv("PROJECT_NAME", "User Auth Backend"),
			FrontendHost: getEnv("FRONTEND_HOST", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "user_auth"),
		},
		JWT: JWTConfig{
			AccessSecret:       getEnv("JWT_ACCESS_SECRET", defaultSecret),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", defaultSecret),
			ResetSecret:        getEnv("JWT_RESET_SECRET", defaultSecret),
			AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "20m")),
			RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "168h")),
			ResetTokenExpiry:   parseDuration(getEnv("RESET_TOKEN_EXPIRY", "24h")),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     parseInt(getEnv("SMTP_PORT", "587")),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@email.com"),
			Password: getEnv("ADMIN_PASSWORD", defaultSecret),
		},
	}

	return config
}

// Validate enforces the non-default-secret deployment invariant. Release mode
// refuses to start with a placeholder secret; debug mode only warns.
func (c *Config) Validate() error {
	secrets := map[string]string{
		"JWT_ACCESS_SECRET":  c.JWT.AccessSecret,
		"JWT_REFRESH_SECRET": c.JWT.RefreshSecret,
		"JWT_RESET_SECRET":   c.JWT.ResetSecret,
		"ADMIN_PASSWORD":     c.Admin.Password,
	}

	for name, value := range secrets {
		if value != defaultSecret {
			continue
		}
		msg := fmt.Sprintf("the value of %s is %q, for security reasons change it, at least for production", name, defaultSecret)
		if c.Server.GinMode == "release" {
			return fmt.Errorf("%s", msg)
		}
		log.Printf("Warning: %s", msg)
	}

	return nil
}

// SMTPConfigured reports whether outbound email can be sent
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.User != "" && c.SMTP.Password != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return 20 * time.Minute
	}
	return duration
}

func parseInt(s string) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		fmt.Printf("Warning: Invalid number format '%s', using default\n", s)
		return 587
	}
	return value
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
