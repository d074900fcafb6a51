package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions (opaque game tokens)
	SessionTTL time.Duration

	// JWT (admin console)
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Reconciler
	ReconcileInterval time.Duration

	// Redis (rate limiting + sanction events)
	RedisURL string

	// Report submission rate limit (per IP)
	ReportRateMax    int
	ReportRateWindow time.Duration

	// Admin
	AdminUsernames string
	AdminToken     string

	// Server
	Port        string
	MetricsPort string
	CORSOrigins string

	// Log retention
	LogRetentionDays int
}

func Load() *Config {
	// .env overlay for local development
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "quizarena"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SessionTTL: parseDuration(getEnv("SESSION_TTL", "24h"), 24*time.Hour),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),

		ReconcileInterval: parseDuration(getEnv("RECONCILE_INTERVAL", "1m"), time.Minute),

		RedisURL: getEnv("REDIS_URL", ""),

		ReportRateMax:    parseInt(getEnv("REPORT_RATE_MAX", "10"), 10),
		ReportRateWindow: parseDuration(getEnv("REPORT_RATE_WINDOW", "1m"), time.Minute),

		AdminUsernames: getEnv("ADMIN_USERNAMES", ""),
		AdminToken:     getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9091"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
