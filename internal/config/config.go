package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	AppPort    string
	AppEnv     string

	ServiceName string

	// Single shared admin credential. AdminPasswordHash (bcrypt) wins when both are set.
	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string

	RedisAddr         string
	DashboardCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	CORSOrigins []string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            getenv("DB_PORT", "5432"),
		DBSSLMode:         getenv("DB_SSLMODE", "disable"),
		AppPort:           getenv("APP_PORT", "8080"),
		AppEnv:            getenv("APP_ENV", "development"),
		ServiceName:       getenv("SERVICE_NAME", "salesdesk-api"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		DashboardCacheTTL: getDuration("DASHBOARD_CACHE_TTL", 30*time.Second),
		KafkaBrokers:      splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        getenv("KAFKA_TOPIC", "orders.events"),
		CORSOrigins:       splitCSV(getenv("CORS_ORIGINS", "http://localhost:3000")),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", k, v, def)
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
