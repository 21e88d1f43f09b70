package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Env  string
	Port string

	DBDSN string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	CORSOrigins []string

	SMTPHost string
	SMTPPort string
	SMTPFrom string
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func LoadConfig() Config {
	cfg := Config{
		Env:        getEnv("APP_ENV", "dev"),
		Port:       getEnv("APP_PORT", "8080"),
		DBDSN:      getEnv("DB_DSN", ""),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret"),
		JWTTTL:     7 * 24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
		SMTPHost:   getEnv("SMTP_HOST", ""),
		SMTPPort:   getEnv("SMTP_PORT", "25"),
		SMTPFrom:   getEnv("SMTP_FROM", "noreply@sweetshop.local"),
	}

	if v := os.Getenv("JWT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.JWTTTL = d
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= bcrypt.MinCost && n <= bcrypt.MaxCost {
			cfg.BcryptCost = n
		}
	}
	for _, o := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg
}
