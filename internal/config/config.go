package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	JWTSecret         string
	JWTExpiresMinutes int
	Timezone          string
}

func Load() Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	dbURL := getEnv("DATABASE_URL", "")
	jwtSecret := getEnv("JWT_SECRET", "dev-secret-change-me")
	jwtExp := getEnvInt("JWT_EXPIRES_MINUTES", 60)
	tz := getEnv("TIMEZONE", "Asia/Jakarta")

	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return Config{
		Port:              port,
		DatabaseURL:       dbURL,
		JWTSecret:         jwtSecret,
		JWTExpiresMinutes: jwtExp,
		Timezone:          tz,
	}
}

// Location resolves the store timezone; the one-session-per-day rule
// counts calendar days in this zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("invalid TIMEZONE %q, falling back to Local", c.Timezone)
		return time.Local
	}
	return loc
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
