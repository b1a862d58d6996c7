package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL         string
	ServerAddr          string
	SessionTTL          time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	OfferTTL            time.Duration
	ExpirySweepInterval time.Duration
	ExpirySweepBatch    int
	MatchLimit          int
	ChainMaxDepth       int
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "swapmarket")
		pass := getenv("POSTGRES_PASSWORD", "swapmarket_pass")
		db := getenv("POSTGRES_DB", "swapmarket")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}
	addr := getenv("SERVER_ADDR", "0.0.0.0:8080")
	sessionTTL := parseDuration(getenv("SESSION_TTL", "24h"), 24*time.Hour)
	cookieName := getenv("SESSION_COOKIE_NAME", "swapmarket_session")
	cookieSecure := parseBool(getenv("SESSION_COOKIE_SECURE", "false"), false)
	offerTTL := parseDuration(getenv("OFFER_TTL", "168h"), 168*time.Hour)
	sweepInterval := parseDuration(getenv("OFFER_EXPIRY_SWEEP_INTERVAL", "1m"), time.Minute)
	sweepBatch := parseInt(getenv("OFFER_EXPIRY_SWEEP_BATCH", "100"), 100)
	matchLimit := parseInt(getenv("MATCH_LIMIT", "20"), 20)
	chainMaxDepth := parseInt(getenv("CHAIN_MAX_DEPTH", "50"), 50)

	return &Config{
		DatabaseURL:         dsn,
		ServerAddr:          addr,
		SessionTTL:          sessionTTL,
		SessionCookieName:   cookieName,
		SessionCookieSecure: cookieSecure,
		OfferTTL:            offerTTL,
		ExpirySweepInterval: sweepInterval,
		ExpirySweepBatch:    sweepBatch,
		MatchLimit:          matchLimit,
		ChainMaxDepth:       chainMaxDepth,
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}
