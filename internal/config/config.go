package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// TimeZone pins the calendar-day boundary used for attempt gating and
	// the daily news digest. IANA name, default UTC.
	TimeZone string

	AuthHMACSecret string
	TokenTTL       time.Duration

	// RedisAddr enables the daily-digest cache when non-empty.
	RedisAddr      string
	DigestCacheTTL time.Duration

	CORSOrigins []string

	SeedDemoData bool
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:       addr,
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		TimeZone:       envOr("TIME_ZONE", "UTC"),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "comrade-dev-secret"),
		TokenTTL:       time.Duration(envInt("TOKEN_TTL_MINUTES", 24*60)) * time.Minute,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		DigestCacheTTL: time.Duration(envInt("DIGEST_CACHE_TTL_SECONDS", 300)) * time.Second,
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000"),
		SeedDemoData:   envBool("SEED_DEMO_DATA", false),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
