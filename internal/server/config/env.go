package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv loads KEY=VALUE pairs from the given files (".env" when none)
// into the process environment. Variables already set are not overridden
// and a missing file is not an error.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// parseEnv overlays values from environment variables:
//
//	PORT                  port for the HTTP API (":"+PORT); HTTP_ADDRESS wins if set
//	DATABASE_DSN          PostgreSQL DSN (DATABASE_URL accepted as an alias)
//	JWT_SECRET            session token secret
//	TOKEN_TTL             session token lifetime, Go duration
//	WALLET_BACKEND        "fs" or "s3"
//	DEV_WALLET_DIR        directory for the fs backend
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT, S3_PREFIX
//	PAIRING_TTL, PAIRING_SWEEP_INTERVAL   Go durations
//	CORS_ALLOW_ORIGINS    comma-separated origins
//	AUTH_RATE_LIMIT       requests per minute per IP on /api/auth
//	LOG_LEVEL             debug, info, warn or error
//
// Malformed numeric or duration values are ignored.
func parseEnv(config *Config) {
	if v, ok := lookup("PORT"); ok {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(v, ":")
	}
	setString(&config.EndpointAddrHTTP, "HTTP_ADDRESS")
	setString(&config.DatabaseDSN, "DATABASE_URL")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "JWT_SECRET")
	setDuration(&config.TokenValidityDuration, "TOKEN_TTL")
	setString(&config.WalletBackend, "WALLET_BACKEND")
	setString(&config.WalletDir, "DEV_WALLET_DIR")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setString(&config.S3Prefix, "S3_PREFIX")
	setDuration(&config.PairingTTL, "PAIRING_TTL")
	setDuration(&config.PairingSweepInterval, "PAIRING_SWEEP_INTERVAL")
	setString(&config.CORSAllowOrigins, "CORS_ALLOW_ORIGINS")
	if v, ok := lookup("AUTH_RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.AuthRateLimit = n
		}
	}
	setString(&config.LogLevel, "LOG_LEVEL")
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := lookup(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
