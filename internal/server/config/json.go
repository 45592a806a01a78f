package config

import (
	"encoding/json"
	"os"

	"github.com/atxwallet/atxserver/internal/flagx"
	"github.com/atxwallet/atxserver/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration, so "168h" and integer nanoseconds are both accepted.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	WalletBackend         string         `json:"wallet_backend"`
	WalletDir             string         `json:"wallet_dir"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	S3Prefix              string         `json:"s3_prefix"`
	PairingTTL            timex.Duration `json:"pairing_ttl"`
	PairingSweepInterval  timex.Duration `json:"pairing_sweep_interval"`
	CORSAllowOrigins      string         `json:"cors_allow_origins"`
	AuthRateLimit         int            `json:"auth_rate_limit"`
	LogLevel              string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config in args.
// Keys missing from the file keep their current value. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = c.TokenValidityDuration.Duration
	config.WalletBackend = c.WalletBackend
	config.WalletDir = c.WalletDir
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.S3Prefix = c.S3Prefix
	config.PairingTTL = c.PairingTTL.Duration
	config.PairingSweepInterval = c.PairingSweepInterval.Duration
	config.CORSAllowOrigins = c.CORSAllowOrigins
	config.AuthRateLimit = c.AuthRateLimit
	config.LogLevel = c.LogLevel
}

func toJson(config *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:      config.EndpointAddrHTTP,
		DatabaseDSN:           config.DatabaseDSN,
		SecretKey:             config.SecretKey,
		TokenValidityDuration: timex.Duration{Duration: config.TokenValidityDuration},
		WalletBackend:         config.WalletBackend,
		WalletDir:             config.WalletDir,
		S3RootUser:            config.S3RootUser,
		S3RootPassword:        config.S3RootPassword,
		S3Bucket:              config.S3Bucket,
		S3Region:              config.S3Region,
		S3BaseEndpoint:        config.S3BaseEndpoint,
		S3Prefix:              config.S3Prefix,
		PairingTTL:            timex.Duration{Duration: config.PairingTTL},
		PairingSweepInterval:  timex.Duration{Duration: config.PairingSweepInterval},
		CORSAllowOrigins:      config.CORSAllowOrigins,
		AuthRateLimit:         config.AuthRateLimit,
		LogLevel:              config.LogLevel,
	}
}
