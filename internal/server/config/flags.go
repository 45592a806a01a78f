package config

import (
	"flag"
	"time"

	"github.com/atxwallet/atxserver/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":3000")
//	-d string   PostgreSQL DSN
//	-s string   session token secret
//	-t int      session token validity, hours
//	-m string   degraded wallet backend: fs or s3
//	-w string   degraded wallet directory (fs backend)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-x string   S3 key prefix
//	-i int      pairing TTL, minutes (0 disables expiry)
//	-o string   CORS allowed origins
//	-l string   log level
//
// Only the flags above are taken from args (see flagx.FilterArgs), so the
// -c/-config flag handled by parseJson does not collide. Parse errors panic.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-m", "-w", "-u", "-p", "-b", "-g", "-e", "-x", "-i", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token validity duration (in hours)")

	fs.StringVar(&config.WalletBackend, "m", config.WalletBackend, "degraded wallet backend (fs|s3)")
	fs.StringVar(&config.WalletDir, "w", config.WalletDir, "degraded wallet directory")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Prefix, "x", config.S3Prefix, "S3 key prefix")

	pairingTTL := fs.Int("i", int(config.PairingTTL.Minutes()), "pairing ttl (in minutes, 0 disables)")

	fs.StringVar(&config.CORSAllowOrigins, "o", config.CORSAllowOrigins, "CORS allowed origins")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Durations change only when their flag is present.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
		case "i":
			config.PairingTTL = time.Duration(*pairingTTL) * time.Minute
		}
	})
}
