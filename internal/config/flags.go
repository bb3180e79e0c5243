package config

import (
	"flag"
	"os"

	"github.com/dmarifin/dompet/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   local SQLite database path
//	-r string   remote backend, "s3" or "postgres"
//	-p string   PostgreSQL DSN for the postgres backend
//	-u string   S3 access key
//	-w string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-t string   session token file path
//	-s string   session token HMAC secret
//	-v string   device label recorded in backups
//	-l string   locale tag for notification formatting (e.g., "id")
//
// Args are filtered with flagx.FilterArgs first so subcommand words and the
// -c/-config flags handled elsewhere do not trip this flag set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-d", "-r", "-p", "-u", "-w", "-b", "-g", "-e", "-t", "-s", "-v", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "local database path")
	fs.StringVar(&config.RemoteBackend, "r", config.RemoteBackend, "remote backend (s3|postgres)")
	fs.StringVar(&config.PostgresDSN, "p", config.PostgresDSN, "postgres DSN")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "w", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.SessionTokenFile, "t", config.SessionTokenFile, "session token file")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session token secret")
	fs.StringVar(&config.DeviceLabel, "v", config.DeviceLabel, "device label")
	fs.StringVar(&config.Locale, "l", config.Locale, "locale tag")

	_ = fs.Parse(args)
}
