package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   listen address (e.g., ":3000")
//	-d string   data directory holding the JSON collections
//	-s string   session signing secret
//	-t int      session lifetime, minutes
//	-u string   admin username
//	-p string   admin password or bcrypt hash
//	-l string   log level (debug, info, warn, error)
//	-b string   photo backend (local, s3)
//
// Args are first filtered with flagx.FilterArgs so -c/-config and any
// foreign flags never reach this flag set.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-u", "-p", "-l", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")
	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session lifetime (in minutes)")
	fs.StringVar(&config.AdminUsername, "u", config.AdminUsername, "admin username")
	fs.StringVar(&config.AdminPassword, "p", config.AdminPassword, "admin password or bcrypt hash")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.PhotoBackend, "b", config.PhotoBackend, "photo backend (local, s3)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
