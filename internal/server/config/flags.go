package config

import (
	"flag"
	"os"
	"time"

	"github.com/avetrov/securenote/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   SQLite database file path
//	-k string   data-encryption key file path
//	-s string   session token HMAC secret
//	-t int      session TTL, seconds
//	-m int      max login attempts per IP within the window
//	-w int      login attempt window, seconds
//	-l int      max data payload size, bytes
//
// The function first filters os.Args to only the flags it recognizes
// using flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-s", "-t", "-m", "-w", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "SQLite database file path")
	fs.StringVar(&config.SecretKeyFile, "k", config.SecretKeyFile, "encryption key file path")
	fs.StringVar(&config.TokenSecret, "s", config.TokenSecret, "session token secret")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Seconds()), "session TTL (in seconds)")
	fs.IntVar(&config.MaxLoginAttempts, "m", config.MaxLoginAttempts, "max login attempts per IP")
	attemptWindow := fs.Int("w", int(config.LoginAttemptWindow.Seconds()), "login attempt window (in seconds)")
	fs.IntVar(&config.MaxDataBytes, "l", config.MaxDataBytes, "max data payload size (in bytes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Second
	config.LoginAttemptWindow = time.Duration(*attemptWindow) * time.Second
}
