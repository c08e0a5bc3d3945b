// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the securenote server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP API.
//   - DatabasePath: path of the SQLite database file.
//   - SecretKeyFile: path of the data-encryption key file.
//   - TokenSecret: HMAC secret for signing session tokens (HS256).
//   - SessionTTL: absolute session lifetime from login.
//   - MaxLoginAttempts / LoginAttemptWindow: rate-limit policy per IP.
//   - MaxDataBytes: ceiling on a user's plaintext payload.
type Config struct {
	EndpointAddr       string
	DatabasePath       string
	SecretKeyFile      string
	TokenSecret        string
	SessionTTL         time.Duration
	MaxLoginAttempts   int
	LoginAttemptWindow time.Duration
	MaxDataBytes       int
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: TokenSecret is insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabasePath = "app.db"
	c.SecretKeyFile = ".secret.key"
	c.TokenSecret = "secretKey"
	c.SessionTTL = 1 * time.Hour
	c.MaxLoginAttempts = 5
	c.LoginAttemptWindow = 15 * time.Minute
	c.MaxDataBytes = 10000
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
