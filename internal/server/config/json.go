package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avetrov/securenote/internal/flagx"
	"github.com/avetrov/securenote/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON config
// files. Interval fields use timex.Duration so both string values such
// as "15m" and integer nanoseconds parse. After unmarshalling, values
// are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr       string         `json:"endpoint_addr"`
	DatabasePath       string         `json:"database_path"`
	SecretKeyFile      string         `json:"secret_key_file"`
	TokenSecret        string         `json:"token_secret"`
	SessionTTL         timex.Duration `json:"session_ttl"`
	MaxLoginAttempts   int            `json:"max_login_attempts"`
	LoginAttemptWindow timex.Duration `json:"login_attempt_window"`
	MaxDataBytes       int            `json:"max_data_bytes"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no file is named,
// nothing is loaded. An unreadable or invalid file panics: starting with
// half-applied configuration is worse than not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabasePath != "" {
		config.DatabasePath = c.DatabasePath
	}
	if c.SecretKeyFile != "" {
		config.SecretKeyFile = c.SecretKeyFile
	}
	if c.TokenSecret != "" {
		config.TokenSecret = c.TokenSecret
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	}
	if c.MaxLoginAttempts != 0 {
		config.MaxLoginAttempts = c.MaxLoginAttempts
	}
	if c.LoginAttemptWindow.Duration != 0 {
		config.LoginAttemptWindow = time.Duration(c.LoginAttemptWindow.Duration)
	}
	if c.MaxDataBytes != 0 {
		config.MaxDataBytes = c.MaxDataBytes
	}
}
