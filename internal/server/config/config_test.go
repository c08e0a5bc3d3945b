package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, ":8080", cfg.EndpointAddr)
	require.Equal(t, "app.db", cfg.DatabasePath)
	require.Equal(t, ".secret.key", cfg.SecretKeyFile)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, 5, cfg.MaxLoginAttempts)
	require.Equal(t, 15*time.Minute, cfg.LoginAttemptWindow)
	require.Equal(t, 10000, cfg.MaxDataBytes)
}

func TestJsonConfig_Unmarshal(t *testing.T) {
	raw := `{
		"endpoint_addr": ":9090",
		"database_path": "/tmp/notes.db",
		"session_ttl": "30m",
		"max_login_attempts": 3,
		"login_attempt_window": "900s",
		"max_data_bytes": 2048
	}`

	c := &JsonConfig{}
	require.NoError(t, json.Unmarshal([]byte(raw), c))

	require.Equal(t, ":9090", c.EndpointAddr)
	require.Equal(t, "/tmp/notes.db", c.DatabasePath)
	require.Equal(t, 30*time.Minute, c.SessionTTL.Duration)
	require.Equal(t, 3, c.MaxLoginAttempts)
	require.Equal(t, 900*time.Second, c.LoginAttemptWindow.Duration)
	require.Equal(t, 2048, c.MaxDataBytes)
}

func TestParseJson_OverlaysOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_addr": ":7070"}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"test", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, ":7070", cfg.EndpointAddr)
	// untouched fields keep their defaults
	require.Equal(t, "app.db", cfg.DatabasePath)
	require.Equal(t, 5, cfg.MaxLoginAttempts)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"test", "-a", ":6060", "-m", "7", "-t", "120"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, ":6060", cfg.EndpointAddr)
	require.Equal(t, 7, cfg.MaxLoginAttempts)
	require.Equal(t, 2*time.Minute, cfg.SessionTTL)
}
