package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":     "www.example:9000",
		"database_dsn":           "postgres://localhost/zkpauth",
		"secret_key":             "my_secret_key",
		"session_token_validity": "30m",
		"min_challenge_interval": "2s",
		"max_username_length":    42,
		"group_params_file":      "params.json",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://localhost/zkpauth", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 30*time.Minute, cfg.SessionTokenValidity)
		assert.Equal(t, 2*time.Second, cfg.MinChallengeInterval)
		assert.Equal(t, 42, cfg.MaxUsernameLength)
		assert.Equal(t, "params.json", cfg.GroupParamsFile)
	})

	t.Run("no flags means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP:     "defaults:1234",
			DatabaseDSN:          "dsn",
			SecretKey:            "key",
			SessionTokenValidity: 2 * time.Minute,
			MinChallengeInterval: 3 * time.Second,
			MaxUsernameLength:    10,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "dsn", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Minute, cfg.SessionTokenValidity)
		assert.Equal(t, 3*time.Second, cfg.MinChallengeInterval)
		assert.Equal(t, 10, cfg.MaxUsernameLength)
	})
}
