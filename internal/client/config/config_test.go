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

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.ServerBaseURL, "http://127.0.0.1:8080")
	assert.Equal(t, c.RequestTimeout, 30*time.Second)
	assert.Equal(t, c.GroupParamsFile, "")
}

func Test_parseJson_LoadsFromFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(map[string]any{
		"server_base_url":   "http://auth.example:9000",
		"request_timeout":   "5s",
		"group_params_file": "params.json",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	parseJson(cfg)

	assert.Equal(t, "http://auth.example:9000", cfg.ServerBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "params.json", cfg.GroupParamsFile)
}

func Test_parseJson_NoFlagMeansNoChanges(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin"}

	cfg := &Config{ServerBaseURL: "http://kept:1"}
	parseJson(cfg)

	assert.Equal(t, "http://kept:1", cfg.ServerBaseURL)
}
