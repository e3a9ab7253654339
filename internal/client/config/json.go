package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/zkpauth/internal/flagx"
	"github.com/dmitrijs2005/zkpauth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL   string         `json:"server_base_url"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	GroupParamsFile string         `json:"group_params_file"`
	KeyDerivation   string         `json:"key_derivation"`
	Argon2Salt      string         `json:"argon2_salt"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path is taken from the -c or -config command-line flags via
// flagx.JsonConfigFlags(); if empty, no JSON is loaded. Panics on read or
// unmarshal errors.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerBaseURL = jc.ServerBaseURL
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	cfg.GroupParamsFile = jc.GroupParamsFile
	cfg.KeyDerivation = jc.KeyDerivation
	cfg.Argon2Salt = jc.Argon2Salt
}
