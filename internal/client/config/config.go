// Package config handles configuration for the CLI client,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the authentication CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the authentication server's HTTP endpoint.
//   - RequestTimeout: per-request timeout for calls to the server.
//   - GroupParamsFile: optional JSON file with hex-encoded group parameters;
//     must match the server's group, empty selects the built-in one.
//   - KeyDerivation: "sha256" or "argon2id". Must be identical across all
//     clients of one service, or derived secrets will not match.
//   - Argon2Salt: deployment-wide salt for the argon2id deriver.
type Config struct {
	ServerBaseURL   string
	RequestTimeout  time.Duration
	GroupParamsFile string
	KeyDerivation   string
	Argon2Salt      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.GroupParamsFile = ""
	c.KeyDerivation = "sha256"
	c.Argon2Salt = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
