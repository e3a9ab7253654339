// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the authentication server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory registry.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use test defaults in prod.
//   - SessionTokenValidity: lifetime of issued session tokens.
//   - MinChallengeInterval: minimum time between challenges for one user.
//   - MaxUsernameLength: upper bound on accepted usernames.
//   - GroupParamsFile: optional JSON file with hex-encoded group parameters;
//     empty selects the built-in 1024-bit group.
type Config struct {
	EndpointAddrHTTP     string
	DatabaseDSN          string
	SecretKey            string
	SessionTokenValidity time.Duration
	MinChallengeInterval time.Duration
	MaxUsernameLength    int
	GroupParamsFile      string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.SessionTokenValidity = 60 * time.Minute
	c.MinChallengeInterval = 1 * time.Second
	c.MaxUsernameLength = 100
	c.GroupParamsFile = ""
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
