package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/zkpauth/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN (empty selects the in-memory registry)
//	-s string   session token HMAC secret key
//	-t int      session token validity, minutes
//	-i int      minimum challenge interval, seconds
//	-l int      maximum username length
//	-g string   group parameters file (JSON with hex p/q/alpha/beta)
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-i", "-l", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTokenValidity := fs.Int("t", int(config.SessionTokenValidity.Minutes()), "session_token_validity (in minutes)")
	minChallengeInterval := fs.Int("i", int(config.MinChallengeInterval.Seconds()), "min_challenge_interval (in seconds)")

	fs.IntVar(&config.MaxUsernameLength, "l", config.MaxUsernameLength, "maximum username length")
	fs.StringVar(&config.GroupParamsFile, "g", config.GroupParamsFile, "group parameters file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidity = time.Duration(*sessionTokenValidity) * time.Minute
	config.MinChallengeInterval = time.Duration(*minChallengeInterval) * time.Second
}
