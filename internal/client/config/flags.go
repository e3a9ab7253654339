package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/zkpauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the authentication server (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-g string   group parameters file (default from Config)
//	-k string   key derivation scheme, "sha256" or "argon2id"
//	-x string   deployment-wide salt for argon2id
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-g", "-k", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the authentication server")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.GroupParamsFile, "g", cfg.GroupParamsFile, "group parameters file")
	fs.StringVar(&cfg.KeyDerivation, "k", cfg.KeyDerivation, "key derivation scheme")
	fs.StringVar(&cfg.Argon2Salt, "x", cfg.Argon2Salt, "argon2id salt")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
