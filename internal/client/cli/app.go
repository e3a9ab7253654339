// Package cli implements the interactive client: a small REPL for
// registering an account and authenticating against the server.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/zkpauth/internal/client"
	"github.com/dmitrijs2005/zkpauth/internal/client/config"
	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/cryptox"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
)

type App struct {
	config       *config.Config
	client       *client.Client
	sessionToken string
	reader       *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	var engine *zkp.ZKP
	if c.GroupParamsFile != "" {
		params, err := zkp.ParamsFromFile(c.GroupParamsFile)
		if err != nil {
			return nil, err
		}
		engine, err = zkp.New(params)
		if err != nil {
			return nil, err
		}
	}

	deriver, err := newDeriver(c)
	if err != nil {
		return nil, err
	}

	apiClient, err := client.New(c.ServerBaseURL, c.RequestTimeout, engine, deriver)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin)}, nil
}

func newDeriver(c *config.Config) (cryptox.SecretDeriver, error) {
	switch c.KeyDerivation {
	case "", "sha256":
		return cryptox.SHA256Deriver{}, nil
	case "argon2id":
		return cryptox.Argon2Deriver{Salt: []byte(c.Argon2Salt)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown key derivation scheme %q", common.ErrInvalidInput, c.KeyDerivation)
	}
}

func (a *App) isLoggedIn() bool {
	return a.sessionToken != ""
}

// Register prompts for a username and password and creates the account.
func (a *App) Register(ctx context.Context) error {

	userName, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, userName, password); err != nil {
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Login runs the challenge-response exchange and stores the session token.
func (a *App) Login(ctx context.Context) error {

	userName, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.client.Authenticate(ctx, userName, password)
	if err != nil {
		return err
	}

	a.sessionToken = token
	fmt.Printf("Authenticated. Session token:\n%s\n", token)
	return nil
}

// Logout discards the stored session token.
func (a *App) Logout(ctx context.Context) error {
	a.sessionToken = ""
	fmt.Println("Logged out")
	return nil
}

func (a *App) Run(ctx context.Context) {
	a.runREPL(ctx, bufio.NewScanner(os.Stdin))
}
