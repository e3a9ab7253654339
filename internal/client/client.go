// Package client implements the prover side of the authentication protocol
// over HTTP: it derives the secret from a password, computes commitments and
// responses through the proof engine, and talks to the server's JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/cryptox"
	"github.com/dmitrijs2005/zkpauth/internal/server/httpapi"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
)

// Client is the prover. It shares the group parameters with the server: a
// proof computed over a different group never verifies.
type Client struct {
	baseURL    string
	httpClient *http.Client
	engine     *zkp.ZKP
	deriver    cryptox.SecretDeriver
}

// New constructs a prover client for the given server base URL. A zero
// timeout selects a 30 second default, a nil engine selects the built-in
// group, and a nil deriver selects the SHA-256 reference deriver.
func New(baseURL string, timeout time.Duration, engine *zkp.ZKP, deriver cryptox.SecretDeriver) (*Client, error) {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if engine == nil {
		var err error
		engine, err = zkp.New(nil)
		if err != nil {
			return nil, err
		}
	}
	if deriver == nil {
		deriver = cryptox.SHA256Deriver{}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		engine:     engine,
		deriver:    deriver,
	}, nil
}

// Register derives the secret from the password, computes the public
// commitments (y1, y2) and registers them under the username. The password
// itself never leaves the client.
func (c *Client) Register(ctx context.Context, username string, password []byte) error {
	x := c.deriver.DeriveSecret(password, c.engine.Params().Q)

	y1, y2, err := c.engine.ComputePair(x)
	if err != nil {
		return err
	}

	var resp httpapi.RegisterResponse
	return c.post(ctx, "/api/v1/register", httpapi.RegisterRequest{
		Username: username,
		Y1:       zkp.Serialize(y1),
		Y2:       zkp.Serialize(y2),
	}, &resp)
}

// Authenticate runs the challenge-response exchange and returns the session
// token the server issues on a valid proof.
func (c *Client) Authenticate(ctx context.Context, username string, password []byte) (string, error) {
	x := c.deriver.DeriveSecret(password, c.engine.Params().Q)

	// A zero nonce yields commitments of exactly 1, which the server
	// rejects, so draw from [1, q).
	q := c.engine.Params().Q
	k, err := zkp.RandomBelow(new(big.Int).Sub(q, big.NewInt(1)))
	if err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	k.Add(k, big.NewInt(1))

	r1, r2, err := c.engine.ComputePair(k)
	if err != nil {
		return "", err
	}

	var challenge httpapi.ChallengeResponse
	err = c.post(ctx, "/api/v1/challenge", httpapi.ChallengeRequest{
		Username: username,
		R1:       zkp.Serialize(r1),
		R2:       zkp.Serialize(r2),
	}, &challenge)
	if err != nil {
		return "", err
	}

	ch, err := zkp.Deserialize(challenge.C)
	if err != nil {
		return "", err
	}

	s, err := c.engine.Solve(k, ch, x)
	if err != nil {
		return "", err
	}

	var verify httpapi.VerifyResponse
	err = c.post(ctx, "/api/v1/verify", httpapi.VerifyRequest{
		AuthID: challenge.AuthID,
		S:      zkp.Serialize(s),
	}, &verify)
	if err != nil {
		return "", err
	}

	return verify.SessionToken, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("%w: encoding request: %v", common.ErrSerialization, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errorFromResponse(resp)
	}

	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("%w: decoding response: %v", common.ErrSerialization, err)
	}
	return nil
}

// errorFromResponse turns a non-2xx response back into the sentinel error
// kind the server mapped to the status code.
func errorFromResponse(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	detail := ""
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		detail = ": " + body.Error
	}

	var kind error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		kind = common.ErrInvalidInput
	case http.StatusConflict:
		kind = common.ErrAlreadyRegistered
	case http.StatusNotFound:
		kind = common.ErrNotFound
	case http.StatusTooManyRequests:
		kind = common.ErrRateLimited
	case http.StatusPreconditionFailed:
		kind = common.ErrNoPendingChallenge
	case http.StatusUnauthorized:
		kind = common.ErrVerificationFailed
	default:
		kind = common.ErrInternal
	}
	return fmt.Errorf("%w: server returned %d%s", kind, resp.StatusCode, detail)
}
