package client

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/logging"
	"github.com/dmitrijs2005/zkpauth/internal/server/auth"
	"github.com/dmitrijs2005/zkpauth/internal/server/httpapi"
	"github.com/dmitrijs2005/zkpauth/internal/server/registry"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
)

func testSetup(t *testing.T) *Client {
	t.Helper()
	engine, err := zkp.New(&zkp.GroupParameters{
		P:     big.NewInt(23),
		Q:     big.NewInt(11),
		Alpha: big.NewInt(4),
		Beta:  big.NewInt(9),
	})
	require.NoError(t, err)

	svc := auth.NewService(registry.NewMemoryStore(), engine, auth.Config{
		SecretKey:            []byte("test-secret"),
		SessionTokenValidity: time.Hour,
	})
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	srv := httptest.NewServer(httpapi.NewHandler(svc, logger).Mux())
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, 0, engine, nil)
	require.NoError(t, err)
	return c
}

func TestClient_RegisterAndAuthenticate(t *testing.T) {
	c := testSetup(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "alice", []byte("correct horse")))

	token, err := c.Authenticate(ctx, "alice", []byte("correct horse"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestClient_Register_Duplicate(t *testing.T) {
	c := testSetup(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "alice", []byte("pw")))
	err := c.Register(ctx, "alice", []byte("pw"))
	assert.ErrorIs(t, err, common.ErrAlreadyRegistered)
}

func TestClient_Authenticate_WrongPassword(t *testing.T) {
	c := testSetup(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "alice", []byte("right")))

	// The SHA-256 deriver maps into [0, 11); distinct secrets are what the
	// test needs, so pick a password that derives differently.
	wrong := []byte("wrong")
	xRight := c.deriver.DeriveSecret([]byte("right"), c.engine.Params().Q)
	xWrong := c.deriver.DeriveSecret(wrong, c.engine.Params().Q)
	require.NotEqual(t, xRight, xWrong, "test passwords must derive distinct secrets")

	_, err := c.Authenticate(ctx, "alice", wrong)
	assert.ErrorIs(t, err, common.ErrVerificationFailed)
}

func TestClient_Authenticate_UnknownUser(t *testing.T) {
	c := testSetup(t)

	_, err := c.Authenticate(context.Background(), "ghost", []byte("pw"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}
