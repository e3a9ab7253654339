package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/zkpauth/internal/logging"
	"github.com/dmitrijs2005/zkpauth/internal/server/auth"
	"github.com/dmitrijs2005/zkpauth/internal/server/registry"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
)

func testServer(t *testing.T) (*httptest.Server, *zkp.ZKP) {
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
	srv := httptest.NewServer(NewHandler(svc, logger).Mux())
	t.Cleanup(srv.Close)
	return srv, engine
}

func postJSON(t *testing.T, url string, req, resp any) int {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	r, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer r.Body.Close()

	if resp != nil && r.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(r.Body).Decode(resp))
	}
	return r.StatusCode
}

func TestHandler_FullProtocol(t *testing.T) {
	srv, engine := testServer(t)

	// Secret x=6 over the test group.
	x := big.NewInt(6)
	y1, y2, err := engine.ComputePair(x)
	require.NoError(t, err)

	status := postJSON(t, srv.URL+"/api/v1/register", RegisterRequest{
		Username: "alice",
		Y1:       zkp.Serialize(y1),
		Y2:       zkp.Serialize(y2),
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	k := big.NewInt(7)
	r1, r2, err := engine.ComputePair(k)
	require.NoError(t, err)

	var challenge ChallengeResponse
	status = postJSON(t, srv.URL+"/api/v1/challenge", ChallengeRequest{
		Username: "alice",
		R1:       zkp.Serialize(r1),
		R2:       zkp.Serialize(r2),
	}, &challenge)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, challenge.AuthID)

	c, err := zkp.Deserialize(challenge.C)
	require.NoError(t, err)
	s, err := engine.Solve(k, c, x)
	require.NoError(t, err)

	var verify VerifyResponse
	status = postJSON(t, srv.URL+"/api/v1/verify", VerifyRequest{
		AuthID: challenge.AuthID,
		S:      zkp.Serialize(s),
	}, &verify)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, verify.SessionToken)

	// Replaying the spent auth_id.
	status = postJSON(t, srv.URL+"/api/v1/verify", VerifyRequest{
		AuthID: challenge.AuthID,
		S:      zkp.Serialize(s),
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandler_ErrorMapping(t *testing.T) {
	srv, engine := testServer(t)

	y1, y2, err := engine.ComputePair(big.NewInt(6))
	require.NoError(t, err)
	reg := RegisterRequest{Username: "alice", Y1: zkp.Serialize(y1), Y2: zkp.Serialize(y2)}
	require.Equal(t, http.StatusCreated, postJSON(t, srv.URL+"/api/v1/register", reg, nil))

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		assert.Equal(t, http.StatusConflict, postJSON(t, srv.URL+"/api/v1/register", reg, nil))
	})

	t.Run("empty integer encoding is a bad request", func(t *testing.T) {
		status := postJSON(t, srv.URL+"/api/v1/register", RegisterRequest{
			Username: "bob", Y1: nil, Y2: zkp.Serialize(y2),
		}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		status := postJSON(t, srv.URL+"/api/v1/challenge", ChallengeRequest{
			Username: "ghost", R1: []byte{8}, R2: []byte{4},
		}, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("unknown auth_id is not found", func(t *testing.T) {
		status := postJSON(t, srv.URL+"/api/v1/verify", VerifyRequest{
			AuthID: "ghost", S: []byte{3},
		}, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("wrong secret is unauthorized", func(t *testing.T) {
		k := big.NewInt(7)
		r1, r2, err := engine.ComputePair(k)
		require.NoError(t, err)

		var challenge ChallengeResponse
		status := postJSON(t, srv.URL+"/api/v1/challenge", ChallengeRequest{
			Username: "alice", R1: zkp.Serialize(r1), R2: zkp.Serialize(r2),
		}, &challenge)
		require.Equal(t, http.StatusOK, status)

		c, err := zkp.Deserialize(challenge.C)
		require.NoError(t, err)
		s, err := engine.Solve(k, c, big.NewInt(7))
		require.NoError(t, err)

		status = postJSON(t, srv.URL+"/api/v1/verify", VerifyRequest{
			AuthID: challenge.AuthID, S: zkp.Serialize(s),
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		r, err := http.Post(srv.URL+"/api/v1/register", "application/json", bytes.NewReader([]byte("{")))
		require.NoError(t, err)
		defer r.Body.Close()
		assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	})
}

func TestHandler_ErrorBodyIsJSON(t *testing.T) {
	srv, _ := testServer(t)

	body, err := json.Marshal(ChallengeRequest{Username: "ghost", R1: []byte{8}, R2: []byte{4}})
	require.NoError(t, err)

	r, err := http.Post(srv.URL+"/api/v1/challenge", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer r.Body.Close()

	require.Equal(t, http.StatusNotFound, r.StatusCode)
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Error)
}
