// Package httpapi exposes the authentication coordinator over HTTP with JSON
// bodies. Integers travel as the minimal big-endian byte encoding, which
// encoding/json renders as base64 strings.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/logging"
	"github.com/dmitrijs2005/zkpauth/internal/server/auth"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
)

// Handler adapts the coordinator to HTTP. It owns no protocol state of its
// own: requests are decoded, handed to the service and the error kind mapped
// to a status code.
type Handler struct {
	service *auth.Service
	logger  logging.Logger
}

func NewHandler(service *auth.Service, logger logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "httpapi"),
	}
}

// Mux returns the route table for the three protocol endpoints.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/register", h.Register)
	mux.HandleFunc("POST /api/v1/challenge", h.CreateChallenge)
	mux.HandleFunc("POST /api/v1/verify", h.VerifyAnswer)
	return mux
}

type RegisterRequest struct {
	Username string `json:"username"`
	Y1       []byte `json:"y1"`
	Y2       []byte `json:"y2"`
}

type RegisterResponse struct {
	Status string `json:"status"`
}

type ChallengeRequest struct {
	Username string `json:"username"`
	R1       []byte `json:"r1"`
	R2       []byte `json:"r2"`
}

type ChallengeResponse struct {
	AuthID string `json:"auth_id"`
	C      []byte `json:"c"`
}

type VerifyRequest struct {
	AuthID string `json:"auth_id"`
	S      []byte `json:"s"`
}

type VerifyResponse struct {
	SessionToken string `json:"session_token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.Join(common.ErrInvalidInput, err))
		return
	}

	y1, err := zkp.Deserialize(req.Y1)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	y2, err := zkp.Deserialize(req.Y2)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.Register(r.Context(), req.Username, y1, y2); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "user registered", "username", req.Username)
	h.writeJSON(w, r, http.StatusCreated, RegisterResponse{Status: "created"})
}

func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.Join(common.ErrInvalidInput, err))
		return
	}

	r1, err := zkp.Deserialize(req.R1)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	r2, err := zkp.Deserialize(req.R2)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	authID, c, err := h.service.CreateChallenge(r.Context(), req.Username, r1, r2)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "challenge issued", "username", req.Username, "auth_id", authID)
	h.writeJSON(w, r, http.StatusOK, ChallengeResponse{AuthID: authID, C: zkp.Serialize(c)})
}

func (h *Handler) VerifyAnswer(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.Join(common.ErrInvalidInput, err))
		return
	}

	s, err := zkp.Deserialize(req.S)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.service.VerifyAnswer(r.Context(), req.AuthID, s)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "authentication succeeded", "auth_id", req.AuthID)
	h.writeJSON(w, r, http.StatusOK, VerifyResponse{SessionToken: token})
}

// statusFromError maps an error kind to its HTTP status. Unrecognized errors
// are internal: their detail stays out of the response body.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrSerialization):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrNoPendingChallenge):
		return http.StatusPreconditionFailed
	case errors.Is(err, common.ErrVerificationFailed), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	} else {
		h.logger.Warn(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	h.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(r.Context(), "encoding response", "error", err)
	}
}
