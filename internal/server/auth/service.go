package auth

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/server/registry"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
)

// Config holds coordinator policy, fixed at construction time.
type Config struct {
	// SecretKey signs session tokens (HS256).
	SecretKey []byte
	// SessionTokenValidity is the lifetime of issued session tokens.
	SessionTokenValidity time.Duration
	// MinChallengeInterval is the minimum time between two challenges for
	// the same user. Zero disables rate limiting.
	MinChallengeInterval time.Duration
	// MaxUsernameLength bounds accepted usernames.
	MaxUsernameLength int
}

const defaultMaxUsernameLength = 100

// Service coordinates the authentication protocol. Per attempt, a user moves
// Registered → ChallengeIssued → back to Registered, either verified (with a
// fresh session token) or rejected (with the failure counter bumped). All
// per-user transitions run inside the store's exclusive sections, so the
// service itself needs no locking and is safe for concurrent use.
type Service struct {
	store  registry.Store
	engine *zkp.ZKP
	cfg    Config

	// now is a seam for tests exercising the rate limiter.
	now func() time.Time
}

// NewService constructs the coordinator over a registry backend and a
// validated proof engine.
func NewService(store registry.Store, engine *zkp.ZKP, cfg Config) *Service {
	if cfg.MaxUsernameLength <= 0 {
		cfg.MaxUsernameLength = defaultMaxUsernameLength
	}
	return &Service{
		store:  store,
		engine: engine,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Register creates a user record holding the password commitments (y1, y2).
// Fails with ErrAlreadyRegistered when the username is taken.
func (s *Service) Register(ctx context.Context, username string, y1, y2 *big.Int) error {
	if err := s.checkUsername(username); err != nil {
		return err
	}
	if err := s.checkGroupElement("y1", y1); err != nil {
		return err
	}
	if err := s.checkGroupElement("y2", y2); err != nil {
		return err
	}

	rec := &registry.UserRecord{
		Username:     username,
		Y1:           y1,
		Y2:           y2,
		RegisteredAt: s.now(),
	}
	return s.store.CreateUser(ctx, rec)
}

// CreateChallenge generates a fresh challenge c and an opaque single-use
// auth_id for a registered user, recording the submitted nonce commitments
// (r1, r2) on the user's pending-challenge slot. Issuing a second challenge
// within MinChallengeInterval fails with ErrRateLimited; an unanswered
// earlier challenge is superseded.
func (s *Service) CreateChallenge(ctx context.Context, username string, r1, r2 *big.Int) (string, *big.Int, error) {
	if err := s.checkUsername(username); err != nil {
		return "", nil, err
	}
	if err := s.checkGroupElement("r1", r1); err != nil {
		return "", nil, err
	}
	if err := s.checkGroupElement("r2", r2); err != nil {
		return "", nil, err
	}

	// A zero challenge verifies any response, so draw from [1, q).
	c, err := zkp.RandomBelow(new(big.Int).Sub(s.engine.Params().Q, big.NewInt(1)))
	if err != nil {
		return "", nil, fmt.Errorf("generating challenge: %w", err)
	}
	c.Add(c, big.NewInt(1))
	authID := uuid.NewString()
	now := s.now()

	err = s.store.UpdateUser(ctx, username, func(rec *registry.UserRecord) error {
		if s.cfg.MinChallengeInterval > 0 && !rec.LastChallengeAt.IsZero() &&
			now.Sub(rec.LastChallengeAt) < s.cfg.MinChallengeInterval {
			return common.ErrRateLimited
		}
		rec.Pending = &registry.PendingChallenge{
			AuthID:   authID,
			R1:       r1,
			R2:       r2,
			C:        c,
			IssuedAt: now,
		}
		rec.LastChallengeAt = now
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	if err := s.store.PutAuthID(ctx, authID, username); err != nil {
		return "", nil, fmt.Errorf("indexing auth_id: %w", err)
	}
	return authID, c, nil
}

// VerifyAnswer consumes the auth_id and checks the response against the
// pending challenge. On success it returns a fresh session token, resets
// the failure counter and records the success time. On a failed proof it
// bumps the failure counter and fails with ErrVerificationFailed. Either
// way the auth_id is spent: replaying it fails with ErrNotFound.
func (s *Service) VerifyAnswer(ctx context.Context, authID string, answer *big.Int) (string, error) {
	if authID == "" {
		return "", fmt.Errorf("%w: auth_id cannot be empty", common.ErrInvalidInput)
	}
	// Malformed answers are rejected before the auth_id is consumed, so a
	// client bug does not burn the outstanding challenge.
	if answer == nil || answer.Sign() < 0 || answer.Cmp(s.engine.Params().Q) >= 0 {
		return "", fmt.Errorf("%w: answer must be in [0, q)", common.ErrInvalidInput)
	}

	username, err := s.store.TakeAuthID(ctx, authID)
	if err != nil {
		return "", err
	}

	var (
		token  string
		failed bool
	)
	err = s.store.UpdateUser(ctx, username, func(rec *registry.UserRecord) error {
		if rec.Pending == nil || rec.Pending.AuthID != authID {
			return common.ErrNoPendingChallenge
		}
		pending := rec.Pending
		rec.Pending = nil

		ok, err := s.engine.Verify(pending.R1, pending.R2, rec.Y1, rec.Y2, pending.C, answer)
		if err != nil {
			return err
		}
		if !ok {
			rec.FailedAttempts++
			failed = true
			return nil
		}

		tok, err := GenerateSessionToken(rec.Username, s.cfg.SecretKey, s.cfg.SessionTokenValidity)
		if err != nil {
			return fmt.Errorf("minting session token: %w", err)
		}
		rec.SessionToken = tok
		rec.LastSuccessAt = s.now()
		rec.FailedAttempts = 0
		token = tok
		return nil
	})
	if err != nil {
		return "", err
	}
	if failed {
		return "", common.ErrVerificationFailed
	}
	return token, nil
}

// SessionUsername resolves a previously issued session token back to its
// username.
func (s *Service) SessionUsername(token string) (string, error) {
	return UsernameFromToken(token, s.cfg.SecretKey)
}

func (s *Service) checkUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username cannot be empty", common.ErrInvalidInput)
	}
	if len(username) > s.cfg.MaxUsernameLength {
		return fmt.Errorf("%w: username longer than %d characters", common.ErrInvalidInput, s.cfg.MaxUsernameLength)
	}
	return nil
}

// checkGroupElement enforces 1 < v < p for submitted commitments.
func (s *Service) checkGroupElement(name string, v *big.Int) error {
	p := s.engine.Params().P
	if v == nil || v.Cmp(big.NewInt(1)) <= 0 || v.Cmp(p) >= 0 {
		return fmt.Errorf("%w: %s must satisfy 1 < %s < p", common.ErrInvalidInput, name, name)
	}
	return nil
}
