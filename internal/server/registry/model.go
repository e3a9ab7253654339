// Package registry stores per-user authentication state: long-lived
// registration commitments and the short-lived state of one outstanding
// challenge. It holds no cryptographic logic.
package registry

import (
	"math/big"
	"time"
)

// PendingChallenge is the state of one outstanding challenge. A user record
// either has no pending challenge (nil) or a complete one; partially
// populated challenge state is unrepresentable.
type PendingChallenge struct {
	AuthID   string
	R1       *big.Int
	R2       *big.Int
	C        *big.Int
	IssuedAt time.Time
}

// UserRecord is the registry entry for one username. Records are created at
// registration and never deleted; Pending transitions nil → set → nil over
// the life of each authentication attempt.
//
// The big.Int fields are treated as immutable once stored.
type UserRecord struct {
	Username        string
	Y1              *big.Int
	Y2              *big.Int
	RegisteredAt    time.Time
	Pending         *PendingChallenge
	SessionToken    string
	LastSuccessAt   time.Time
	LastChallengeAt time.Time
	FailedAttempts  int64
}

// Clone returns a copy of the record that can be mutated without affecting
// the original. Pending is copied; big.Int values are shared since they are
// never mutated in place.
func (r *UserRecord) Clone() *UserRecord {
	clone := *r
	if r.Pending != nil {
		pending := *r.Pending
		clone.Pending = &pending
	}
	return &clone
}
