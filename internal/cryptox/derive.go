// Package cryptox maps user passwords into the integer domain of the proof
// engine. Derivation must be deterministic: registering and authenticating
// with the same password has to produce the same secret.
package cryptox

import (
	"crypto/sha256"
	"math/big"

	"golang.org/x/crypto/argon2"
)

// SecretDeriver turns a UTF-8 password into an integer in [0, q).
type SecretDeriver interface {
	DeriveSecret(password []byte, q *big.Int) *big.Int
}

// SHA256Deriver is the reference adapter: SHA-256 of the password,
// interpreted as a big-endian integer, reduced mod q.
type SHA256Deriver struct{}

func (SHA256Deriver) DeriveSecret(password []byte, q *big.Int) *big.Int {
	sum := sha256.Sum256(password)
	x := new(big.Int).SetBytes(sum[:])
	return x.Mod(x, q)
}

// Argon2Deriver derives the secret with argon2id, making offline guessing of
// a registered commitment expensive. The salt is a deployment-wide constant
// supplied at construction: it must be identical on every client of the same
// service or derived secrets will not match.
type Argon2Deriver struct {
	Salt []byte
}

func (d Argon2Deriver) DeriveSecret(password []byte, q *big.Int) *big.Int {
	key := argon2.IDKey(password, d.Salt, 1, 64*1024, 4, 32)
	x := new(big.Int).SetBytes(key)
	return x.Mod(x, q)
}
