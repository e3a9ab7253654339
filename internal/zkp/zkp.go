package zkp

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/zkpauth/internal/common"
)

// ZKP is the proof engine: pure, stateless operations over a validated set
// of group parameters. A single instance is safe for concurrent use.
type ZKP struct {
	params *GroupParameters
}

// New constructs a proof engine. A nil params selects the built-in reference
// group. Invalid parameters fail closed with ErrInvalidInput.
func New(params *GroupParameters) (*ZKP, error) {
	if params == nil {
		params = DefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &ZKP{params: params}, nil
}

// Params returns the group parameters the engine operates over.
// The returned value must not be mutated.
func (z *ZKP) Params() *GroupParameters {
	return z.params
}

// ComputePair returns (alpha^exponent mod p, beta^exponent mod p).
// The exponent must lie in [0, q).
func (z *ZKP) ComputePair(exponent *big.Int) (*big.Int, *big.Int, error) {
	if err := z.checkScalar("exponent", exponent); err != nil {
		return nil, nil, err
	}
	first := new(big.Int).Exp(z.params.Alpha, exponent, z.params.P)
	second := new(big.Int).Exp(z.params.Beta, exponent, z.params.P)
	return first, second, nil
}

// Solve computes the response s = (k - c*x) mod q for nonce k, challenge c
// and secret x, all in [0, q). The k < c*x case is folded back into [0, q)
// by subtracting in the other direction and taking the complement, so the
// computation never leaves the non-negative domain.
func (z *ZKP) Solve(k, c, x *big.Int) (*big.Int, error) {
	if err := z.checkScalar("k", k); err != nil {
		return nil, err
	}
	if err := z.checkScalar("c", c); err != nil {
		return nil, err
	}
	if err := z.checkScalar("x", x); err != nil {
		return nil, err
	}

	cx := new(big.Int).Mul(c, x)
	s := new(big.Int)
	if k.Cmp(cx) >= 0 {
		s.Sub(k, cx)
		s.Mod(s, z.params.Q)
		return s, nil
	}
	s.Sub(cx, k)
	s.Mod(s, z.params.Q)
	if s.Sign() == 0 {
		return s, nil
	}
	return s.Sub(z.params.Q, s), nil
}

// Verify recomputes check1 = alpha^s * y1^c mod p and
// check2 = beta^s * y2^c mod p and reports whether both equal the submitted
// nonce commitments r1 and r2. Checking a single generator is not enough:
// either check alone is forgeable for the other generator.
//
// Range violations return ErrInvalidInput rather than false, so callers can
// tell malformed input from a failed proof.
func (z *ZKP) Verify(r1, r2, y1, y2, c, s *big.Int) (bool, error) {
	if err := z.checkElement("r1", r1); err != nil {
		return false, err
	}
	if err := z.checkElement("r2", r2); err != nil {
		return false, err
	}
	if err := z.checkElement("y1", y1); err != nil {
		return false, err
	}
	if err := z.checkElement("y2", y2); err != nil {
		return false, err
	}
	if err := z.checkScalar("c", c); err != nil {
		return false, err
	}
	if err := z.checkScalar("s", s); err != nil {
		return false, err
	}

	check1 := new(big.Int).Exp(z.params.Alpha, s, z.params.P)
	check1.Mul(check1, new(big.Int).Exp(y1, c, z.params.P))
	check1.Mod(check1, z.params.P)

	check2 := new(big.Int).Exp(z.params.Beta, s, z.params.P)
	check2.Mul(check2, new(big.Int).Exp(y2, c, z.params.P))
	check2.Mod(check2, z.params.P)

	return r1.Cmp(check1) == 0 && r2.Cmp(check2) == 0, nil
}

// RandomScalar returns a fresh uniform random integer in [0, q), suitable
// for nonces and challenges.
func (z *ZKP) RandomScalar() (*big.Int, error) {
	return RandomBelow(z.params.Q)
}

// RandomBelow draws a uniform random integer in [0, bound) from the
// system's cryptographically secure source. crypto/rand performs rejection
// sampling, so the output carries no modulo bias.
func RandomBelow(bound *big.Int) (*big.Int, error) {
	if bound == nil || bound.Sign() <= 0 {
		return nil, fmt.Errorf("%w: bound must be positive", common.ErrInvalidInput)
	}
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return nil, fmt.Errorf("reading random source: %w", err)
	}
	return n, nil
}

// checkScalar validates a q-bounded value: non-nil, non-negative, below q.
func (z *ZKP) checkScalar(name string, v *big.Int) error {
	if v == nil || v.Sign() < 0 || v.Cmp(z.params.Q) >= 0 {
		return fmt.Errorf("%w: %s must be in [0, q)", common.ErrInvalidInput, name)
	}
	return nil
}

// checkElement validates a p-bounded group element: non-nil, non-negative,
// below p.
func (z *ZKP) checkElement(name string, v *big.Int) error {
	if v == nil || v.Sign() < 0 || v.Cmp(z.params.P) >= 0 {
		return fmt.Errorf("%w: %s must be in [0, p)", common.ErrInvalidInput, name)
	}
	return nil
}
