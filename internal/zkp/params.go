// Package zkp implements a two-generator Chaum-Pedersen proof of knowledge
// of a discrete logarithm over a prime-order subgroup. A prover holding a
// secret x with public commitments (y1, y2) = (alpha^x, beta^x) can convince
// a verifier it knows x without revealing it, via a challenge-response
// exchange over fresh nonces.
package zkp

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/dmitrijs2005/zkpauth/internal/common"
)

// GroupParameters holds the cryptographic domain parameters: the prime
// modulus p, the prime order q of the subgroup the proofs live in, and two
// generators of that subgroup. Parameters are shared by reference and never
// mutated after construction.
type GroupParameters struct {
	P     *big.Int
	Q     *big.Int
	Alpha *big.Int
	Beta  *big.Int
}

var one = big.NewInt(1)

// Validate checks the structural invariants: p > 1, q > 1, 1 < alpha < p,
// 1 < beta < p. It is invoked once at engine construction; a service must
// refuse to start when it fails.
func (g *GroupParameters) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil group parameters", common.ErrInvalidInput)
	}
	if g.P == nil || g.P.Cmp(one) <= 0 {
		return fmt.Errorf("%w: modulus p must be greater than 1", common.ErrInvalidInput)
	}
	if g.Q == nil || g.Q.Cmp(one) <= 0 {
		return fmt.Errorf("%w: subgroup order q must be greater than 1", common.ErrInvalidInput)
	}
	if g.Alpha == nil || g.Alpha.Cmp(one) <= 0 || g.Alpha.Cmp(g.P) >= 0 {
		return fmt.Errorf("%w: generator alpha must satisfy 1 < alpha < p", common.ErrInvalidInput)
	}
	if g.Beta == nil || g.Beta.Cmp(one) <= 0 || g.Beta.Cmp(g.P) >= 0 {
		return fmt.Errorf("%w: generator beta must satisfy 1 < beta < p", common.ErrInvalidInput)
	}
	return nil
}

// Reference 1024-bit MODP group with a 160-bit prime-order subgroup
// (RFC 5114, section 2.1). Beta is a second generator of the same
// q-order subgroup.
const (
	defaultPHex = "B10B8F96A080E01DDE92DE5EAE5D54EC52C99FBCFB06A3C69A6A9DCA52D23B61" +
		"6073E28675A23D189838EF1E2EE652C013ECB4AEA906112324975C3CD49B83BF" +
		"ACCBDD7D90C4BD7098488E9C219A73724EFFD6FAE5644738FAA31A4FF55BCCC0" +
		"A151AF5F0DC8B4BD45BF37DF365C1A65E68CFDA76D4DA708DF1FB2BC2E4A4371"

	defaultQHex = "F518AA8781A8DF278ABA4E7D64B7CB9D49462353"

	defaultAlphaHex = "A4D1CBD5C3FD34126765A442EFB99905F8104DD258AC507FD6406CFF14266D31" +
		"266FEA1E5C41564B777E690F5504F213160217B4B01B886A5E91547F9E2749F4" +
		"D7FBD7D3B9A92EE1909D0D2263F80A76A6A24C087A091F531DBF0A0169B6A28A" +
		"D662A4D18E73AFA32D779D5918D08BC8858F4DCEF97C2A24855E6EEB22B3B2E5"

	defaultBetaHex = "4FB73E79E6FF3DD36051CDCB9B53EFF62E310D8EE068137C58307A9498852715" +
		"9EECD4E52028271D486FDB5195C9700CEA2D38AA372E4D09680A3AD8C250EF10" +
		"A3B29433A86359C68612FAC709F0E46134977CE3266B7890CE71540872BA8420" +
		"A628F70630745E9E7ADB623CBCD7DF3629FEB94E2A6CA950CE9F588F643D6930"
)

// DefaultParams returns the built-in 1024-bit reference group. The returned
// value is freshly allocated, so callers cannot corrupt the constants.
func DefaultParams() *GroupParameters {
	return &GroupParameters{
		P:     mustHex(defaultPHex),
		Q:     mustHex(defaultQHex),
		Alpha: mustHex(defaultAlphaHex),
		Beta:  mustHex(defaultBetaHex),
	}
}

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("zkp: invalid built-in parameter constant")
	}
	return n
}

// jsonParams is the on-disk form of GroupParameters: hex-encoded values.
type jsonParams struct {
	P     string `json:"p"`
	Q     string `json:"q"`
	Alpha string `json:"alpha"`
	Beta  string `json:"beta"`
}

// ParamsFromFile loads group parameters from a JSON file with hex-encoded
// p, q, alpha and beta. The result is validated before being returned.
func ParamsFromFile(path string) (*GroupParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading group parameters: %w", err)
	}

	var jp jsonParams
	if err := json.Unmarshal(data, &jp); err != nil {
		return nil, fmt.Errorf("%w: parsing group parameters: %v", common.ErrSerialization, err)
	}

	params := &GroupParameters{}
	for _, field := range []struct {
		name string
		hex  string
		dst  **big.Int
	}{
		{"p", jp.P, &params.P},
		{"q", jp.Q, &params.Q},
		{"alpha", jp.Alpha, &params.Alpha},
		{"beta", jp.Beta, &params.Beta},
	} {
		n, ok := new(big.Int).SetString(field.hex, 16)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a hex integer", common.ErrSerialization, field.name)
		}
		*field.dst = n
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}
