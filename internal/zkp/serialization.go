package zkp

import (
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/zkpauth/internal/common"
)

// Serialize encodes a non-negative integer as a minimal big-endian byte
// sequence with no leading zero byte. Zero encodes as a single 0x00 byte so
// the result is never empty. This encoding is the sole wire contract between
// the proof engine and any transport layer.
func Serialize(n *big.Int) []byte {
	if n == nil || n.Sign() == 0 {
		return []byte{0}
	}
	return n.Bytes()
}

// Deserialize decodes a big-endian byte sequence produced by Serialize.
// A zero-length input fails with ErrSerialization.
func Deserialize(data []byte) (*big.Int, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty byte sequence", common.ErrSerialization)
	}
	return new(big.Int).SetBytes(data), nil
}
