// Package node provides identity for decoded proxy endpoints.
package node

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// Hash is a 128-bit endpoint identity derived from (scheme, host, port).
// Display names do not take part, so two entries that differ only in their
// fragment hash the same.
type Hash [16]byte

// Zero is the zero-value Hash.
var Zero Hash

// HashEndpoint computes the identity of an endpoint. The host is compared
// case-insensitively; scheme and port are taken verbatim.
func HashEndpoint(scheme, host, port string) Hash {
	var b strings.Builder
	b.Grow(len(scheme) + len(host) + len(port) + 2)
	b.WriteString(scheme)
	b.WriteByte(0)
	b.WriteString(strings.ToLower(host))
	b.WriteByte(0)
	b.WriteString(port)
	return hashBytes([]byte(b.String()))
}

// Hex returns the lowercase hex encoding of the hash.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements fmt.Stringer.
func (h Hash) String() string {
	return h.Hex()
}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == Zero
}

// ParseHex decodes a 32-character hex string into a Hash.
func ParseHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("node.ParseHex: %w", err)
	}
	if len(b) != 16 {
		return Zero, fmt.Errorf("node.ParseHex: expected 16 bytes, got %d", len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

func hashBytes(data []byte) Hash {
	h128 := xxh3.Hash128(data)
	var h Hash
	binary.LittleEndian.PutUint64(h[:8], h128.Lo)
	binary.LittleEndian.PutUint64(h[8:], h128.Hi)
	return h
}
