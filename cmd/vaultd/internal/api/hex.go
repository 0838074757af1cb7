package api

import (
	"encoding/hex"
	"fmt"
)

// decodeHex32 parses a hex-encoded 32-byte value, as used for Merkle roots
// and proof sibling hashes in JSON request bodies.
func decodeHex32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}
