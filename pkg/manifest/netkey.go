package manifest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const networkKeySize = 32

// KeySource supplies the random bytes of network keys. It must be safe for concurrent use.
type KeySource io.Reader

// NewNetworkKey returns 32 random bytes from src rendered as 0x-prefixed hex.
func NewNetworkKey(src KeySource) (string, error) {
	if src == nil {
		src = rand.Reader
	}
	b := make([]byte, networkKeySize)
	if _, err := io.ReadFull(src, b); err != nil {
		return "", fmt.Errorf("read network key: %w", err)
	}
	return "0x" + hex.EncodeToString(b), nil
}
