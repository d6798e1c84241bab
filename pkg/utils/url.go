package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashURL creates a SHA256 hash of a URL string.
// Used as a fixed-width index key for arbitrarily long URLs.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}
