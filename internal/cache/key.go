package cache

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Key derives a fixed-length cache key from a request's method and URL.
func Key(method, url string) string {
	sum := blake2b.Sum256([]byte(method + " " + url))
	return hex.EncodeToString(sum[:16])
}
