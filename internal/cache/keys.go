package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// GenerateKey generates a stable cache key from a URL. Keys are hashed so
// arbitrary URLs (including ones with query strings and credentials-free
// PAT-scoped paths) stay fixed-length and filesystem-safe inside badger.
func GenerateKey(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a namespaced cache key, used to keep
// provider responses from colliding across services.
func GenerateKeyWithPrefix(prefix, rawURL string) string {
	return prefix + ":" + GenerateKey(rawURL)
}
