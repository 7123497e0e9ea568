// Package cache provides content-addressed caching for generated layouts
// and exported artifacts. Keys are derived from the inputs that fully
// determine the output, so a hit is always safe to serve.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores opaque byte payloads under string keys with an optional TTL.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// hashKey builds "prefix:hash(parts)". Parts are JSON-encoded so any
// change to the inputs changes the key.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	h := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(h[:]))
}

// LayoutKey identifies a generated layout document. menuHash is the hash
// of the normalized menu JSON; the template identity and output context
// are the remaining inputs that determine the layout.
func LayoutKey(menuHash, templateID string, templateVersion int, outputContext string) string {
	return hashKey("layout", menuHash, templateID, templateVersion, outputContext)
}

// ExportKey identifies an exported artifact derived from a layout document.
func ExportKey(docHash, format string) string {
	return hashKey("export", docHash, format)
}
