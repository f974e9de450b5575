// Package identity derives opaque public identifiers from raw user IDs.
// Raw IDs never reach the store; every query runs against the derived form.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/skipmark/skipmark-server/internal/cache"
)

// hashRounds matches the historical client derivation; changing it would
// orphan every existing public ID.
const hashRounds = 5000

// Hasher derives opaque public IDs with iterated SHA-256. Results are
// memoized through the disk cache; the cache key is built from the first
// round so the raw ID itself is never sent to the cache service. Any cache
// failure falls back to recomputing.
type Hasher struct {
	cache *cache.Client
}

func NewHasher(c *cache.Client) *Hasher { return &Hasher{cache: c} }

// Hash returns the opaque public ID for a raw user ID, or "" for empty input.
func (h *Hasher) Hash(ctx context.Context, raw string) string {
	if raw == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(raw))
	hashed := hex.EncodeToString(sum[:])
	key := "userHash." + hashed

	if body, ok := h.cache.Get(ctx, key); ok {
		var cached string
		if err := json.Unmarshal(body, &cached); err == nil && cached != "" {
			return cached
		}
	}

	for i := 1; i < hashRounds; i++ {
		sum = sha256.Sum256([]byte(hashed))
		hashed = hex.EncodeToString(sum[:])
	}

	h.cache.Set(ctx, key, hashed)
	return hashed
}
