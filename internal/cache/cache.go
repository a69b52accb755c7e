// Package cache provides the fetch cache layers and the model-selection
// advisor cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the byte-value cache contract shared by all layers.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// FetchKey derives a stable cache key for a fetched article URL.
func FetchKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "newscurator:fetch:v1:" + hex.EncodeToString(hash[:])
}
