// Copyright 2026 MIRI Project. All rights reserved.

package investigate

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/Mun09/miri-back/pkg/types"
)

// Cache memoizes per-document analysis results, keyed by the action text
// and a stable document id. Entries are immutable once written; on a hit
// the caller patches the URL field to the current fetch's URL, since the
// same legal text can be reachable through different URLs across calls.
type Cache interface {
	Get(action, docID string) ([]types.DocumentReview, bool)
	Put(action, docID string, reviews []types.DocumentReview)
}

// MemoryCache is the default Cache: per-Investigator lifetime, unbounded,
// safe for concurrent use. Concurrent misses for the same key may do
// redundant work; last writer wins, which is fine because results for the
// same key are equivalent.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[[2]string][]types.DocumentReview
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[[2]string][]types.DocumentReview)}
}

// Get returns a copy of the cached reviews so callers can patch URLs
// without mutating the stored entry.
func (c *MemoryCache) Get(action, docID string) ([]types.DocumentReview, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[[2]string{action, docID}]
	if !ok {
		return nil, false
	}
	out := make([]types.DocumentReview, len(entry))
	copy(out, entry)
	return out, true
}

// Put stores the reviews for the key. An empty slice is a valid entry: it
// records that the document yielded nothing so it is never re-analyzed.
func (c *MemoryCache) Put(action, docID string, reviews []types.DocumentReview) {
	stored := make([]types.DocumentReview, len(reviews))
	copy(stored, reviews)
	c.mu.Lock()
	c.entries[[2]string{action, docID}] = stored
	c.mu.Unlock()
}

// docHash derives a fallback document id from title and URL for payloads
// that carry no stable identifier. First 12 hex characters of SHA-256.
func docHash(title, url string) string {
	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte(url))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}
