package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"supportbot/internal/domain"
	"supportbot/internal/port"
)

// CachedRetriever memoizes results that depend only on the knowledge base.
type CachedRetriever struct {
	retriever   port.Retriever
	cache       port.ResultCache
	fingerprint string
}

// NewCachedRetriever wraps retriever. The fingerprint of the loaded knowledge
// base is part of every key, so a reload never serves stale entries.
func NewCachedRetriever(retriever port.Retriever, cache port.ResultCache, fingerprint string) *CachedRetriever {
	return &CachedRetriever{
		retriever:   retriever,
		cache:       cache,
		fingerprint: fingerprint,
	}
}

func (r *CachedRetriever) Retrieve(ctx context.Context, query string) domain.Result {
	key := Key(r.fingerprint, query)

	if result, hit := r.cache.Get(ctx, key); hit {
		return result
	}

	result := r.retriever.Retrieve(ctx, query)
	if result.Cacheable() {
		r.cache.Put(ctx, key, result)
	}
	return result
}

// Key derives the cache key for a query. Queries differing only in case or
// surrounding whitespace share a key.
func Key(fingerprint, query string) string {
	data := []byte(fingerprint)
	data = append(data, 0)
	data = append(data, strings.ToLower(strings.TrimSpace(query))...)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}
