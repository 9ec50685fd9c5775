package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

const CACHE_KEY_PREFIX = "sentiment:polarity:"

// PolarityCache stores raw scorer output keyed by CacheKey.
type PolarityCache interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, polarity float64) error
}

// CacheObserver is notified with "hit", "miss" or "error" on every lookup.
type CacheObserver func(result string)

// CachedScorer consults a PolarityCache before delegating to the wrapped
// Scorer. Cache failures are logged and then ignored.
type CachedScorer struct {
	inner    Scorer
	cache    PolarityCache
	observer CacheObserver
}

func NewCachedScorer(inner Scorer, cache PolarityCache, observer CacheObserver) *CachedScorer {
	if observer == nil {
		observer = func(string) {}
	}
	return &CachedScorer{inner: inner, cache: cache, observer: observer}
}

func (c *CachedScorer) Score(ctx context.Context, text string) (float64, error) {
	key := CacheKey(text)

	p, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.observer("error")
		slog.Warn("[CachedScorer] Cache lookup failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	case ok:
		c.observer("hit")
		return p, nil
	default:
		c.observer("miss")
	}

	p, err = c.inner.Score(ctx, text)
	if err != nil {
		return 0, err
	}

	if err := c.cache.Set(ctx, key, p); err != nil {
		slog.Warn("[CachedScorer] Cache store failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	return p, nil
}

func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return CACHE_KEY_PREFIX + hex.EncodeToString(sum[:])
}
