package sentiment

import (
	"context"
	"errors"
	"sync"
)

// mapScorer returns fixed polarities per text and 0 for anything unknown.
type mapScorer struct {
	mu     sync.Mutex
	scores map[string]float64
	fail   map[string]error
	calls  []string
}

func newMapScorer(scores map[string]float64) *mapScorer {
	return &mapScorer{scores: scores, fail: map[string]error{}}
}

func (m *mapScorer) Score(_ context.Context, text string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)
	if err, ok := m.fail[text]; ok {
		return 0, err
	}
	return m.scores[text], nil
}

type memoryCache struct {
	values map[string]float64
	getErr error
	setErr error
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]float64{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (float64, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, polarity float64) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.values[key] = polarity
	return nil
}

var errBoom = errors.New("boom")
