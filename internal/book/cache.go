package book

import (
	"context"
	"sync"

	"chesslens/internal/analysis"
)

// Cache memoizes lookups in front of another source. Opening positions
// repeat heavily across a player's games, and the explorer rate-limits.
type Cache struct {
	source analysis.BookSource

	mu      sync.RWMutex
	entries map[string][]analysis.BookMove
}

func NewCache(source analysis.BookSource) *Cache {
	return &Cache{
		source:  source,
		entries: make(map[string][]analysis.BookMove),
	}
}

func (c *Cache) Lookup(ctx context.Context, fen string) ([]analysis.BookMove, error) {
	c.mu.RLock()
	moves, ok := c.entries[fen]
	c.mu.RUnlock()
	if ok {
		return moves, nil
	}

	moves, err := c.source.Lookup(ctx, fen)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[fen] = moves
	c.mu.Unlock()
	return moves, nil
}

var _ analysis.BookSource = (*Cache)(nil)
