package lookup

import (
	"sync"

	"codeberg.org/snonux/smartdict/internal/render"
)

// ResultCache stores rendered results keyed by the literal query string
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]map[Mode][]render.Segment
}

// NewResultCache creates a new, empty result cache
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]map[Mode][]render.Segment),
	}
}

// Add stores a copy of segments for query in the given view
func (c *ResultCache) Add(mode Mode, query string, segments []render.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	views, ok := c.entries[query]
	if !ok {
		views = make(map[Mode][]render.Segment)
		c.entries[query] = views
	}
	views[mode] = append([]render.Segment(nil), segments...)
}

// Get returns a copy of the segments cached for query in the given view
func (c *ResultCache) Get(mode Mode, query string) ([]render.Segment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	segments, ok := c.entries[query][mode]
	if !ok {
		return nil, false
	}
	return append([]render.Segment(nil), segments...), true
}

// Len returns the number of cached results over all views
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, views := range c.entries {
		n += len(views)
	}
	return n
}

// Clear drops all cached results
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[Mode][]render.Segment)
}
