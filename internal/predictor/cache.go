package predictor

import (
	"context"
	"sync"

	"github.com/danielpatrickdp/power-toys/internal/component"
)

// Cache memoizes predictions by exact query. Optimizers evaluate the same
// operating point once per loss name, so most lookups hit. When full, the
// cache is reset.
type Cache struct {
	next component.LossPredictor
	max  int

	mu      sync.Mutex
	entries map[component.Query]component.Prediction
	hits    int
	misses  int
}

func NewCache(next component.LossPredictor, max int) *Cache {
	return &Cache{next: next, max: max, entries: make(map[component.Query]component.Prediction)}
}

func (c *Cache) Predict(ctx context.Context, q component.Query) (component.Prediction, error) {
	c.mu.Lock()
	if p, ok := c.entries[q]; ok {
		c.hits++
		c.mu.Unlock()
		return p, nil
	}
	c.misses++
	c.mu.Unlock()

	p, err := c.next.Predict(ctx, q)
	if err != nil {
		return p, err
	}

	c.mu.Lock()
	if c.max > 0 && len(c.entries) >= c.max {
		c.entries = make(map[component.Query]component.Prediction)
	}
	c.entries[q] = p
	c.mu.Unlock()
	return p, nil
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
