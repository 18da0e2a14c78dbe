package suggest

import (
	"sync"

	"github.com/shuv1824/flightsearch/internal/types"
)

// Cache maps option ids to the options seen during search, so a search
// prefilled from a link can be resolved without another lookup. It is shared
// by every session and bounded; the oldest ids are evicted first.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]types.LocationOption
	order   []string
	limit   int
}

func NewCache(limit int) *Cache {
	if limit <= 0 {
		limit = 1
	}
	return &Cache{
		entries: make(map[string]types.LocationOption, limit),
		limit:   limit,
	}
}

// Put stores options by id. Re-adding a known id replaces its value but keeps
// its position in the eviction order.
func (c *Cache) Put(opts ...types.LocationOption) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, o := range opts {
		if o.ID == "" {
			continue
		}
		if _, ok := c.entries[o.ID]; !ok {
			c.order = append(c.order, o.ID)
		}
		c.entries[o.ID] = o
	}

	over := len(c.order) - c.limit
	if over <= 0 {
		return
	}
	for _, id := range c.order[:over] {
		delete(c.entries, id)
	}
	n := copy(c.order, c.order[over:])
	clear(c.order[n:])
	c.order = c.order[:n]
}

func (c *Cache) Get(id string) (types.LocationOption, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	o, ok := c.entries[id]
	return o, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
