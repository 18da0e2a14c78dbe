package suggest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shuv1824/flightsearch/internal/types"
)

func TestCachePutGet(t *testing.T) {
	c := NewCache(10)
	c.Put(types.LocationOption{ID: "LHR_1", Name: "London Heathrow"}, types.LocationOption{})

	got, ok := c.Get("LHR_1")
	if !ok || got.Name != "London Heathrow" {
		t.Fatalf("expected cached option, got %+v (%v)", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("options without id must be ignored, len=%d", c.Len())
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss")
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	c := NewCache(2)
	c.Put(types.LocationOption{ID: "a"})
	c.Put(types.LocationOption{ID: "b"})
	c.Put(types.LocationOption{ID: "a", Name: "updated"})
	c.Put(types.LocationOption{ID: "c"})

	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	for _, id := range []string{"b", "c"} {
		if _, ok := c.Get(id); !ok {
			t.Errorf("expected %s to remain", id)
		}
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestCacheEvictionKeepsOrderBounded(t *testing.T) {
	c := NewCache(3)
	for i := 0; i < 100; i++ {
		c.Put(types.LocationOption{ID: fmt.Sprintf("id_%d", i)})
	}

	if len(c.order) != 3 || c.Len() != 3 {
		t.Fatalf("expected 3 tracked ids, got order=%d entries=%d", len(c.order), c.Len())
	}
	for i, id := range []string{"id_97", "id_98", "id_99"} {
		if c.order[i] != id {
			t.Errorf("expected %s at position %d, got %s", id, i, c.order[i])
		}
	}
	for _, id := range c.order[len(c.order):cap(c.order)] {
		if id != "" {
			t.Errorf("evicted id %q still referenced", id)
		}
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("id_%d", i)
			c.Put(types.LocationOption{ID: id})
			c.Get(id)
		}(i)
	}
	wg.Wait()

	if c.Len() != 20 {
		t.Errorf("expected 20 entries, got %d", c.Len())
	}
}
