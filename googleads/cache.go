package googleads

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// loginCache remembers resolved login customer ids for a bounded
// staleness window. Concurrent resolutions for the same customer share
// one upstream search. Misses are not cached.
type loginCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]loginEntry
	group   singleflight.Group
}

type loginEntry struct {
	id      string
	expires time.Time
}

func newLoginCache(ttl time.Duration) *loginCache {
	return &loginCache{
		ttl:     ttl,
		entries: make(map[string]loginEntry),
	}
}

func (c *loginCache) get(customerID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[customerID]
	if !ok || time.Now().After(entry.expires) {
		return "", false
	}
	return entry.id, true
}

func (c *loginCache) resolve(customerID string, lookup func() (string, error)) (string, error) {
	if id, ok := c.get(customerID); ok {
		return id, nil
	}

	v, err, _ := c.group.Do(customerID, func() (any, error) {
		// Another caller may have filled the entry while we waited.
		if id, ok := c.get(customerID); ok {
			return id, nil
		}

		id, err := lookup()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[customerID] = loginEntry{id: id, expires: time.Now().Add(c.ttl)}
		c.mu.Unlock()
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
