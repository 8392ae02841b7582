// Package correlation bridges multi-message announcement sequences: some
// channels post the bonus conditions in one message and the bare code in a
// later one. The cache holds at most one pending set of conditions per
// channel, for a short time, in process memory only.
package correlation

import (
	"sync"
	"time"

	"github.com/mlevasseur/bonus-watcher/internal/modules/bonus/domain"
)

// DefaultTTL is how long a pending announcement stays consumable.
const DefaultTTL = 5 * time.Minute

type entry struct {
	conditions []domain.Condition
	createdAt  time.Time
}

// Cache maps a channel key to its single pending announcement. All methods
// are safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// New creates a cache with the given TTL; ttl <= 0 uses DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Store records pending conditions for a channel, overwriting any prior
// entry and refreshing the timestamp.
func (c *Cache) Store(channelKey string, conditions []domain.Condition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[channelKey] = entry{conditions: conditions, createdAt: c.now()}
}

// TryConsume returns and deletes the pending conditions for a channel. The
// second return is false when there is no live entry.
func (c *Cache) TryConsume(channelKey string) ([]domain.Condition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[channelKey]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		delete(c.entries, channelKey)
		return nil, false
	}
	delete(c.entries, channelKey)
	return e.conditions, true
}

// ExpireAll sweeps entries older than the TTL. Called opportunistically
// before each message rather than from a background timer.
func (c *Cache) ExpireAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.createdAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}
