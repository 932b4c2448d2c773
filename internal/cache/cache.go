// ABOUTME: TTL cache for extracted event lists.
// ABOUTME: Keyed by settings digest and date range, swept on a cron schedule.

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/calwidget/calwidget/internal/event"
)

// Cache holds recently extracted event lists so repeated widget renders do
// not re-query the record store inside the TTL window.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	cron    *cron.Cron
}

type entry struct {
	events  []event.Event
	expires time.Time
}

// New creates a cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Key derives a cache key from the settings token and range bounds. The token
// is digested so credentials never sit in memory as map keys.
func Key(token, start, end string) string {
	sum := sha256.Sum256([]byte(token + "|" + start + "|" + end))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached events for key if the entry is still fresh.
func (c *Cache) Get(key string) ([]event.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.events, true
}

// Put stores events under key with the cache's TTL.
func (c *Cache) Put(key string, events []event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{events: events, expires: time.Now().Add(c.ttl)}
}

// Sweep evicts every expired entry.
func (c *Cache) Sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, key)
		}
	}
}

// Len reports how many entries the cache currently holds, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartSweeper schedules periodic eviction with a cron expression, e.g.
// "*/5 * * * *".
func (c *Cache) StartSweeper(schedule string) error {
	c.cron = cron.New()
	if _, err := c.cron.AddFunc(schedule, c.Sweep); err != nil {
		return err
	}
	c.cron.Start()
	return nil
}

// Stop halts the sweeper if one was started.
func (c *Cache) Stop() {
	if c.cron != nil {
		c.cron.Stop()
	}
}
