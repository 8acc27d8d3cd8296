package watcher

import (
	"sync"
	"time"
)

// Debouncer lets through the first trigger of a key and suppresses the
// following ones until the key's cooldown has elapsed since that trigger.
// A single save often produces several write events.
type Debouncer struct {
	mu        sync.Mutex
	cooldowns map[string]time.Duration
	last      map[string]time.Time
	now       func() time.Time
}

// NewDebouncer creates a debouncer with one cooldown per key.
func NewDebouncer(cooldowns map[string]time.Duration) *Debouncer {
	return &Debouncer{
		cooldowns: cooldowns,
		last:      make(map[string]time.Time),
		now:       time.Now,
	}
}

// Allow reports whether key may trigger now, and if so records the trigger.
func (d *Debouncer) Allow(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.last[key]; ok && now.Sub(last) < d.cooldowns[key] {
		return false
	}
	d.last[key] = now
	return true
}
