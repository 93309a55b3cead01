package history

import (
	"log"
	"sync"

	"grepscope/internal/domain"
	"grepscope/internal/eventbus"
)

// MaxEntries caps the recent query list
const MaxEntries = 5

// RecentQueryCache is a bounded, order-preserving, deduplicated store of
// past (query, extension) pairs. Persistence failures are logged and
// swallowed; cache corruption is never fatal to search capability.
type RecentQueryCache struct {
	mu      sync.Mutex
	entries []domain.RecentQueryEntry
	store   Store
	bus     eventbus.EventBus
}

// NewRecentQueryCache loads the persisted list. Deserialization failures
// yield an empty list. A nil bus suppresses update events.
func NewRecentQueryCache(store Store, bus eventbus.EventBus) *RecentQueryCache {
	entries, err := store.Load()
	if err != nil {
		log.Printf("History: failed to load recent queries, starting empty: %v", err)
		entries = nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return &RecentQueryCache{entries: entries, store: store, bus: bus}
}

// Record moves the entry to the front, dropping any duplicate with the
// same (query, extension) pair, truncates to MaxEntries and persists.
func (c *RecentQueryCache) Record(entry domain.RecentQueryEntry) {
	c.mu.Lock()

	updated := make([]domain.RecentQueryEntry, 0, len(c.entries)+1)
	updated = append(updated, entry)
	for _, e := range c.entries {
		if e.Query == entry.Query && e.Extension == entry.Extension {
			continue
		}
		updated = append(updated, e)
	}
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}
	c.entries = updated

	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.store.Save(snapshot); err != nil {
		log.Printf("History: failed to persist recent queries: %v", err)
	}
	if c.bus != nil {
		c.bus.Publish(domain.HistoryUpdatedEvent{Entries: snapshot})
	}
}

// Entries returns a copy of the list, most recent first
func (c *RecentQueryCache) Entries() []domain.RecentQueryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *RecentQueryCache) snapshotLocked() []domain.RecentQueryEntry {
	return append([]domain.RecentQueryEntry(nil), c.entries...)
}
