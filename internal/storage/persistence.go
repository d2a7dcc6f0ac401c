package storage

import (
	"encoding/json"
	"fmt"

	"resale_tracker_backend/pkg/utils"
)

// Persistence is the two-tier facade all collection reads and writes go
// through. Loads try the primary store first and fall back to the secondary
// on a miss, a read failure, or a JSON parse error; if both tiers fail the
// caller-supplied fallback is used. Saves go to the primary and engage the
// secondary only when the primary write fails. Every successful save
// notifies the dirty observer exactly once.
type Persistence struct {
	namespace string
	primary   Store
	secondary Store
	onDirty   func()
}

// NewPersistence builds a Persistence over the given tiers. secondary may be
// nil. Keys are prefixed with namespace so multiple trackers can share one
// backing store.
func NewPersistence(namespace string, primary, secondary Store) *Persistence {
	return &Persistence{namespace: namespace, primary: primary, secondary: secondary}
}

// SetDirtyObserver registers the observer called after every successful
// save. Used by the auto-backup service.
func (p *Persistence) SetDirtyObserver(fn func()) {
	p.onDirty = fn
}

func (p *Persistence) key(name string) string {
	return p.namespace + ":" + name
}

// Load reads the named document into a value of type T, trying the tiers in
// priority order. A missing key, an unreadable tier, or corrupt JSON never
// surfaces as an error; the fallback is returned instead.
func Load[T any](p *Persistence, name string, fallback T) T {
	key := p.key(name)
	for _, tier := range []Store{p.primary, p.secondary} {
		if tier == nil {
			continue
		}
		buf, err := tier.Get(key)
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal(buf, &v); err != nil {
			utils.LogWarn("Corrupt stored document, trying next tier", map[string]interface{}{"key": key})
			continue
		}
		return v
	}
	return fallback
}

// Save writes the named document to the primary tier, falling back to the
// secondary if the primary write fails. An error is returned only when every
// available tier rejects the write.
func (p *Persistence) Save(name string, value any) error {
	buf, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	key := p.key(name)

	if err := p.primary.Put(key, buf); err != nil {
		utils.LogWarn("Primary store write failed, engaging secondary", map[string]interface{}{"key": key, "error": err.Error()})
		if p.secondary == nil {
			return fmt.Errorf("saving %s: %w", name, err)
		}
		if err2 := p.secondary.Put(key, buf); err2 != nil {
			return fmt.Errorf("saving %s to both tiers: %w", name, err2)
		}
	}

	if p.onDirty != nil {
		p.onDirty()
	}
	return nil
}
