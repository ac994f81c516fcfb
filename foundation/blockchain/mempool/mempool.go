// Package mempool maintains the pool of signed transfer events waiting to
// be mined into a block.
package mempool

import (
	"slices"
	"sync"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
)

// Mempool represents a cache of transfer events keyed by their signature,
// which is unique per signed payload.
type Mempool struct {
	pool map[string]database.Event
	mu   sync.RWMutex
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]database.Event),
	}
}

// Count returns the current number of transfers in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transfer in the mempool.
func (mp *Mempool) Upsert(event database.Event) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[event.Signature] = event

	return len(mp.pool)
}

// Delete removes a transfer from the mempool.
func (mp *Mempool) Delete(event database.Event) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, event.Signature)
}

// Truncate clears all the transfers from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]database.Event)
}

// PickBest returns up to howMany transfers for the next block, largest
// amounts first with the signature as the deterministic tie breaker. Pass
// -1 for the whole pool.
func (mp *Mempool) PickBest(howMany int) []database.Event {
	var events []database.Event

	mp.mu.RLock()
	{
		if howMany == -1 || howMany > len(mp.pool) {
			howMany = len(mp.pool)
		}

		events = make([]database.Event, 0, len(mp.pool))
		for _, event := range mp.pool {
			events = append(events, event)
		}
	}
	mp.mu.RUnlock()

	slices.SortFunc(events, func(a, b database.Event) int {
		switch {
		case a.Amount > b.Amount:
			return -1
		case a.Amount < b.Amount:
			return 1
		}
		switch {
		case a.Signature < b.Signature:
			return -1
		case a.Signature > b.Signature:
			return 1
		}
		return 0
	})

	return events[:howMany]
}
