package replay

import (
	"fmt"
	"sync"

	"github.com/farconic/custody-api/internal/domain"
)

// Store persists consumed uids across restarts.
type Store interface {
	Has(uid domain.UID) (bool, error)
	Put(uid domain.UID) error
	All() ([]domain.UID, error)
	Close() error
}

// Guard tracks consumed request identifiers. The set is insertion-only and
// never pruned; validity windows bound how long any uid stays relevant.
type Guard struct {
	mu    sync.Mutex
	seen  map[domain.UID]struct{}
	store Store
}

// NewGuard builds a guard, warming the in-memory set from store when one is
// provided. A nil store keeps the consumed set process-local.
func NewGuard(store Store) (*Guard, error) {
	guard := &Guard{
		seen:  make(map[domain.UID]struct{}),
		store: store,
	}
	if store != nil {
		uids, err := store.All()
		if err != nil {
			return nil, fmt.Errorf("failed to load consumed uids: %w", err)
		}
		for _, uid := range uids {
			guard.seen[uid] = struct{}{}
		}
	}
	return guard, nil
}

// Consume atomically tests and inserts uid. It returns true exactly once per
// uid; every later call returns false. Callers must invoke this only after
// all other preconditions passed, so a rejected call never burns the uid.
func (g *Guard) Consume(uid domain.UID) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[uid]; ok {
		return false, nil
	}
	if g.store != nil {
		if err := g.store.Put(uid); err != nil {
			// Not inserted: the uid stays replayable if persistence failed,
			// so the whole call aborts without consuming it.
			return false, fmt.Errorf("failed to persist uid: %w", err)
		}
	}
	g.seen[uid] = struct{}{}
	return true, nil
}

// IsConsumed reports whether uid has been executed. Burn recalls use this to
// require that the request being replayed was actually minted.
func (g *Guard) IsConsumed(uid domain.UID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.seen[uid]
	return ok
}

// Close releases the backing store, if any.
func (g *Guard) Close() error {
	if g.store == nil {
		return nil
	}
	return g.store.Close()
}
