package state

import (
	"sync"
	"time"

	"github.com/five82/todos/internal/todoapi"
)

// Snapshot represents the state the view renders from.
type Snapshot struct {
	Items      []todoapi.Item
	Loading    bool
	Error      string // empty when no error is shown
	Draft      string
	LastSynced time.Time // zero until the first successful fetch-all
	Version    uint64    // increases with every change
}

// HasError reports whether an error message is present.
func (s Snapshot) HasError() bool {
	return s.Error != ""
}

// Store coordinates concurrent updates to the snapshot and notifies
// subscribers after each change.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	subs     map[int]func(Snapshot)
	nextSub  int
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

// Subscribe registers fn to receive a snapshot after every change. fn runs on
// the goroutine that made the change and must not block. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func(Snapshot))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Begin marks an operation as started: the error is cleared and loading set.
func (s *Store) Begin() {
	s.mutate(func(snap *Snapshot) bool {
		snap.Error = ""
		snap.Loading = true
		return true
	})
}

// Settle marks an operation as finished. A non-empty message becomes the
// current error. Loading is cleared unconditionally, so with overlapping
// operations the last one to settle wins.
func (s *Store) Settle(message string) {
	s.mutate(func(snap *Snapshot) bool {
		snap.Loading = false
		if message != "" {
			snap.Error = message
		}
		return true
	})
}

// SetDraft records the not yet submitted title.
func (s *Store) SetDraft(text string) {
	s.mutate(func(snap *Snapshot) bool {
		if snap.Draft == text {
			return false
		}
		snap.Draft = text
		return true
	})
}

// ReplaceAll swaps in a freshly fetched collection.
func (s *Store) ReplaceAll(items []todoapi.Item) {
	s.mutate(func(snap *Snapshot) bool {
		snap.Items = cloneItems(items)
		snap.LastSynced = time.Now()
		return true
	})
}

// AddCreated appends a server-created item and resets the draft.
func (s *Store) AddCreated(item todoapi.Item) {
	s.mutate(func(snap *Snapshot) bool {
		snap.Items = append(snap.Items, item)
		snap.Draft = ""
		return true
	})
}

// ReplaceItem swaps every item whose id equals id for item, keeping its
// position. It reports whether anything matched.
func (s *Store) ReplaceItem(id todoapi.ID, item todoapi.Item) bool {
	var matched bool
	s.mutate(func(snap *Snapshot) bool {
		for i := range snap.Items {
			if snap.Items[i].ID.Equal(id) {
				snap.Items[i] = item
				matched = true
			}
		}
		return matched
	})
	return matched
}

// Remove drops every item whose id equals id and returns how many were removed.
func (s *Store) Remove(id todoapi.ID) int {
	var removed int
	s.mutate(func(snap *Snapshot) bool {
		kept := snap.Items[:0]
		for _, item := range snap.Items {
			if item.ID.Equal(id) {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		snap.Items = kept
		return removed > 0
	})
	return removed
}

// mutate applies fn under the write lock and, when fn reports a change,
// notifies subscribers outside the lock.
func (s *Store) mutate(fn func(*Snapshot) bool) {
	s.mu.Lock()
	if !fn(&s.snapshot) {
		s.mu.Unlock()
		return
	}
	s.snapshot.Version++
	snap := s.cloneLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, notify := range subs {
		notify(snap)
	}
}

func (s *Store) cloneLocked() Snapshot {
	snap := s.snapshot
	snap.Items = cloneItems(s.snapshot.Items)
	return snap
}

func cloneItems(items []todoapi.Item) []todoapi.Item {
	if len(items) == 0 {
		return nil
	}
	dup := make([]todoapi.Item, len(items))
	copy(dup, items)
	return dup
}
