package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/todos/internal/todoapi"
)

func item(id int64, title string, completed bool) todoapi.Item {
	return todoapi.Item{ID: todoapi.IntID(id), Title: title, Completed: completed}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	var s Store
	s.ReplaceAll([]todoapi.Item{item(1, "a", false), item(2, "b", false)})

	snap := s.Snapshot()
	snap.Items[0].Title = "changed"

	assert.Equal(t, "a", s.Snapshot().Items[0].Title)
}

func TestStore_ReplaceAllRecordsSync(t *testing.T) {
	var s Store
	before := time.Now()
	s.ReplaceAll([]todoapi.Item{item(1, "a", false)})

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.False(t, snap.LastSynced.Before(before))
}

func TestStore_BeginClearsErrorAndSettleSetsIt(t *testing.T) {
	var s Store

	s.Begin()
	s.Settle("Failed to load to-dos")
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, "Failed to load to-dos", snap.Error)
	assert.True(t, snap.HasError())

	s.Begin()
	snap = s.Snapshot()
	assert.True(t, snap.Loading)
	assert.Empty(t, snap.Error, "a new operation clears the previous error immediately")

	s.Settle("")
	snap = s.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.HasError())
}

func TestStore_OverlappingSettleLastWins(t *testing.T) {
	var s Store

	s.Begin()
	s.Begin()
	s.Settle("")
	assert.False(t, s.Snapshot().Loading, "first settle clears loading even though another operation is pending")
	s.Settle("Failed to delete to-do")
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, "Failed to delete to-do", snap.Error)
}

func TestStore_AddCreatedAppendsAndClearsDraft(t *testing.T) {
	var s Store
	s.ReplaceAll([]todoapi.Item{item(1, "a", false)})
	s.SetDraft("buy milk")

	s.AddCreated(item(2, "buy milk", false))

	snap := s.Snapshot()
	assert.Equal(t, []todoapi.Item{item(1, "a", false), item(2, "buy milk", false)}, snap.Items)
	assert.Empty(t, snap.Draft)
}

func TestStore_ReplaceItemKeepsPosition(t *testing.T) {
	var s Store
	s.ReplaceAll([]todoapi.Item{item(1, "a", false), item(2, "b", false), item(3, "c", true)})

	assert.True(t, s.ReplaceItem(todoapi.IntID(2), item(2, "b", true)))
	assert.False(t, s.ReplaceItem(todoapi.IntID(9), item(9, "z", true)))

	assert.Equal(t, []todoapi.Item{item(1, "a", false), item(2, "b", true), item(3, "c", true)}, s.Snapshot().Items)
}

func TestStore_RemoveFiltersMatches(t *testing.T) {
	var s Store
	s.ReplaceAll([]todoapi.Item{item(1, "a", false), item(2, "b", false), item(3, "c", false)})
	held := s.Snapshot()

	assert.Equal(t, 1, s.Remove(todoapi.IntID(2)))
	assert.Equal(t, 0, s.Remove(todoapi.IntID(2)))

	assert.Equal(t, []todoapi.Item{item(1, "a", false), item(3, "c", false)}, s.Snapshot().Items)
	assert.Len(t, held.Items, 3, "earlier snapshots are unaffected")
	assert.Equal(t, "b", held.Items[1].Title)
}

func TestStore_SubscribeReceivesChanges(t *testing.T) {
	var s Store
	var (
		mu   sync.Mutex
		seen []Snapshot
	)
	cancel := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, snap)
	})

	s.Begin()
	s.SetDraft("x")
	s.SetDraft("x") // unchanged, no notification
	s.Remove(todoapi.IntID(1))
	s.Settle("")
	cancel()
	s.Begin()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	assert.True(t, seen[0].Loading)
	assert.Equal(t, "x", seen[1].Draft)
	assert.False(t, seen[2].Loading)
	assert.Less(t, seen[0].Version, seen[1].Version)
	assert.Less(t, seen[1].Version, seen[2].Version)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	var s Store
	s.Subscribe(func(Snapshot) {})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Begin()
			s.AddCreated(item(int64(i), "t", false))
			_ = s.Snapshot()
			s.Settle("")
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Len(t, snap.Items, 50)
	assert.False(t, snap.Loading)
}
