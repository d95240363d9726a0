package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersight/ordersight/internal/core/model"
	"github.com/ordersight/ordersight/internal/core/timeline"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	sales := []model.RawRow{
		{"order-id": "403-1", "purchase-date": "2025-01-01"},
		{"order-id": "403-9", "purchase-date": "2025-01-05"},
	}
	purchases := []model.RawRow{
		{"order-id": "111-1", "purchase-date": "2025-01-02"},
	}
	links := []model.GlueLink{{SalesOrderID: "403-1", PurchaseOrderID: "111-1"}}

	s := New()
	s.SetTimeline(timeline.Build(sales, purchases, links))
	return s
}

func orphanID(t *testing.T, s *Store) string {
	t.Helper()
	orphans := s.Snapshot().Orphans
	require.NotEmpty(t, orphans)
	return orphans[0].Id
}

func assertPartitionInvariant(t *testing.T, s *Store) {
	t.Helper()
	state := s.Snapshot()
	seen := make(map[string]int)
	for key, thread := range state.ByOrder {
		require.NotEmpty(t, thread.Events, "thread %s must not be empty", key)
		for i, ev := range thread.Events {
			assert.Equal(t, key, ev.OrderKey)
			seen[ev.Id]++
			if i > 0 {
				assert.LessOrEqual(t, thread.Events[i-1].When, ev.When,
					"thread %s must stay sorted", key)
			}
		}
	}
	for _, ev := range state.Orphans {
		assert.Empty(t, ev.OrderKey)
		seen[ev.Id]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "event %s must appear exactly once", id)
	}
}

func TestLinkOrphanToOrder_NewThread(t *testing.T) {
	s := seededStore(t)
	id := orphanID(t, s)

	applied := s.LinkOrphanToOrder(id, "NEW-1")
	require.True(t, applied)

	state := s.Snapshot()
	thread, ok := state.ByOrder["NEW-1"]
	require.True(t, ok)
	require.Len(t, thread.Events, 1)
	assert.Equal(t, id, thread.Events[0].Id)
	assert.Equal(t, "NEW-1", thread.Events[0].OrderKey)
	for _, orphan := range state.Orphans {
		assert.NotEqual(t, id, orphan.Id)
	}
	assertPartitionInvariant(t, s)
}

func TestLinkOrphanToOrder_ExistingThreadResorted(t *testing.T) {
	s := seededStore(t)
	id := orphanID(t, s) // dated 2025-01-05, after the thread's events

	applied := s.LinkOrphanToOrder(id, "403-1__111-1")
	require.True(t, applied)

	thread := s.Snapshot().ByOrder["403-1__111-1"]
	require.Len(t, thread.Events, 3)
	assert.Equal(t, id, thread.Events[2].Id)
	assertPartitionInvariant(t, s)
}

func TestLinkOrphanToOrder_StaleIDIsNoop(t *testing.T) {
	s := seededStore(t)
	before := s.Snapshot().EventCount()

	applied := s.LinkOrphanToOrder("no-such-event", "NEW-1")

	assert.False(t, applied)
	_, ok := s.Snapshot().ByOrder["NEW-1"]
	assert.False(t, ok, "no thread may be created on a stale link")
	assert.Equal(t, before, s.Snapshot().EventCount())
}

func TestUnlinkEventFromOrder(t *testing.T) {
	s := seededStore(t)
	thread := s.Snapshot().ByOrder["403-1__111-1"]
	eventID := thread.Events[0].Id

	applied := s.UnlinkEventFromOrder(eventID, "403-1__111-1")
	require.True(t, applied)

	state := s.Snapshot()
	require.Len(t, state.ByOrder["403-1__111-1"].Events, 1)
	found := false
	for _, orphan := range state.Orphans {
		if orphan.Id == eventID {
			found = true
			assert.Empty(t, orphan.OrderKey)
		}
	}
	assert.True(t, found)
	assertPartitionInvariant(t, s)
}

func TestUnlinkEventFromOrder_DeletesEmptyThread(t *testing.T) {
	s := seededStore(t)
	id := orphanID(t, s)
	require.True(t, s.LinkOrphanToOrder(id, "NEW-1"))

	applied := s.UnlinkEventFromOrder(id, "NEW-1")
	require.True(t, applied)

	_, ok := s.Snapshot().ByOrder["NEW-1"]
	assert.False(t, ok, "emptied thread must be deleted")
	assertPartitionInvariant(t, s)
}

func TestUnlinkEventFromOrder_Noops(t *testing.T) {
	s := seededStore(t)

	assert.False(t, s.UnlinkEventFromOrder("whatever", "no-such-order"))
	assert.False(t, s.UnlinkEventFromOrder("no-such-event", "403-1__111-1"))
	assertPartitionInvariant(t, s)
}

func TestRoundTripLinkUnlink(t *testing.T) {
	s := seededStore(t)
	id := orphanID(t, s)
	before := s.Snapshot().EventCount()

	require.True(t, s.LinkOrphanToOrder(id, "NEW-1"))
	require.True(t, s.UnlinkEventFromOrder(id, "NEW-1"))

	state := s.Snapshot()
	assert.Equal(t, before, state.EventCount(), "round trip must not lose or duplicate events")
	_, ok := state.ByOrder["NEW-1"]
	assert.False(t, ok)

	found := false
	for _, orphan := range state.Orphans {
		if orphan.Id == id {
			found = true
		}
	}
	assert.True(t, found)
	assertPartitionInvariant(t, s)
}

func TestCreateNewOrderFromOrphan(t *testing.T) {
	s := seededStore(t)
	id := orphanID(t, s)

	applied := s.CreateNewOrderFromOrphan(id, "MANUAL-7")
	require.True(t, applied)

	thread, ok := s.Snapshot().ByOrder["MANUAL-7"]
	require.True(t, ok)
	require.Len(t, thread.Events, 1)
	assert.Equal(t, "MANUAL-7", thread.Events[0].OrderKey)
	assertPartitionInvariant(t, s)
}

func TestCreateNewOrderFromOrphan_CollisionMerges(t *testing.T) {
	s := seededStore(t)
	id := orphanID(t, s)

	applied := s.CreateNewOrderFromOrphan(id, "403-1__111-1")
	require.True(t, applied)

	thread := s.Snapshot().ByOrder["403-1__111-1"]
	assert.Len(t, thread.Events, 3, "existing events survive a key collision")
	assertPartitionInvariant(t, s)
}

func TestCreateNewOrderFromOrphan_StaleIDIsNoop(t *testing.T) {
	s := seededStore(t)

	assert.False(t, s.CreateNewOrderFromOrphan("no-such-event", "MANUAL-7"))
	_, ok := s.Snapshot().ByOrder["MANUAL-7"]
	assert.False(t, ok)
}

func TestSetTimeline_ReplacesWholesale(t *testing.T) {
	s := seededStore(t)

	s.SetTimeline(model.NewTimelineState())
	assert.Zero(t, s.Snapshot().EventCount())

	s.SetTimeline(nil)
	assert.NotNil(t, s.Snapshot(), "nil resets to an empty partition")
}
