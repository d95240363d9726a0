// Package store owns the current timeline partition. All mutation flows
// through the four operations below, which preserve the invariant that every
// event lives in exactly one place: some thread's events, or the orphan pool.
package store

import (
	"fmt"
	"sync"

	"github.com/ordersight/ordersight/internal/core/model"
	"github.com/ordersight/ordersight/internal/core/timeline"
	"github.com/ordersight/ordersight/internal/util"
)

// Store is the single-writer container for the timeline state. Readers take
// snapshots; writers go through the mutation operations.
type Store struct {
	mu    sync.RWMutex
	state *model.TimelineState
}

// New returns a store holding an empty partition.
func New() *Store {
	return &Store{state: model.NewTimelineState()}
}

// SetTimeline replaces the whole state, typically after a rebuild. The new
// state must come from the builder (or a previous snapshot), which already
// guarantees the partition invariant.
func (s *Store) SetTimeline(state *model.TimelineState) {
	if state == nil {
		state = model.NewTimelineState()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Snapshot returns the current state. Callers must treat it as read-only;
// a subsequent SetTimeline swaps the pointer without touching the snapshot.
func (s *Store) Snapshot() *model.TimelineState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LinkOrphanToOrder moves the named orphan into the thread under orderKey,
// creating the thread when absent, and re-sorts the thread. Returns false
// (no state change) when the orphan is not found: stale ids from a racing
// view are expected and harmless.
func (s *Store) LinkOrphanToOrder(orphanID, orderKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.takeOrphan(orphanID)
	if !ok {
		util.LogDebug(fmt.Sprintf("Link ignored, orphan not found: %s", orphanID))
		return false
	}
	s.appendToThread(ev, orderKey)
	return true
}

// UnlinkEventFromOrder removes the named event from the thread under
// orderKey, clears its order key and returns it to the orphan pool. A thread
// left with zero events is deleted. Returns false when the thread or event is
// not found.
func (s *Store) UnlinkEventFromOrder(eventID, orderKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.state.ByOrder[orderKey]
	if !ok {
		util.LogDebug(fmt.Sprintf("Unlink ignored, order not found: %s", orderKey))
		return false
	}

	for i, ev := range thread.Events {
		if ev.Id != eventID {
			continue
		}
		thread.Events = append(thread.Events[:i], thread.Events[i+1:]...)
		ev.OrderKey = ""
		s.state.Orphans = append(s.state.Orphans, ev)
		if len(thread.Events) == 0 {
			delete(s.state.ByOrder, orderKey)
		}
		return true
	}

	util.LogDebug(fmt.Sprintf("Unlink ignored, event %s not in order %s", eventID, orderKey))
	return false
}

// CreateNewOrderFromOrphan promotes the named orphan into a thread under
// newOrderKey. When newOrderKey already names a thread the orphan is merged
// into it, which keeps every existing event in the partition; silently
// replacing the thread would drop its events. Returns false when the orphan
// is not found.
func (s *Store) CreateNewOrderFromOrphan(orphanID, newOrderKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.takeOrphan(orphanID)
	if !ok {
		util.LogDebug(fmt.Sprintf("Create ignored, orphan not found: %s", orphanID))
		return false
	}
	s.appendToThread(ev, newOrderKey)
	return true
}

// takeOrphan removes and returns the orphan with the given id. Caller holds
// the write lock.
func (s *Store) takeOrphan(orphanID string) (*model.TimelineEvent, bool) {
	for i, ev := range s.state.Orphans {
		if ev.Id == orphanID {
			s.state.Orphans = append(s.state.Orphans[:i], s.state.Orphans[i+1:]...)
			return ev, true
		}
	}
	return nil, false
}

// appendToThread attaches the event to the thread under key, creating the
// thread when absent, and restores date order. Caller holds the write lock.
func (s *Store) appendToThread(ev *model.TimelineEvent, key string) {
	thread, ok := s.state.ByOrder[key]
	if !ok {
		thread = &model.OrderThread{OrderKey: key}
		s.state.ByOrder[key] = thread
	}
	ev.OrderKey = key
	thread.Events = append(thread.Events, ev)
	timeline.SortEvents(thread.Events)
}
