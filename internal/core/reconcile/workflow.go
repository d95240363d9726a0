// Package reconcile is the manual corrective layer over the timeline store:
// searching order threads, linking orphans to them, and promoting orphans
// into new threads.
package reconcile

import (
	"errors"
	"sort"
	"strings"

	"github.com/ordersight/ordersight/internal/core/model"
	"github.com/ordersight/ordersight/internal/core/store"
)

var (
	// ErrNoOrphanSelected means the operation was invoked without naming an
	// orphan event.
	ErrNoOrphanSelected = errors.New("no orphan event selected")
	// ErrEmptyOrderKey means the target order key was blank.
	ErrEmptyOrderKey = errors.New("order key must not be empty")
)

// Workflow drives the store's mutation operations on behalf of the user. It
// validates input only; all partition bookkeeping lives in the store.
type Workflow struct {
	store *store.Store
}

// NewWorkflow wraps the given store.
func NewWorkflow(s *store.Store) *Workflow {
	return &Workflow{store: s}
}

// SearchOrders returns every order key containing the query as a
// case-insensitive substring, sorted for stable display. An empty query
// lists all keys.
func (w *Workflow) SearchOrders(query string) []string {
	snapshot := w.store.Snapshot()
	needle := strings.ToLower(strings.TrimSpace(query))

	keys := make([]string, 0, len(snapshot.ByOrder))
	for key := range snapshot.ByOrder {
		if needle == "" || strings.Contains(strings.ToLower(key), needle) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Orphans returns the current orphan pool in display order.
func (w *Workflow) Orphans() []*model.TimelineEvent {
	return w.store.Snapshot().Orphans
}

// Order returns the thread under key, if any.
func (w *Workflow) Order(key string) (*model.OrderThread, bool) {
	thread, ok := w.store.Snapshot().ByOrder[key]
	return thread, ok
}

// LinkToExisting links the orphan to an existing (or new) order thread.
// applied is false when the orphan id is stale, which is not an error.
func (w *Workflow) LinkToExisting(orphanID, orderKey string) (applied bool, err error) {
	if err := validate(orphanID, orderKey); err != nil {
		return false, err
	}
	return w.store.LinkOrphanToOrder(orphanID, strings.TrimSpace(orderKey)), nil
}

// CreateOrder promotes the orphan into a thread under a user-chosen key.
// applied is false when the orphan id is stale, which is not an error.
func (w *Workflow) CreateOrder(orphanID, newOrderKey string) (applied bool, err error) {
	if err := validate(orphanID, newOrderKey); err != nil {
		return false, err
	}
	return w.store.CreateNewOrderFromOrphan(orphanID, strings.TrimSpace(newOrderKey)), nil
}

// Unlink detaches an event from its thread back into the orphan pool.
func (w *Workflow) Unlink(eventID, orderKey string) (applied bool, err error) {
	if err := validate(eventID, orderKey); err != nil {
		return false, err
	}
	return w.store.UnlinkEventFromOrder(eventID, strings.TrimSpace(orderKey)), nil
}

func validate(eventID, orderKey string) error {
	if strings.TrimSpace(eventID) == "" {
		return ErrNoOrphanSelected
	}
	if strings.TrimSpace(orderKey) == "" {
		return ErrEmptyOrderKey
	}
	return nil
}
