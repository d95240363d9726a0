package reconcile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersight/ordersight/internal/core/model"
	"github.com/ordersight/ordersight/internal/core/store"
	"github.com/ordersight/ordersight/internal/core/timeline"
)

func seededWorkflow(t *testing.T) *Workflow {
	t.Helper()
	sales := []model.RawRow{
		{"order-id": "403-1", "purchase-date": "2025-01-01"},
		{"order-id": "403-9", "purchase-date": "2025-01-05"},
	}
	purchases := []model.RawRow{
		{"order-id": "111-1", "purchase-date": "2025-01-02"},
	}
	links := []model.GlueLink{
		{SalesOrderID: "403-1", PurchaseOrderID: "111-1"},
	}

	s := store.New()
	s.SetTimeline(timeline.Build(sales, purchases, links))
	return NewWorkflow(s)
}

func TestSearchOrders(t *testing.T) {
	w := seededWorkflow(t)

	assert.Equal(t, []string{"403-1__111-1"}, w.SearchOrders(""))
	assert.Equal(t, []string{"403-1__111-1"}, w.SearchOrders("403"))
	assert.Equal(t, []string{"403-1__111-1"}, w.SearchOrders("  403  "))
	assert.Empty(t, w.SearchOrders("999"))
}

func TestSearchOrders_CaseInsensitiveAndSorted(t *testing.T) {
	w := seededWorkflow(t)
	id := w.Orphans()[0].Id
	_, err := w.CreateOrder(id, "Manual-B2B")
	require.NoError(t, err)

	assert.Equal(t, []string{"Manual-B2B"}, w.SearchOrders("manual"))
	assert.Equal(t, []string{"403-1__111-1", "Manual-B2B"}, w.SearchOrders(""))
}

func TestLinkToExisting_Validation(t *testing.T) {
	w := seededWorkflow(t)

	_, err := w.LinkToExisting("", "NEW-1")
	assert.ErrorIs(t, err, ErrNoOrphanSelected)

	_, err = w.LinkToExisting("some-id", "   ")
	assert.ErrorIs(t, err, ErrEmptyOrderKey)
}

func TestLinkToExisting_StaleIsNotAnError(t *testing.T) {
	w := seededWorkflow(t)

	applied, err := w.LinkToExisting("no-such-event", "NEW-1")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestCreateOrder_TrimsKey(t *testing.T) {
	w := seededWorkflow(t)
	id := w.Orphans()[0].Id

	applied, err := w.CreateOrder(id, "  MANUAL-7  ")
	require.NoError(t, err)
	assert.True(t, applied)

	_, ok := w.Order("MANUAL-7")
	assert.True(t, ok)
}

func TestUnlink(t *testing.T) {
	w := seededWorkflow(t)
	thread, ok := w.Order("403-1__111-1")
	require.True(t, ok)
	eventID := thread.Events[0].Id

	applied, err := w.Unlink(eventID, "403-1__111-1")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Len(t, w.Orphans(), 2)
}

func TestSession_Commands(t *testing.T) {
	w := seededWorkflow(t)
	var out strings.Builder
	session := NewSession(w, &out)

	orphan := w.Orphans()[0].Id

	quit := session.Execute("orphans")
	assert.False(t, quit)
	assert.Contains(t, out.String(), orphan)

	out.Reset()
	session.Execute("link " + orphan + " NEW-1")
	assert.Contains(t, out.String(), "ok")
	_, ok := w.Order("NEW-1")
	assert.True(t, ok)

	out.Reset()
	session.Execute("unlink " + orphan + " NEW-1")
	assert.Contains(t, out.String(), "ok")
	_, ok = w.Order("NEW-1")
	assert.False(t, ok, "emptied order disappears")

	out.Reset()
	session.Execute("link stale-id NEW-2")
	assert.Contains(t, out.String(), "no-op")

	out.Reset()
	session.Execute("link")
	assert.Contains(t, out.String(), "usage:")

	out.Reset()
	session.Execute("bogus")
	assert.Contains(t, out.String(), "unknown command")

	assert.True(t, session.Execute("quit"))
}

func TestSession_RunStopsOnQuit(t *testing.T) {
	w := seededWorkflow(t)
	var out strings.Builder
	session := NewSession(w, &out)

	input := strings.NewReader("orders\nquit\norphans\n")
	require.NoError(t, session.Run(input))

	assert.Contains(t, out.String(), "403-1__111-1")
	assert.NotContains(t, out.String(), "no orphan events")
}
