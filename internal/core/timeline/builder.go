// Package timeline partitions imported sales and purchase rows into linked
// order threads and an orphan pool, driven by glue links.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/ordersight/ordersight/internal/core/ident"
	"github.com/ordersight/ordersight/internal/core/model"
	"github.com/ordersight/ordersight/internal/util"
)

// missingSide stands in for an absent id when composing an order key.
const missingSide = "NA"

// OrderKey composes the builder's thread key for a glue link.
func OrderKey(salesID, purchaseID string) string {
	if salesID == "" {
		salesID = missingSide
	}
	if purchaseID == "" {
		purchaseID = missingSide
	}
	return salesID + "__" + purchaseID
}

// dataset indexes one imported row slice by normalized order id. Buckets
// preserve input order so rebuilds are deterministic.
type dataset struct {
	rows     []model.RawRow
	category model.EventCategory
	buckets  map[string][]int // normalized id -> row indices
	ids      []string         // normalized id per row
	consumed []bool
}

func indexRows(rows []model.RawRow, category model.EventCategory) *dataset {
	d := &dataset{
		rows:     rows,
		category: category,
		buckets:  make(map[string][]int, len(rows)),
		ids:      make([]string, len(rows)),
		consumed: make([]bool, len(rows)),
	}
	for i, row := range rows {
		id := ident.NormalizeID(row.OrderID())
		d.ids[i] = id
		if id != "" {
			d.buckets[id] = append(d.buckets[id], i)
		}
	}
	return d
}

// claim consumes every not-yet-consumed row under the given id and returns
// their indices. Rows already claimed by an earlier glue link stay with the
// thread that claimed them first.
func (d *dataset) claim(id string) []int {
	if id == "" {
		return nil
	}
	var claimed []int
	for _, idx := range d.buckets[id] {
		if d.consumed[idx] {
			continue
		}
		d.consumed[idx] = true
		claimed = append(claimed, idx)
	}
	return claimed
}

func (d *dataset) event(idx int) *model.TimelineEvent {
	return &model.TimelineEvent{
		Id:       fmt.Sprintf("%s-%s-%d", d.category, d.ids[idx], idx),
		Category: d.category,
		When:     d.rows[idx].Date(),
		Raw:      d.rows[idx],
	}
}

// Build computes a fresh partition from scratch. It is a pure function of
// its inputs (modulo LastBuildAt): identical row slices and links always
// yield an identical partition, with tie ordering inherited from input order.
//
// A glue link with data on neither side is discarded. A link with data on
// only one side still forms a thread — it is waiting for its counterpart.
func Build(salesRows, purchaseRows []model.RawRow, links []model.GlueLink) *model.TimelineState {
	state := model.NewTimelineState()
	sales := indexRows(salesRows, model.CategorySales)
	purchases := indexRows(purchaseRows, model.CategoryPurchase)

	discarded := 0
	for _, link := range links {
		salesID := ident.NormalizeID(link.SalesOrderID)
		purchaseID := ident.NormalizeID(link.PurchaseOrderID)
		if salesID == "" && purchaseID == "" {
			discarded++
			continue
		}

		salesIdx := sales.claim(salesID)
		purchaseIdx := purchases.claim(purchaseID)
		if len(salesIdx) == 0 && len(purchaseIdx) == 0 {
			// No data to connect; glue files routinely reference rows that
			// have not been imported yet.
			discarded++
			continue
		}

		key := OrderKey(salesID, purchaseID)
		thread, ok := state.ByOrder[key]
		if !ok {
			thread = &model.OrderThread{OrderKey: key}
			state.ByOrder[key] = thread
		}
		for _, idx := range salesIdx {
			ev := sales.event(idx)
			ev.OrderKey = key
			thread.Events = append(thread.Events, ev)
		}
		for _, idx := range purchaseIdx {
			ev := purchases.event(idx)
			ev.OrderKey = key
			thread.Events = append(thread.Events, ev)
		}
	}

	for _, thread := range state.ByOrder {
		SortEvents(thread.Events)
	}

	for _, d := range []*dataset{sales, purchases} {
		for i := range d.rows {
			if !d.consumed[i] {
				state.Orphans = append(state.Orphans, d.event(i))
			}
		}
	}

	state.LastBuildAt = time.Now().Unix()

	util.LogDebug(fmt.Sprintf("Timeline build: %d links (%d discarded), %d threads, %d orphans",
		len(links), discarded, len(state.ByOrder), len(state.Orphans)))

	return state
}

// SortEvents orders events ascending by When under plain string comparison.
// A missing date compares as the empty string and therefore sorts first. The
// sort is stable so ties keep their original order.
func SortEvents(events []*model.TimelineEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].When < events[j].When
	})
}
