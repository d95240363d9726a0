package formatter

import (
	"sort"

	"github.com/ordersight/ordersight/internal/core/model"
)

// OrderRow is the report projection of one order thread.
type OrderRow struct {
	OrderKey       string `json:"orderKey"`
	Events         int    `json:"events"`
	SalesEvents    int    `json:"salesEvents"`
	PurchaseEvents int    `json:"purchaseEvents"`
	FirstDate      string `json:"firstDate,omitempty"`
	LastDate       string `json:"lastDate,omitempty"`
}

// OrphanRow is the report projection of one orphan event.
type OrphanRow struct {
	Id       string `json:"id"`
	Category string `json:"category"`
	When     string `json:"when,omitempty"`
	OrderID  string `json:"orderId,omitempty"`
}

// Report is the renderable view of a timeline state.
type Report struct {
	Orders      []OrderRow  `json:"orders"`
	Orphans     []OrphanRow `json:"orphans"`
	TotalEvents int         `json:"totalEvents"`
	LastBuildAt int64       `json:"lastBuildAt"`
}

// Formatter renders a report to stdout.
type Formatter interface {
	Format(report *Report) error
}

// BuildReport projects a timeline state into report rows. Orders are sorted
// by key so output is stable across runs.
func BuildReport(state *model.TimelineState) *Report {
	report := &Report{
		Orders:      make([]OrderRow, 0, len(state.ByOrder)),
		Orphans:     make([]OrphanRow, 0, len(state.Orphans)),
		TotalEvents: state.EventCount(),
		LastBuildAt: state.LastBuildAt,
	}

	keys := make([]string, 0, len(state.ByOrder))
	for key := range state.ByOrder {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		thread := state.ByOrder[key]
		row := OrderRow{OrderKey: key, Events: len(thread.Events)}
		for _, ev := range thread.Events {
			switch ev.Category {
			case model.CategorySales:
				row.SalesEvents++
			case model.CategoryPurchase:
				row.PurchaseEvents++
			}
		}
		// Events are sorted by date; dated events sort after undated ones.
		if n := len(thread.Events); n > 0 {
			row.LastDate = thread.Events[n-1].When
			for _, ev := range thread.Events {
				if ev.When != "" {
					row.FirstDate = ev.When
					break
				}
			}
		}
		report.Orders = append(report.Orders, row)
	}

	for _, ev := range state.Orphans {
		report.Orphans = append(report.Orphans, OrphanRow{
			Id:       ev.Id,
			Category: string(ev.Category),
			When:     ev.When,
			OrderID:  ev.Raw.OrderID(),
		})
	}

	return report
}
