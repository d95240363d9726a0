package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SummaryFormatter prints high-level linking statistics instead of the full
// order table.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format renders the report to stdout.
func (f *SummaryFormatter) Format(report *Report) error {
	var linkedEvents, salesEvents, purchaseEvents, waiting int
	for _, row := range report.Orders {
		linkedEvents += row.Events
		salesEvents += row.SalesEvents
		purchaseEvents += row.PurchaseEvents
		if row.SalesEvents == 0 || row.PurchaseEvents == 0 {
			waiting++
		}
	}

	orphansByCategory := make(map[string]int)
	for _, orphan := range report.Orphans {
		orphansByCategory[orphan.Category]++
	}

	fmt.Println(strings.Repeat("=", 44))
	fmt.Println("Order Timeline Summary")
	fmt.Println(strings.Repeat("=", 44))
	if report.LastBuildAt > 0 {
		fmt.Printf("Built at:          %s\n", time.Unix(report.LastBuildAt, 0).Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Order threads:     %d\n", len(report.Orders))
	fmt.Printf("  waiting side:    %d\n", waiting)
	fmt.Printf("Linked events:     %d (%d sales, %d purchase)\n", linkedEvents, salesEvents, purchaseEvents)
	fmt.Printf("Orphan events:     %d\n", len(report.Orphans))

	categories := make([]string, 0, len(orphansByCategory))
	for c := range orphansByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Printf("  %-16s %d\n", c+":", orphansByCategory[c])
	}

	if report.TotalEvents > 0 {
		linkRate := float64(linkedEvents) / float64(report.TotalEvents) * 100
		fmt.Printf("Link rate:         %.1f%%\n", linkRate)
	}
	fmt.Println(strings.Repeat("=", 44))

	return nil
}
