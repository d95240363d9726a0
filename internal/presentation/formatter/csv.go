package formatter

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVFormatter renders the order rows as CSV for spreadsheet import.
type CSVFormatter struct{}

// NewCSVFormatter creates a new CSVFormatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format renders the report to stdout. Orphans follow the orders with an
// empty order-key column.
func (f *CSVFormatter) Format(report *Report) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{"Order Key", "Events", "Sales", "Purchases", "First Date", "Last Date"}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range report.Orders {
		record := []string{
			row.OrderKey,
			fmt.Sprintf("%d", row.Events),
			fmt.Sprintf("%d", row.SalesEvents),
			fmt.Sprintf("%d", row.PurchaseEvents),
			row.FirstDate,
			row.LastDate,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	// Orphans trail the orders, one per line, marked in the key column.
	for _, orphan := range report.Orphans {
		record := []string{
			"(orphan) " + orphan.Id,
			"1",
			orphan.Category,
			orphan.OrderID,
			orphan.When,
			orphan.When,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
