package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/ordersight/ordersight/internal/util"
)

// TableFormatter renders the order threads as a bordered terminal table,
// followed by an orphan summary line.
type TableFormatter struct {
	headers []string
}

// NewTableFormatter creates a table formatter with the standard columns.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Order Key", "Events", "Sales", "Purchases", "First Date", "Last Date"},
	}
}

// Format renders the report to stdout.
func (f *TableFormatter) Format(report *Report) error {
	widths := f.calculateColumnWidths(report)

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")

	var totalEvents, totalSales, totalPurchases int
	for _, row := range report.Orders {
		f.printRow(f.rowCells(row, widths[0]), widths)
		totalEvents += row.Events
		totalSales += row.SalesEvents
		totalPurchases += row.PurchaseEvents
	}

	f.printBorder(widths, "middle")
	f.printRow([]string{
		"Total",
		util.FormatCount(totalEvents),
		util.FormatCount(totalSales),
		util.FormatCount(totalPurchases),
		"", "",
	}, widths)
	f.printBorder(widths, "bottom")

	fmt.Printf("Orders: %d   Orphan events: %d\n", len(report.Orders), len(report.Orphans))
	return nil
}

func (f *TableFormatter) rowCells(row OrderRow, keyWidth int) []string {
	return []string{
		util.Truncate(row.OrderKey, keyWidth),
		util.FormatCount(row.Events),
		util.FormatCount(row.SalesEvents),
		util.FormatCount(row.PurchaseEvents),
		row.FirstDate,
		row.LastDate,
	}
}

// calculateColumnWidths sizes each column to its widest cell, then clamps
// the order-key column so the table fits the terminal.
func (f *TableFormatter) calculateColumnWidths(report *Report) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = runewidth.StringWidth(header)
	}

	for _, row := range report.Orders {
		cells := f.rowCells(row, 1<<20)
		for i, cell := range cells {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// Borders and separators: "| " + " | "*(n-1) + " |"
	overhead := 3*len(widths) + 1
	total := overhead
	for _, w := range widths {
		total += w
	}

	if termWidth, ok := terminalWidth(); ok && total > termWidth {
		excess := total - termWidth
		minKeyWidth := runewidth.StringWidth(f.headers[0])
		if widths[0]-excess >= minKeyWidth {
			widths[0] -= excess
		} else {
			widths[0] = minKeyWidth
		}
	}

	return widths
}

func terminalWidth() (int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}

func (f *TableFormatter) printBorder(widths []int, _ string) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	fmt.Println("+" + strings.Join(parts, "+") + "+")
}

func (f *TableFormatter) printRow(cells []string, widths []int) {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		pad := widths[i] - runewidth.StringWidth(cell)
		if pad < 0 {
			pad = 0
		}
		padded[i] = cell + strings.Repeat(" ", pad)
	}
	fmt.Println("| " + strings.Join(padded, " | ") + " |")
}
