// Package glue imports the manually curated cross-reference file binding
// sales order ids to purchase order ids.
package glue

import (
	"fmt"
	"strings"

	"github.com/ordersight/ordersight/internal/core/ident"
	"github.com/ordersight/ordersight/internal/core/model"
	"github.com/ordersight/ordersight/internal/core/schema"
	"github.com/ordersight/ordersight/internal/util"
)

// Fallback columns consulted for a product id when no header resolved to the
// ASIN role. The product description column is last because extraction from
// free text is the least reliable.
var productFallbackColumns = []string{"product-identifier", "sku", "product", "product-name", "item-name"}

// NoHeaderError reports a glue file whose headers resolve to no known role.
// It carries the literal headers seen so the user can fix column naming.
type NoHeaderError struct {
	Headers []string
}

func (e *NoHeaderError) Error() string {
	return fmt.Sprintf("no recognized headers in glue file (seen: %s)", strings.Join(e.Headers, ", "))
}

// Diagnostics summarizes one import pass.
type Diagnostics struct {
	TotalRows  int `json:"totalRows"`
	Imported   int `json:"imported"`
	EmptyRows  int `json:"emptyRows"`  // both ids blank after normalization
	Duplicates int `json:"duplicates"` // dropped, first occurrence wins
}

// Result is the outcome of importing one glue file.
type Result struct {
	Links       []model.GlueLink `json:"links"`
	Diagnostics Diagnostics      `json:"diagnostics"`
}

// Import builds glue links from parsed file rows. headers is the file's
// header row in column order. At least one column must resolve to the sales
// or purchase order-id role, otherwise a *NoHeaderError is returned.
//
// Rows with both ids empty are dropped; duplicate (sales, purchase) pairs
// keep their earliest occurrence. The input rows are never mutated.
func Import(headers []string, rows []model.RawRow) (*Result, error) {
	roles := schema.ResolveRoles(headers)

	var salesCol, purchaseCol, asinCol string
	for header, role := range roles {
		switch role {
		case schema.RoleSalesOrderID:
			salesCol = header
		case schema.RolePurchaseOrderID:
			purchaseCol = header
		case schema.RoleASIN:
			asinCol = header
		}
	}
	if salesCol == "" && purchaseCol == "" {
		return nil, &NoHeaderError{Headers: headers}
	}

	result := &Result{Links: make([]model.GlueLink, 0, len(rows))}
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		result.Diagnostics.TotalRows++

		salesID := ident.NormalizeID(row[salesCol])
		purchaseID := ident.NormalizeID(row[purchaseCol])
		if salesID == "" && purchaseID == "" {
			result.Diagnostics.EmptyRows++
			continue
		}

		pair := salesID + "\x00" + purchaseID
		if seen[pair] {
			result.Diagnostics.Duplicates++
			continue
		}
		seen[pair] = true

		result.Links = append(result.Links, model.GlueLink{
			SalesOrderID:    salesID,
			PurchaseOrderID: purchaseID,
			ASIN:            resolveProductID(row, asinCol),
			Raw:             row,
		})
		result.Diagnostics.Imported++
	}

	util.LogDebug(fmt.Sprintf("Glue import: %d rows, %d links, %d empty, %d duplicates",
		result.Diagnostics.TotalRows, result.Diagnostics.Imported,
		result.Diagnostics.EmptyRows, result.Diagnostics.Duplicates))

	return result, nil
}

// resolveProductID extracts a product id from the ASIN-role column when one
// was recognized, falling back to the common product columns otherwise.
func resolveProductID(row model.RawRow, asinCol string) string {
	if asinCol != "" {
		if id, ok := ident.ExtractProductID(row[asinCol]); ok {
			return id
		}
	}
	for _, col := range productFallbackColumns {
		if v, ok := row.Lookup(col); ok {
			if id, ok := ident.ExtractProductID(v); ok {
				return id
			}
		}
	}
	return ""
}
