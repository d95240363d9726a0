package glue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersight/ordersight/internal/core/model"
)

func glueRow(sales, asin, purchase string) model.RawRow {
	return model.RawRow{
		"Seller Central Amazon.in": sales,
		"ASIN":                     asin,
		"Amazon.com":               purchase,
	}
}

var glueHeaders = []string{"Seller Central Amazon.in", "ASIN", "Amazon.com"}

func TestImport_Basic(t *testing.T) {
	result, err := Import(glueHeaders, []model.RawRow{
		glueRow("403-1", "B01N5IB20Q", "111-1"),
		glueRow("403-2", "", "111-2"),
	})
	require.NoError(t, err)

	require.Len(t, result.Links, 2)
	assert.Equal(t, "403-1", result.Links[0].SalesOrderID)
	assert.Equal(t, "111-1", result.Links[0].PurchaseOrderID)
	assert.Equal(t, "B01N5IB20Q", result.Links[0].ASIN)
	assert.Equal(t, 2, result.Diagnostics.Imported)
}

func TestImport_NoRecognizedHeaders(t *testing.T) {
	headers := []string{"Shipping Address", "Notes"}
	_, err := Import(headers, []model.RawRow{{"Shipping Address": "x", "Notes": "y"}})

	var noHeader *NoHeaderError
	require.True(t, errors.As(err, &noHeader))
	assert.Equal(t, headers, noHeader.Headers)
	assert.Contains(t, noHeader.Error(), "Shipping Address")
}

func TestImport_NormalizesDashVariants(t *testing.T) {
	result, err := Import(glueHeaders, []model.RawRow{
		glueRow("403–1234567–1234567", "", "111—2"),
	})
	require.NoError(t, err)

	require.Len(t, result.Links, 1)
	assert.Equal(t, "403-1234567-1234567", result.Links[0].SalesOrderID)
	assert.Equal(t, "111-2", result.Links[0].PurchaseOrderID)
}

func TestImport_DropsEmptyRows(t *testing.T) {
	result, err := Import(glueHeaders, []model.RawRow{
		glueRow("", "", ""),
		glueRow("  ", "B01N5IB20Q", "  "),
		glueRow("403-1", "", ""),
	})
	require.NoError(t, err)

	// A product id alone carries no linkable information.
	require.Len(t, result.Links, 1)
	assert.Equal(t, "403-1", result.Links[0].SalesOrderID)
	assert.Equal(t, 2, result.Diagnostics.EmptyRows)
}

func TestImport_OneSidedLinksKept(t *testing.T) {
	result, err := Import(glueHeaders, []model.RawRow{
		glueRow("403-1", "", ""),
		glueRow("", "", "111-1"),
	})
	require.NoError(t, err)

	require.Len(t, result.Links, 2)
	assert.Empty(t, result.Links[0].PurchaseOrderID)
	assert.Empty(t, result.Links[1].SalesOrderID)
}

func TestImport_DedupFirstWins(t *testing.T) {
	result, err := Import(glueHeaders, []model.RawRow{
		glueRow("403-1", "B01N5IB20Q", "111-1"),
		glueRow("403-1", "B07XJ8C8F5", "111-1"), // duplicate pair, dropped
		glueRow("403-1", "", "111-2"),           // different pair, kept
	})
	require.NoError(t, err)

	require.Len(t, result.Links, 2)
	assert.Equal(t, "B01N5IB20Q", result.Links[0].ASIN, "earliest provenance wins")
	assert.Equal(t, "111-2", result.Links[1].PurchaseOrderID)
	assert.Equal(t, 1, result.Diagnostics.Duplicates)
}

func TestImport_ProductIDFallbackColumns(t *testing.T) {
	headers := []string{"Order ID", "Product"}
	result, err := Import(headers, []model.RawRow{
		{"Order ID": "403-1", "Product": "Widget B01N5IB20Q blue"},
	})
	require.NoError(t, err)

	require.Len(t, result.Links, 1)
	assert.Equal(t, "B01N5IB20Q", result.Links[0].ASIN)
}

func TestImport_MissingColumnYieldsNoProductID(t *testing.T) {
	headers := []string{"Order ID"}
	result, err := Import(headers, []model.RawRow{{"Order ID": "403-1"}})
	require.NoError(t, err)

	require.Len(t, result.Links, 1)
	assert.Empty(t, result.Links[0].ASIN)
}
