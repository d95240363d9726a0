package model

import (
	"sort"
	"strings"
)

// Field resolution orders for the heterogeneous marketplace exports.
// Identifier lookup takes the first non-empty value; date lookup takes the
// first column that is present at all.
var (
	orderIDFields = []string{"order-id", "Order ID", "id"}
	dateFields    = []string{"purchase-date", "order-date", "date", "timestamp"}
)

// OrderID resolves the row's order identifier: first non-empty value among
// the known identifier columns, matched case-insensitively.
func (r RawRow) OrderID() string {
	for _, field := range orderIDFields {
		if v, ok := r.Lookup(field); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Date resolves the row's event date: first known date column present in the
// row, even if its value is empty.
func (r RawRow) Date() string {
	for _, field := range dateFields {
		if v, ok := r.Lookup(field); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Lookup finds a column case-insensitively. An exact match wins; otherwise
// folded matches are tried in sorted key order so resolution is
// deterministic regardless of map iteration order.
func (r RawRow) Lookup(field string) (string, bool) {
	if v, ok := r[field]; ok {
		return v, true
	}
	var keys []string
	for k := range r {
		if strings.EqualFold(k, field) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)
	return r[keys[0]], true
}
