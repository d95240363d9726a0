// Package schema maps free-form spreadsheet column headers onto the fixed set
// of semantic roles the glue importer understands.
package schema

import "strings"

// Role is the semantic meaning of a glue-file column.
type Role string

const (
	RoleSalesOrderID    Role = "salesOrderId"
	RolePurchaseOrderID Role = "purchaseOrderId"
	RoleASIN            Role = "asin"
)

// roleMappings maps cleaned header tokens to roles. Closed enumeration:
// supporting a new marketplace export means adding entries here.
var roleMappings = map[string]Role{
	// Sales side
	"sellercentralamazonin": RoleSalesOrderID,
	"sellercentral":         RoleSalesOrderID,
	"amazonin":              RoleSalesOrderID,
	"orderid":               RoleSalesOrderID,
	"salesorderid":          RoleSalesOrderID,
	"salesorder":            RoleSalesOrderID,
	"flipkart":              RoleSalesOrderID,
	"meesho":                RoleSalesOrderID,

	// Purchase side
	"amazoncom":       RolePurchaseOrderID,
	"purchaseorderid": RolePurchaseOrderID,
	"purchaseorder":   RolePurchaseOrderID,
	"poid":            RolePurchaseOrderID,
	"supplierorderid": RolePurchaseOrderID,
	"ebaycom":         RolePurchaseOrderID,
	"walmartcom":      RolePurchaseOrderID,

	// Product identifier
	"asin":      RoleASIN,
	"sku":       RoleASIN,
	"sellersku": RoleASIN,
	"productid": RoleASIN,
	"fnsku":     RoleASIN,
}

// CanonicalizeHeader resolves one raw header to its role. Headers are cleaned
// by lower-casing and stripping dots, spaces and ASCII hyphens before the
// table lookup. Unknown headers return ok=false and are ignored upstream.
func CanonicalizeHeader(header string) (Role, bool) {
	role, ok := roleMappings[cleanHeader(header)]
	return role, ok
}

// ResolveRoles maps every recognizable header in the list to its role,
// keeping the first header claiming each role.
func ResolveRoles(headers []string) map[string]Role {
	resolved := make(map[string]Role, len(headers))
	claimed := make(map[Role]bool, 3)
	for _, h := range headers {
		role, ok := CanonicalizeHeader(h)
		if !ok || claimed[role] {
			continue
		}
		resolved[h] = role
		claimed[role] = true
	}
	return resolved
}

func cleanHeader(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}
