package model

// RawRow is one imported spreadsheet row: column name -> cell value.
// Rows are carried verbatim through the pipeline; only identifier fields
// are normalized before comparison.
type RawRow map[string]string

// EventCategory classifies a timeline event by the dataset it came from.
type EventCategory string

const (
	CategorySales        EventCategory = "sales"
	CategoryPurchase     EventCategory = "purchase"
	CategoryIntlShipment EventCategory = "intl_shipment"
	CategoryNatlShipment EventCategory = "natl_shipment"
	CategoryPayment      EventCategory = "payment"
	CategoryRefund       EventCategory = "refund"
	CategoryCancel       EventCategory = "cancel"
)

// TimelineEvent is a single record placed on an order thread or in the
// orphan pool. Id is stable within one build snapshot only.
type TimelineEvent struct {
	Id       string        `json:"id"`
	Category EventCategory `json:"category"`
	OrderKey string        `json:"orderKey,omitempty"` // empty for orphans
	When     string        `json:"when,omitempty"`     // ISO-ish date string, "" sorts first
	Raw      RawRow        `json:"raw"`
}

// GlueLink binds a sales order id to a purchase order id. Either side may be
// empty ("waiting" for its counterpart); both empty is dropped at import.
type GlueLink struct {
	SalesOrderID    string `json:"salesOrderId,omitempty"`
	PurchaseOrderID string `json:"purchaseOrderId,omitempty"`
	ASIN            string `json:"asin,omitempty"`
	Raw             RawRow `json:"raw,omitempty"`
}

// OrderThread is the ordered event history of one real-world order.
// Events are kept sorted ascending by When (string compare, "" first).
// A thread with zero events must never be stored.
type OrderThread struct {
	OrderKey string           `json:"orderKey"`
	Events   []*TimelineEvent `json:"events"`
}

// TimelineState is the full linked/orphan partition. Every event lives in
// exactly one place: some thread's Events, or Orphans.
type TimelineState struct {
	ByOrder     map[string]*OrderThread `json:"byOrder"`
	Orphans     []*TimelineEvent        `json:"orphans"`
	LastBuildAt int64                   `json:"lastBuildAt"` // Unix timestamp of the build
}

// NewTimelineState returns an empty partition.
func NewTimelineState() *TimelineState {
	return &TimelineState{
		ByOrder: make(map[string]*OrderThread),
		Orphans: make([]*TimelineEvent, 0),
	}
}

// EventCount returns the total number of events across both partitions.
func (s *TimelineState) EventCount() int {
	n := len(s.Orphans)
	for _, thread := range s.ByOrder {
		n += len(thread.Events)
	}
	return n
}

// FileEvent describes a change to a watched import file.
type FileEvent struct {
	Path      string
	Operation string
}
