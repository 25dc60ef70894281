package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is the frozen snapshot of a purchased catalog item. It is embedded
// in order rows as JSON rather than referencing the live catalog, so later
// product edits or deletions never change what the customer bought.
type LineItem struct {
	Name      string            `json:"name"`
	Image     string            `json:"image,omitempty"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	Variation map[string]string `json:"variation,omitempty"`
	VendorID  uuid.UUID         `json:"vendor_id"`
	ProductID uuid.UUID         `json:"product_id"`
}

// Subtotal returns unit price times quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineItems is the embedded item list of an order, persisted as a JSON column.
type LineItems []LineItem

// Subtotal sums the subtotals of all items.
func (l LineItems) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l {
		total = total.Add(item.Subtotal())
	}
	return total
}

// GroupByVendor splits the items by vendor id while preserving both the order
// in which vendors first appear and the item order within each group.
func (l LineItems) GroupByVendor() ([]uuid.UUID, map[uuid.UUID]LineItems) {
	order := make([]uuid.UUID, 0)
	groups := make(map[uuid.UUID]LineItems)
	for _, item := range l {
		if _, seen := groups[item.VendorID]; !seen {
			order = append(order, item.VendorID)
		}
		groups[item.VendorID] = append(groups[item.VendorID], item)
	}
	return order, groups
}
