package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/types"
)

// SkipReason explains why a line item contributed nothing to the vendor amount.
type SkipReason string

const (
	SkipReasonProductMissing SkipReason = "product_missing"
	SkipReasonVendorMismatch SkipReason = "vendor_mismatch"
	SkipReasonNoVendorPrice  SkipReason = "no_vendor_price"
)

// SkippedItem identifies one excluded line item and the reason.
type SkippedItem struct {
	ProductID uuid.UUID  `json:"product_id"`
	Name      string     `json:"name"`
	Reason    SkipReason `json:"reason"`
}

// Split is the revenue breakdown of one vendor order. OrderPrice always
// equals VendorAmount plus AdminAmount; AdminAmount may be negative when the
// catalog payout rates exceed what the customer paid.
type Split struct {
	OrderPrice   decimal.Decimal
	VendorAmount decimal.Decimal
	AdminAmount  decimal.Decimal
	Skipped      []SkippedItem
}

// ComputeSplit derives the vendor/admin breakdown of an order from the
// vendor's current catalog. The vendor amount is the sum of catalog
// VendorPrice times quantity over the resolvable items; items whose product
// is gone, belongs to another vendor, or carries no VendorPrice are skipped
// and reported. The admin amount is the remainder of the order price.
func ComputeSplit(vendorID uuid.UUID, orderPrice decimal.Decimal, items types.LineItems, catalog map[uuid.UUID]*models.Product) Split {
	split := Split{OrderPrice: orderPrice, VendorAmount: decimal.Zero}

	for _, item := range items {
		product, ok := catalog[item.ProductID]
		if !ok || product == nil {
			split.Skipped = append(split.Skipped, SkippedItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Reason:    SkipReasonProductMissing,
			})
			continue
		}
		if product.VendorID != vendorID {
			split.Skipped = append(split.Skipped, SkippedItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Reason:    SkipReasonVendorMismatch,
			})
			continue
		}
		if product.VendorPrice == nil {
			split.Skipped = append(split.Skipped, SkippedItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Reason:    SkipReasonNoVendorPrice,
			})
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		split.VendorAmount = split.VendorAmount.Add(product.VendorPrice.Mul(qty))
	}

	split.AdminAmount = split.OrderPrice.Sub(split.VendorAmount)
	return split
}
