package checkout

import (
	"github.com/google/uuid"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
)

// VendorSkipReason explains why a vendor group produced no vendor order.
type VendorSkipReason string

const (
	VendorSkipReasonUnknown     VendorSkipReason = "vendor_unknown"
	VendorSkipReasonNotApproved VendorSkipReason = "vendor_not_approved"
)

// SkippedVendor reports one vendor group dropped during fan-out.
type SkippedVendor struct {
	VendorID  uuid.UUID        `json:"vendor_id"`
	Reason    VendorSkipReason `json:"reason"`
	ItemCount int              `json:"item_count"`
}

// fanOut splits a master order's items into per-vendor sub-orders. Vendor
// groups whose vendor record is missing or not approved are dropped and
// reported rather than failing the checkout; the master order keeps the full
// item list either way. Vendor order totals cover that vendor's items only,
// the delivery charge is never allocated.
func fanOut(master *models.MasterOrder, vendorsByID map[uuid.UUID]*models.Vendor) ([]models.VendorOrder, []SkippedVendor) {
	vendorIDs, groups := master.Items.GroupByVendor()

	orders := make([]models.VendorOrder, 0, len(vendorIDs))
	var skipped []SkippedVendor

	for _, vendorID := range vendorIDs {
		items := groups[vendorID]

		vendor, ok := vendorsByID[vendorID]
		if !ok || vendor == nil {
			skipped = append(skipped, SkippedVendor{
				VendorID:  vendorID,
				Reason:    VendorSkipReasonUnknown,
				ItemCount: len(items),
			})
			continue
		}
		if vendor.Status != enums.VendorStatusApproved {
			skipped = append(skipped, SkippedVendor{
				VendorID:  vendorID,
				Reason:    VendorSkipReasonNotApproved,
				ItemCount: len(items),
			})
			continue
		}

		orders = append(orders, models.VendorOrder{
			ID:              uuid.New(),
			MasterOrderID:   master.ID,
			VendorID:        vendorID,
			Items:           items,
			TotalPrice:      items.Subtotal(),
			Status:          enums.OrderStatusProcessing,
			CustomerName:    master.CustomerName,
			CustomerPhone:   master.CustomerPhone,
			CustomerAddress: master.CustomerAddress,
		})
	}

	return orders, skipped
}
