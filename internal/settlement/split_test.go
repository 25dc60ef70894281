package settlement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func catalogProduct(vendorID uuid.UUID, vendorPrice *decimal.Decimal) *models.Product {
	return &models.Product{
		ID:           uuid.New(),
		VendorID:     vendorID,
		Name:         "test product",
		RegularPrice: dec("100.00"),
		VendorPrice:  vendorPrice,
	}
}

func TestComputeSplitSumsResolvableItems(t *testing.T) {
	vendorID := uuid.New()
	vp1 := dec("70.00")
	vp2 := dec("45.50")
	p1 := catalogProduct(vendorID, &vp1)
	p2 := catalogProduct(vendorID, &vp2)

	items := types.LineItems{
		{ProductID: p1.ID, VendorID: vendorID, UnitPrice: dec("100.00"), Quantity: 2},
		{ProductID: p2.ID, VendorID: vendorID, UnitPrice: dec("60.00"), Quantity: 1},
	}
	catalog := map[uuid.UUID]*models.Product{p1.ID: p1, p2.ID: p2}

	split := ComputeSplit(vendorID, dec("260.00"), items, catalog)

	assert.True(t, split.VendorAmount.Equal(dec("185.50")), "vendor amount %s", split.VendorAmount)
	assert.True(t, split.AdminAmount.Equal(dec("74.50")), "admin amount %s", split.AdminAmount)
	assert.True(t, split.OrderPrice.Equal(split.VendorAmount.Add(split.AdminAmount)))
	assert.Empty(t, split.Skipped)
}

func TestComputeSplitSkipReasons(t *testing.T) {
	vendorID := uuid.New()
	otherVendor := uuid.New()

	vp := dec("30.00")
	foreign := catalogProduct(otherVendor, &vp)
	unpriced := catalogProduct(vendorID, nil)
	missingID := uuid.New()

	items := types.LineItems{
		{ProductID: missingID, Name: "gone", Quantity: 1, UnitPrice: dec("10")},
		{ProductID: foreign.ID, Name: "foreign", Quantity: 1, UnitPrice: dec("10")},
		{ProductID: unpriced.ID, Name: "unpriced", Quantity: 1, UnitPrice: dec("10")},
	}
	catalog := map[uuid.UUID]*models.Product{foreign.ID: foreign, unpriced.ID: unpriced}

	split := ComputeSplit(vendorID, dec("30.00"), items, catalog)

	assert.True(t, split.VendorAmount.IsZero())
	assert.True(t, split.AdminAmount.Equal(dec("30.00")))
	require := map[uuid.UUID]SkipReason{
		missingID:   SkipReasonProductMissing,
		foreign.ID:  SkipReasonVendorMismatch,
		unpriced.ID: SkipReasonNoVendorPrice,
	}
	assert.Len(t, split.Skipped, 3)
	for _, skipped := range split.Skipped {
		assert.Equal(t, require[skipped.ProductID], skipped.Reason)
	}
}

func TestComputeSplitNegativeAdminAmount(t *testing.T) {
	vendorID := uuid.New()
	vp := dec("120.00")
	product := catalogProduct(vendorID, &vp)

	items := types.LineItems{
		{ProductID: product.ID, VendorID: vendorID, UnitPrice: dec("100.00"), Quantity: 1},
	}
	catalog := map[uuid.UUID]*models.Product{product.ID: product}

	split := ComputeSplit(vendorID, dec("100.00"), items, catalog)

	assert.True(t, split.AdminAmount.IsNegative())
	assert.True(t, split.OrderPrice.Equal(split.VendorAmount.Add(split.AdminAmount)))
}

func TestComputeSplitEmptyItems(t *testing.T) {
	split := ComputeSplit(uuid.New(), dec("0"), nil, nil)

	assert.True(t, split.VendorAmount.IsZero())
	assert.True(t, split.AdminAmount.IsZero())
	assert.Empty(t, split.Skipped)
}
