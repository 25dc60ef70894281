package settlement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/types"
)

func setupSettlementTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  regular_price NUMERIC NOT NULL,
  sale_price NUMERIC,
  vendor_price NUMERIC,
  colors TEXT,
  sizes TEXT,
  weights TEXT,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	summaries := `
CREATE TABLE IF NOT EXISTS vendor_financial_summaries (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL UNIQUE,
  total_revenue NUMERIC NOT NULL DEFAULT 0,
  total_vendor_amount NUMERIC NOT NULL DEFAULT 0,
  total_admin_amount NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	transactions := `
CREATE TABLE IF NOT EXISTS vendor_financial_transactions (
  id TEXT PRIMARY KEY,
  summary_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  order_id TEXT NOT NULL UNIQUE,
  order_price NUMERIC NOT NULL,
  vendor_amount NUMERIC NOT NULL,
  admin_amount NUMERIC NOT NULL,
  transaction_date DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(summaries).Error)
	require.NoError(t, db.Exec(transactions).Error)
	return db
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, vendorID uuid.UUID, vendorPrice string) *models.Product {
	t.Helper()

	var vp *decimal.Decimal
	if vendorPrice != "" {
		parsed := dec(vendorPrice)
		vp = &parsed
	}
	product := &models.Product{
		ID:           uuid.New(),
		VendorID:     vendorID,
		Name:         "catalog item",
		RegularPrice: dec("100.00"),
		VendorPrice:  vp,
		IsActive:     true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func deliveredOrder(vendorID uuid.UUID, total string, items types.LineItems) *models.VendorOrder {
	return &models.VendorOrder{
		ID:            uuid.New(),
		MasterOrderID: uuid.New(),
		VendorID:      vendorID,
		Items:         items,
		TotalPrice:    dec(total),
	}
}

func newSettlementService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), nil)
	require.NoError(t, err)
	return svc
}

func TestSettleRecordsTransactionAndSummary(t *testing.T) {
	db := setupSettlementTestDB(t)
	svc := newSettlementService(t, db)
	vendorID := uuid.New()
	product := seedCatalogProduct(t, db, vendorID, "70.00")

	order := deliveredOrder(vendorID, "200.00", types.LineItems{
		{ProductID: product.ID, VendorID: vendorID, UnitPrice: dec("100.00"), Quantity: 2},
	})

	result, err := svc.Settle(context.Background(), db, order)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSettled, result.Outcome)
	require.NotNil(t, result.Transaction)
	assert.True(t, result.Transaction.OrderPrice.Equal(dec("200.00")))
	assert.True(t, result.Transaction.VendorAmount.Equal(dec("140.00")))
	assert.True(t, result.Transaction.AdminAmount.Equal(dec("60.00")))
	assert.Empty(t, result.Skipped)

	var summary models.VendorFinancialSummary
	require.NoError(t, db.Where("vendor_id = ?", vendorID).First(&summary).Error)
	assert.True(t, summary.TotalRevenue.Equal(dec("200.00")))
	assert.True(t, summary.TotalVendorAmount.Equal(dec("140.00")))
	assert.True(t, summary.TotalAdminAmount.Equal(dec("60.00")))
}

func TestSettleIsIdempotentPerOrder(t *testing.T) {
	db := setupSettlementTestDB(t)
	svc := newSettlementService(t, db)
	vendorID := uuid.New()
	product := seedCatalogProduct(t, db, vendorID, "70.00")

	order := deliveredOrder(vendorID, "100.00", types.LineItems{
		{ProductID: product.ID, VendorID: vendorID, UnitPrice: dec("100.00"), Quantity: 1},
	})

	first, err := svc.Settle(context.Background(), db, order)
	require.NoError(t, err)
	require.Equal(t, OutcomeSettled, first.Outcome)

	second, err := svc.Settle(context.Background(), db, order)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadySettled, second.Outcome)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)

	var count int64
	require.NoError(t, db.Model(&models.VendorFinancialTransaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Summary totals must not double count.
	var summary models.VendorFinancialSummary
	require.NoError(t, db.Where("vendor_id = ?", vendorID).First(&summary).Error)
	assert.True(t, summary.TotalRevenue.Equal(dec("100.00")))
}

func TestSettleAccumulatesAcrossOrders(t *testing.T) {
	db := setupSettlementTestDB(t)
	svc := newSettlementService(t, db)
	vendorID := uuid.New()
	product := seedCatalogProduct(t, db, vendorID, "50.00")

	for i := 0; i < 3; i++ {
		order := deliveredOrder(vendorID, "80.00", types.LineItems{
			{ProductID: product.ID, VendorID: vendorID, UnitPrice: dec("80.00"), Quantity: 1},
		})
		_, err := svc.Settle(context.Background(), db, order)
		require.NoError(t, err)
	}

	var summary models.VendorFinancialSummary
	require.NoError(t, db.Where("vendor_id = ?", vendorID).First(&summary).Error)
	assert.True(t, summary.TotalRevenue.Equal(dec("240.00")))
	assert.True(t, summary.TotalVendorAmount.Equal(dec("150.00")))
	assert.True(t, summary.TotalAdminAmount.Equal(dec("90.00")))

	var count int64
	require.NoError(t, db.Model(&models.VendorFinancialTransaction{}).Where("summary_id = ?", summary.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestSettleSkipsUnresolvableItems(t *testing.T) {
	db := setupSettlementTestDB(t)
	svc := newSettlementService(t, db)
	vendorID := uuid.New()
	priced := seedCatalogProduct(t, db, vendorID, "40.00")
	unpriced := seedCatalogProduct(t, db, vendorID, "")

	order := deliveredOrder(vendorID, "150.00", types.LineItems{
		{ProductID: priced.ID, VendorID: vendorID, Name: "priced", UnitPrice: dec("75.00"), Quantity: 1},
		{ProductID: unpriced.ID, VendorID: vendorID, Name: "unpriced", UnitPrice: dec("50.00"), Quantity: 1},
		{ProductID: uuid.New(), VendorID: vendorID, Name: "deleted", UnitPrice: dec("25.00"), Quantity: 1},
	})

	result, err := svc.Settle(context.Background(), db, order)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSettled, result.Outcome)
	assert.True(t, result.Transaction.VendorAmount.Equal(dec("40.00")))
	assert.True(t, result.Transaction.AdminAmount.Equal(dec("110.00")))
	assert.Len(t, result.Skipped, 2)

	reasons := map[SkipReason]bool{}
	for _, skipped := range result.Skipped {
		reasons[skipped.Reason] = true
	}
	assert.True(t, reasons[SkipReasonNoVendorPrice])
	assert.True(t, reasons[SkipReasonProductMissing])
}

func TestSettleUsesCurrentVendorPrice(t *testing.T) {
	db := setupSettlementTestDB(t)
	svc := newSettlementService(t, db)
	vendorID := uuid.New()
	product := seedCatalogProduct(t, db, vendorID, "70.00")

	// The payout rate changed between checkout and delivery; settlement
	// reads the catalog at delivery time.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("vendor_price", dec("95.00")).Error)

	order := deliveredOrder(vendorID, "100.00", types.LineItems{
		{ProductID: product.ID, VendorID: vendorID, UnitPrice: dec("100.00"), Quantity: 1},
	})

	result, err := svc.Settle(context.Background(), db, order)
	require.NoError(t, err)
	assert.True(t, result.Transaction.VendorAmount.Equal(dec("95.00")))
	assert.True(t, result.Transaction.AdminAmount.Equal(dec("5.00")))
}

func TestSettleValidation(t *testing.T) {
	db := setupSettlementTestDB(t)
	svc := newSettlementService(t, db)

	_, err := svc.Settle(context.Background(), db, nil)
	require.Error(t, err)

	_, err = svc.Settle(context.Background(), db, &models.VendorOrder{ID: uuid.New()})
	require.Error(t, err)
}
