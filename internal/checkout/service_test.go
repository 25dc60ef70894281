package checkout

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
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  approved_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS delivery_zones (
  id TEXT PRIMARY KEY,
  zone TEXT NOT NULL UNIQUE,
  charge NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS master_orders (
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_address TEXT NOT NULL,
  delivery_zone_id TEXT NOT NULL,
  delivery_charge NUMERIC NOT NULL,
  items TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'processing',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS vendor_orders (
  id TEXT PRIMARY KEY,
  master_order_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  items TEXT NOT NULL,
  total_price NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'processing',
  customer_name TEXT,
  customer_phone TEXT,
  customer_address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type checkoutFixture struct {
	db      *gorm.DB
	svc     Service
	zone    *models.DeliveryZone
	vendorA *models.Vendor
	vendorB *models.Vendor
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db := setupCheckoutTestDB(t)
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)

	zone := &models.DeliveryZone{ID: uuid.New(), Zone: "Dhaka", Charge: dec("60.00")}
	require.NoError(t, db.Create(zone).Error)

	vendorA := seedCheckoutVendor(t, db, "a@example.com", enums.VendorStatusApproved)
	vendorB := seedCheckoutVendor(t, db, "b@example.com", enums.VendorStatusApproved)

	return &checkoutFixture{db: db, svc: svc, zone: zone, vendorA: vendorA, vendorB: vendorB}
}

func seedCheckoutVendor(t *testing.T, db *gorm.DB, email string, status enums.VendorStatus) *models.Vendor {
	t.Helper()

	vendor := &models.Vendor{
		ID:           uuid.New(),
		CompanyName:  "Vendor " + email,
		Email:        email,
		Phone:        "+8801700000000",
		PasswordHash: "hash",
		Status:       status,
	}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func seedCheckoutProduct(t *testing.T, db *gorm.DB, vendorID uuid.UUID, name, regular, sale string) *models.Product {
	t.Helper()

	var salePrice *decimal.Decimal
	if sale != "" {
		parsed := dec(sale)
		salePrice = &parsed
	}
	product := &models.Product{
		ID:           uuid.New(),
		VendorID:     vendorID,
		Name:         name,
		RegularPrice: dec(regular),
		SalePrice:    salePrice,
		IsActive:     true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestSubmitCreatesMasterOrderWithFanOut(t *testing.T) {
	f := newCheckoutFixture(t)
	pa := seedCheckoutProduct(t, f.db, f.vendorA.ID, "Panjabi", "500.00", "")
	pb := seedCheckoutProduct(t, f.db, f.vendorB.ID, "Saree", "4500.00", "4000.00")

	result, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerName:    "Rahim Uddin",
		CustomerPhone:   "+8801711111111",
		CustomerAddress: "House 7, Road 3, Dhanmondi",
		DeliveryZoneID:  f.zone.ID,
		Items: []CartItem{
			{ProductID: pa.ID, Quantity: 2},
			{ProductID: pb.ID, Quantity: 1, Variation: map[string]string{"color": "red"}},
		},
	})
	require.NoError(t, err)

	// Sale price wins over regular price in the frozen snapshot.
	master := result.MasterOrder
	assert.True(t, master.TotalAmount.Equal(dec("5060.00")), "total %s", master.TotalAmount)
	assert.True(t, master.DeliveryCharge.Equal(dec("60.00")))
	assert.Len(t, master.Items, 2)
	assert.Equal(t, enums.OrderStatusProcessing, master.Status)

	require.Len(t, result.VendorOrders, 2)
	byVendor := map[uuid.UUID]models.VendorOrder{}
	for _, vo := range result.VendorOrders {
		byVendor[vo.VendorID] = vo
	}
	assert.True(t, byVendor[f.vendorA.ID].TotalPrice.Equal(dec("1000.00")))
	assert.True(t, byVendor[f.vendorB.ID].TotalPrice.Equal(dec("4000.00")))
	assert.Empty(t, result.SkippedVendors)

	// Vendor totals sum to the item subtotal; the delivery charge stays on
	// the master order.
	sum := decimal.Zero
	for _, vo := range result.VendorOrders {
		sum = sum.Add(vo.TotalPrice)
		assert.Equal(t, master.CustomerPhone, vo.CustomerPhone)
		assert.Equal(t, enums.OrderStatusProcessing, vo.Status)
	}
	assert.True(t, master.TotalAmount.Equal(sum.Add(master.DeliveryCharge)))
}

func TestSubmitSkipsUnapprovedVendor(t *testing.T) {
	f := newCheckoutFixture(t)
	pending := seedCheckoutVendor(t, f.db, "pending@example.com", enums.VendorStatusPending)
	ok := seedCheckoutProduct(t, f.db, f.vendorA.ID, "OK", "100.00", "")
	blocked := seedCheckoutProduct(t, f.db, pending.ID, "Blocked", "200.00", "")

	result, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerName:    "Karim",
		CustomerPhone:   "+8801722222222",
		CustomerAddress: "Chattogram",
		DeliveryZoneID:  f.zone.ID,
		Items: []CartItem{
			{ProductID: ok.ID, Quantity: 1},
			{ProductID: blocked.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.VendorOrders, 1)
	assert.Equal(t, f.vendorA.ID, result.VendorOrders[0].VendorID)

	require.Len(t, result.SkippedVendors, 1)
	assert.Equal(t, pending.ID, result.SkippedVendors[0].VendorID)
	assert.Equal(t, VendorSkipReasonNotApproved, result.SkippedVendors[0].Reason)
	assert.Equal(t, 1, result.SkippedVendors[0].ItemCount)

	// The master order still records everything the customer bought.
	assert.Len(t, result.MasterOrder.Items, 2)
	assert.True(t, result.MasterOrder.TotalAmount.Equal(dec("760.00")))
}

func TestSubmitValidation(t *testing.T) {
	f := newCheckoutFixture(t)
	product := seedCheckoutProduct(t, f.db, f.vendorA.ID, "P", "100.00", "")

	valid := SubmitInput{
		CustomerName:    "Name",
		CustomerPhone:   "+88017",
		CustomerAddress: "Addr",
		DeliveryZoneID:  f.zone.ID,
		Items:           []CartItem{{ProductID: product.ID, Quantity: 1}},
	}

	cases := []struct {
		name   string
		mutate func(*SubmitInput)
	}{
		{"missing name", func(in *SubmitInput) { in.CustomerName = " " }},
		{"missing phone", func(in *SubmitInput) { in.CustomerPhone = "" }},
		{"missing address", func(in *SubmitInput) { in.CustomerAddress = "" }},
		{"missing zone", func(in *SubmitInput) { in.DeliveryZoneID = uuid.Nil }},
		{"empty cart", func(in *SubmitInput) { in.Items = nil }},
		{"zero quantity", func(in *SubmitInput) { in.Items = []CartItem{{ProductID: product.ID, Quantity: 0}} }},
		{"unknown zone", func(in *SubmitInput) { in.DeliveryZoneID = uuid.New() }},
		{"unknown product", func(in *SubmitInput) { in.Items = []CartItem{{ProductID: uuid.New(), Quantity: 1}} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			_, err := f.svc.Submit(context.Background(), input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestSubmitRejectsInactiveProduct(t *testing.T) {
	f := newCheckoutFixture(t)
	product := seedCheckoutProduct(t, f.db, f.vendorA.ID, "Gone", "100.00", "")
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error)

	_, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerName:    "Name",
		CustomerPhone:   "+88017",
		CustomerAddress: "Addr",
		DeliveryZoneID:  f.zone.ID,
		Items:           []CartItem{{ProductID: product.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// Nothing was persisted.
	var count int64
	require.NoError(t, f.db.Model(&models.MasterOrder{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetMasterOrderPreloadsVendorOrders(t *testing.T) {
	f := newCheckoutFixture(t)
	pa := seedCheckoutProduct(t, f.db, f.vendorA.ID, "A", "100.00", "")
	pb := seedCheckoutProduct(t, f.db, f.vendorB.ID, "B", "200.00", "")

	created, err := f.svc.Submit(context.Background(), SubmitInput{
		CustomerName:    "Name",
		CustomerPhone:   "+88017",
		CustomerAddress: "Addr",
		DeliveryZoneID:  f.zone.ID,
		Items: []CartItem{
			{ProductID: pa.ID, Quantity: 1},
			{ProductID: pb.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	loaded, err := f.svc.GetMasterOrder(context.Background(), created.MasterOrder.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.VendorOrders, 2)
}

func TestListDeliveryZones(t *testing.T) {
	f := newCheckoutFixture(t)
	require.NoError(t, f.db.Create(&models.DeliveryZone{ID: uuid.New(), Zone: "Barishal", Charge: dec("120.00")}).Error)

	zones, err := f.svc.ListDeliveryZones(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "Barishal", zones[0].Zone)
	assert.Equal(t, "Dhaka", zones[1].Zone)
}
