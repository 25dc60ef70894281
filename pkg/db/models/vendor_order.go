package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	"github.com/mahirlabs/bazarika-backend/pkg/types"
)

// VendorOrder is the per-vendor fragment of a MasterOrder: the unit of
// fulfillment and settlement. TotalPrice covers this vendor's items only;
// the delivery charge stays on the master order. Customer contact fields are
// copied from the master order so the vendor view needs no join.
type VendorOrder struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MasterOrderID   uuid.UUID         `gorm:"column:master_order_id;type:uuid;not null;index"`
	VendorID        uuid.UUID         `gorm:"column:vendor_id;type:uuid;not null;index"`
	Items           types.LineItems   `gorm:"column:items;type:jsonb;serializer:json"`
	TotalPrice      decimal.Decimal   `gorm:"column:total_price;type:numeric(10,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'processing'"`
	CustomerName    string            `gorm:"column:customer_name"`
	CustomerPhone   string            `gorm:"column:customer_phone"`
	CustomerAddress string            `gorm:"column:customer_address"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
