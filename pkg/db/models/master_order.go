package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	"github.com/mahirlabs/bazarika-backend/pkg/types"
)

// MasterOrder is the single customer-facing checkout record spanning
// potentially many vendors. Immutable after creation except for status.
type MasterOrder struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	CustomerPhone   string            `gorm:"column:customer_phone;not null;index"`
	CustomerAddress string            `gorm:"column:customer_address;not null"`
	DeliveryZoneID  uuid.UUID         `gorm:"column:delivery_zone_id;type:uuid;not null"`
	DeliveryCharge  decimal.Decimal   `gorm:"column:delivery_charge;type:numeric(10,2);not null"`
	Items           types.LineItems   `gorm:"column:items;type:jsonb;serializer:json"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'processing'"`
	VendorOrders    []VendorOrder     `gorm:"foreignKey:MasterOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
