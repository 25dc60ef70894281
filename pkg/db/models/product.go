package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents the live vendor listing. Orders never reference it
// directly; they carry frozen line-item snapshots instead. VendorPrice is the
// per-unit payout rate the settlement split reads at delivery time.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID     uuid.UUID        `gorm:"column:vendor_id;type:uuid;not null;index"`
	Name         string           `gorm:"column:name;not null"`
	Description  *string          `gorm:"column:description"`
	RegularPrice decimal.Decimal  `gorm:"column:regular_price;type:numeric(10,2);not null"`
	SalePrice    *decimal.Decimal `gorm:"column:sale_price;type:numeric(10,2)"`
	VendorPrice  *decimal.Decimal `gorm:"column:vendor_price;type:numeric(10,2)"`
	Colors       pq.StringArray   `gorm:"column:colors;type:text[]"`
	Sizes        pq.StringArray   `gorm:"column:sizes;type:text[]"`
	Weights      pq.StringArray   `gorm:"column:weights;type:text[]"`
	ImageURL     *string          `gorm:"column:image_url"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
