package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorFinancialSummary is the materialized running total per vendor,
// derived from the transaction ledger. One row per vendor, created lazily on
// first settlement. Every field is monotonically non-decreasing.
type VendorFinancialSummary struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID          uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex"`
	TotalRevenue      decimal.Decimal `gorm:"column:total_revenue;type:numeric(12,2);not null;default:0"`
	TotalVendorAmount decimal.Decimal `gorm:"column:total_vendor_amount;type:numeric(12,2);not null;default:0"`
	TotalAdminAmount  decimal.Decimal `gorm:"column:total_admin_amount;type:numeric(12,2);not null;default:0"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
