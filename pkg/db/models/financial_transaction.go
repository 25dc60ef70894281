package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorFinancialTransaction is an append-only ledger row recording the
// revenue split of one delivered vendor order. The unique index on OrderID is
// the at-most-once settlement guarantee; OrderPrice always equals
// VendorAmount plus AdminAmount.
type VendorFinancialTransaction struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SummaryID       uuid.UUID       `gorm:"column:summary_id;type:uuid;not null;index"`
	VendorID        uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null;index"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_financial_transactions_order_id"`
	OrderPrice      decimal.Decimal `gorm:"column:order_price;type:numeric(10,2);not null"`
	VendorAmount    decimal.Decimal `gorm:"column:vendor_amount;type:numeric(10,2);not null"`
	AdminAmount     decimal.Decimal `gorm:"column:admin_amount;type:numeric(10,2);not null"`
	TransactionDate time.Time       `gorm:"column:transaction_date;autoCreateTime"`
}
