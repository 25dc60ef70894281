package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
)

// DateRange bounds a transaction query; either side may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// LedgerTotals aggregates transaction amounts.
type LedgerTotals struct {
	Revenue      decimal.Decimal
	VendorAmount decimal.Decimal
	AdminAmount  decimal.Decimal
	Count        int64
}

// Repository defines read operations over the settlement ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindSummaryByVendorID(ctx context.Context, vendorID uuid.UUID) (*models.VendorFinancialSummary, error)
	ListTransactions(ctx context.Context, vendorID uuid.UUID, dateRange DateRange) ([]models.VendorFinancialTransaction, error)
	SumTransactions(ctx context.Context, vendorID uuid.UUID) (*LedgerTotals, error)
}
