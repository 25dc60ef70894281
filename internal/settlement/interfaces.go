package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
)

// Repository defines persistence operations for the settlement ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindTransactionByOrderID(ctx context.Context, orderID uuid.UUID) (*models.VendorFinancialTransaction, error)
	CreateTransaction(ctx context.Context, txn *models.VendorFinancialTransaction) (*models.VendorFinancialTransaction, error)
	FindSummaryByVendorID(ctx context.Context, vendorID uuid.UUID) (*models.VendorFinancialSummary, error)
	CreateSummary(ctx context.Context, summary *models.VendorFinancialSummary) (*models.VendorFinancialSummary, error)
	IncrementSummary(ctx context.Context, summaryID uuid.UUID, revenue, vendorAmount, adminAmount decimal.Decimal) error
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}
