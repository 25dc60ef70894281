package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a finance repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindSummaryByVendorID(ctx context.Context, vendorID uuid.UUID) (*models.VendorFinancialSummary, error) {
	var summary models.VendorFinancialSummary
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *repository) ListTransactions(ctx context.Context, vendorID uuid.UUID, dateRange DateRange) ([]models.VendorFinancialTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("transaction_date DESC, id DESC")
	if dateRange.From != nil {
		query = query.Where("transaction_date >= ?", *dateRange.From)
	}
	if dateRange.To != nil {
		query = query.Where("transaction_date < ?", *dateRange.To)
	}

	var out []models.VendorFinancialTransaction
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) SumTransactions(ctx context.Context, vendorID uuid.UUID) (*LedgerTotals, error) {
	var row struct {
		Revenue      decimal.NullDecimal
		VendorAmount decimal.NullDecimal
		AdminAmount  decimal.NullDecimal
		Count        int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.VendorFinancialTransaction{}).
		Select(
			"COALESCE(SUM(order_price), 0) AS revenue",
			"COALESCE(SUM(vendor_amount), 0) AS vendor_amount",
			"COALESCE(SUM(admin_amount), 0) AS admin_amount",
			"COUNT(*) AS count",
		).
		Where("vendor_id = ?", vendorID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	totals := &LedgerTotals{
		Revenue:      decimal.Zero,
		VendorAmount: decimal.Zero,
		AdminAmount:  decimal.Zero,
		Count:        row.Count,
	}
	if row.Revenue.Valid {
		totals.Revenue = row.Revenue.Decimal
	}
	if row.VendorAmount.Valid {
		totals.VendorAmount = row.VendorAmount.Decimal
	}
	if row.AdminAmount.Valid {
		totals.AdminAmount = row.AdminAmount.Decimal
	}
	return totals, nil
}
