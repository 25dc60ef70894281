package settlement

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

// NewRepository builds a settlement repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindTransactionByOrderID(ctx context.Context, orderID uuid.UUID) (*models.VendorFinancialTransaction, error) {
	var txn models.VendorFinancialTransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.VendorFinancialTransaction) (*models.VendorFinancialTransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
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

func (r *repository) CreateSummary(ctx context.Context, summary *models.VendorFinancialSummary) (*models.VendorFinancialSummary, error) {
	if err := r.db.WithContext(ctx).Create(summary).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *repository) IncrementSummary(ctx context.Context, summaryID uuid.UUID, revenue, vendorAmount, adminAmount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.VendorFinancialSummary{}).
		Where("id = ?", summaryID).
		Updates(map[string]any{
			"total_revenue":       gorm.Expr("total_revenue + ?", revenue),
			"total_vendor_amount": gorm.Expr("total_vendor_amount + ?", vendorAmount),
			"total_admin_amount":  gorm.Expr("total_admin_amount + ?", adminAmount),
		}).Error
}

func (r *repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	out := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}
