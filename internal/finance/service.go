package finance

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
)

// csvHeader is the column layout of transaction exports.
var csvHeader = []string{"order_id", "date", "order_price", "vendor_amount", "admin_amount"}

// Service defines financial reporting operations.
type Service interface {
	GetSummary(ctx context.Context, vendorID uuid.UUID) (*models.VendorFinancialSummary, error)
	ListTransactions(ctx context.Context, vendorID uuid.UUID, dateRange DateRange) ([]models.VendorFinancialTransaction, error)
	ExportTransactionsCSV(ctx context.Context, vendorID uuid.UUID, dateRange DateRange, w io.Writer) error
	CheckConsistency(ctx context.Context, vendorID uuid.UUID) (*ConsistencyReport, error)
}

type service struct {
	repo Repository
}

// ConsistencyReport compares a vendor's materialized summary against the sum
// of its ledger transactions.
type ConsistencyReport struct {
	VendorID   uuid.UUID
	Summary    LedgerTotals
	Ledger     LedgerTotals
	Consistent bool
}

// NewService builds a finance service with the required repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("finance repository required")
	}
	return &service{repo: repo}, nil
}

// GetSummary returns the vendor's running totals. A vendor with no settled
// orders yet gets a zero-valued summary rather than an error.
func (s *service) GetSummary(ctx context.Context, vendorID uuid.UUID) (*models.VendorFinancialSummary, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	summary, err := s.repo.FindSummaryByVendorID(ctx, vendorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &models.VendorFinancialSummary{VendorID: vendorID}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load financial summary")
	}
	return summary, nil
}

func (s *service) ListTransactions(ctx context.Context, vendorID uuid.UUID, dateRange DateRange) ([]models.VendorFinancialTransaction, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}

	out, err := s.repo.ListTransactions(ctx, vendorID, dateRange)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return out, nil
}

// ExportTransactionsCSV streams the vendor's ledger rows as CSV. The header
// is always written, even for an empty range.
func (s *service) ExportTransactionsCSV(ctx context.Context, vendorID uuid.UUID, dateRange DateRange, w io.Writer) error {
	transactions, err := s.ListTransactions(ctx, vendorID, dateRange)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}
	for _, txn := range transactions {
		record := []string{
			txn.OrderID.String(),
			txn.TransactionDate.UTC().Format(time.RFC3339),
			txn.OrderPrice.StringFixed(2),
			txn.VendorAmount.StringFixed(2),
			txn.AdminAmount.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return nil
}

// CheckConsistency verifies that the summary row still equals the sum of the
// ledger. The two are written in the same transaction during settlement, so a
// mismatch points at manual data edits.
func (s *service) CheckConsistency(ctx context.Context, vendorID uuid.UUID) (*ConsistencyReport, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	summary, err := s.GetSummary(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.repo.SumTransactions(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum transactions")
	}

	report := &ConsistencyReport{
		VendorID: vendorID,
		Summary: LedgerTotals{
			Revenue:      summary.TotalRevenue,
			VendorAmount: summary.TotalVendorAmount,
			AdminAmount:  summary.TotalAdminAmount,
			Count:        ledger.Count,
		},
		Ledger: *ledger,
	}
	report.Consistent = report.Summary.Revenue.Equal(ledger.Revenue) &&
		report.Summary.VendorAmount.Equal(ledger.VendorAmount) &&
		report.Summary.AdminAmount.Equal(ledger.AdminAmount)
	return report, nil
}

func validateRange(dateRange DateRange) error {
	if dateRange.From != nil && dateRange.To != nil && dateRange.To.Before(*dateRange.From) {
		return pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start")
	}
	return nil
}
