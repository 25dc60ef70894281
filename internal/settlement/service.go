package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/db"
	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/metrics"
)

// Outcome reports how a settlement run ended.
type Outcome string

const (
	OutcomeSettled        Outcome = "settled"
	OutcomeAlreadySettled Outcome = "already_settled"
)

// Result carries the outcome of settling one vendor order.
type Result struct {
	Outcome     Outcome
	Transaction *models.VendorFinancialTransaction
	Skipped     []SkippedItem
}

// Service records the revenue split of delivered vendor orders.
type Service interface {
	Settle(ctx context.Context, tx *gorm.DB, order *models.VendorOrder) (*Result, error)
}

type service struct {
	repo    Repository
	metrics *metrics.SettlementMetrics
}

// NewService builds a settlement service with the required dependencies.
// Metrics may be nil, in which case recording is a no-op.
func NewService(repo Repository, m *metrics.SettlementMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settlement repository required")
	}
	return &service{repo: repo, metrics: m}, nil
}

// Settle appends a ledger transaction for the order and folds it into the
// vendor's running summary. It is expected to run inside the same database
// transaction that marks the order delivered; the unique index on the ledger's
// order id makes the whole operation at-most-once even under races.
func (s *service) Settle(ctx context.Context, tx *gorm.DB, order *models.VendorOrder) (*Result, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor order required")
	}
	if order.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor order id required")
	}
	if order.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	start := time.Now()
	result, err := s.settle(ctx, tx, order)
	if err != nil {
		s.metrics.IncOutcome("error")
		s.metrics.ObserveDuration("error", time.Since(start))
		return nil, err
	}

	s.metrics.IncOutcome(string(result.Outcome))
	s.metrics.ObserveDuration(string(result.Outcome), time.Since(start))
	for _, skipped := range result.Skipped {
		s.metrics.IncSkippedItem(string(skipped.Reason))
	}
	return result, nil
}

func (s *service) settle(ctx context.Context, tx *gorm.DB, order *models.VendorOrder) (*Result, error) {
	repo := s.repo.WithTx(tx)

	existing, err := repo.FindTransactionByOrderID(ctx, order.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing transaction")
	}
	if existing != nil {
		return &Result{Outcome: OutcomeAlreadySettled, Transaction: existing}, nil
	}

	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	catalog, err := repo.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog products")
	}

	split := ComputeSplit(order.VendorID, order.TotalPrice, order.Items, catalog)

	summary, err := s.getOrCreateSummary(ctx, repo, order.VendorID)
	if err != nil {
		return nil, err
	}

	txn := &models.VendorFinancialTransaction{
		ID:           uuid.New(),
		SummaryID:    summary.ID,
		VendorID:     order.VendorID,
		OrderID:      order.ID,
		OrderPrice:   split.OrderPrice,
		VendorAmount: split.VendorAmount,
		AdminAmount:  split.AdminAmount,
	}
	created, err := repo.CreateTransaction(ctx, txn)
	if err != nil {
		// A concurrent settlement won the race; surface its transaction.
		if db.IsUniqueViolation(err, "idx_financial_transactions_order_id") {
			winner, findErr := repo.FindTransactionByOrderID(ctx, order.ID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load winning transaction")
			}
			return &Result{Outcome: OutcomeAlreadySettled, Transaction: winner}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ledger transaction")
	}

	err = repo.IncrementSummary(ctx, summary.ID, split.OrderPrice, split.VendorAmount, split.AdminAmount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update financial summary")
	}

	return &Result{
		Outcome:     OutcomeSettled,
		Transaction: created,
		Skipped:     split.Skipped,
	}, nil
}

func (s *service) getOrCreateSummary(ctx context.Context, repo Repository, vendorID uuid.UUID) (*models.VendorFinancialSummary, error) {
	summary, err := repo.FindSummaryByVendorID(ctx, vendorID)
	if err == nil {
		return summary, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load financial summary")
	}

	created, err := repo.CreateSummary(ctx, &models.VendorFinancialSummary{
		ID:       uuid.New(),
		VendorID: vendorID,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_financial_summaries_vendor_id") {
			return repo.FindSummaryByVendorID(ctx, vendorID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create financial summary")
	}
	return created, nil
}
