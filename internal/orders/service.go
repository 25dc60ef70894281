package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/internal/settlement"
	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type settler interface {
	Settle(ctx context.Context, tx *gorm.DB, order *models.VendorOrder) (*settlement.Result, error)
}

// Service defines order lifecycle and read operations.
type Service interface {
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*StatusUpdateResult, error)
	GetVendorOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.VendorOrder, error)
	ListVendorOrders(ctx context.Context, vendorID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (*VendorOrderList, error)
	TrackByPhone(ctx context.Context, phone string) ([]models.MasterOrder, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	settler settler
}

// Actor identifies who is performing an order operation.
type Actor struct {
	VendorID uuid.UUID
	IsAdmin  bool
}

// UpdateStatusInput captures a requested fulfillment status change.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	Next    enums.OrderStatus
	Actor   Actor
}

// StatusUpdateResult reports the updated order and, when the change reached
// delivered, the settlement outcome.
type StatusUpdateResult struct {
	Order      *models.VendorOrder
	Settlement *settlement.Result
}

// VendorOrderView is one listed order with its display-time revenue split.
type VendorOrderView struct {
	Order        models.VendorOrder
	VendorAmount decimal.Decimal
	AdminAmount  decimal.Decimal
	Skipped      []settlement.SkippedItem
}

// VendorOrderList is a cursor page of vendor orders.
type VendorOrderList struct {
	Orders     []VendorOrderView
	NextCursor string
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, settler settler) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if settler == nil {
		return nil, fmt.Errorf("settlement service required")
	}
	return &service{repo: repo, tx: tx, settler: settler}, nil
}

// UpdateStatus moves a vendor order through its fulfillment lifecycle.
// Vendors may only follow the forward path (processing, shipped, delivered,
// with cancellation from the non-terminal states); admins may force any valid
// status. Reaching delivered settles the order in the same transaction, and
// the ledger's per-order idempotency keeps a forced re-delivery from paying
// twice.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*StatusUpdateResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if !input.Actor.IsAdmin && input.Actor.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}

	var result *StatusUpdateResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindVendorOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor order")
		}
		if !input.Actor.IsAdmin && order.VendorID != input.Actor.VendorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to vendor")
		}
		if order.Status == input.Next {
			result = &StatusUpdateResult{Order: order}
			return nil
		}
		if !input.Actor.IsAdmin && !order.Status.CanTransitionTo(input.Next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Next))
		}

		if err := repo.UpdateVendorOrderStatus(ctx, order.ID, input.Next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = input.Next
		result = &StatusUpdateResult{Order: order}

		if input.Next == enums.OrderStatusDelivered {
			settled, err := s.settler.Settle(ctx, tx, order)
			if err != nil {
				return err
			}
			result.Settlement = settled
		}

		return s.syncMasterStatus(ctx, repo, order.MasterOrderID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// syncMasterStatus recomputes the master order's status from its sub-orders.
func (s *service) syncMasterStatus(ctx context.Context, repo Repository, masterOrderID uuid.UUID) error {
	siblings, err := repo.FindVendorOrdersByMaster(ctx, masterOrderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sibling orders")
	}
	derived := deriveMasterStatus(siblings)
	if err := repo.UpdateMasterOrderStatus(ctx, masterOrderID, derived); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update master order status")
	}
	return nil
}

// deriveMasterStatus folds sub-order statuses into the customer-facing one.
// Cancelled sub-orders drop out unless everything is cancelled; the master
// order only reads delivered once every surviving sub-order has been.
func deriveMasterStatus(orders []models.VendorOrder) enums.OrderStatus {
	if len(orders) == 0 {
		return enums.OrderStatusProcessing
	}

	active := make([]enums.OrderStatus, 0, len(orders))
	for _, order := range orders {
		if order.Status != enums.OrderStatusCancelled {
			active = append(active, order.Status)
		}
	}
	if len(active) == 0 {
		return enums.OrderStatusCancelled
	}

	allDelivered := true
	allAtLeastShipped := true
	for _, status := range active {
		if status != enums.OrderStatusDelivered {
			allDelivered = false
		}
		if status != enums.OrderStatusShipped && status != enums.OrderStatusDelivered {
			allAtLeastShipped = false
		}
	}
	if allDelivered {
		return enums.OrderStatusDelivered
	}
	if allAtLeastShipped {
		return enums.OrderStatusShipped
	}
	return enums.OrderStatusProcessing
}

func (s *service) GetVendorOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.VendorOrder, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindVendorOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor order")
	}
	if !actor.IsAdmin && order.VendorID != actor.VendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to vendor")
	}
	return order, nil
}

// ListVendorOrders returns a cursor page of the vendor's orders, each with
// the split the catalog would produce right now. Settled orders keep their
// recorded split in the ledger; this view is advisory.
func (s *service) ListVendorOrders(ctx context.Context, vendorID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (*VendorOrderList, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	orders, nextCursor, err := s.repo.ListVendorOrders(ctx, vendorID, status, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor orders")
	}

	productIDs := make([]uuid.UUID, 0)
	seen := map[uuid.UUID]bool{}
	for _, order := range orders {
		for _, item := range order.Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				productIDs = append(productIDs, item.ProductID)
			}
		}
	}
	catalog, err := s.repo.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog products")
	}

	views := make([]VendorOrderView, 0, len(orders))
	for _, order := range orders {
		split := settlement.ComputeSplit(vendorID, order.TotalPrice, order.Items, catalog)
		views = append(views, VendorOrderView{
			Order:        order,
			VendorAmount: split.VendorAmount,
			AdminAmount:  split.AdminAmount,
			Skipped:      split.Skipped,
		})
	}

	return &VendorOrderList{Orders: views, NextCursor: nextCursor}, nil
}

func (s *service) TrackByPhone(ctx context.Context, phone string) ([]models.MasterOrder, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	orders, err := s.repo.FindMasterOrdersByPhone(ctx, phone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "track orders")
	}
	return orders, nil
}
