package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the customer-facing checkout operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Result, error)
	GetMasterOrder(ctx context.Context, id uuid.UUID) (*models.MasterOrder, error)
	ListDeliveryZones(ctx context.Context) ([]models.DeliveryZone, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// CartItem is one requested product in a checkout submission.
type CartItem struct {
	ProductID uuid.UUID
	Quantity  int
	Variation map[string]string
}

// SubmitInput carries a full checkout submission.
type SubmitInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	DeliveryZoneID  uuid.UUID
	Items           []CartItem
}

// Result bundles the created master order with its fan-out outcome.
type Result struct {
	MasterOrder    *models.MasterOrder
	VendorOrders   []models.VendorOrder
	SkippedVendors []SkippedVendor
}

// NewService builds a checkout service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Submit validates the cart, freezes line-item snapshots from the live
// catalog, and persists the master order plus its per-vendor sub-orders in a
// single transaction. A failure anywhere leaves nothing behind.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*Result, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	input.CustomerAddress = strings.TrimSpace(input.CustomerAddress)

	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if input.CustomerPhone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	if input.CustomerAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer address required")
	}
	if input.DeliveryZoneID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery zone required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required on every item")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	var result *Result
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		zone, err := repo.FindDeliveryZoneByID(ctx, input.DeliveryZoneID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery zone")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery zone")
		}

		lineItems, err := s.freezeLineItems(ctx, repo, input.Items)
		if err != nil {
			return err
		}

		master := &models.MasterOrder{
			ID:              uuid.New(),
			CustomerName:    input.CustomerName,
			CustomerPhone:   input.CustomerPhone,
			CustomerAddress: input.CustomerAddress,
			DeliveryZoneID:  zone.ID,
			DeliveryCharge:  zone.Charge,
			Items:           lineItems,
			TotalAmount:     lineItems.Subtotal().Add(zone.Charge),
			Status:          enums.OrderStatusProcessing,
		}
		if _, err := repo.CreateMasterOrder(ctx, master); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create master order")
		}

		vendorIDs, _ := lineItems.GroupByVendor()
		vendorsByID, err := repo.FindVendorsByIDs(ctx, vendorIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendors")
		}

		vendorOrders, skipped := fanOut(master, vendorsByID)
		if err := repo.CreateVendorOrders(ctx, vendorOrders); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor orders")
		}

		result = &Result{
			MasterOrder:    master,
			VendorOrders:   vendorOrders,
			SkippedVendors: skipped,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// freezeLineItems snapshots the requested products into immutable line items.
// The customer pays the sale price when one is set, the regular price
// otherwise.
func (s *service) freezeLineItems(ctx context.Context, repo Repository, items []CartItem) (types.LineItems, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	catalog, err := repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	out := make(types.LineItems, 0, len(items))
	for _, item := range items {
		product, ok := catalog[item.ProductID]
		if !ok || product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not found").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is no longer available").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}

		unitPrice := product.RegularPrice
		if product.SalePrice != nil {
			unitPrice = *product.SalePrice
		}
		image := ""
		if product.ImageURL != nil {
			image = *product.ImageURL
		}

		out = append(out, types.LineItem{
			Name:      product.Name,
			Image:     image,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
			Variation: item.Variation,
			VendorID:  product.VendorID,
			ProductID: product.ID,
		})
	}
	return out, nil
}

func (s *service) GetMasterOrder(ctx context.Context, id uuid.UUID) (*models.MasterOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindMasterOrderByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load master order")
	}
	return order, nil
}

func (s *service) ListDeliveryZones(ctx context.Context) ([]models.DeliveryZone, error) {
	zones, err := s.repo.ListDeliveryZones(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery zones")
	}
	return zones, nil
}
