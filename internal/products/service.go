package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
)

// Service defines vendor catalog operations.
type Service interface {
	Create(ctx context.Context, vendorID uuid.UUID, input ProductInput) (*models.Product, error)
	Update(ctx context.Context, vendorID, productID uuid.UUID, input ProductInput) (*models.Product, error)
	Deactivate(ctx context.Context, vendorID, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
}

type service struct {
	repo Repository
}

// ProductInput captures the catalog fields a vendor controls.
type ProductInput struct {
	Name         string
	Description  *string
	RegularPrice decimal.Decimal
	SalePrice    *decimal.Decimal
	VendorPrice  *decimal.Decimal
	Colors       []string
	Sizes        []string
	Weights      []string
	ImageURL     *string
}

// NewService builds a products service with the required repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (i ProductInput) validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if i.RegularPrice.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "regular price must be positive")
	}
	if i.SalePrice != nil && i.SalePrice.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale price must be positive")
	}
	if i.VendorPrice != nil && i.VendorPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor price cannot be negative")
	}
	return nil
}

func (s *service) Create(ctx context.Context, vendorID uuid.UUID, input ProductInput) (*models.Product, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:           uuid.New(),
		VendorID:     vendorID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		RegularPrice: input.RegularPrice,
		SalePrice:    input.SalePrice,
		VendorPrice:  input.VendorPrice,
		Colors:       pq.StringArray(input.Colors),
		Sizes:        pq.StringArray(input.Sizes),
		Weights:      pq.StringArray(input.Weights),
		ImageURL:     input.ImageURL,
		IsActive:     true,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, vendorID, productID uuid.UUID, input ProductInput) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":          strings.TrimSpace(input.Name),
		"description":   input.Description,
		"regular_price": input.RegularPrice,
		"sale_price":    input.SalePrice,
		"vendor_price":  input.VendorPrice,
		"colors":        pq.StringArray(input.Colors),
		"sizes":         pq.StringArray(input.Sizes),
		"weights":       pq.StringArray(input.Weights),
		"image_url":     input.ImageURL,
	}
	if err := s.repo.Update(ctx, product.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	reloaded, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return reloaded, nil
}

func (s *service) Deactivate(ctx context.Context, vendorID, productID uuid.UUID) error {
	product, err := s.ownedProduct(ctx, vendorID, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return nil
	}
	if err := s.repo.Update(ctx, product.ID, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}
	return nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	out, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor products")
	}
	return out, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Product, error) {
	out, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return out, nil
}

func (s *service) ownedProduct(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to vendor")
	}
	return product, nil
}
