package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahirlabs/bazarika-backend/api/responses"
	"github.com/mahirlabs/bazarika-backend/api/validators"
	productsvc "github.com/mahirlabs/bazarika-backend/internal/products"
	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/logger"
)

// CreateProduct adds a listing under the authenticated vendor.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), vendorIDFrom(r), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(product))
	}
}

// UpdateProduct replaces the catalog fields of a vendor's own listing.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), vendorIDFrom(r), productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

// DeactivateProduct removes a listing from the public catalog without
// touching orders that already snapshot it.
func DeactivateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), vendorIDFrom(r), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// GetProduct returns one listing by id.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, publicView(newProductResponse(product)))
	}
}

// ListVendorProducts returns the authenticated vendor's own catalog,
// including inactive listings.
func ListVendorProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		products, err := svc.ListByVendor(r.Context(), vendorIDFrom(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponses(products))
	}
}

// ListActiveProducts returns the public storefront catalog.
func ListActiveProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		products, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := newProductResponses(products)
		for i := range out {
			out[i] = publicView(out[i])
		}
		responses.WriteSuccess(w, out)
	}
}

type productRequest struct {
	Name         string           `json:"name" validate:"required,min=2,max=255"`
	Description  *string          `json:"description,omitempty"`
	RegularPrice decimal.Decimal  `json:"regular_price" validate:"required"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	VendorPrice  *decimal.Decimal `json:"vendor_price,omitempty"`
	Colors       []string         `json:"colors,omitempty"`
	Sizes        []string         `json:"sizes,omitempty"`
	Weights      []string         `json:"weights,omitempty"`
	ImageURL     *string          `json:"image_url,omitempty"`
}

func (p productRequest) toInput() productsvc.ProductInput {
	return productsvc.ProductInput{
		Name:         validators.SanitizeString(p.Name, 255),
		Description:  p.Description,
		RegularPrice: p.RegularPrice,
		SalePrice:    p.SalePrice,
		VendorPrice:  p.VendorPrice,
		Colors:       p.Colors,
		Sizes:        p.Sizes,
		Weights:      p.Weights,
		ImageURL:     p.ImageURL,
	}
}

type productResponse struct {
	ID           uuid.UUID        `json:"id"`
	VendorID     uuid.UUID        `json:"vendor_id"`
	Name         string           `json:"name"`
	Description  *string          `json:"description,omitempty"`
	RegularPrice decimal.Decimal  `json:"regular_price"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	VendorPrice  *decimal.Decimal `json:"vendor_price,omitempty"`
	Colors       []string         `json:"colors,omitempty"`
	Sizes        []string         `json:"sizes,omitempty"`
	Weights      []string         `json:"weights,omitempty"`
	ImageURL     *string          `json:"image_url,omitempty"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    string           `json:"created_at"`
}

func newProductResponse(product *models.Product) productResponse {
	if product == nil {
		return productResponse{}
	}
	return productResponse{
		ID:           product.ID,
		VendorID:     product.VendorID,
		Name:         product.Name,
		Description:  product.Description,
		RegularPrice: product.RegularPrice,
		SalePrice:    product.SalePrice,
		VendorPrice:  product.VendorPrice,
		Colors:       product.Colors,
		Sizes:        product.Sizes,
		Weights:      product.Weights,
		ImageURL:     product.ImageURL,
		IsActive:     product.IsActive,
		CreatedAt:    product.CreatedAt.UTC().Format(timeFormat),
	}
}

// publicView strips the payout rate from storefront-facing payloads.
func publicView(resp productResponse) productResponse {
	resp.VendorPrice = nil
	return resp
}

func newProductResponses(products []models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, newProductResponse(&products[i]))
	}
	return out
}
