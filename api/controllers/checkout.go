package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahirlabs/bazarika-backend/api/responses"
	"github.com/mahirlabs/bazarika-backend/api/validators"
	checkoutsvc "github.com/mahirlabs/bazarika-backend/internal/checkout"
	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/logger"
	"github.com/mahirlabs/bazarika-backend/pkg/types"
)

// Checkout accepts a customer cart and fans it out into per-vendor orders.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]checkoutsvc.CartItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, checkoutsvc.CartItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Variation: item.Variation,
			})
		}

		result, err := svc.Submit(r.Context(), checkoutsvc.SubmitInput{
			CustomerName:    validators.SanitizeString(payload.CustomerName, 255),
			CustomerPhone:   validators.SanitizeString(payload.CustomerPhone, 32),
			CustomerAddress: validators.SanitizeString(payload.CustomerAddress, 1024),
			DeliveryZoneID:  payload.DeliveryZoneID,
			Items:           items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(result))
	}
}

// GetMasterOrder returns one master order with its sub-orders.
func GetMasterOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetMasterOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newMasterOrderResponse(order))
	}
}

// ListDeliveryZones returns the delivery areas available at checkout.
func ListDeliveryZones(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		zones, err := svc.ListDeliveryZones(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]deliveryZoneResponse, 0, len(zones))
		for _, zone := range zones {
			out = append(out, deliveryZoneResponse{
				ID:     zone.ID,
				Zone:   zone.Zone,
				Charge: zone.Charge,
			})
		}
		responses.WriteSuccess(w, out)
	}
}

type checkoutRequest struct {
	CustomerName    string                `json:"customer_name" validate:"required"`
	CustomerPhone   string                `json:"customer_phone" validate:"required"`
	CustomerAddress string                `json:"customer_address" validate:"required"`
	DeliveryZoneID  uuid.UUID             `json:"delivery_zone_id" validate:"required"`
	Items           []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

type checkoutItemRequest struct {
	ProductID uuid.UUID         `json:"product_id" validate:"required"`
	Quantity  int               `json:"quantity" validate:"required,gt=0"`
	Variation map[string]string `json:"variation,omitempty"`
}

type checkoutResponse struct {
	MasterOrder    masterOrderResponse     `json:"master_order"`
	VendorOrders   []vendorOrderResponse   `json:"vendor_orders"`
	SkippedVendors []skippedVendorResponse `json:"skipped_vendors,omitempty"`
}

type masterOrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	CustomerName    string                `json:"customer_name"`
	CustomerPhone   string                `json:"customer_phone"`
	CustomerAddress string                `json:"customer_address"`
	DeliveryZoneID  uuid.UUID             `json:"delivery_zone_id"`
	DeliveryCharge  decimal.Decimal       `json:"delivery_charge"`
	Items           []lineItemResponse    `json:"items"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	Status          string                `json:"status"`
	VendorOrders    []vendorOrderResponse `json:"vendor_orders,omitempty"`
	CreatedAt       string                `json:"created_at"`
}

type vendorOrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	MasterOrderID   uuid.UUID          `json:"master_order_id"`
	VendorID        uuid.UUID          `json:"vendor_id"`
	Items           []lineItemResponse `json:"items"`
	TotalPrice      decimal.Decimal    `json:"total_price"`
	Status          string             `json:"status"`
	CustomerName    string             `json:"customer_name,omitempty"`
	CustomerPhone   string             `json:"customer_phone,omitempty"`
	CustomerAddress string             `json:"customer_address,omitempty"`
	CreatedAt       string             `json:"created_at"`
}

type lineItemResponse struct {
	ProductID uuid.UUID         `json:"product_id"`
	VendorID  uuid.UUID         `json:"vendor_id"`
	Name      string            `json:"name"`
	Image     string            `json:"image,omitempty"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	Variation map[string]string `json:"variation,omitempty"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
}

type skippedVendorResponse struct {
	VendorID  uuid.UUID `json:"vendor_id"`
	Reason    string    `json:"reason"`
	ItemCount int       `json:"item_count"`
}

type deliveryZoneResponse struct {
	ID     uuid.UUID       `json:"id"`
	Zone   string          `json:"zone"`
	Charge decimal.Decimal `json:"charge"`
}

func newCheckoutResponse(result *checkoutsvc.Result) checkoutResponse {
	if result == nil {
		return checkoutResponse{}
	}
	resp := checkoutResponse{
		MasterOrder:  newMasterOrderResponse(result.MasterOrder),
		VendorOrders: make([]vendorOrderResponse, 0, len(result.VendorOrders)),
	}
	for _, order := range result.VendorOrders {
		resp.VendorOrders = append(resp.VendorOrders, newVendorOrderResponse(order))
	}
	for _, skipped := range result.SkippedVendors {
		resp.SkippedVendors = append(resp.SkippedVendors, skippedVendorResponse{
			VendorID:  skipped.VendorID,
			Reason:    string(skipped.Reason),
			ItemCount: skipped.ItemCount,
		})
	}
	return resp
}

func newMasterOrderResponse(order *models.MasterOrder) masterOrderResponse {
	if order == nil {
		return masterOrderResponse{}
	}
	resp := masterOrderResponse{
		ID:              order.ID,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		DeliveryZoneID:  order.DeliveryZoneID,
		DeliveryCharge:  order.DeliveryCharge,
		Items:           newLineItemResponses(order.Items),
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt.UTC().Format(timeFormat),
	}
	for _, sub := range order.VendorOrders {
		resp.VendorOrders = append(resp.VendorOrders, newVendorOrderResponse(sub))
	}
	return resp
}

func newVendorOrderResponse(order models.VendorOrder) vendorOrderResponse {
	return vendorOrderResponse{
		ID:              order.ID,
		MasterOrderID:   order.MasterOrderID,
		VendorID:        order.VendorID,
		Items:           newLineItemResponses(order.Items),
		TotalPrice:      order.TotalPrice,
		Status:          string(order.Status),
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		CreatedAt:       order.CreatedAt.UTC().Format(timeFormat),
	}
}

func newLineItemResponses(items types.LineItems) []lineItemResponse {
	out := make([]lineItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, lineItemResponse{
			ProductID: item.ProductID,
			VendorID:  item.VendorID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Variation: item.Variation,
			Subtotal:  item.Subtotal(),
		})
	}
	return out
}
