package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mahirlabs/bazarika-backend/api/middleware"
	"github.com/mahirlabs/bazarika-backend/api/responses"
	"github.com/mahirlabs/bazarika-backend/api/validators"
	ordersvc "github.com/mahirlabs/bazarika-backend/internal/orders"
	"github.com/mahirlabs/bazarika-backend/internal/settlement"
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/logger"
	"github.com/mahirlabs/bazarika-backend/pkg/pagination"
)

// UpdateOrderStatus moves a vendor's own order through the fulfillment
// lifecycle. Reaching delivered settles the order in the same transaction.
func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return statusUpdateHandler(svc, logg, false)
}

// AdminUpdateOrderStatus forces any valid status on any vendor order.
func AdminUpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return statusUpdateHandler(svc, logg, true)
}

func statusUpdateHandler(svc ordersvc.Service, logg *logger.Logger, admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := ordersvc.Actor{IsAdmin: admin}
		if !admin {
			actor.VendorID = vendorIDFrom(r)
		} else if !middleware.IsAdminFromContext(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
			return
		}

		result, err := svc.UpdateStatus(r.Context(), ordersvc.UpdateStatusInput{
			OrderID: orderID,
			Next:    enums.OrderStatus(payload.Status),
			Actor:   actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStatusUpdateResponse(result))
	}
}

// GetVendorOrder returns one sub-order visible to the caller.
func GetVendorOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := ordersvc.Actor{
			VendorID: vendorIDFrom(r),
			IsAdmin:  middleware.IsAdminFromContext(r.Context()),
		}
		order, err := svc.GetVendorOrder(r.Context(), actor, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newVendorOrderResponse(*order))
	}
}

// ListVendorOrders returns a cursor page of the vendor's orders with their
// revenue split.
func ListVendorOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var statusFilter *enums.OrderStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.OrderStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter"))
				return
			}
			statusFilter = &status
		}

		list, err := svc.ListVendorOrders(r.Context(), vendorIDFrom(r), statusFilter, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := orderListResponse{
			Orders:     make([]orderViewResponse, 0, len(list.Orders)),
			NextCursor: list.NextCursor,
		}
		for _, view := range list.Orders {
			out.Orders = append(out.Orders, newOrderViewResponse(view))
		}
		responses.WriteSuccess(w, out)
	}
}

// TrackOrders returns a customer's master orders looked up by phone number.
func TrackOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		phone := validators.SanitizeString(r.URL.Query().Get("phone"), 32)
		orders, err := svc.TrackByPhone(r.Context(), phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]masterOrderResponse, 0, len(orders))
		for i := range orders {
			out = append(out, newMasterOrderResponse(&orders[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

type statusUpdateResponse struct {
	Order      vendorOrderResponse `json:"order"`
	Settlement *settlementResponse `json:"settlement,omitempty"`
}

type settlementResponse struct {
	Outcome      string               `json:"outcome"`
	OrderPrice   decimal.Decimal      `json:"order_price"`
	VendorAmount decimal.Decimal      `json:"vendor_amount"`
	AdminAmount  decimal.Decimal      `json:"admin_amount"`
	Skipped      []skippedItemPayload `json:"skipped_items,omitempty"`
}

type skippedItemPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}

type orderViewResponse struct {
	Order        vendorOrderResponse  `json:"order"`
	VendorAmount decimal.Decimal      `json:"vendor_amount"`
	AdminAmount  decimal.Decimal      `json:"admin_amount"`
	Skipped      []skippedItemPayload `json:"skipped_items,omitempty"`
}

type orderListResponse struct {
	Orders     []orderViewResponse `json:"orders"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

func newStatusUpdateResponse(result *ordersvc.StatusUpdateResult) statusUpdateResponse {
	if result == nil {
		return statusUpdateResponse{}
	}
	resp := statusUpdateResponse{Order: newVendorOrderResponse(*result.Order)}
	if result.Settlement != nil && result.Settlement.Transaction != nil {
		txn := result.Settlement.Transaction
		resp.Settlement = &settlementResponse{
			Outcome:      string(result.Settlement.Outcome),
			OrderPrice:   txn.OrderPrice,
			VendorAmount: txn.VendorAmount,
			AdminAmount:  txn.AdminAmount,
			Skipped:      newSkippedItemPayloads(result.Settlement.Skipped),
		}
	}
	return resp
}

func newOrderViewResponse(view ordersvc.VendorOrderView) orderViewResponse {
	return orderViewResponse{
		Order:        newVendorOrderResponse(view.Order),
		VendorAmount: view.VendorAmount,
		AdminAmount:  view.AdminAmount,
		Skipped:      newSkippedItemPayloads(view.Skipped),
	}
}

func newSkippedItemPayloads(items []settlement.SkippedItem) []skippedItemPayload {
	if len(items) == 0 {
		return nil
	}
	out := make([]skippedItemPayload, 0, len(items))
	for _, item := range items {
		out = append(out, skippedItemPayload{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Reason:    string(item.Reason),
		})
	}
	return out
}
