package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mahirlabs/bazarika-backend/api/middleware"
	ordersvc "github.com/mahirlabs/bazarika-backend/internal/orders"
	"github.com/mahirlabs/bazarika-backend/internal/settlement"
	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/pagination"
)

type stubOrderService struct {
	updateResult *ordersvc.StatusUpdateResult
	updateErr    error
	gotInput     ordersvc.UpdateStatusInput
	list         *ordersvc.VendorOrderList
}

func (s *stubOrderService) UpdateStatus(_ context.Context, input ordersvc.UpdateStatusInput) (*ordersvc.StatusUpdateResult, error) {
	s.gotInput = input
	return s.updateResult, s.updateErr
}

func (s *stubOrderService) GetVendorOrder(_ context.Context, _ ordersvc.Actor, _ uuid.UUID) (*models.VendorOrder, error) {
	if s.updateResult == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.updateResult.Order, nil
}

func (s *stubOrderService) ListVendorOrders(_ context.Context, _ uuid.UUID, _ *enums.OrderStatus, _ pagination.Params) (*ordersvc.VendorOrderList, error) {
	return s.list, nil
}

func (s *stubOrderService) TrackByPhone(_ context.Context, phone string) ([]models.MasterOrder, error) {
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}
	return []models.MasterOrder{{ID: uuid.New(), CustomerPhone: phone}}, nil
}

func orderRequestWithID(method, target, orderID string, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderID", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestUpdateOrderStatusVendor(t *testing.T) {
	t.Parallel()

	vendorID := uuid.New()
	orderID := uuid.New()
	svc := &stubOrderService{
		updateResult: &ordersvc.StatusUpdateResult{
			Order: &models.VendorOrder{ID: orderID, VendorID: vendorID, Status: enums.OrderStatusDelivered},
			Settlement: &settlement.Result{
				Outcome: settlement.OutcomeSettled,
				Transaction: &models.VendorFinancialTransaction{
					OrderID:      orderID,
					OrderPrice:   decimal.RequireFromString("100.00"),
					VendorAmount: decimal.RequireFromString("70.00"),
					AdminAmount:  decimal.RequireFromString("30.00"),
				},
			},
		},
	}

	req := orderRequestWithID(http.MethodPost, "/api/v1/vendor/orders/"+orderID.String()+"/status", orderID.String(), `{"status":"delivered"}`)
	req = req.WithContext(middleware.WithVendorID(req.Context(), vendorID))
	resp := httptest.NewRecorder()
	UpdateOrderStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotInput.Actor.IsAdmin {
		t.Fatal("vendor handler must not carry admin actor")
	}
	if svc.gotInput.Actor.VendorID != vendorID {
		t.Fatalf("expected actor vendor %s got %s", vendorID, svc.gotInput.Actor.VendorID)
	}

	var envelope struct {
		Data statusUpdateResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if envelope.Data.Settlement == nil || envelope.Data.Settlement.Outcome != "settled" {
		t.Fatalf("expected settlement payload, got %+v", envelope.Data.Settlement)
	}
	if !envelope.Data.Settlement.VendorAmount.Equal(decimal.RequireFromString("70.00")) {
		t.Fatalf("expected vendor amount 70.00, got %s", envelope.Data.Settlement.VendorAmount)
	}
}

func TestAdminUpdateOrderStatusRequiresAdminContext(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	svc := &stubOrderService{}
	req := orderRequestWithID(http.MethodPost, "/api/v1/admin/orders/"+orderID.String()+"/status", orderID.String(), `{"status":"shipped"}`)
	resp := httptest.NewRecorder()
	AdminUpdateOrderStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestUpdateOrderStatusStateConflict(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	svc := &stubOrderService{
		updateErr: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move order from processing to delivered"),
	}
	req := orderRequestWithID(http.MethodPost, "/api/v1/vendor/orders/"+orderID.String()+"/status", orderID.String(), `{"status":"delivered"}`)
	req = req.WithContext(middleware.WithVendorID(req.Context(), uuid.New()))
	resp := httptest.NewRecorder()
	UpdateOrderStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestListVendorOrders(t *testing.T) {
	t.Parallel()

	vendorID := uuid.New()
	svc := &stubOrderService{
		list: &ordersvc.VendorOrderList{
			Orders: []ordersvc.VendorOrderView{
				{
					Order:        models.VendorOrder{ID: uuid.New(), VendorID: vendorID, TotalPrice: decimal.RequireFromString("200.00")},
					VendorAmount: decimal.RequireFromString("140.00"),
					AdminAmount:  decimal.RequireFromString("60.00"),
				},
			},
			NextCursor: "next-page",
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/orders?limit=10", nil)
	req = req.WithContext(middleware.WithVendorID(req.Context(), vendorID))
	resp := httptest.NewRecorder()
	ListVendorOrders(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data orderListResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 || envelope.Data.NextCursor != "next-page" {
		t.Fatalf("unexpected list payload: %+v", envelope.Data)
	}
	if !envelope.Data.Orders[0].VendorAmount.Equal(decimal.RequireFromString("140.00")) {
		t.Fatalf("expected vendor amount 140.00, got %s", envelope.Data.Orders[0].VendorAmount)
	}
}

func TestTrackOrders(t *testing.T) {
	t.Parallel()

	svc := &stubOrderService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/track?phone=01711000000", nil)
	resp := httptest.NewRecorder()
	TrackOrders(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	missing := httptest.NewRequest(http.MethodGet, "/api/v1/orders/track", nil)
	failed := httptest.NewRecorder()
	TrackOrders(svc, nil).ServeHTTP(failed, missing)
	if failed.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", failed.Code)
	}
}
