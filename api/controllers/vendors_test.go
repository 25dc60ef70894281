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

	vendorsvc "github.com/mahirlabs/bazarika-backend/internal/vendors"
	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
)

type stubVendorService struct {
	vendor   *models.Vendor
	login    *vendorsvc.LoginResult
	err      error
	approved []uuid.UUID
	rejected []uuid.UUID
}

func (s *stubVendorService) Register(_ context.Context, input vendorsvc.RegisterInput) (*models.Vendor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Vendor{
		ID:          uuid.New(),
		CompanyName: input.CompanyName,
		Email:       input.Email,
		Phone:       input.Phone,
		Status:      enums.VendorStatusPending,
	}, nil
}

func (s *stubVendorService) Authenticate(_ context.Context, _, _ string) (*vendorsvc.LoginResult, error) {
	return s.login, s.err
}

func (s *stubVendorService) Approve(_ context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.approved = append(s.approved, vendorID)
	return &models.Vendor{ID: vendorID, Status: enums.VendorStatusApproved}, nil
}

func (s *stubVendorService) Reject(_ context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.rejected = append(s.rejected, vendorID)
	return &models.Vendor{ID: vendorID, Status: enums.VendorStatusRejected}, nil
}

func (s *stubVendorService) Get(_ context.Context, _ uuid.UUID) (*models.Vendor, error) {
	return s.vendor, s.err
}

func (s *stubVendorService) List(_ context.Context, _ *enums.VendorStatus) ([]models.Vendor, error) {
	if s.vendor == nil {
		return nil, nil
	}
	return []models.Vendor{*s.vendor}, s.err
}

func TestRegisterVendorCreatesPendingAccount(t *testing.T) {
	t.Parallel()

	svc := &stubVendorService{}
	body := `{"company_name":"Deshi Threads","email":"owner@deshithreads.com","phone":"01711000000","password":"s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	RegisterVendor(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data vendorResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if envelope.Data.Status != "pending" {
		t.Fatalf("expected pending status, got %s", envelope.Data.Status)
	}
}

func TestRegisterVendorValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"company_name":"Deshi Threads","email":"not-an-email","phone":"01711000000","password":"s3cret-pass"}`},
		{"short password", `{"company_name":"Deshi Threads","email":"a@b.com","phone":"01711000000","password":"short"}`},
		{"missing company", `{"email":"a@b.com","phone":"01711000000","password":"s3cret-pass"}`},
		{"unknown field", `{"company_name":"X","email":"a@b.com","phone":"017","password":"s3cret-pass","extra":true}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors/register", strings.NewReader(tt.body))
			resp := httptest.NewRecorder()
			RegisterVendor(&stubVendorService{}, nil).ServeHTTP(resp, req)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}

func TestLoginVendorUnapproved(t *testing.T) {
	t.Parallel()

	svc := &stubVendorService{err: pkgerrors.New(pkgerrors.CodeForbidden, "vendor account not approved")}
	body := `{"email":"owner@deshithreads.com","password":"s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	LoginVendor(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestApproveVendor(t *testing.T) {
	t.Parallel()

	svc := &stubVendorService{}
	vendorID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/vendors/"+vendorID.String()+"/approve", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("vendorID", vendorID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	ApproveVendor(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.approved) != 1 || svc.approved[0] != vendorID {
		t.Fatalf("expected approve call for %s, got %+v", vendorID, svc.approved)
	}
}

func TestApproveVendorInvalidID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/vendors/not-a-uuid/approve", nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("vendorID", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	ApproveVendor(&stubVendorService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
