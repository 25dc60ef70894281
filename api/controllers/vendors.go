package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mahirlabs/bazarika-backend/api/responses"
	"github.com/mahirlabs/bazarika-backend/api/validators"
	vendorsvc "github.com/mahirlabs/bazarika-backend/internal/vendors"
	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/logger"
)

// RegisterVendor handles new vendor signups. Accounts start pending and
// cannot authenticate until an admin approves them.
func RegisterVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		var payload registerVendorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.Register(r.Context(), vendorsvc.RegisterInput{
			CompanyName: validators.SanitizeString(payload.CompanyName, 255),
			Email:       payload.Email,
			Phone:       validators.SanitizeString(payload.Phone, 32),
			Password:    payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newVendorResponse(vendor))
	}
}

// LoginVendor exchanges credentials for an access token.
func LoginVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Authenticate(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loginResponse{
			Token:  result.Token,
			Vendor: newVendorResponse(result.Vendor),
		})
	}
}

// GetVendorProfile returns the authenticated vendor's own account.
func GetVendorProfile(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		vendorID := vendorIDFrom(r)
		vendor, err := svc.Get(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newVendorResponse(vendor))
	}
}

// ApproveVendor marks a pending vendor as approved. Admin only.
func ApproveVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return vendorDecisionHandler(svc, logg, func(s vendorsvc.Service, r *http.Request, id uuid.UUID) (*models.Vendor, error) {
		return s.Approve(r.Context(), id)
	})
}

// RejectVendor marks a vendor as rejected. Admin only.
func RejectVendor(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return vendorDecisionHandler(svc, logg, func(s vendorsvc.Service, r *http.Request, id uuid.UUID) (*models.Vendor, error) {
		return s.Reject(r.Context(), id)
	})
}

// ListVendors returns vendor accounts, optionally filtered by status. Admin only.
func ListVendors(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		var statusFilter *enums.VendorStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.VendorStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid vendor status filter"))
				return
			}
			statusFilter = &status
		}

		vendors, err := svc.List(r.Context(), statusFilter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]vendorResponse, 0, len(vendors))
		for i := range vendors {
			out = append(out, newVendorResponse(&vendors[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func vendorDecisionHandler(
	svc vendorsvc.Service,
	logg *logger.Logger,
	decide func(vendorsvc.Service, *http.Request, uuid.UUID) (*models.Vendor, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		vendorID, err := pathUUID(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := decide(svc, r, vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newVendorResponse(vendor))
	}
}

type registerVendorRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=6,max=32"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token  string         `json:"token"`
	Vendor vendorResponse `json:"vendor"`
}

type vendorResponse struct {
	ID          uuid.UUID  `json:"id"`
	CompanyName string     `json:"company_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Status      string     `json:"status"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   string     `json:"created_at"`
}

func newVendorResponse(vendor *models.Vendor) vendorResponse {
	if vendor == nil {
		return vendorResponse{}
	}
	return vendorResponse{
		ID:          vendor.ID,
		CompanyName: vendor.CompanyName,
		Email:       vendor.Email,
		Phone:       vendor.Phone,
		Status:      string(vendor.Status),
		ApprovedAt:  vendor.ApprovedAt,
		CreatedAt:   vendor.CreatedAt.UTC().Format(timeFormat),
	}
}
