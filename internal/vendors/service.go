package vendors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/auth"
	"github.com/mahirlabs/bazarika-backend/pkg/config"
	"github.com/mahirlabs/bazarika-backend/pkg/db"
	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/security"
)

// Service defines vendor account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Vendor, error)
	Authenticate(ctx context.Context, email, password string) (*LoginResult, error)
	Approve(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)
	Reject(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)
	Get(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, status *enums.VendorStatus) ([]models.Vendor, error)
}

type service struct {
	repo     Repository
	jwt      config.JWTConfig
	password config.PasswordConfig
	now      func() time.Time
}

// RegisterInput captures the fields submitted by a prospective vendor.
type RegisterInput struct {
	CompanyName string
	Email       string
	Phone       string
	Password    string
}

// LoginResult bundles the authenticated vendor with its access token.
type LoginResult struct {
	Vendor *models.Vendor
	Token  string
}

// NewService builds a vendor service with the required dependencies.
func NewService(repo Repository, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendors repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		repo:     repo,
		jwt:      jwtCfg,
		password: passwordCfg,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Vendor, error) {
	input.CompanyName = strings.TrimSpace(input.CompanyName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)

	if input.CompanyName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name required")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid email required")
	}
	if input.Phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	vendor := &models.Vendor{
		ID:           uuid.New(),
		CompanyName:  input.CompanyName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Status:       enums.VendorStatusPending,
	}

	created, err := s.repo.Create(ctx, vendor)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_vendors_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
	}
	return created, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	vendor, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	ok, err := security.VerifyPassword(password, vendor.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if vendor.Status != enums.VendorStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor account not approved")
	}

	token, err := auth.MintAccessToken(s.jwt, s.now(), auth.AccessTokenPayload{
		VendorID: vendor.ID,
		Status:   vendor.Status,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResult{Vendor: vendor, Token: token}, nil
}

func (s *service) Approve(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	return s.setStatus(ctx, vendorID, enums.VendorStatusApproved)
}

func (s *service) Reject(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	return s.setStatus(ctx, vendorID, enums.VendorStatusRejected)
}

func (s *service) setStatus(ctx context.Context, vendorID uuid.UUID, status enums.VendorStatus) (*models.Vendor, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	if vendor.Status == status {
		return vendor, nil
	}

	updates := map[string]any{"status": status}
	if status == enums.VendorStatusApproved {
		approvedAt := s.now().UTC()
		updates["approved_at"] = approvedAt
		vendor.ApprovedAt = &approvedAt
	}
	if err := s.repo.Update(ctx, vendorID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor status")
	}
	vendor.Status = status
	return vendor, nil
}

func (s *service) Get(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func (s *service) List(ctx context.Context, status *enums.VendorStatus) ([]models.Vendor, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vendor status filter")
	}
	out, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return out, nil
}
