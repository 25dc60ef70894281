package vendors

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/auth"
	"github.com/mahirlabs/bazarika-backend/pkg/config"
	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/security"
)

type stubVendorRepo struct {
	byID    map[uuid.UUID]*models.Vendor
	byEmail map[string]*models.Vendor
	updates []map[string]any
}

func newStubVendorRepo() *stubVendorRepo {
	return &stubVendorRepo{
		byID:    map[uuid.UUID]*models.Vendor{},
		byEmail: map[string]*models.Vendor{},
	}
}

func (s *stubVendorRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubVendorRepo) Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	s.byID[vendor.ID] = vendor
	s.byEmail[vendor.Email] = vendor
	return vendor, nil
}

func (s *stubVendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if v, ok := s.byID[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVendorRepo) FindByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	if v, ok := s.byEmail[email]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVendorRepo) List(ctx context.Context, status *enums.VendorStatus) ([]models.Vendor, error) {
	var out []models.Vendor
	for _, v := range s.byID {
		if status == nil || v.Status == *status {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *stubVendorRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = append(s.updates, updates)
	v, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.VendorStatus); ok {
		v.Status = status
	}
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "bazarika-test",
		ExpirationMinutes: 30,
	}
}

func newVendorService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, testJWTConfig(), config.PasswordConfig{})
	require.NoError(t, err)
	return svc
}

func TestRegisterCreatesPendingVendor(t *testing.T) {
	repo := newStubVendorRepo()
	svc := newVendorService(t, repo)

	vendor, err := svc.Register(context.Background(), RegisterInput{
		CompanyName: "Dhaka Textiles",
		Email:       "Owner@Dhaka-Textiles.example",
		Phone:       "+8801712345678",
		Password:    "correct horse battery",
	})
	require.NoError(t, err)

	assert.Equal(t, enums.VendorStatusPending, vendor.Status)
	assert.Equal(t, "owner@dhaka-textiles.example", vendor.Email)
	assert.Nil(t, vendor.ApprovedAt)
	assert.NotEqual(t, "correct horse battery", vendor.PasswordHash)

	ok, err := security.VerifyPassword("correct horse battery", vendor.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterValidation(t *testing.T) {
	svc := newVendorService(t, newStubVendorRepo())

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing company", RegisterInput{Email: "a@b.example", Phone: "1", Password: "longenough"}},
		{"bad email", RegisterInput{CompanyName: "X", Email: "not-an-email", Phone: "1", Password: "longenough"}},
		{"short password", RegisterInput{CompanyName: "X", Email: "a@b.example", Phone: "1", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestAuthenticateRequiresApproval(t *testing.T) {
	repo := newStubVendorRepo()
	svc := newVendorService(t, repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		CompanyName: "Sylhet Crafts",
		Email:       "shop@sylhet-crafts.example",
		Phone:       "+8801812345678",
		Password:    "a long password",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "shop@sylhet-crafts.example", "a long password")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestAuthenticateApprovedVendor(t *testing.T) {
	repo := newStubVendorRepo()
	svc := newVendorService(t, repo)

	vendor, err := svc.Register(context.Background(), RegisterInput{
		CompanyName: "Sylhet Crafts",
		Email:       "shop@sylhet-crafts.example",
		Phone:       "+8801812345678",
		Password:    "a long password",
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), vendor.ID)
	require.NoError(t, err)

	result, err := svc.Authenticate(context.Background(), "shop@sylhet-crafts.example", "a long password")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := auth.ParseAccessToken(testJWTConfig(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, vendor.ID, claims.VendorID)
	assert.Equal(t, enums.VendorStatusApproved, claims.Status)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newStubVendorRepo()
	svc := newVendorService(t, repo)

	vendor, err := svc.Register(context.Background(), RegisterInput{
		CompanyName: "Sylhet Crafts",
		Email:       "shop@sylhet-crafts.example",
		Phone:       "+8801812345678",
		Password:    "a long password",
	})
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), vendor.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "shop@sylhet-crafts.example", "wrong password")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestApproveSetsApprovedAt(t *testing.T) {
	repo := newStubVendorRepo()
	svc := newVendorService(t, repo)

	vendor, err := svc.Register(context.Background(), RegisterInput{
		CompanyName: "Khulna Pottery",
		Email:       "hello@khulna-pottery.example",
		Phone:       "+8801912345678",
		Password:    "a long password",
	})
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.VendorStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	assert.WithinDuration(t, time.Now().UTC(), *approved.ApprovedAt, time.Minute)

	// Re-approving is a no-op, not an error.
	again, err := svc.Approve(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.VendorStatusApproved, again.Status)
}

func TestApproveUnknownVendor(t *testing.T) {
	svc := newVendorService(t, newStubVendorRepo())

	_, err := svc.Approve(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
