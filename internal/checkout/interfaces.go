package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
)

// Repository defines persistence operations for checkout and its fan-out.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateMasterOrder(ctx context.Context, order *models.MasterOrder) (*models.MasterOrder, error)
	CreateVendorOrders(ctx context.Context, orders []models.VendorOrder) error
	FindMasterOrderByID(ctx context.Context, id uuid.UUID) (*models.MasterOrder, error)
	FindDeliveryZoneByID(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error)
	ListDeliveryZones(ctx context.Context) ([]models.DeliveryZone, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
	FindVendorsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Vendor, error)
}
