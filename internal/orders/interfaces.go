package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahirlabs/bazarika-backend/pkg/db/models"
	"github.com/mahirlabs/bazarika-backend/pkg/enums"
	"github.com/mahirlabs/bazarika-backend/pkg/pagination"
)

// Repository defines persistence operations for order lifecycle and tracking.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindVendorOrder(ctx context.Context, id uuid.UUID) (*models.VendorOrder, error)
	FindVendorOrdersByMaster(ctx context.Context, masterOrderID uuid.UUID) ([]models.VendorOrder, error)
	ListVendorOrders(ctx context.Context, vendorID uuid.UUID, status *enums.OrderStatus, params pagination.Params) ([]models.VendorOrder, string, error)
	UpdateVendorOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	UpdateMasterOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	FindMasterOrdersByPhone(ctx context.Context, phone string) ([]models.MasterOrder, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}
