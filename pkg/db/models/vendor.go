package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mahirlabs/bazarika-backend/pkg/enums"
)

// Vendor represents a seller account on the marketplace.
type Vendor struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyName  string             `gorm:"column:company_name;not null"`
	Email        string             `gorm:"column:email;not null;uniqueIndex"`
	Phone        string             `gorm:"column:phone;not null"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	Status       enums.VendorStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ApprovedAt   *time.Time         `gorm:"column:approved_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
