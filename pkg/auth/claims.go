package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mahirlabs/bazarika-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a vendor JWT.
type AccessTokenPayload struct {
	VendorID uuid.UUID
	Status   enums.VendorStatus
	IsAdmin  bool
}

// AccessTokenClaims represents the typed JWT issued to vendor clients.
type AccessTokenClaims struct {
	VendorID uuid.UUID          `json:"vendor_id"`
	Status   enums.VendorStatus `json:"status"`
	IsAdmin  bool               `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}
