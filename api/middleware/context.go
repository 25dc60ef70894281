package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxVendorID contextKey = "vendor_id"
	ctxIsAdmin  contextKey = "is_admin"
)

// VendorIDFromContext returns the authenticated vendor id, or uuid.Nil.
func VendorIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxVendorID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// IsAdminFromContext reports whether the request carries admin claims.
func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsAdmin).(bool); ok {
		return v
	}
	return false
}

// WithVendorID injects the vendor identifier into the context.
func WithVendorID(ctx context.Context, vendorID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxVendorID, vendorID)
}

// WithAdmin marks the context as carrying admin claims.
func WithAdmin(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIsAdmin, true)
}
