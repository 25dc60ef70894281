package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mahirlabs/bazarika-backend/api/middleware"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
)

const timeFormat = time.RFC3339

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "missing path parameter").WithDetails(map[string]any{"field": name})
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]any{"field": name})
	}
	return parsed, nil
}

func vendorIDFrom(r *http.Request) uuid.UUID {
	return middleware.VendorIDFromContext(r.Context())
}

