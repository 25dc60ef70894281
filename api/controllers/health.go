package controllers

import (
	"context"
	"net/http"

	"github.com/mahirlabs/bazarika-backend/api/responses"
	"github.com/mahirlabs/bazarika-backend/pkg/config"
	pkgerrors "github.com/mahirlabs/bazarika-backend/pkg/errors"
	"github.com/mahirlabs/bazarika-backend/pkg/logger"
)

// Pinger is anything that can answer a liveness probe against a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bazarika-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the backing stores answer. Nil
// pingers are skipped so partial wiring in tests still works.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bazarika-Env", cfg.App.Env)
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
