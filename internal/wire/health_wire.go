package wire

import (
	"context"
	"net/http"
	"time"

	"barbershop-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireHealth(r chi.Router, deps Deps) {
	// Liveness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness: Postgres is required, Redis only when configured
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"postgres": "ok"}
		ready := true

		if err := deps.DB.Ping(ctx); err != nil {
			deps.Log.Warn("Readiness check failed", zap.String("dependency", "postgres"), zap.Error(err))
			checks["postgres"] = "unavailable"
			ready = false
		}

		if deps.Redis != nil {
			checks["redis"] = "ok"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				deps.Log.Warn("Readiness check failed", zap.String("dependency", "redis"), zap.Error(err))
				checks["redis"] = "unavailable"
				ready = false
			}
		}

		if !ready {
			utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "not ready", checks, nil)
			return
		}
		utils.ResponseSuccess(w, "ready", checks)
	})
}
