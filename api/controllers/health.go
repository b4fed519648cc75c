package controllers

import (
	"net/http"

	"github.com/dhruvkatara/threadreel-backend/api/responses"
	"github.com/dhruvkatara/threadreel-backend/pkg/config"
	"github.com/dhruvkatara/threadreel-backend/pkg/db"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
	"github.com/dhruvkatara/threadreel-backend/pkg/logger"
	pkgredis "github.com/dhruvkatara/threadreel-backend/pkg/redis"
)

// HealthLive reports process liveness without touching dependencies.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ThreadReel-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis before declaring the
// service ready to take traffic.
func HealthReady(cfg *config.Config, database db.Pinger, cache pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ThreadReel-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
