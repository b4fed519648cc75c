package controllers

import (
	"net/http"

	"github.com/dhruvkatara/threadreel-backend/api/responses"
	"github.com/dhruvkatara/threadreel-backend/api/validators"
	"github.com/dhruvkatara/threadreel-backend/internal/home"
	pkgerrors "github.com/dhruvkatara/threadreel-backend/pkg/errors"
	"github.com/dhruvkatara/threadreel-backend/pkg/logger"
)

// UpdateHomeText publishes a new revision of the landing page copy.
func UpdateHomeText(svc home.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home service unavailable"))
			return
		}

		var body home.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		text, err := svc.Update(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, text)
	}
}

// HomeText returns the latest landing page copy.
func HomeText(svc home.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home service unavailable"))
			return
		}

		text, err := svc.Latest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, text)
	}
}
