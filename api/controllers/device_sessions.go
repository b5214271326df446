package controllers

import (
	"net/http"

	"github.com/openreel/openreel-backend/api/middleware"
	"github.com/openreel/openreel-backend/api/responses"
	"github.com/openreel/openreel-backend/api/validators"
	"github.com/openreel/openreel-backend/internal/devicelink"
	pkgerrors "github.com/openreel/openreel-backend/pkg/errors"
	"github.com/openreel/openreel-backend/pkg/logger"
)

// CreateDeviceSession mints a short-lived pairing code for the caller.
func CreateDeviceSession(svc *devicelink.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device link service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		session, err := svc.CreateSession(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

type claimDeviceSessionRequest struct {
	Code string `json:"code" validate:"required,min=4,max=16"`
}

// ClaimDeviceSession redeems a pairing code. Codes are single-use.
func ClaimDeviceSession(svc *devicelink.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device link service unavailable"))
			return
		}

		var payload claimDeviceSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := svc.ClaimSession(r.Context(), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"user_id": userID})
	}
}
