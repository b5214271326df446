package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openreel/openreel-backend/api/responses"
	"github.com/openreel/openreel-backend/api/validators"
	"github.com/openreel/openreel-backend/internal/accesscontrol"
	"github.com/openreel/openreel-backend/pkg/db/models"
	"github.com/openreel/openreel-backend/pkg/enums"
	pkgerrors "github.com/openreel/openreel-backend/pkg/errors"
	"github.com/openreel/openreel-backend/pkg/logger"
)

type userLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type historyStore interface {
	ControlHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.AccessControlRecord, error)
}

type accessActionRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Action string `json:"action" validate:"required,oneof=suspend activate restrict"`
	Reason string `json:"reason" validate:"max=512"`
}

// ApplyAccessAction handles admin suspend/activate/restrict requests.
func ApplyAccessAction(mgr accesscontrol.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access manager unavailable"))
			return
		}

		var payload accessActionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(payload.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_id"))
			return
		}

		action, err := enums.ParseAccessAction(payload.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid action"))
			return
		}

		rec, err := mgr.ApplyAction(r.Context(), userID, action, strings.TrimSpace(payload.Reason))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

// AccessStatus returns the resolved decision and recent control history for a user.
func AccessStatus(res accesscontrol.Resolver, history historyStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if res == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access resolver unavailable"))
			return
		}

		userID, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		decision, err := res.Resolve(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body := map[string]any{
			"user_id":  userID,
			"decision": decision,
		}
		if history != nil {
			if recs, histErr := history.ControlHistory(r.Context(), userID, 50); histErr == nil {
				body["history"] = recs
			}
		}
		responses.WriteSuccess(w, body)
	}
}

type checkAccessRequest struct {
	UserID string `json:"user_id" validate:"omitempty,uuid"`
	Email  string `json:"email" validate:"omitempty,email"`
}

// CheckAccess resolves the access decision for a user named by id or email.
func CheckAccess(res accesscontrol.Resolver, users userLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if res == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access resolver unavailable"))
			return
		}

		var payload checkAccessRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := resolveSubject(r.Context(), users, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decision, err := res.Resolve(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"user_id":  userID,
			"decision": decision,
		})
	}
}

func resolveSubject(ctx context.Context, users userLookup, payload checkAccessRequest) (uuid.UUID, error) {
	switch {
	case payload.UserID != "":
		id, err := uuid.Parse(payload.UserID)
		if err != nil {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_id")
		}
		return id, nil
	case payload.Email != "":
		if users == nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeInternal, "user lookup unavailable")
		}
		user, err := users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(payload.Email)))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user by email")
		}
		return user.ID, nil
	default:
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id or email is required")
	}
}
