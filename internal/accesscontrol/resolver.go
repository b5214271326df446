package accesscontrol

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openreel/openreel-backend/pkg/db/models"
	"github.com/openreel/openreel-backend/pkg/enums"
	pkgerrors "github.com/openreel/openreel-backend/pkg/errors"
	"github.com/openreel/openreel-backend/pkg/metrics"
)

type decisionStore interface {
	LatestControlRecord(ctx context.Context, userID uuid.UUID) (*models.AccessControlRecord, error)
	FindProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
}

// Decision is the authoritative access verdict for a user.
type Decision struct {
	Status      enums.AccessStatus `json:"status"`
	CanAccess   bool               `json:"can_access"`
	AccessLevel enums.AccessLevel  `json:"access_level"`
	Reason      *string            `json:"reason,omitempty"`
	SuspendedAt *time.Time         `json:"suspended_at,omitempty"`
	Detail      string             `json:"detail"`
}

// Resolver computes access decisions by reading both stores and applying the
// priority rule: control record first, mirror second, implicit-active last.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*Decision, error)
}

type resolver struct {
	store    decisionStore
	pipeline *metrics.PipelineMetrics
}

// NewResolver constructs the access decision resolver.
func NewResolver(store decisionStore, pipeline *metrics.PipelineMetrics) (Resolver, error) {
	if store == nil {
		return nil, fmt.Errorf("decision store required")
	}
	return &resolver{store: store, pipeline: pipeline}, nil
}

func (r *resolver) Resolve(ctx context.Context, userID uuid.UUID) (*Decision, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	rec, err := r.store.LatestControlRecord(ctx, userID)
	switch {
	case err == nil:
		decision := &Decision{
			Status:      rec.Status,
			CanAccess:   rec.CanAccess,
			AccessLevel: rec.AccessLevel,
			Reason:      rec.Reason,
			SuspendedAt: rec.SuspendedAt,
			Detail:      "control record",
		}
		r.count(decision)
		return decision, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read control record")
	}

	profile, err := r.store.FindProfile(ctx, userID)
	switch {
	case err == nil:
		decision := &Decision{
			Status:      profile.Status,
			CanAccess:   profile.Status != enums.AccessStatusSuspended,
			AccessLevel: enums.AccessLevelFull,
			Detail:      "profile mirror",
		}
		r.count(decision)
		return decision, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read profile mirror")
	}

	decision := &Decision{
		Status:      enums.AccessStatusActive,
		CanAccess:   true,
		AccessLevel: enums.AccessLevelFull,
		Detail:      "implicit active",
	}
	r.count(decision)
	return decision, nil
}

func (r *resolver) count(d *Decision) {
	outcome := "denied"
	if d.CanAccess {
		outcome = "allowed"
	}
	r.pipeline.IncAccessCheck(outcome)
}
