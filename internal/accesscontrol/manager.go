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
	"github.com/openreel/openreel-backend/pkg/logger"
	"github.com/openreel/openreel-backend/pkg/metrics"
)

type userRegistry interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type controlStore interface {
	AppendControlRecord(ctx context.Context, rec *models.AccessControlRecord) (*models.AccessControlRecord, error)
	UpsertProfileMirror(ctx context.Context, profile *models.UserProfile) error
}

type changeNotifier interface {
	NotifyAccessChange(ctx context.Context, ev AccessChangeEvent)
}

// Manager applies admin-issued access transitions to a user.
type Manager interface {
	ApplyAction(ctx context.Context, userID uuid.UUID, action enums.AccessAction, reason string) (*models.AccessControlRecord, error)
}

type manager struct {
	users    userRegistry
	store    controlStore
	notifier changeNotifier
	logg     *logger.Logger
	pipeline *metrics.PipelineMetrics
	now      func() time.Time
}

// NewManager constructs the access-control manager. The notifier may be nil
// when no identity provider integration is configured.
func NewManager(users userRegistry, store controlStore, notifier changeNotifier, logg *logger.Logger, pipeline *metrics.PipelineMetrics) (Manager, error) {
	if users == nil {
		return nil, fmt.Errorf("user registry required")
	}
	if store == nil {
		return nil, fmt.Errorf("control store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &manager{
		users:    users,
		store:    store,
		notifier: notifier,
		logg:     logg,
		pipeline: pipeline,
		now:      time.Now,
	}, nil
}

func (m *manager) ApplyAction(ctx context.Context, userID uuid.UUID, action enums.AccessAction, reason string) (*models.AccessControlRecord, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if IsProtected(user.Role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin accounts cannot be targeted")
	}

	outcome, err := outcomeFor(action, reason, m.now().UTC())
	if err != nil {
		return nil, err
	}

	rec := &models.AccessControlRecord{
		ID:     uuid.New(),
		UserID: user.ID,
		Email:  user.Email,
	}
	outcome.apply(rec)

	stored, err := m.store.AppendControlRecord(ctx, rec)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMetadataCommit, err, "write control record")
	}

	// The mirror write is best-effort; the resolver's priority rule covers
	// any transient divergence.
	mirror := &models.UserProfile{
		ID:     user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Status: stored.Status,
	}
	if mirrorErr := m.store.UpsertProfileMirror(ctx, mirror); mirrorErr != nil {
		mctx := m.logg.WithFields(ctx, map[string]any{
			"user_id": user.ID.String(),
			"status":  string(stored.Status),
		})
		m.logg.Warn(m.logg.WithField(mctx, "mirror_error", mirrorErr.Error()), "accesscontrol.mirror_write_failed")
	}

	if m.notifier != nil {
		m.notifier.NotifyAccessChange(ctx, AccessChangeEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Action:    action,
			Status:    stored.Status,
			CanAccess: stored.CanAccess,
			At:        m.now().UTC(),
		})
	}

	m.pipeline.IncAccessAction(string(action))
	actx := m.logg.WithFields(ctx, map[string]any{
		"target_user": user.ID.String(),
		"action":      string(action),
		"status":      string(stored.Status),
	})
	m.logg.Info(actx, "accesscontrol.action_applied")

	return stored, nil
}
