package accesscontrol

import (
	"strings"
	"time"

	"github.com/openreel/openreel-backend/pkg/db/models"
	"github.com/openreel/openreel-backend/pkg/enums"
	pkgerrors "github.com/openreel/openreel-backend/pkg/errors"
)

// Outcome is the typed result of an admin action. Each variant knows how to
// project itself onto a control record, so optional fields only exist where
// the action defines them.
type Outcome interface {
	apply(rec *models.AccessControlRecord)
}

// Suspended revokes access entirely.
type Suspended struct {
	Reason string
	At     time.Time
}

func (o Suspended) apply(rec *models.AccessControlRecord) {
	rec.Status = enums.AccessStatusSuspended
	rec.CanAccess = false
	rec.AccessLevel = enums.AccessLevelFull
	at := o.At
	rec.SuspendedAt = &at
	if reason := strings.TrimSpace(o.Reason); reason != "" {
		rec.Reason = &reason
	}
}

// Restricted keeps access but limits it.
type Restricted struct {
	Reason string
	At     time.Time
}

func (o Restricted) apply(rec *models.AccessControlRecord) {
	rec.Status = enums.AccessStatusRestricted
	rec.CanAccess = true
	rec.AccessLevel = enums.AccessLevelLimited
	at := o.At
	rec.RestrictedAt = &at
	if reason := strings.TrimSpace(o.Reason); reason != "" {
		rec.Reason = &reason
	}
}

// Activated restores full access and clears prior reasons and timestamps.
type Activated struct{}

func (o Activated) apply(rec *models.AccessControlRecord) {
	rec.Status = enums.AccessStatusActive
	rec.CanAccess = true
	rec.AccessLevel = enums.AccessLevelFull
	rec.Reason = nil
	rec.SuspendedAt = nil
	rec.RestrictedAt = nil
}

func outcomeFor(action enums.AccessAction, reason string, now time.Time) (Outcome, error) {
	switch action {
	case enums.AccessActionSuspend:
		return Suspended{Reason: reason, At: now}, nil
	case enums.AccessActionActivate:
		return Activated{}, nil
	case enums.AccessActionRestrict:
		return Restricted{Reason: reason, At: now}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown access action")
	}
}
