package accesscontrol

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openreel/openreel-backend/pkg/db/models"
	"github.com/openreel/openreel-backend/pkg/enums"
	pkgerrors "github.com/openreel/openreel-backend/pkg/errors"
	"github.com/openreel/openreel-backend/pkg/metrics"
)

type stubDecisionStore struct {
	record     *models.AccessControlRecord
	recordErr  error
	profile    *models.UserProfile
	profileErr error
}

func (s *stubDecisionStore) LatestControlRecord(ctx context.Context, userID uuid.UUID) (*models.AccessControlRecord, error) {
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	if s.record == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubDecisionStore) FindProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	if s.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.profile, nil
}

func newTestResolver(t *testing.T, store decisionStore) Resolver {
	t.Helper()
	res, err := NewResolver(store, metrics.NewPipelineMetrics(nil))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return res
}

func TestResolveControlRecordOverridesStaleMirror(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	reason := "ToS violation"
	suspendedAt := time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC)
	store := &stubDecisionStore{
		record: &models.AccessControlRecord{
			UserID:      userID,
			Status:      enums.AccessStatusSuspended,
			CanAccess:   false,
			AccessLevel: enums.AccessLevelFull,
			Reason:      &reason,
			SuspendedAt: &suspendedAt,
		},
		// Stale mirror still claims the user is active.
		profile: &models.UserProfile{ID: userID, Status: enums.AccessStatusActive},
	}

	decision, err := newTestResolver(t, store).Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if decision.CanAccess {
		t.Fatal("control record must override the mirror")
	}
	if decision.Status != enums.AccessStatusSuspended {
		t.Fatalf("unexpected status %s", decision.Status)
	}
	if decision.Reason == nil || *decision.Reason != reason {
		t.Fatal("reason must surface in the decision")
	}
	if decision.SuspendedAt == nil || !decision.SuspendedAt.Equal(suspendedAt) {
		t.Fatalf("unexpected suspended_at %v", decision.SuspendedAt)
	}
	if decision.Detail != "control record" {
		t.Fatalf("unexpected detail %q", decision.Detail)
	}
}

func TestResolveFallsBackToMirror(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := &stubDecisionStore{
		profile: &models.UserProfile{ID: userID, Status: enums.AccessStatusSuspended},
	}

	decision, err := newTestResolver(t, store).Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if decision.CanAccess {
		t.Fatal("suspended mirror must deny access")
	}
	if decision.Detail != "profile mirror" {
		t.Fatalf("unexpected detail %q", decision.Detail)
	}
}

func TestResolveImplicitActive(t *testing.T) {
	t.Parallel()

	decision, err := newTestResolver(t, &stubDecisionStore{}).Resolve(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !decision.CanAccess || decision.Status != enums.AccessStatusActive {
		t.Fatalf("unexpected decision %+v", decision)
	}
	if decision.AccessLevel != enums.AccessLevelFull {
		t.Fatalf("unexpected level %s", decision.AccessLevel)
	}
	if decision.Detail != "implicit active" {
		t.Fatalf("unexpected detail %q", decision.Detail)
	}
}

func TestResolveIsReadOnlyAndRepeatable(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := &stubDecisionStore{
		record: &models.AccessControlRecord{
			UserID:      userID,
			Status:      enums.AccessStatusRestricted,
			CanAccess:   true,
			AccessLevel: enums.AccessLevelLimited,
		},
	}
	res := newTestResolver(t, store)

	first, err := res.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := res.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if *first != *second {
		t.Fatalf("repeated resolves diverged: %+v vs %+v", first, second)
	}
}

func TestResolveDependencyError(t *testing.T) {
	t.Parallel()

	store := &stubDecisionStore{recordErr: errors.New("db down")}

	_, err := newTestResolver(t, store).Resolve(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

// memoryStore backs the end-to-end transition scenario below. It serves both
// the manager's writes and the resolver's reads, with the latest appended
// record winning.
type memoryStore struct {
	records []*models.AccessControlRecord
	profile *models.UserProfile
}

func (s *memoryStore) AppendControlRecord(ctx context.Context, rec *models.AccessControlRecord) (*models.AccessControlRecord, error) {
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *memoryStore) UpsertProfileMirror(ctx context.Context, profile *models.UserProfile) error {
	s.profile = profile
	return nil
}

func (s *memoryStore) LatestControlRecord(ctx context.Context, userID uuid.UUID) (*models.AccessControlRecord, error) {
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].UserID == userID {
			return s.records[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memoryStore) FindProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if s.profile == nil || s.profile.ID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.profile, nil
}

func TestSuspendThenActivateLifecycle(t *testing.T) {
	t.Parallel()

	registry, userID := regularUser()
	store := &memoryStore{}
	mgr := newTestManager(t, registry, store, nil)
	res := newTestResolver(t, store)
	ctx := context.Background()

	if _, err := mgr.ApplyAction(ctx, userID, enums.AccessActionSuspend, "ToS violation"); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	decision, err := res.Resolve(ctx, userID)
	if err != nil {
		t.Fatalf("resolve after suspend: %v", err)
	}
	if decision.CanAccess || decision.Status != enums.AccessStatusSuspended {
		t.Fatalf("expected suspended decision, got %+v", decision)
	}

	if _, err := mgr.ApplyAction(ctx, userID, enums.AccessActionActivate, "appeal approved"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	decision, err = res.Resolve(ctx, userID)
	if err != nil {
		t.Fatalf("resolve after activate: %v", err)
	}
	if !decision.CanAccess || decision.Status != enums.AccessStatusActive {
		t.Fatalf("expected active decision, got %+v", decision)
	}
	if decision.Reason != nil {
		t.Fatal("activation must clear the recorded reason")
	}
}
