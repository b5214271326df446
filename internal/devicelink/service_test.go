package devicelink

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/openreel/openreel-backend/pkg/errors"
)

type stubStore struct {
	values map[string]string
	ttls   map[string]time.Duration
	setErr error
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *stubStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value.(string)
	s.ttls[key] = ttl
	return nil
}

func (s *stubStore) GetDel(ctx context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", goredis.Nil
	}
	delete(s.values, key)
	return v, nil
}

func (s *stubStore) DeviceSessionKey(code string) string {
	return "or:device_session:" + code
}

func TestCreateAndClaimSession(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	svc, err := NewService(store, 5*time.Minute)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	session, err := svc.CreateSession(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if len(session.Code) != codeLength {
		t.Fatalf("unexpected code %q", session.Code)
	}
	if ttl := store.ttls[store.DeviceSessionKey(session.Code)]; ttl != 5*time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	userID, err := svc.ClaimSession(context.Background(), session.Code)
	if err != nil {
		t.Fatalf("ClaimSession: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("unexpected user %q", userID)
	}
}

func TestClaimSessionIsSingleUse(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	svc, err := NewService(store, time.Minute)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	session, err := svc.CreateSession(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if _, err := svc.ClaimSession(context.Background(), session.Code); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	_, err = svc.ClaimSession(context.Background(), session.Code)
	if err == nil {
		t.Fatal("expected second claim to fail")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClaimUnknownCode(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubStore(), time.Minute)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.ClaimSession(context.Background(), "ZZZZZZZZ")
	if err == nil {
		t.Fatal("expected error for unknown code")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
