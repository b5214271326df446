package devicelink

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/openreel/openreel-backend/pkg/errors"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 8

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
	DeviceSessionKey(code string) string
}

// Service issues short-lived device-link codes (TV/console pairing). Codes
// live in Redis with a TTL and are consumed exactly once on claim, so state
// survives restarts and cannot grow unbounded.
type Service struct {
	store sessionStore
	ttl   time.Duration
}

// Session is the pairing handle returned to the requesting device.
type Session struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewService constructs the device-link service.
func NewService(store sessionStore, ttl time.Duration) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Service{store: store, ttl: ttl}, nil
}

// CreateSession mints a pairing code bound to the given user.
func (s *Service) CreateSession(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	code, err := generateCode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate pairing code")
	}

	if err := s.store.Set(ctx, s.store.DeviceSessionKey(code), userID, s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store pairing code")
	}

	return &Session{Code: code, ExpiresAt: time.Now().Add(s.ttl)}, nil
}

// ClaimSession redeems a pairing code and returns the bound user id. Codes
// are single-use; a second claim of the same code fails with not found.
func (s *Service) ClaimSession(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}

	userID, err := s.store.GetDel(ctx, s.store.DeviceSessionKey(code))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "pairing code expired or unknown")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem pairing code")
	}
	return userID, nil
}

func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
