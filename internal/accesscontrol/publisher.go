package accesscontrol

import (
	"context"
	"encoding/json"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/openreel/openreel-backend/pkg/enums"
	"github.com/openreel/openreel-backend/pkg/logger"
)

const publishTimeout = 10 * time.Second

// AccessChangeEvent is emitted to the identity provider after a successful
// action so session checks elsewhere can short-circuit.
type AccessChangeEvent struct {
	UserID    uuid.UUID          `json:"user_id"`
	Email     string             `json:"email"`
	Action    enums.AccessAction `json:"action"`
	Status    enums.AccessStatus `json:"status"`
	CanAccess bool               `json:"can_access"`
	At        time.Time          `json:"at"`
}

// EventPublisher pushes access-change events to Pub/Sub. Delivery is
// best-effort; failures are logged and never surfaced to the admin caller.
type EventPublisher struct {
	publisher *pubsub.Publisher
	logg      *logger.Logger
}

// NewEventPublisher wraps an identity-events topic publisher. A nil publisher
// yields a nil EventPublisher, which the manager treats as "not configured".
func NewEventPublisher(publisher *pubsub.Publisher, logg *logger.Logger) *EventPublisher {
	if publisher == nil {
		return nil
	}
	return &EventPublisher{publisher: publisher, logg: logg}
}

func (p *EventPublisher) NotifyAccessChange(ctx context.Context, ev AccessChangeEvent) {
	if p == nil || p.publisher == nil {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		p.logError(ctx, ev, err)
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	result := p.publisher.Publish(publishCtx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": "access_change",
			"user_id":    ev.UserID.String(),
			"action":     string(ev.Action),
		},
	})

	go func() {
		defer cancel()
		if _, err := result.Get(publishCtx); err != nil {
			p.logError(publishCtx, ev, err)
		}
	}()
}

func (p *EventPublisher) logError(ctx context.Context, ev AccessChangeEvent, err error) {
	if p.logg == nil {
		return
	}
	lctx := p.logg.WithFields(ctx, map[string]any{
		"user_id": ev.UserID.String(),
		"action":  string(ev.Action),
	})
	p.logg.Error(lctx, "accesscontrol.event_publish_failed", err)
}
