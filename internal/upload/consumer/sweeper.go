package consumer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/openreel/openreel-backend/pkg/logger"
	"github.com/openreel/openreel-backend/pkg/metrics"
)

const (
	objectDeleteEvent    = "OBJECT_DELETE"
	payloadFormatJSONAPI = "JSON_API_V1"
)

type catalogSweepRepository interface {
	MarkUnavailableByObjectKey(ctx context.Context, key string) (int64, error)
}

// Sweeper watches Pub/Sub for GCS OBJECT_DELETE notifications and marks
// catalog records whose backing blob disappeared as unavailable. It reacts to
// external deletions only; it never retries failed upload compensations.
type Sweeper struct {
	repo         catalogSweepRepository
	subscription *pubsub.Subscriber
	logg         *logger.Logger
	pipeline     *metrics.PipelineMetrics
}

// NewSweeper wires the dependencies required for catalog cleanup.
func NewSweeper(repo catalogSweepRepository, subscription *pubsub.Subscriber, logg *logger.Logger, pipeline *metrics.PipelineMetrics) (*Sweeper, error) {
	if repo == nil {
		return nil, errors.New("catalog repository is required")
	}
	if subscription == nil {
		return nil, errors.New("storage events subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Sweeper{
		repo:         repo,
		subscription: subscription,
		logg:         logg,
		pipeline:     pipeline,
	}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (s *Sweeper) Run(ctx context.Context) error {
	return s.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := s.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (s *Sweeper) process(ctx context.Context, msg *pubsub.Message) processResult {
	attrs := parseAttributes(msg.Attributes)
	fields := s.buildLogFields(msg.ID, attrs, nil)
	logCtx := s.logg.WithFields(ctx, fields)

	if attrs.EventType != objectDeleteEvent {
		s.logg.Info(logCtx, "skipping non-delete event")
		return processResult{ack: true}
	}
	if attrs.PayloadFormat != payloadFormatJSONAPI {
		s.logg.Warn(logCtx, "unsupported payload format")
		return processResult{ack: true}
	}

	payload, err := decodePayload(msg.Data)
	if err != nil {
		s.logg.Error(logCtx, "failed to decode payload", err)
		return processResult{ack: true}
	}

	var obj gcsPayload
	if err := json.Unmarshal(payload, &obj); err != nil {
		fields["payload_preview"] = previewBytes(payload, 800)
		fields["payload_len"] = len(payload)
		logCtx = s.logg.WithFields(ctx, fields)
		s.logg.Error(logCtx, "failed to unmarshal payload", err)
		return processResult{ack: true}
	}

	if strings.TrimSpace(obj.Name) == "" {
		s.logg.Error(logCtx, "payload missing gcs object name", fmt.Errorf("empty name"))
		return processResult{ack: true}
	}

	fields = s.buildLogFields(msg.ID, attrs, &obj)
	logCtx = s.logg.WithFields(ctx, fields)

	touched, err := s.repo.MarkUnavailableByObjectKey(logCtx, obj.Name)
	if err != nil {
		s.logg.Error(logCtx, "catalog sweep db error", err)
		if isTransientDBError(err) {
			return processResult{nack: true}
		}
		return processResult{ack: true}
	}

	if touched == 0 {
		s.logg.Info(logCtx, "no catalog record references deleted object")
		return processResult{ack: true}
	}

	s.pipeline.IncCatalogSweep()
	s.logg.Info(logCtx, "catalog record marked unavailable")
	return processResult{ack: true}
}

func (s *Sweeper) buildLogFields(messageID string, attrs gcsAttributes, payload *gcsPayload) map[string]any {
	fields := map[string]any{
		"message_id": messageID,
		"event_type": attrs.EventType,
		"bucket":     firstNonEmpty(attrs.BucketID, gcsBucket(payload)),
	}
	if payload != nil {
		fields["object_key"] = payload.Name
	}
	return fields
}

func gcsBucket(p *gcsPayload) string {
	if p == nil {
		return ""
	}
	return p.Bucket
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseAttributes(attrs map[string]string) gcsAttributes {
	return gcsAttributes{
		EventType:     attrs["eventType"],
		BucketID:      attrs["bucketId"],
		ObjectID:      attrs["objectId"],
		PayloadFormat: attrs["payloadFormat"],
	}
}

type gcsAttributes struct {
	EventType     string
	BucketID      string
	ObjectID      string
	PayloadFormat string
}

type gcsPayload struct {
	Name        string `json:"name"`
	Bucket      string `json:"bucket"`
	Generation  string `json:"generation"`
	ContentType string `json:"contentType"`
	Size        string `json:"size"`
}

func decodePayload(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("payload empty")
	}
	if decoded, err := base64.StdEncoding.DecodeString(string(data)); err == nil {
		return decoded, nil
	}
	return data, nil
}

func isTransientDBError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func previewBytes(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "...(truncated)"
}
