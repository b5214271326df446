package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/openreel/openreel-backend/pkg/logger"
	"github.com/openreel/openreel-backend/pkg/metrics"
)

type stubSweepRepo struct {
	keys    []string
	touched int64
	err     error
}

func (s *stubSweepRepo) MarkUnavailableByObjectKey(ctx context.Context, key string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.keys = append(s.keys, key)
	return s.touched, nil
}

func newTestSweeper(t *testing.T, repo *stubSweepRepo) *Sweeper {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	return &Sweeper{
		repo:     repo,
		logg:     logg,
		pipeline: metrics.NewPipelineMetrics(nil),
	}
}

func deleteMessage(t *testing.T, objectName string) *pubsub.Message {
	t.Helper()
	payload, err := json.Marshal(gcsPayload{Name: objectName, Bucket: "bucket"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"eventType":     objectDeleteEvent,
			"bucketId":      "bucket",
			"objectId":      objectName,
			"payloadFormat": payloadFormatJSONAPI,
		},
	}
}

func TestSweeperMarksRecordUnavailable(t *testing.T) {
	t.Parallel()

	repo := &stubSweepRepo{touched: 1}
	sweeper := newTestSweeper(t, repo)

	res := sweeper.process(context.Background(), deleteMessage(t, "movies/abc.mp4"))
	if !res.ack || res.nack {
		t.Fatalf("expected ack, got %+v", res)
	}
	if len(repo.keys) != 1 || repo.keys[0] != "movies/abc.mp4" {
		t.Fatalf("unexpected repo calls %v", repo.keys)
	}
}

func TestSweeperSkipsNonDeleteEvents(t *testing.T) {
	t.Parallel()

	repo := &stubSweepRepo{touched: 1}
	sweeper := newTestSweeper(t, repo)

	msg := deleteMessage(t, "movies/abc.mp4")
	msg.Attributes["eventType"] = "OBJECT_FINALIZE"

	res := sweeper.process(context.Background(), msg)
	if !res.ack {
		t.Fatalf("expected ack, got %+v", res)
	}
	if len(repo.keys) != 0 {
		t.Fatal("non-delete events must not touch the catalog")
	}
}

func TestSweeperAcksUnknownObject(t *testing.T) {
	t.Parallel()

	repo := &stubSweepRepo{touched: 0}
	sweeper := newTestSweeper(t, repo)

	res := sweeper.process(context.Background(), deleteMessage(t, "movies/unknown.mp4"))
	if !res.ack {
		t.Fatalf("expected ack for unknown object, got %+v", res)
	}
}

func TestSweeperNacksTransientDBError(t *testing.T) {
	t.Parallel()

	repo := &stubSweepRepo{err: context.DeadlineExceeded}
	sweeper := newTestSweeper(t, repo)

	res := sweeper.process(context.Background(), deleteMessage(t, "movies/abc.mp4"))
	if !res.nack {
		t.Fatalf("expected nack on transient db error, got %+v", res)
	}
}

func TestSweeperAcksPermanentDBError(t *testing.T) {
	t.Parallel()

	repo := &stubSweepRepo{err: fmt.Errorf("constraint violated")}
	sweeper := newTestSweeper(t, repo)

	res := sweeper.process(context.Background(), deleteMessage(t, "movies/abc.mp4"))
	if !res.ack || res.nack {
		t.Fatalf("expected ack on permanent db error, got %+v", res)
	}
}

func TestSweeperAcksMalformedPayload(t *testing.T) {
	t.Parallel()

	repo := &stubSweepRepo{}
	sweeper := newTestSweeper(t, repo)

	msg := deleteMessage(t, "movies/abc.mp4")
	msg.Data = []byte("not-json")

	res := sweeper.process(context.Background(), msg)
	if !res.ack {
		t.Fatalf("expected ack for malformed payload, got %+v", res)
	}
	if len(repo.keys) != 0 {
		t.Fatal("malformed payloads must not touch the catalog")
	}
}
