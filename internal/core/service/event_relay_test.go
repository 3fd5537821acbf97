package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

type stubPublisher struct {
	failures  int // number of leading calls that fail
	calls     int
	published []domain.ProjectEvent
}

func (p *stubPublisher) Publish(_ context.Context, e domain.ProjectEvent) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, e)
	return nil
}

func newTestRelay(pub *stubPublisher) *eventRelay {
	r := NewEventRelay(pub, discardLogger).(*eventRelay)
	r.backoff = time.Millisecond
	return r
}

func TestEventRelay_Publishes(t *testing.T) {
	pub := &stubPublisher{}
	relay := newTestRelay(pub)

	err := relay.Process(context.Background(), domain.ProjectEvent{ID: "e1", Type: domain.EventProjectApproved})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0].ID != "e1" {
		t.Errorf("expected e1 to be published, got %+v", pub.published)
	}
}

func TestEventRelay_RetriesTransientFailure(t *testing.T) {
	pub := &stubPublisher{failures: 2}
	relay := newTestRelay(pub)

	if err := relay.Process(context.Background(), domain.ProjectEvent{ID: "e1"}); err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if pub.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", pub.calls)
	}
}

func TestEventRelay_GivesUp(t *testing.T) {
	pub := &stubPublisher{failures: 10}
	relay := newTestRelay(pub)

	if err := relay.Process(context.Background(), domain.ProjectEvent{ID: "e1"}); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if pub.calls != defaultPublishAttempts {
		t.Errorf("expected %d attempts, got %d", defaultPublishAttempts, pub.calls)
	}
}

func TestEventRelay_StopsOnCancel(t *testing.T) {
	pub := &stubPublisher{failures: 10}
	relay := newTestRelay(pub)
	relay.backoff = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := relay.Process(ctx, domain.ProjectEvent{ID: "e1"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if pub.calls != 1 {
		t.Errorf("expected a single attempt before cancellation, got %d", pub.calls)
	}
}
