package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

type recordingProcessor struct {
	mu     sync.Mutex
	seen   map[string][]int64
	failOn int64
}

func newRecordingProcessor() *recordingProcessor {
	return &recordingProcessor{seen: map[string][]int64{}}
}

func (p *recordingProcessor) Process(_ context.Context, ev domain.ProjectEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen[ev.ProjectID] = append(p.seen[ev.ProjectID], ev.Version)
	if p.failOn != 0 && ev.Version == p.failOn {
		return errors.New("broker down")
	}
	return nil
}

func TestDispatcher_PreservesPerProjectOrder(t *testing.T) {
	proc := newRecordingProcessor()
	d := NewDispatcher(3, proc, zerolog.Nop())
	d.Start(context.Background())

	const projects, versions = 10, 20
	for v := int64(1); v <= versions; v++ {
		for p := 0; p < projects; p++ {
			d.Enqueue(domain.ProjectEvent{ProjectID: fmt.Sprintf("p-%d", p), Version: v})
		}
	}
	d.Stop()

	if len(proc.seen) != projects {
		t.Fatalf("want %d projects processed, got %d", projects, len(proc.seen))
	}
	for id, got := range proc.seen {
		if len(got) != versions {
			t.Fatalf("%s: want %d events, got %d", id, versions, len(got))
		}
		for i, v := range got {
			if v != int64(i+1) {
				t.Fatalf("%s: events out of order: %v", id, got)
			}
		}
	}
}

func TestDispatcher_ProcessingErrorDoesNotStopWorker(t *testing.T) {
	proc := newRecordingProcessor()
	proc.failOn = 1
	d := NewDispatcher(1, proc, zerolog.Nop())
	d.Start(context.Background())

	d.Enqueue(domain.ProjectEvent{ProjectID: "p-1", Version: 1})
	d.Enqueue(domain.ProjectEvent{ProjectID: "p-1", Version: 2})
	d.Stop()

	if got := proc.seen["p-1"]; len(got) != 2 {
		t.Fatalf("want both events processed, got %v", got)
	}
}

func TestDispatcher_EnqueueAfterStopIsDropped(t *testing.T) {
	proc := newRecordingProcessor()
	d := NewDispatcher(2, proc, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()

	d.Enqueue(domain.ProjectEvent{ProjectID: "p-1", Version: 1})
	d.Stop()

	if len(proc.seen) != 0 {
		t.Fatalf("expected no processing after stop, got %v", proc.seen)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(5, newRecordingProcessor(), zerolog.Nop())
	for _, id := range []string{"a", "p-1", "7f9c2ba4-e88f-4c1a-9a6b-0f3e2d1c8b7a"} {
		first := d.shardIndex(id)
		if first < 0 || first >= 5 {
			t.Fatalf("shard %d out of range", first)
		}
		for i := 0; i < 10; i++ {
			if d.shardIndex(id) != first {
				t.Fatalf("shard for %q changed", id)
			}
		}
	}
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, newRecordingProcessor(), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("want %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
