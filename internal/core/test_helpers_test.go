package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func newTestGateway(rec Recorder) *Gateway {
	logger := zerolog.Nop()
	return NewGateway(NewRegistry(), rec, &logger, 16)
}

type memRecorder struct {
	events []LifecycleEvent
}

func (m *memRecorder) Record(ev LifecycleEvent) {
	m.events = append(m.events, ev)
}

func (m *memRecorder) kinds() []LifecycleKind {
	out := make([]LifecycleKind, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Kind)
	}
	return out
}
