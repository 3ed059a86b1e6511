package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/intervue/session-server/internal/core"
	"github.com/intervue/session-server/internal/store"
)

const writeTimeout = 2 * time.Second

// Recorder persists room lifecycle events off the hot path.
// Record never blocks; when the queue is full the event is dropped.
type Recorder struct {
	store store.SessionStore
	queue chan core.LifecycleEvent
	log   *zerolog.Logger
}

// New creates a recorder with a queue of the given size.
func New(st store.SessionStore, buffer int, logger *zerolog.Logger) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	return &Recorder{
		store: st,
		queue: make(chan core.LifecycleEvent, buffer),
		log:   logger,
	}
}

// Record queues ev for persistence.
func (r *Recorder) Record(ev core.LifecycleEvent) {
	select {
	case r.queue <- ev:
	default:
		r.log.Warn().Str("room", ev.Room).Str("kind", string(ev.Kind)).Msg("audit queue full, dropping event")
	}
}

// Run writes queued events until ctx is cancelled, then flushes what is left.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case ev := <-r.queue:
			r.persist(ev)
		case <-ctx.Done():
			r.drain()
			return
		}
	}
}

func (r *Recorder) drain() {
	for {
		select {
		case ev := <-r.queue:
			r.persist(ev)
		default:
			return
		}
	}
}

// persist is detached from Run's context so a shutdown does not abort in-flight writes.
func (r *Recorder) persist(ev core.LifecycleEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	err := r.store.AppendSessionEvent(ctx, &store.SessionEvent{
		Room:      ev.Room,
		Kind:      string(ev.Kind),
		HandleID:  ev.HandleID,
		Identity:  ev.Identity,
		CreatedAt: ev.At,
	})
	if err != nil {
		r.log.Error().Err(err).Str("room", ev.Room).Str("kind", string(ev.Kind)).Msg("persist session event")
	}
}
