package audit

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/intervue/session-server/internal/core"
	"github.com/intervue/session-server/internal/store/sqlite"
)

func TestRecorderPersistsGatewayLifecycle(t *testing.T) {
	req := require.New(t)

	st, err := sqlite.NewWithSetup(":memory:", sqlite.Migrate)
	req.NoError(err)
	defer st.Close()

	logger := zerolog.Nop()
	rec := New(st, 16, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rec.Run(ctx)
		close(done)
	}()

	gw := core.NewGateway(core.NewRegistry(), rec, &logger, 8)
	x := gw.Connect("x", "")
	y := gw.Connect("y", "")
	_, _ = gw.Join(x, "r1", "alice")
	_, _ = gw.Join(y, "r1", "bob")
	gw.Disconnect(y)
	gw.Disconnect(x)

	cancel()
	<-done

	events, err := st.ListSessionEvents(context.Background(), "r1", 50)
	req.NoError(err)
	req.Len(events, 6)

	kinds := make(map[string]int)
	for _, ev := range events {
		kinds[ev.Kind]++
	}
	req.Equal(map[string]int{
		string(core.LifecycleRoomOpened):        1,
		string(core.LifecycleParticipantJoined): 2,
		string(core.LifecycleParticipantLeft):   2,
		string(core.LifecycleRoomClosed):        1,
	}, kinds)
}

func TestRecorderDropsWhenQueueFull(t *testing.T) {
	st, err := sqlite.NewWithSetup(":memory:", sqlite.Migrate)
	require.NoError(t, err)
	defer st.Close()

	logger := zerolog.Nop()
	rec := New(st, 1, &logger)

	// No worker running: the second event must not block.
	finished := make(chan struct{})
	go func() {
		rec.Record(core.LifecycleEvent{Kind: core.LifecycleRoomOpened, Room: "r1", At: time.Now()})
		rec.Record(core.LifecycleEvent{Kind: core.LifecycleRoomClosed, Room: "r1", At: time.Now()})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	require.Len(t, rec.queue, 1)
}
