package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGatewayJoinCreatedJoinedFull(t *testing.T) {
	req := require.New(t)
	rec := &memRecorder{}
	gw := newTestGateway(rec)

	x := gw.Connect("x", "")
	y := gw.Connect("y", "")
	z := gw.Connect("z", "")

	outcome, err := gw.Join(x, "r1", "interviewer")
	req.NoError(err)
	req.Equal(JoinCreated, outcome)
	mustEvent(t, x.Events, EventCreated)

	outcome, err = gw.Join(y, "r1", "candidate")
	req.NoError(err)
	req.Equal(JoinJoined, outcome)
	mustEvent(t, y.Events, EventJoined)
	joined := mustEvent(t, x.Events, EventUserJoined)
	req.Equal("y", joined.HandleID)
	req.Equal("candidate", joined.Identity)

	outcome, err = gw.Join(z, "r1", "observer")
	req.ErrorIs(err, ErrRoomFull)
	req.Equal(JoinRejected, outcome)
	full := mustEvent(t, z.Events, EventFull)
	req.Equal("r1", full.Room)
	req.Len(gw.Rooms().Participants("r1"), 2)
	req.Empty(z.Room())
	mustNoEvent(t, x.Events)

	req.Equal([]LifecycleKind{
		LifecycleRoomOpened,
		LifecycleParticipantJoined,
		LifecycleParticipantJoined,
		LifecycleParticipantRejected,
	}, rec.kinds())
}

func TestGatewayDoubleJoinProducesError(t *testing.T) {
	req := require.New(t)
	gw := newTestGateway(nil)

	x := gw.Connect("x", "")
	_, _ = gw.Join(x, "r1", "")
	mustEvent(t, x.Events, EventCreated)

	_, err := gw.Join(x, "r2", "")
	req.ErrorIs(err, ErrAlreadyJoined)
	ev := mustEvent(t, x.Events, EventError)
	req.Equal(ErrCodeAlreadyJoined, ev.Error.Code)
	req.Equal("r1", x.Room())
	_, ok := gw.Rooms().Lookup("r2")
	req.False(ok)
}

func TestGatewayEmptyRoomIDIsTrackedAsMembership(t *testing.T) {
	req := require.New(t)
	gw := newTestGateway(nil)

	x := gw.Connect("x", "")
	outcome, err := gw.Join(x, "", "alice")
	req.NoError(err)
	req.Equal(JoinCreated, outcome)
	mustEvent(t, x.Events, EventCreated)

	room, joined := x.Membership()
	req.True(joined)
	req.Equal("", room)

	_, err = gw.Join(x, "r2", "alice")
	req.ErrorIs(err, ErrAlreadyJoined)
	mustEvent(t, x.Events, EventError)
	_, ok := gw.Rooms().Lookup("r2")
	req.False(ok)

	gw.Disconnect(x)
	_, joined = x.Membership()
	req.False(joined)
	_, ok = gw.Rooms().Lookup("")
	req.False(ok)
	req.Equal(0, gw.Rooms().Len())
}

func TestGatewayAuthenticatedIdentityWins(t *testing.T) {
	req := require.New(t)
	gw := newTestGateway(nil)

	x := gw.Connect("x", "verified-alice")
	y := gw.Connect("y", "")
	_, _ = gw.Join(x, "r1", "mallory")
	_, _ = gw.Join(y, "r1", "bob")

	req.Equal("verified-alice", x.Identity())
	ev := mustEvent(t, x.Events, EventUserJoined)
	req.Equal("bob", ev.Identity)
}

func TestGatewayOfferDeliveredOnlyToPeer(t *testing.T) {
	req := require.New(t)
	gw := newTestGateway(nil)

	x := gw.Connect("x", "")
	y := gw.Connect("y", "")
	_, _ = gw.Join(x, "r1", "")
	_, _ = gw.Join(y, "r1", "")
	mustEvent(t, x.Events, EventUserJoined)
	mustEvent(t, y.Events, EventJoined)

	gw.Handle(x, Signal{Room: "r1", Kind: SignalOffer, Payload: json.RawMessage(`{"sdp":"A"}`)})
	ev := mustEvent(t, y.Events, EventOffer)
	req.JSONEq(`{"sdp":"A"}`, string(ev.Payload))
	mustNoEvent(t, x.Events)
	mustNoEvent(t, y.Events)

	gw.Handle(y, Signal{Room: "r1", Kind: SignalAnswer, Payload: json.RawMessage(`"B"`)})
	ev = mustEvent(t, x.Events, EventAnswer)
	req.Equal(`"B"`, string(ev.Payload))

	gw.Handle(y, Signal{Room: "r1", Kind: SignalCandidate, Payload: json.RawMessage(`{"candidate":"c1"}`)})
	mustEvent(t, x.Events, EventCandidate)
	mustNoEvent(t, y.Events)
}

func TestGatewaySignalOrderPerSender(t *testing.T) {
	req := require.New(t)
	gw := newTestGateway(nil)

	x := gw.Connect("x", "")
	y := gw.Connect("y", "")
	_, _ = gw.Join(x, "r1", "")
	_, _ = gw.Join(y, "r1", "")
	mustEvent(t, y.Events, EventJoined)

	for i := 0; i < 10; i++ {
		payload, _ := json.Marshal(i)
		req.NoError(gw.Relay("r1", x, SignalCandidate, payload))
	}
	for i := 0; i < 10; i++ {
		ev := mustEvent(t, y.Events, EventCandidate)
		var got int
		req.NoError(json.Unmarshal(ev.Payload, &got))
		req.Equal(i, got)
	}
}

func TestGatewayCodeChangeBeforeAndAfterPeer(t *testing.T) {
	req := require.New(t)
	gw := newTestGateway(nil)

	x := gw.Connect("x", "")
	y := gw.Connect("y", "")
	_, _ = gw.Join(x, "r1", "")

	err := gw.BroadcastCode("r1", x, "print(1)", "python")
	req.ErrorIs(err, ErrNoPeer)

	_, _ = gw.Join(y, "r1", "")
	mustEvent(t, y.Events, EventJoined)
	mustNoEvent(t, y.Events)

	gw.Handle(x, CodeChange{Room: "r1", Code: "print(2)", Language: "python"})
	ev := mustEvent(t, y.Events, EventCodeChange)
	req.Equal("print(2)", ev.Code)
	req.Equal("python", ev.Language)
	req.Equal(uint64(1), ev.Seq)
}

func TestGatewayNonMemberTrafficIsDropped(t *testing.T) {
	req := require.New(t)
	gw := newTestGateway(nil)

	x := gw.Connect("x", "")
	y := gw.Connect("y", "")
	z := gw.Connect("z", "")
	_, _ = gw.Join(x, "r1", "")
	_, _ = gw.Join(y, "r1", "")
	_, _ = gw.Join(z, "r2", "")
	mustEvent(t, x.Events, EventUserJoined)
	mustEvent(t, y.Events, EventJoined)
	mustEvent(t, z.Events, EventCreated)

	req.ErrorIs(gw.BroadcastCode("r1", z, "evil()", "js"), ErrNotAMember)
	req.ErrorIs(gw.Relay("r1", z, SignalOffer, json.RawMessage(`{}`)), ErrNotAMember)
	req.ErrorIs(gw.BroadcastChat("ghost", x, json.RawMessage(`"hi"`)), ErrNotAMember)

	// A member naming a room other than its own is treated the same way.
	gw.Handle(x, ChatMessage{Room: "r2", Message: json.RawMessage(`"leak"`)})

	mustNoEvent(t, x.Events)
	mustNoEvent(t, y.Events)
	mustNoEvent(t, z.Events)
}

func TestGatewayChatNotEchoed(t *testing.T) {
	req := require.New(t)
	gw := newTestGateway(nil)

	x := gw.Connect("x", "")
	y := gw.Connect("y", "")
	_, _ = gw.Join(x, "r1", "")
	_, _ = gw.Join(y, "r1", "")
	mustEvent(t, x.Events, EventUserJoined)
	mustEvent(t, y.Events, EventJoined)

	gw.Handle(x, ChatMessage{Room: "r1", Message: json.RawMessage(`{"text":"hello"}`)})
	ev := mustEvent(t, y.Events, EventChatMessage)
	req.JSONEq(`{"text":"hello"}`, string(ev.Payload))
	mustNoEvent(t, x.Events)
}

func TestGatewayDisconnectLifecycle(t *testing.T) {
	req := require.New(t)
	rec := &memRecorder{}
	gw := newTestGateway(rec)

	x := gw.Connect("x", "")
	y := gw.Connect("y", "")
	_, _ = gw.Join(x, "r1", "")
	_, _ = gw.Join(y, "r1", "")
	mustEvent(t, x.Events, EventUserJoined)

	gw.Disconnect(y)
	left := mustEvent(t, x.Events, EventUserLeft)
	req.Equal("y", left.HandleID)
	req.Equal(RoomHalfOpen, gw.Rooms().Info("r1").State)
	req.Empty(y.Room())

	// Second disconnect is a no-op.
	gw.Disconnect(y)
	mustNoEvent(t, x.Events)
	req.Equal(1, gw.Rooms().Len())

	gw.Disconnect(x)
	_, ok := gw.Rooms().Lookup("r1")
	req.False(ok)
	req.Equal(0, gw.Rooms().Len())

	req.Equal([]LifecycleKind{
		LifecycleRoomOpened,
		LifecycleParticipantJoined,
		LifecycleParticipantJoined,
		LifecycleParticipantLeft,
		LifecycleParticipantLeft,
		LifecycleRoomClosed,
	}, rec.kinds())
}

func TestGatewayRoomReusableAfterClose(t *testing.T) {
	req := require.New(t)
	gw := newTestGateway(nil)

	x := gw.Connect("x", "")
	_, _ = gw.Join(x, "r1", "")
	gw.Disconnect(x)

	y := gw.Connect("y", "")
	outcome, err := gw.Join(y, "r1", "")
	req.NoError(err)
	req.Equal(JoinCreated, outcome)
}

func TestGatewayDisconnectWithoutRoom(t *testing.T) {
	gw := newTestGateway(nil)
	x := gw.Connect("x", "")
	gw.Disconnect(x)
	require.Equal(t, 0, gw.Rooms().Len())
}
