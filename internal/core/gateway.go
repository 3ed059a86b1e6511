package core

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Gateway is the entry point the transport drives: it allocates clients,
// admits them to rooms, dispatches their messages and cleans up after them.
type Gateway struct {
	rooms       *Registry
	recorder    Recorder
	log         *zerolog.Logger
	eventBuffer int
}

// NewGateway builds a gateway over the given registry. recorder may be nil.
func NewGateway(rooms *Registry, recorder Recorder, logger *zerolog.Logger, eventBuffer int) *Gateway {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Gateway{
		rooms:       rooms,
		recorder:    recorder,
		log:         logger,
		eventBuffer: eventBuffer,
	}
}

// Rooms exposes the registry for read-only introspection.
func (g *Gateway) Rooms() *Registry {
	return g.rooms
}

// Connect allocates a client for a freshly opened transport session.
// identity is the authenticated identity, if the transport established one.
func (g *Gateway) Connect(id, identity string) *Client {
	c := NewClient(id, identity, g.eventBuffer)
	g.log.Debug().Str("client_id", id).Msg("client connected")
	return c
}

// Join admits c into roomID. The joiner receives created/joined from the room
// itself, or full from here when the room is at capacity.
func (g *Gateway) Join(c *Client, roomID, identity string) (JoinOutcome, error) {
	if current, joined := c.Membership(); joined {
		c.send(&Event{Kind: EventError, Room: roomID, Error: coreError(ErrCodeAlreadyJoined, "already in room "+current)})
		return JoinRejected, ErrAlreadyJoined
	}
	if c.Identity() != "" {
		// Authenticated identity wins over the announced one.
		identity = c.Identity()
	}

	for {
		room := g.rooms.GetOrCreate(roomID)
		outcome, err := room.Join(c, identity)
		if errors.Is(err, errRoomClosed) {
			// Lost a race with the last occupant leaving; the registry has a fresh slot now.
			continue
		}

		now := time.Now()
		switch outcome {
		case JoinCreated:
			g.recorder.Record(LifecycleEvent{Kind: LifecycleRoomOpened, Room: roomID, HandleID: c.ID, Identity: identity, At: now})
			g.recorder.Record(LifecycleEvent{Kind: LifecycleParticipantJoined, Room: roomID, HandleID: c.ID, Identity: identity, At: now})
		case JoinJoined:
			g.recorder.Record(LifecycleEvent{Kind: LifecycleParticipantJoined, Room: roomID, HandleID: c.ID, Identity: identity, At: now})
		case JoinRejected:
			c.send(&Event{Kind: EventFull, Room: roomID})
			g.recorder.Record(LifecycleEvent{Kind: LifecycleParticipantRejected, Room: roomID, HandleID: c.ID, Identity: identity, At: now})
		}

		g.log.Info().
			Str("client_id", c.ID).
			Str("room", roomID).
			Str("identity", identity).
			Stringer("outcome", outcome).
			Msg("join room")
		return outcome, err
	}
}

// Handle dispatches one inbound command. Drops are logged, never surfaced.
func (g *Gateway) Handle(c *Client, cmd Command) {
	var err error
	switch m := cmd.(type) {
	case JoinRoom:
		_, _ = g.Join(c, m.Room, m.Identity)
		return
	case Signal:
		err = g.Relay(m.Room, c, m.Kind, m.Payload)
	case CodeChange:
		err = g.BroadcastCode(m.Room, c, m.Code, m.Language)
	case ChatMessage:
		err = g.BroadcastChat(m.Room, c, m.Message)
	default:
		g.log.Error().Str("client_id", c.ID).Msgf("unhandled command %T", cmd)
		return
	}
	if err != nil {
		g.log.Debug().Err(err).Str("client_id", c.ID).Str("room", c.Room()).Msgf("dropped %T", cmd)
	}
}

// Disconnect removes c from its room, if any, and clears its membership.
// This is the only cleanup path for a client. Calling it twice is harmless.
func (g *Gateway) Disconnect(c *Client) {
	roomID, joined := c.Membership()
	defer c.clearMembership()
	if !joined {
		g.log.Debug().Str("client_id", c.ID).Msg("client disconnected")
		return
	}

	room, ok := g.rooms.Lookup(roomID)
	if !ok {
		return
	}
	left, removed := room.Leave(c)
	if !left {
		return
	}

	now := time.Now()
	g.recorder.Record(LifecycleEvent{Kind: LifecycleParticipantLeft, Room: roomID, HandleID: c.ID, Identity: c.Identity(), At: now})
	if removed {
		g.recorder.Record(LifecycleEvent{Kind: LifecycleRoomClosed, Room: roomID, At: now})
	}
	g.log.Info().
		Str("client_id", c.ID).
		Str("room", roomID).
		Bool("room_closed", removed).
		Msg("client left room")
}

// member resolves the room c occupies if it matches roomID.
func (g *Gateway) member(roomID string, c *Client) (*Room, error) {
	if current, joined := c.Membership(); !joined || current != roomID {
		return nil, ErrNotAMember
	}
	room, ok := g.rooms.Lookup(roomID)
	if !ok {
		return nil, ErrNotAMember
	}
	return room, nil
}
