package core

import (
	"encoding/json"
	"time"
)

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventCreated tells the joiner it is the first occupant of a new room.
	EventCreated EventKind = iota
	// EventJoined tells the joiner it became the second occupant.
	EventJoined
	// EventFull tells the joiner the room is at capacity and it was not admitted.
	EventFull
	// EventUserJoined notifies the existing occupant that a peer joined.
	EventUserJoined
	// EventUserLeft notifies the remaining occupant that a peer left.
	EventUserLeft
	// EventOffer relays a negotiation offer.
	EventOffer
	// EventAnswer relays a negotiation answer.
	EventAnswer
	// EventCandidate relays a network candidate.
	EventCandidate
	// EventCodeChange relays a code editor buffer.
	EventCodeChange
	// EventChatMessage relays a chat message.
	EventChatMessage
	// EventError notifies the client about a rejected request.
	EventError
)

// Event is sent to clients to describe what happened in their room.
type Event struct {
	Kind     EventKind
	Room     string
	HandleID string
	Identity string
	Payload  json.RawMessage // signaling and chat, forwarded verbatim
	Code     string
	Language string
	Seq      uint64 // per-room code buffer sequence
	Error    *CoreError
}

// LifecycleKind classifies a room lifecycle record.
type LifecycleKind string

const (
	LifecycleRoomOpened          LifecycleKind = "room_opened"
	LifecycleParticipantJoined   LifecycleKind = "participant_joined"
	LifecycleParticipantRejected LifecycleKind = "participant_rejected"
	LifecycleParticipantLeft     LifecycleKind = "participant_left"
	LifecycleRoomClosed          LifecycleKind = "room_closed"
)

// LifecycleEvent describes a membership change. It never carries session content.
type LifecycleEvent struct {
	Kind     LifecycleKind
	Room     string
	HandleID string
	Identity string
	At       time.Time
}

// Recorder receives lifecycle events. Implementations must not block.
type Recorder interface {
	Record(ev LifecycleEvent)
}

type nopRecorder struct{}

func (nopRecorder) Record(LifecycleEvent) {}
