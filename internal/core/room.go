package core

import (
	"sync"

	"github.com/samber/lo"
)

// RoomCapacity is the number of parties in a one-on-one interview.
const RoomCapacity = 2

// JoinOutcome is the result of an admission attempt.
type JoinOutcome int

const (
	// JoinCreated means the client became the first occupant.
	JoinCreated JoinOutcome = iota
	// JoinJoined means the client became the second occupant.
	JoinJoined
	// JoinRejected means the room was full and nothing changed.
	JoinRejected
)

func (o JoinOutcome) String() string {
	switch o {
	case JoinCreated:
		return "created"
	case JoinJoined:
		return "joined"
	case JoinRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// RoomState is derived from the occupant count.
type RoomState string

const (
	RoomEmpty    RoomState = "empty"
	RoomHalfOpen RoomState = "half_open"
	RoomFull     RoomState = "full"
)

// Room groups the clients of one interview session.
// All membership changes and deliveries for a room happen under its lock.
type Room struct {
	ID string

	reg       *Registry
	mu        sync.Mutex
	occupants []*Client // insertion order, first is the creator
	closed    bool      // set once removed from the registry
	codeSeq   uint64
}

// NewRoom constructs a room with no occupants that is not tracked by any registry.
func NewRoom(id string) *Room {
	return &Room{ID: id}
}

// Join admits c if there is capacity. On success the joiner learns the outcome
// before any peer traffic can reach it, and the existing occupant receives user-joined.
func (r *Room) Join(c *Client, identity string) (JoinOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return JoinRejected, errRoomClosed
	}
	if len(r.occupants) >= RoomCapacity {
		return JoinRejected, ErrRoomFull
	}

	c.setMembership(r.ID, identity)
	r.occupants = append(r.occupants, c)

	if len(r.occupants) == 1 {
		c.send(&Event{Kind: EventCreated, Room: r.ID})
		return JoinCreated, nil
	}

	c.send(&Event{Kind: EventJoined, Room: r.ID})
	joined := &Event{Kind: EventUserJoined, Room: r.ID, HandleID: c.ID, Identity: c.Identity()}
	for _, other := range r.occupants {
		if other != c {
			other.send(joined)
		}
	}
	return JoinJoined, nil
}

// Leave removes c if it is an occupant and notifies whoever remains.
// Only the leave that empties the room takes the registry lock; it drops the room
// in the same critical section, so no reader ever sees an empty room.
// left reports whether c was an occupant; removed whether the room was dropped.
func (r *Room) Leave(c *Client) (left, removed bool) {
	r.mu.Lock()
	idx := lo.IndexOf(r.occupants, c)
	if idx < 0 {
		r.mu.Unlock()
		return false, false
	}
	if len(r.occupants) > 1 || r.reg == nil {
		r.removeLocked(idx)
		r.mu.Unlock()
		return true, false
	}
	r.mu.Unlock()

	r.reg.mu.Lock()
	defer r.reg.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	// Occupants may have changed while unlocked.
	idx = lo.IndexOf(r.occupants, c)
	if idx < 0 {
		return false, false
	}
	r.removeLocked(idx)
	if len(r.occupants) == 0 {
		removed = r.reg.dropLocked(r)
	}
	return true, removed
}

func (r *Room) removeLocked(idx int) {
	c := r.occupants[idx]
	r.occupants = append(r.occupants[:idx], r.occupants[idx+1:]...)
	ev := &Event{Kind: EventUserLeft, Room: r.ID, HandleID: c.ID}
	for _, other := range r.occupants {
		other.send(ev)
	}
}

// Forward delivers ev to every occupant other than from.
// Code-change events are stamped with the next room sequence number.
func (r *Room) Forward(from *Client, ev *Event) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !lo.Contains(r.occupants, from) {
		return 0, ErrNotAMember
	}
	if len(r.occupants) < 2 {
		return 0, ErrNoPeer
	}
	if ev.Kind == EventCodeChange {
		r.codeSeq++
		ev.Seq = r.codeSeq
	}

	delivered := 0
	for _, other := range r.occupants {
		if other == from {
			continue
		}
		if other.send(ev) {
			delivered++
		}
	}
	return delivered, nil
}

// Occupants returns the handle ids of the current occupants in join order.
func (r *Room) Occupants() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Map(r.occupants, func(c *Client, _ int) string { return c.ID })
}

// Len returns the occupant count.
func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.occupants)
}

// State reports the lifecycle state of the room.
func (r *Room) State() RoomState {
	switch r.Len() {
	case 0:
		return RoomEmpty
	case 1:
		return RoomHalfOpen
	default:
		return RoomFull
	}
}
