package core

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// RoomInfo is a point-in-time view of a room.
type RoomInfo struct {
	ID           string
	Participants []string
	State        RoomState
}

// Available reports whether another party could still be admitted.
func (i RoomInfo) Available() bool {
	return len(i.Participants) < RoomCapacity
}

// Registry maps room identifiers to live rooms. A room with no occupants
// is removed the moment its last occupant leaves.
// Lock order is Registry.mu before Room.mu.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room for id, inserting an empty one if needed.
func (g *Registry) GetOrCreate(id string) *Room {
	g.mu.RLock()
	room, ok := g.rooms[id]
	g.mu.RUnlock()
	if ok {
		return room
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if room, ok = g.rooms[id]; !ok {
		room = &Room{ID: id, reg: g}
		g.rooms[id] = room
	}
	return room
}

// Lookup returns the live room for id.
func (g *Registry) Lookup(id string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[id]
	return room, ok
}

// RemoveIfEmpty drops the room for id if it has no occupants. Idempotent.
func (g *Registry) RemoveIfEmpty(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[id]
	if !ok {
		return false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if len(room.occupants) != 0 {
		return false
	}
	return g.dropLocked(room)
}

// dropLocked unlinks room and marks it closed. Callers hold g.mu and room.mu, in that order.
func (g *Registry) dropLocked(room *Room) bool {
	if g.rooms[room.ID] != room {
		return false
	}
	room.closed = true
	delete(g.rooms, room.ID)
	return true
}

// Len returns the number of live rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// Participants returns the handle ids occupying id, empty if the room does not exist.
func (g *Registry) Participants(id string) []string {
	room, ok := g.Lookup(id)
	if !ok {
		return []string{}
	}
	return room.Occupants()
}

// IsAvailable reports whether a join to id would be admitted right now.
func (g *Registry) IsAvailable(id string) bool {
	room, ok := g.Lookup(id)
	return !ok || room.Len() < RoomCapacity
}

// Info returns a snapshot of one room.
func (g *Registry) Info(id string) RoomInfo {
	room, ok := g.Lookup(id)
	if !ok {
		return RoomInfo{ID: id, Participants: []string{}, State: RoomEmpty}
	}
	return roomInfo(room)
}

// Snapshot returns all live rooms ordered by id.
func (g *Registry) Snapshot() []RoomInfo {
	g.mu.RLock()
	rooms := lo.Values(g.rooms)
	g.mu.RUnlock()

	infos := lo.Map(rooms, func(r *Room, _ int) RoomInfo { return roomInfo(r) })
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func roomInfo(r *Room) RoomInfo {
	participants := r.Occupants()
	state := RoomEmpty
	switch len(participants) {
	case 0:
	case 1:
		state = RoomHalfOpen
	default:
		state = RoomFull
	}
	return RoomInfo{ID: r.ID, Participants: participants, State: state}
}
