package core

import "sync"

// Client is a single live transport session as seen by the core layer.
// The gateway owns it; a Room only references it while it is an occupant.
type Client struct {
	ID     string
	Events chan *Event

	mu       sync.Mutex
	identity string
	room     string
	joined   bool // room is meaningful only when set; "" is a valid room id
}

// NewClient constructs a client with an initialized event queue.
func NewClient(id, identity string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 8
	}
	return &Client{
		ID:       id,
		Events:   make(chan *Event, buffer),
		identity: identity,
	}
}

// Identity returns the participant identity the client announced or authenticated with.
func (c *Client) Identity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// Room returns the identifier of the room the client occupies, or "" if none.
// Use Membership to tell "no room" apart from the room named "".
func (c *Client) Room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// Membership returns the occupied room and whether the client occupies one at all.
func (c *Client) Membership() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room, c.joined
}

func (c *Client) setMembership(room, identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = room
	c.joined = true
	if identity != "" {
		c.identity = identity
	}
}

func (c *Client) clearMembership() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = ""
	c.joined = false
}

// send enqueues an event without blocking. Returns false if the queue is full.
func (c *Client) send(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		// Drop if slow consumer.
		return false
	}
}
