package core

import "encoding/json"

// Command is an inbound request from a connected client.
// The set of implementations is closed; Gateway.Handle switches over all of them.
type Command interface {
	command()
}

// SignalKind identifies a peer-connection negotiation message.
type SignalKind int

const (
	// SignalOffer carries a session description offer.
	SignalOffer SignalKind = iota
	// SignalAnswer carries a session description answer.
	SignalAnswer
	// SignalCandidate carries a network candidate.
	SignalCandidate
)

func (k SignalKind) String() string {
	switch k {
	case SignalOffer:
		return "offer"
	case SignalAnswer:
		return "answer"
	case SignalCandidate:
		return "candidate"
	default:
		return "unknown"
	}
}

func (k SignalKind) eventKind() EventKind {
	switch k {
	case SignalAnswer:
		return EventAnswer
	case SignalCandidate:
		return EventCandidate
	default:
		return EventOffer
	}
}

// JoinRoom asks to be admitted into a room.
type JoinRoom struct {
	Room     string
	Identity string
}

// Signal forwards an opaque negotiation payload to the other occupant.
type Signal struct {
	Room    string
	Kind    SignalKind
	Payload json.RawMessage
}

// CodeChange shares the full contents of the code editor buffer.
type CodeChange struct {
	Room     string
	Code     string
	Language string
}

// ChatMessage shares a chat message with the other occupants.
type ChatMessage struct {
	Room    string
	Message json.RawMessage
}

func (JoinRoom) command()    {}
func (Signal) command()      {}
func (CodeChange) command()  {}
func (ChatMessage) command() {}
