package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinRoom     = "join-room"
	InboundTypeOffer        = "offer"
	InboundTypeAnswer       = "answer"
	InboundTypeICECandidate = "ice-candidate"
	InboundTypeCodeChange   = "code-change"
	InboundTypeChatMessage  = "chat-message"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// Event names carried in Outbound.Event.
const (
	EventNameCreated      = "created"
	EventNameJoined       = "joined"
	EventNameFull         = "full"
	EventNameUserJoined   = "user-joined"
	EventNameUserLeft     = "user-left"
	EventNameOffer        = "offer"
	EventNameAnswer       = "answer"
	EventNameICECandidate = "ice-candidate"
	EventNameCodeChange   = "code-change"
	EventNameChatMessage  = "chat-message"
)

// JoinRoomData requests admission into a room.
// UserID is accepted as an alias for ParticipantIdentity.
type JoinRoomData struct {
	RoomID              string `json:"roomId"`
	ParticipantIdentity string `json:"participantIdentity,omitempty"`
	UserID              string `json:"userId,omitempty"`
}

// OfferData carries an opaque session description offer.
type OfferData struct {
	RoomID string          `json:"roomId"`
	Offer  json.RawMessage `json:"offer"`
}

// AnswerData carries an opaque session description answer.
type AnswerData struct {
	RoomID string          `json:"roomId"`
	Answer json.RawMessage `json:"answer"`
}

// CandidateData carries an opaque network candidate.
type CandidateData struct {
	RoomID    string          `json:"roomId"`
	Candidate json.RawMessage `json:"candidate"`
}

// CodeChangeData carries the full editor buffer.
type CodeChangeData struct {
	RoomID   string `json:"roomId"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

// ChatMessageData carries a chat message.
type ChatMessageData struct {
	RoomID  string          `json:"roomId"`
	Message json.RawMessage `json:"message"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventRoom answers a join request with the room it concerns.
type EventRoom struct {
	RoomID string `json:"roomId"`
}

// EventUserJoined notifies the existing occupant that a peer joined.
type EventUserJoined struct {
	Identity string `json:"identity"`
	HandleID string `json:"handleId"`
}

// EventUserLeft notifies the remaining occupant that a peer left.
type EventUserLeft struct {
	HandleID string `json:"handleId"`
}

// EventCodeChange is the relayed editor buffer. Seq increases per room.
type EventCodeChange struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Seq      uint64 `json:"seq"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
