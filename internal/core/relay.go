package core

import "encoding/json"

// Relay forwards a negotiation payload from sender to the other occupant of roomID, verbatim.
// It returns ErrNotAMember or ErrNoPeer when the message was dropped.
func (g *Gateway) Relay(roomID string, sender *Client, kind SignalKind, payload json.RawMessage) error {
	room, err := g.member(roomID, sender)
	if err != nil {
		return err
	}
	_, err = room.Forward(sender, &Event{
		Kind:     kind.eventKind(),
		Room:     roomID,
		HandleID: sender.ID,
		Payload:  payload,
	})
	return err
}
