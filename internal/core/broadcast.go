package core

import "encoding/json"

// BroadcastCode sends the full editor buffer to every other occupant of roomID.
func (g *Gateway) BroadcastCode(roomID string, sender *Client, code, language string) error {
	room, err := g.member(roomID, sender)
	if err != nil {
		return err
	}
	_, err = room.Forward(sender, &Event{
		Kind:     EventCodeChange,
		Room:     roomID,
		HandleID: sender.ID,
		Code:     code,
		Language: language,
	})
	return err
}

// BroadcastChat sends a chat message to every other occupant of roomID.
// The sender is not echoed; its UI renders its own copy.
func (g *Gateway) BroadcastChat(roomID string, sender *Client, message json.RawMessage) error {
	room, err := g.member(roomID, sender)
	if err != nil {
		return err
	}
	_, err = room.Forward(sender, &Event{
		Kind:     EventChatMessage,
		Room:     roomID,
		HandleID: sender.ID,
		Payload:  message,
	})
	return err
}
