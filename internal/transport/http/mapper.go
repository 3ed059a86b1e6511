package http

import (
	"bytes"
	"encoding/json"

	"github.com/intervue/session-server/internal/core"
	"github.com/intervue/session-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if protoErr := decode(inbound.Data, &join); protoErr != nil {
			return nil, protoErr
		}
		if join.RoomID == "" {
			return nil, errRoomRequired
		}
		identity := join.ParticipantIdentity
		if identity == "" {
			identity = join.UserID
		}
		return core.JoinRoom{Room: join.RoomID, Identity: identity}, nil
	case proto.InboundTypeOffer:
		var offer proto.OfferData
		if protoErr := decode(inbound.Data, &offer); protoErr != nil {
			return nil, protoErr
		}
		return signal(offer.RoomID, core.SignalOffer, offer.Offer)
	case proto.InboundTypeAnswer:
		var answer proto.AnswerData
		if protoErr := decode(inbound.Data, &answer); protoErr != nil {
			return nil, protoErr
		}
		return signal(answer.RoomID, core.SignalAnswer, answer.Answer)
	case proto.InboundTypeICECandidate:
		var candidate proto.CandidateData
		if protoErr := decode(inbound.Data, &candidate); protoErr != nil {
			return nil, protoErr
		}
		return signal(candidate.RoomID, core.SignalCandidate, candidate.Candidate)
	case proto.InboundTypeCodeChange:
		var code proto.CodeChangeData
		if protoErr := decode(inbound.Data, &code); protoErr != nil {
			return nil, protoErr
		}
		if code.RoomID == "" {
			return nil, errRoomRequired
		}
		return core.CodeChange{Room: code.RoomID, Code: code.Code, Language: code.Language}, nil
	case proto.InboundTypeChatMessage:
		var chat proto.ChatMessageData
		if protoErr := decode(inbound.Data, &chat); protoErr != nil {
			return nil, protoErr
		}
		if chat.RoomID == "" {
			return nil, errRoomRequired
		}
		if isEmpty(chat.Message) {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "message is required"}
		}
		return core.ChatMessage{Room: chat.RoomID, Message: chat.Message}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMsg, Msg: "unknown message type"}
	}
}

var errRoomRequired = &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}

func decode(data json.RawMessage, v any) *proto.Error {
	if err := json.Unmarshal(data, v); err != nil {
		return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed payload"}
	}
	return nil
}

func signal(room string, kind core.SignalKind, payload json.RawMessage) (core.Command, *proto.Error) {
	if room == "" {
		return nil, errRoomRequired
	}
	if isEmpty(payload) {
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: kind.String() + " payload is required"}
	}
	return core.Signal{Room: room, Kind: kind, Payload: payload}, nil
}

func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventCreated:
		return roomEvent(proto.EventNameCreated, event)
	case core.EventJoined:
		return roomEvent(proto.EventNameJoined, event)
	case core.EventFull:
		return roomEvent(proto.EventNameFull, event)
	case core.EventUserJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserJoined,
			Data:  proto.EventUserJoined{Identity: event.Identity, HandleID: event.HandleID},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserLeft,
			Data:  proto.EventUserLeft{HandleID: event.HandleID},
		}
	case core.EventOffer:
		return payloadEvent(proto.EventNameOffer, event)
	case core.EventAnswer:
		return payloadEvent(proto.EventNameAnswer, event)
	case core.EventCandidate:
		return payloadEvent(proto.EventNameICECandidate, event)
	case core.EventCodeChange:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameCodeChange,
			Data:  proto.EventCodeChange{Code: event.Code, Language: event.Language, Seq: event.Seq},
		}
	case core.EventChatMessage:
		return payloadEvent(proto.EventNameChatMessage, event)
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func roomEvent(name string, event *core.Event) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: name,
		Data:  proto.EventRoom{RoomID: event.Room},
	}
}

// payloadEvent passes the sender's payload through untouched.
func payloadEvent(name string, event *core.Event) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: name,
		Data:  event.Payload,
	}
}
