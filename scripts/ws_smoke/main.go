package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/intervue/session-server/internal/proto"
)

// frame is proto.Outbound with the data left raw for printing.
type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:5001/ws", "WebSocket address")
	room := flag.String("room", "smoke", "room id")
	token := flag.String("token", "", "optional bearer token")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	url := *addr
	if *token != "" {
		url += "?token=" + *token
	}

	interviewer, err := connect(ctx, url)
	if err != nil {
		return err
	}
	defer interviewer.Close(websocket.StatusNormalClosure, "bye")

	candidate, err := connect(ctx, url)
	if err != nil {
		return err
	}
	defer candidate.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, interviewer, proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: *room, ParticipantIdentity: "interviewer"}); err != nil {
		return err
	}
	if err := expect(ctx, interviewer, proto.EventNameCreated); err != nil {
		return err
	}

	if err := send(ctx, candidate, proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: *room, ParticipantIdentity: "candidate"}); err != nil {
		return err
	}
	if err := expect(ctx, candidate, proto.EventNameJoined); err != nil {
		return err
	}
	if err := expect(ctx, interviewer, proto.EventNameUserJoined); err != nil {
		return err
	}

	if err := send(ctx, interviewer, proto.InboundTypeOffer, proto.OfferData{RoomID: *room, Offer: json.RawMessage(`{"type":"offer","sdp":"v=0"}`)}); err != nil {
		return err
	}
	if err := expect(ctx, candidate, proto.EventNameOffer); err != nil {
		return err
	}

	if err := send(ctx, interviewer, proto.InboundTypeCodeChange, proto.CodeChangeData{RoomID: *room, Code: "print('hi')", Language: "python"}); err != nil {
		return err
	}
	if err := expect(ctx, candidate, proto.EventNameCodeChange); err != nil {
		return err
	}

	if err := candidate.Close(websocket.StatusNormalClosure, "done"); err != nil {
		return fmt.Errorf("close candidate: %w", err)
	}
	return expect(ctx, interviewer, proto.EventNameUserLeft)
}

func connect(ctx context.Context, url string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return conn, nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func expect(ctx context.Context, conn *websocket.Conn, event string) error {
	var out frame
	if err := wsjson.Read(ctx, conn, &out); err != nil {
		return fmt.Errorf("read: %w", err)
	}

	fmt.Printf("Received outbound: type=%s event=%s data=%s\n", out.Type, out.Event, string(out.Data))
	if out.Error != nil {
		return fmt.Errorf("server error %s: %s", out.Error.Code, out.Error.Msg)
	}
	if out.Event != event {
		return fmt.Errorf("expected %s, got %q", event, out.Event)
	}
	return nil
}
