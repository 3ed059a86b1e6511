package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/intervue/session-server/internal/config"
	"github.com/intervue/session-server/internal/core"
	"github.com/intervue/session-server/internal/proto"
	"github.com/intervue/session-server/internal/store"
)

// outbound mirrors proto.Outbound with the data left undecoded.
type outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

type testServer struct {
	ts      *httptest.Server
	gateway *core.Gateway
	wsURL   string
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	cfg.PingInterval = 0
	return cfg
}

func startTestServer(t *testing.T, cfg config.Config, history store.SessionStore) *testServer {
	t.Helper()

	disabledLogger := zerolog.Nop()
	gateway := core.NewGateway(core.NewRegistry(), nil, &disabledLogger, cfg.EventBuffer)
	server := NewServer(gateway, history, &cfg, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testServer{
		ts:      ts,
		gateway: gateway,
		wsURL:   strings.Replace(ts.URL, "http", "ws", 1) + "/ws",
	}
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}))
}

func readNext(t *testing.T, ctx context.Context, conn *websocket.Conn) outbound {
	t.Helper()

	var out outbound
	require.NoError(t, wsjson.Read(ctx, conn, &out))
	return out
}

// expectEvent asserts that the very next frame on conn is the named event.
func expectEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) outbound {
	t.Helper()

	out := readNext(t, ctx, conn)
	require.Equal(t, proto.OutboundTypeEvent, out.Type, "frame: %+v", out)
	require.Equal(t, event, out.Event, "frame: %+v", out)
	return out
}

func expectError(t *testing.T, ctx context.Context, conn *websocket.Conn, code string) {
	t.Helper()

	out := readNext(t, ctx, conn)
	require.Equal(t, proto.OutboundTypeError, out.Type, "frame: %+v", out)
	require.NotNil(t, out.Error)
	require.Equal(t, code, out.Error.Code)
}

func join(t *testing.T, ctx context.Context, conn *websocket.Conn, room, identity string) {
	t.Helper()
	send(t, ctx, conn, proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: room, ParticipantIdentity: identity})
}

// pair joins two fresh connections into room and returns them with the second one's handle id.
func pair(t *testing.T, ctx context.Context, srv *testServer, room string) (x, y *websocket.Conn, yHandle string) {
	t.Helper()

	x = dial(t, ctx, srv.wsURL)
	y = dial(t, ctx, srv.wsURL)

	join(t, ctx, x, room, "interviewer")
	expectEvent(t, ctx, x, proto.EventNameCreated)
	join(t, ctx, y, room, "candidate")
	expectEvent(t, ctx, y, proto.EventNameJoined)

	joined := expectEvent(t, ctx, x, proto.EventNameUserJoined)
	var data proto.EventUserJoined
	require.NoError(t, json.Unmarshal(joined.Data, &data))
	require.Equal(t, "candidate", data.Identity)
	require.NotEmpty(t, data.HandleID)
	return x, y, data.HandleID
}
