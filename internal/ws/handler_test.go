package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/DoyleJ11/sketchparty-backend/internal/game"
	"github.com/DoyleJ11/sketchparty-backend/internal/protocol"
	"github.com/DoyleJ11/sketchparty-backend/internal/registry"
)

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newServer(t *testing.T) (*httptest.Server, *registry.Registry) {
	t.Helper()
	return newServerWith(t, Options{})
}

func newServerWith(t *testing.T, opts Options) (*httptest.Server, *registry.Registry) {
	t.Helper()
	reg := registry.New(context.Background(), registry.Options{
		Catalog: []string{"King"},
		Timing: game.Timing{
			StartDelay:  10 * time.Millisecond,
			DecisiveGap: 10 * time.Millisecond,
			PartialGap:  10 * time.Millisecond,
		},
		TickInterval: 50 * time.Millisecond,
	})
	srv := httptest.NewServer(Handler(reg, opts))
	t.Cleanup(func() {
		srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = reg.Shutdown(ctx)
	})
	return srv, reg
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{"type": typ, "data": data}))
}

// drainInBackground keeps reading so the client answers pings, and never
// sends anything itself.
func drainInBackground(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()
}

// expect reads frames until one of type typ arrives and decodes its data.
func expect[T any](t *testing.T, conn *websocket.Conn, typ string) T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		var f frame
		require.NoError(t, wsjson.Read(ctx, conn, &f), "waiting for %s", typ)
		if f.Type != typ {
			continue
		}
		var out T
		if len(f.Data) > 0 {
			require.NoError(t, json.Unmarshal(f.Data, &out))
		}
		return out
	}
}

func TestHandler_CreateJoinStart(t *testing.T) {
	srv, reg := newServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	send(t, host, protocol.TypeCreateRoom, map[string]any{"playerName": "  Ann "})
	created := expect[protocol.RoomCreated](t, host, protocol.TypeRoomCreated)
	require.Len(t, created.Code, registry.CodeLength)
	require.Len(t, created.Players, 1)
	assert.Equal(t, "Ann", created.Players[0].Name)

	send(t, guest, protocol.TypeJoinRoom, map[string]any{"roomCode": strings.ToLower(created.Code), "playerName": "Bob"})
	joined := expect[protocol.RoomJoined](t, guest, protocol.TypeRoomJoined)
	assert.Equal(t, created.Code, joined.Code)
	assert.Len(t, joined.Players, 2)

	pj := expect[protocol.PlayerJoined](t, host, protocol.TypePlayerJoined)
	assert.Equal(t, "Bob", pj.Name)

	send(t, host, protocol.TypeStartGame, map[string]any{"totalRounds": 3, "timePerTurn": 15})
	for _, c := range []*websocket.Conn{host, guest} {
		gs := expect[protocol.GameStarted](t, c, protocol.TypeGameStarted)
		assert.Equal(t, 3, gs.TotalRounds)
		assert.Equal(t, 15, gs.TimePerTurn)
		expect[protocol.TurnStart](t, c, protocol.TypeTurnStart)
	}

	rm, err := reg.Lookup(context.Background(), created.Code)
	require.NoError(t, err)
	v, err := rm.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.StatePlaying, v.Summary.State)
}

func TestHandler_JoinUnknownRoom(t *testing.T) {
	srv, _ := newServer(t)
	c := dial(t, srv)

	send(t, c, protocol.TypeJoinRoom, map[string]any{"roomCode": "ZZZZ", "playerName": "Bob"})
	e := expect[protocol.ErrorMessage](t, c, protocol.TypeErrorMessage)
	assert.Equal(t, "Room not found", e.Message)
}

func TestHandler_InvalidPayload(t *testing.T) {
	srv, _ := newServer(t)
	c := dial(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(`{"type":"create_room","data":{"playerName":""}}`)))

	e := expect[protocol.ErrorMessage](t, c, protocol.TypeErrorMessage)
	assert.Equal(t, "Invalid message", e.Message)
}

func TestHandler_DisconnectLeavesRoom(t *testing.T) {
	srv, reg := newServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	send(t, host, protocol.TypeCreateRoom, map[string]any{"playerName": "Ann"})
	created := expect[protocol.RoomCreated](t, host, protocol.TypeRoomCreated)
	send(t, guest, protocol.TypeJoinRoom, map[string]any{"roomCode": created.Code, "playerName": "Bob"})
	expect[protocol.RoomJoined](t, guest, protocol.TypeRoomJoined)

	require.NoError(t, host.Close(websocket.StatusNormalClosure, "bye"))

	left := expect[protocol.PlayerLeft](t, guest, protocol.TypePlayerLeft)
	assert.Equal(t, "Ann", left.Name)
	nh := expect[protocol.NewHost](t, guest, protocol.TypeNewHost)
	require.Len(t, nh.Players, 1)
	assert.Equal(t, nh.HostID, nh.Players[0].ID)

	require.NoError(t, guest.Close(websocket.StatusNormalClosure, "bye"))
	require.Eventually(t, func() bool {
		n, err := reg.Len(context.Background())
		return err == nil && n == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHandler_CommandsWithoutRoomAreIgnored(t *testing.T) {
	srv, _ := newServer(t)
	c := dial(t, srv)

	send(t, c, protocol.TypeGuess, map[string]any{"message": "king"})
	send(t, c, protocol.TypeJoinRoom, map[string]any{"roomCode": "ZZZZ", "playerName": "Bob"})

	// The first reply is for the join; the stray guess produced nothing.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var f frame
	require.NoError(t, wsjson.Read(ctx, c, &f))
	assert.Equal(t, protocol.TypeErrorMessage, f.Type)
}

func TestHandler_SilentClientsStaySeated(t *testing.T) {
	srv, reg := newServerWith(t, Options{PingInterval: 20 * time.Millisecond, PingTimeout: 500 * time.Millisecond})
	host := dial(t, srv)
	watcher := dial(t, srv)

	send(t, host, protocol.TypeCreateRoom, map[string]any{"playerName": "Ann"})
	created := expect[protocol.RoomCreated](t, host, protocol.TypeRoomCreated)
	send(t, watcher, protocol.TypeJoinRoom, map[string]any{"roomCode": created.Code, "playerName": "Eve", "asSpectator": true})
	expect[protocol.JoinedAsSpectator](t, watcher, protocol.TypeJoinedAsSpectator)

	drainInBackground(t, host)
	drainInBackground(t, watcher)

	// Many ping rounds with nobody sending a frame.
	time.Sleep(300 * time.Millisecond)

	rm, err := reg.Lookup(context.Background(), created.Code)
	require.NoError(t, err)
	v, err := rm.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v.Summary.Spectators)
	assert.Len(t, v.Summary.Players, 1)
	assert.Equal(t, 2, v.NumClients)
}

func TestHandler_UnresponsivePeerIsDropped(t *testing.T) {
	srv, _ := newServerWith(t, Options{PingInterval: 20 * time.Millisecond, PingTimeout: 200 * time.Millisecond})
	host := dial(t, srv)
	guest := dial(t, srv)

	send(t, host, protocol.TypeCreateRoom, map[string]any{"playerName": "Ann"})
	created := expect[protocol.RoomCreated](t, host, protocol.TypeRoomCreated)
	send(t, guest, protocol.TypeJoinRoom, map[string]any{"roomCode": created.Code, "playerName": "Bob"})
	expect[protocol.RoomJoined](t, guest, protocol.TypeRoomJoined)
	expect[protocol.PlayerJoined](t, host, protocol.TypePlayerJoined)

	// The guest stops reading, so its pongs never come back.
	left := expect[protocol.PlayerLeft](t, host, protocol.TypePlayerLeft)
	assert.Equal(t, "Bob", left.Name)
}
