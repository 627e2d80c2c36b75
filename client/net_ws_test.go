package client

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap/zaptest"
)

func newFeedSession(t *testing.T) *Session {
	t.Helper()
	cfg := DefaultConfig()
	cfg.FeedInterval = 5 * time.Millisecond
	s := NewSession(newFakeConn(), testServerAddr, cfg, WithLogger(zaptest.NewLogger(t).Sugar()))
	s.applySnapshot(stoppedCtx(), snap(1, 4, 2, 2, rec(2, 1, 1), rec(1, 5, 5)))
	return s
}

func dialFeed(t *testing.T, s *Session, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewAdminMux(s))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(waitFor)))
	return ws
}

func TestSessionView(t *testing.T) {
	s := newFeedSession(t)
	v := s.View()

	assert.Equal(t, s.ID, v.Session)
	assert.True(t, v.Joined)
	assert.Equal(t, PlayerID(2), v.LocalID)
	assert.Equal(t, Score{Red: 4, Blue: 2}, v.Score)
	assert.True(t, v.Laser)
	require.Len(t, v.Players, 2)
	assert.Equal(t, PlayerID(1), v.Players[0].ID, "players sorted by id")
}

func TestFeedJSON(t *testing.T) {
	s := newFeedSession(t)
	ws := dialFeed(t, s, "")

	mt, b, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, mt)

	var v View
	require.NoError(t, json.Unmarshal(b, &v))
	assert.Equal(t, s.View(), v)
}

func TestFeedMsgpack(t *testing.T) {
	s := newFeedSession(t)
	ws := dialFeed(t, s, "?codec=msgpack")

	mt, b, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, mt)

	var v View
	require.NoError(t, msgpack.Unmarshal(b, &v))
	assert.Equal(t, s.View(), v)
}
