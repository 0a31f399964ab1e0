package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktalk-service/internal/domain/events"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func waitForClients(t *testing.T, reg *Registry, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return reg.Count() == n }, 2*time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, ws *websocket.Conn) events.Event {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev events.Event
	require.NoError(t, ws.ReadJSON(&ev))
	return ev
}

func TestGatewayRelaysLikeToEveryClient(t *testing.T) {
	reg := NewRegistry(nil)
	srv := httptest.NewServer(NewHandler(reg, nil))
	defer srv.Close()

	sender := dial(t, srv)
	bystander := dial(t, srv)
	waitForClients(t, reg, 2)

	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(`{"event":"likePost","data":"p1"}`)))

	for _, ws := range []*websocket.Conn{sender, bystander} {
		ev := readEvent(t, ws)
		assert.Equal(t, events.PostLiked, ev.Name)
		assert.JSONEq(t, `"p1"`, string(ev.Data))
	}
}

func TestGatewayRelaysCommentPayloadUnchanged(t *testing.T) {
	reg := NewRegistry(nil)
	srv := httptest.NewServer(NewHandler(reg, nil))
	defer srv.Close()

	ws := dial(t, srv)
	waitForClients(t, reg, 1)

	payload := `{"id":"c1","comment":"to the moon","user":{"id":"u2","username":"bob"}}`
	msg, err := json.Marshal(map[string]json.RawMessage{
		"event": json.RawMessage(`"newComment"`),
		"data":  json.RawMessage(payload),
	})
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, msg))

	ev := readEvent(t, ws)
	assert.Equal(t, events.CommentAdded, ev.Name)
	assert.JSONEq(t, payload, string(ev.Data))
}

func TestGatewayIgnoresUnknownAndMalformedEvents(t *testing.T) {
	reg := NewRegistry(nil)
	srv := httptest.NewServer(NewHandler(reg, nil))
	defer srv.Close()

	ws := dial(t, srv)
	waitForClients(t, reg, 1)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"event":"deletePost","data":"p1"}`)))
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"event":"likePost","data":"p2"}`)))

	// Only the valid event comes back, in arrival order.
	ev := readEvent(t, ws)
	assert.Equal(t, events.PostLiked, ev.Name)
	assert.JSONEq(t, `"p2"`, string(ev.Data))
}

func TestGatewayUnregistersOnDisconnect(t *testing.T) {
	reg := NewRegistry(nil)
	srv := httptest.NewServer(NewHandler(reg, nil))
	defer srv.Close()

	ws := dial(t, srv)
	waitForClients(t, reg, 1)

	require.NoError(t, ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))
	_ = ws.Close()
	waitForClients(t, reg, 0)
}
