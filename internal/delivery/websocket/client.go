package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"stocktalk-service/internal/domain/events"
)

const writeTimeout = 5 * time.Second

// conn is a gorilla connection guarded for concurrent writers.
type conn struct {
	id   string
	ws   *websocket.Conn
	mu   sync.Mutex
	once sync.Once
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{id: uuid.NewString(), ws: ws}
}

func (c *conn) ID() string { return c.id }

func (c *conn) Send(ctx context.Context, event events.Event) error {
	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.ws.WriteJSON(event)
}

func (c *conn) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		err = c.ws.Close()
	})
	return err
}
