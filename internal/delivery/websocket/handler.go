package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"stocktalk-service/internal/application/interfaces"
	"stocktalk-service/internal/domain/events"
)

const maxMessageSize = 64 << 10

// Handler upgrades HTTP requests into gateway connections. Relayed events go
// through publisher, which is either the local registry or the cross-instance bus.
type Handler struct {
	registry  *Registry
	publisher interfaces.EventPublisher
	upgrader  *websocket.Upgrader
}

func NewHandler(registry *Registry, publisher interfaces.EventPublisher) *Handler {
	if publisher == nil {
		publisher = registry
	}
	return &Handler{
		registry:  registry,
		publisher: publisher,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now
			},
		},
	}
}

// ServeHTTP handles HTTP requests and upgrades them to WebSocket connections
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newConn(ws)
	h.registry.Register(c)
	log.Info().Str("client_id", c.ID()).Str("remote", r.RemoteAddr).Msg("user connected")

	go h.readLoop(c)
}

func (h *Handler) readLoop(c *conn) {
	defer func() {
		h.registry.Unregister(c.ID())
		_ = c.Close()
		log.Info().Str("client_id", c.ID()).Msg("user disconnected")
	}()

	c.ws.SetReadLimit(maxMessageSize)
	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.ID()).Msg("websocket read failed")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		h.handleMessage(c, data)
	}
}

func (h *Handler) handleMessage(c *conn, data []byte) {
	var in events.Event
	if err := json.Unmarshal(data, &in); err != nil {
		log.Debug().Err(err).Str("client_id", c.ID()).Msg("ignoring malformed event")
		return
	}

	out, ok := events.Relay(in)
	if !ok {
		log.Debug().Str("client_id", c.ID()).Str("event", in.Name).Msg("ignoring unknown event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.publisher.Publish(ctx, out); err != nil {
		log.Warn().Err(err).Str("event", out.Name).Msg("failed to relay event")
	}
}
