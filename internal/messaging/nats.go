package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"stocktalk-service/internal/application/interfaces"
	"stocktalk-service/internal/domain/events"
)

var natsConfig = &natsConfiguration{
	connectionTimeout: 5 * time.Second,
	reconnectWait:     1 * time.Second,
	maxReconnects:     10,
	handlerTimeout:    2 * time.Second,
	drainTimeout:      10 * time.Second,
}

type natsConfiguration struct {
	connectionTimeout time.Duration
	reconnectWait     time.Duration
	maxReconnects     int
	handlerTimeout    time.Duration
	drainTimeout      time.Duration
}

// ConnectNats establishes a NATS connection with reconnect handling.
func ConnectNats(url, name string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(natsConfig.connectionTimeout),
		nats.ReconnectWait(natsConfig.reconnectWait),
		nats.MaxReconnects(natsConfig.maxReconnects),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.DrainTimeout(natsConfig.drainTimeout),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	log.Info().Str("url", nc.ConnectedUrl()).Msg("✅ Connected to NATS successfully.")
	return nc, nil
}

// NatsBus fans gateway events out across instances. Every instance publishes
// to one subject and delivers what it receives into its local sink, so an
// event reaches the clients of every instance exactly once per instance.
type NatsBus struct {
	nc      *nats.Conn
	subject string
	sink    interfaces.EventPublisher

	mu  sync.Mutex
	sub *nats.Subscription
}

func NewNatsBus(nc *nats.Conn, subject string, sink interfaces.EventPublisher) *NatsBus {
	return &NatsBus{nc: nc, subject: subject, sink: sink}
}

// Start subscribes without a queue group: every instance must see every event.
func (b *NatsBus) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sub != nil {
		return nil
	}

	sub, err := b.nc.Subscribe(b.subject, b.handle)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", b.subject, err)
	}
	b.sub = sub
	return b.nc.Flush()
}

func (b *NatsBus) handle(msg *nats.Msg) {
	var event events.Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Warn().Err(err).Str("subject", msg.Subject).Msg("dropping malformed bus event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), natsConfig.handlerTimeout)
	defer cancel()
	if err := b.sink.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", event.Name).Msg("local delivery failed")
	}
}

func (b *NatsBus) Publish(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.nc == nil || b.nc.IsClosed() {
		return nats.ErrConnectionClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.nc.Publish(b.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", b.subject, err)
	}
	return nil
}

// Status returns the current NATS connection status
func (b *NatsBus) Status() string {
	if b.nc == nil {
		return "not initialized"
	}
	if b.nc.IsConnected() {
		return "connected"
	}
	return "disconnected"
}

// Close drains the connection so in-flight events are still delivered.
func (b *NatsBus) Close() {
	if b.nc == nil || b.nc.IsClosed() {
		return
	}
	if err := b.nc.Drain(); err != nil {
		log.Warn().Err(err).Msg("error draining NATS connection")
		b.nc.Close()
		return
	}
	log.Info().Msg("✅ NATS connection closed gracefully.")
}
