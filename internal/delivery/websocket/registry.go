package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"stocktalk-service/internal/domain/events"
)

// Client is one connected real-time peer.
type Client interface {
	ID() string
	Send(ctx context.Context, event events.Event) error
	Close() error
}

// Observer receives gateway lifecycle signals, typically metrics.
type Observer interface {
	ClientConnected()
	ClientDisconnected()
	ClientDropped()
	Broadcast(event string)
}

type nopObserver struct{}

func (nopObserver) ClientConnected()    {}
func (nopObserver) ClientDisconnected() {}
func (nopObserver) ClientDropped()      {}
func (nopObserver) Broadcast(string)    {}

// Registry is the set of connected clients owned by the gateway.
// Register and Unregister are its only mutations.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]Client
	observer Observer
}

func NewRegistry(observer Observer) *Registry {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Registry{
		clients:  make(map[string]Client),
		observer: observer,
	}
}

func (r *Registry) Register(c Client) {
	r.mu.Lock()
	_, exists := r.clients[c.ID()]
	r.clients[c.ID()] = c
	r.mu.Unlock()

	if !exists {
		r.observer.ClientConnected()
	}
}

// Unregister reports whether the client was registered.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	_, ok := r.clients[id]
	delete(r.clients, id)
	r.mu.Unlock()

	if ok {
		r.observer.ClientDisconnected()
	}
	return ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

func (r *Registry) snapshot() []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}

// Broadcast sends event to every registered client, the sender included.
// A client whose write fails is unregistered and closed. It returns the
// number of clients that received the event.
func (r *Registry) Broadcast(ctx context.Context, event events.Event) int {
	r.observer.Broadcast(event.Name)

	delivered := 0
	for _, c := range r.snapshot() {
		if err := c.Send(ctx, event); err != nil {
			log.Debug().Err(err).Str("client_id", c.ID()).Msg("dropping websocket client after failed write")
			if r.Unregister(c.ID()) {
				r.observer.ClientDropped()
			}
			_ = c.Close()
			continue
		}
		delivered++
	}
	return delivered
}

// Publish satisfies the application's event publisher for single-instance
// deployments.
func (r *Registry) Publish(ctx context.Context, event events.Event) error {
	r.Broadcast(ctx, event)
	return nil
}

func (r *Registry) CloseAll() {
	for _, c := range r.snapshot() {
		r.Unregister(c.ID())
		_ = c.Close()
	}
}
