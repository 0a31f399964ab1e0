// Package events defines the real-time events relayed by the broadcast gateway.
package events

import (
	"encoding/json"
	"fmt"
)

// Client to server.
const (
	LikePost   = "likePost"
	NewComment = "newComment"
)

// Server to client.
const (
	PostLiked    = "postLiked"
	CommentAdded = "commentAdded"
)

// Event is the envelope carried by every websocket frame and bus message.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

func New(name string, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return Event{Name: name, Data: raw}, nil
}

// Relay maps an inbound client event to the event re-emitted to every client.
// The payload is passed through untouched.
func Relay(in Event) (Event, bool) {
	switch in.Name {
	case LikePost:
		return Event{Name: PostLiked, Data: in.Data}, true
	case NewComment:
		return Event{Name: CommentAdded, Data: in.Data}, true
	default:
		return Event{}, false
	}
}
