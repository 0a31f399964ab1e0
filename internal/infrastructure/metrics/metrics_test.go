package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollectors(t *testing.T) {
	m := New()

	m.ObserveHTTP("/post/:postId", "GET", 200, 15*time.Millisecond)
	m.ObserveHTTP("/post/:postId", "GET", 404, time.Millisecond)
	m.ClientConnected()
	m.ClientConnected()
	m.ClientDisconnected()
	m.Broadcast("postLiked")
	m.ClientDropped()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/post/:postId", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wsClients))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.broadcasts.WithLabelValues("postLiked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.droppedClient))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.Broadcast("commentAdded")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `stocktalk_gateway_broadcasts_total{event="commentAdded"} 1`)
}
