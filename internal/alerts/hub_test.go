package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, h *Hub, userID int64, served chan<- struct{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWS(w, r, userID)
		if served != nil {
			close(served)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubDeliversBroadcastToConnectedClient(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		h.Shutdown(ctx)
	}()

	srv := newHubServer(t, h, 42, nil)
	conn := dialHub(t, srv)

	require.Eventually(t, func() bool {
		h.clientsMux.RLock()
		defer h.clientsMux.RUnlock()
		return len(h.clients[42]) == 1
	}, time.Second, 10*time.Millisecond, "client never registered")

	h.Broadcast([]int64{42}, AlertEvent{Type: "alert.triggered", AlertID: 7, UserID: 9})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev AlertEvent
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, "alert.triggered", ev.Type)
	assert.Equal(t, int64(7), ev.AlertID)
}

func TestServeWSReturnsAfterShutdown(t *testing.T) {
	h := NewHub()
	go h.Run()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, h.Shutdown(ctx))

	served := make(chan struct{})
	srv := newHubServer(t, h, 42, served)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		defer conn.Close()
	}

	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("handler still blocked after hub shutdown")
	}
}
