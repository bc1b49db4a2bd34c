package realtime

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesConnectedClient(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server loop time to register the client.
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast(Signal{Collection: "listings"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var sig Signal
	require.NoError(t, conn.ReadJSON(&sig))
	assert.Equal(t, "listings", sig.Collection)
}

func TestHub_BroadcastWithNoClientsIsANoOp(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	hub.Broadcast(Signal{Collection: "orders"})
}
