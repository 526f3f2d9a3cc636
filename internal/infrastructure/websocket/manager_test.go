package websocket

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
	"go.uber.org/goleak"

	"agrotrust/internal/domain/entity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newHubServer(t *testing.T, m *Manager) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		m.Serve(conn, entity.Actor{
			ID:   r.URL.Query().Get("uid"),
			Role: entity.Role(r.URL.Query().Get("role")),
		})
	}))
}

func dial(t *testing.T, srv *httptest.Server, uid string, role entity.Role) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?uid=" + uid + "&role=" + string(role)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) entity.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var evt entity.Event
	require.NoError(t, json.Unmarshal(raw, &evt))
	return evt
}

func TestManager_RoutesEventsToParties(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	srv := newHubServer(t, m)
	defer srv.Close()

	admin := dial(t, srv, "a1", entity.RoleAdmin)
	defer admin.Close()
	farmer := dial(t, srv, "f1", entity.RoleFarmer)
	defer farmer.Close()
	other := dial(t, srv, "f2", entity.RoleFarmer)
	defer other.Close()

	require.Eventually(t, func() bool { return m.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	m.Publish(entity.Event{Type: entity.EventOrderStatusChanged, EntityID: "ORD-8821", Data: map[string]interface{}{"farmer_id": "f1", "consumer_id": "c1"}})
	m.Publish(entity.Event{Type: entity.EventListingCreated, EntityID: "p9", Data: map[string]interface{}{"farmer_id": "f1"}})

	assert.Equal(t, "ORD-8821", readEvent(t, admin).EntityID)
	assert.Equal(t, "p9", readEvent(t, admin).EntityID, "admins see every event")
	assert.Equal(t, "ORD-8821", readEvent(t, farmer).EntityID)
	assert.Equal(t, "p9", readEvent(t, farmer).EntityID)

	// f2 is not a party to the order and only sees the public listing.
	assert.Equal(t, "p9", readEvent(t, other).EntityID)

	cancel()
	<-done

	// Stopping the hub closes every connection.
	for _, conn := range []*websocket.Conn{admin, farmer, other} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err := conn.ReadMessage()
		assert.Error(t, err)
	}
}

func TestManager_PublishAfterStopDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	for i := 0; i < 100; i++ {
		m.Publish(entity.Event{Type: entity.EventOrderPlaced})
	}
}
