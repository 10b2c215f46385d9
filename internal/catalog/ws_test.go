package catalog_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiveCatalog/internal/catalog"
)

func dialWS(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) []catalog.Product {
	t.Helper()
	var snapshot []catalog.Product
	require.NoError(t, conn.ReadJSON(&snapshot))
	return snapshot
}

func readEvent(t *testing.T, conn *websocket.Conn) catalog.Product {
	t.Helper()
	var p catalog.Product
	require.NoError(t, conn.ReadJSON(&p))
	return p
}

func createProduct(t *testing.T, url, name string) catalog.Product {
	t.Helper()

	resp, raw := doJSON(t, http.MethodPost, url+"/api/products", map[string]any{
		"name":        name,
		"price":       10.0,
		"category":    "Test",
		"description": "Streamed product description",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var p catalog.Product
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func TestWSSnapshotThenStream(t *testing.T) {
	ts, _ := newTestServer(t)

	conn := dialWS(t, ts.URL)

	snapshot := readSnapshot(t, conn)
	assert.Len(t, snapshot, len(catalog.SeedCatalog()))

	x := createProduct(t, ts.URL, "Stream X")
	y := createProduct(t, ts.URL, "Stream Y")

	assert.Equal(t, x, readEvent(t, conn))
	assert.Equal(t, y, readEvent(t, conn))
}

func TestWSLateSubscriberSeesSnapshotNotStream(t *testing.T) {
	ts, _ := newTestServer(t)

	first := dialWS(t, ts.URL)
	readSnapshot(t, first)

	x := createProduct(t, ts.URL, "Before Second")
	assert.Equal(t, x, readEvent(t, first))

	second := dialWS(t, ts.URL)
	snapshot := readSnapshot(t, second)

	// X is part of the second subscriber's snapshot, not its stream.
	found := false
	for _, p := range snapshot {
		if p.ID == x.ID {
			found = true
		}
	}
	assert.True(t, found, "snapshot should include products created before connect")

	z := createProduct(t, ts.URL, "After Second")
	assert.Equal(t, z, readEvent(t, second), "first streamed event must be Z, not X")
	assert.Equal(t, z, readEvent(t, first))
}

func TestWSSubscriberCountAndDisconnect(t *testing.T) {
	ts, s := newTestServer(t)

	conn := dialWS(t, ts.URL)
	readSnapshot(t, conn)

	require.Eventually(t, func() bool { return s.Hub.Subscribers() == 1 },
		time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	// Teardown releases the subscriber queue.
	require.Eventually(t, func() bool { return s.Hub.Subscribers() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestWSAnswersPings(t *testing.T) {
	ts, _ := newTestServer(t)

	conn := dialWS(t, ts.URL)
	readSnapshot(t, conn)

	pong := make(chan struct{}, 1)
	conn.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	require.NoError(t, conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)))

	// Control frames are only processed while reading, so park a read; the
	// pong handler fires from inside it.
	go func() {
		var p catalog.Product
		_ = conn.ReadJSON(&p)
	}()

	select {
	case <-pong:
	case <-time.After(3 * time.Second):
		t.Fatal("no pong received")
	}
}
