package catalog

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxInboundSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The catalog is open to any origin, same as the REST surface.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWS upgrades the connection and streams newly created products. The
// client first receives one full-list snapshot frame, then one frame per
// created product in publish order. Two loops run per connection: a write
// pump draining the subscriber queue and pinging, and a read pump answering
// control frames. Either one ending tears the connection down.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.Log != nil {
			s.Log.Warn("websocket upgrade failed", zap.Error(err))
		}
		return
	}

	// Subscribe before snapshotting: a product created in between shows up
	// in both the snapshot and the stream, but is never lost.
	sub := s.Hub.Subscribe()

	snapshot, err := s.Store.List(r.Context())
	if err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(snapshot); err != nil {
			s.Hub.Unsubscribe(sub)
			_ = conn.Close()
			return
		}
	}

	go s.writePump(conn, sub)
	s.readPump(conn)
	s.Hub.Unsubscribe(sub)
}

func (s *Server) writePump(conn *websocket.Conn, sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case p, ok := <-sub.C():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Unsubscribed: say goodbye properly.
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(p); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes inbound frames until the peer goes away. Pings are
// answered by the library's default handler; pongs refresh the read deadline.
// Data frames are discarded — the stream is one-way.
func (s *Server) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxInboundSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
