package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/middleware"
	"github.com/pushp314/devconnect-chat/pkg/logger"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 4096
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsClient couples one websocket with one bus subscription.
type wsClient struct {
	conn *websocket.Conn
	sub  *events.Subscription
	bus  *events.Bus
}

// WebSocketHandler GET /ws?token=
// Server-to-client only: every bus event is written as a JSON frame {"type","data"}.
func WebSocketHandler(bus *events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.Authenticate(c.Query("token"))
		if err != nil {
			respondError(c, err)
			return
		}

		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := &wsClient{conn: conn, sub: bus.Subscribe(userID), bus: bus}
		go client.writePump()
		client.readPump()
	}
}

// readPump only watches for close and pong frames.
func (w *wsClient) readPump() {
	defer func() {
		w.bus.Unsubscribe(w.sub)
		w.conn.Close()
	}()

	w.conn.SetReadLimit(wsMaxMessageSize)
	_ = w.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (w *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		w.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-w.sub.C():
			_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = w.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			frame, err := json.Marshal(ev)
			if err != nil {
				logger.Warn().Err(err).Str("type", string(ev.Type)).Msg("dropping unencodable event")
				continue
			}
			if err := w.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
