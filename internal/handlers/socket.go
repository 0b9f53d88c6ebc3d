package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/middleware"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/pkg/logger"
)

// socketSubs maps a socket id to its bus subscription.
var socketSubs sync.Map

// onlineFriendIDs lists the caller's friends that have at least one open connection.
func onlineFriendIDs(userID uint) []uint {
	var ids []uint
	database.DB.Model(&models.Friend{}).Where("user_id = ?", userID).Pluck("friend_id", &ids)

	online := make([]uint, 0, len(ids))
	for _, id := range ids {
		if isOnline(id) {
			online = append(online, id)
		}
	}
	return online
}

// pumpSocket forwards bus events to one socket.io connection until the subscription closes.
func pumpSocket(s socketio.Conn, sub *events.Subscription) {
	for ev := range sub.C() {
		s.Emit(string(ev.Type), ev.Data)
	}
}

func InitSocketServer(bus *events.Bus) *socketio.Server {
	log := logger.Component("socket.io")
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		url := s.URL()
		token := url.Query().Get("token")
		if token == "" {
			token = url.Query().Get("auth_token")
		}

		userID, err := middleware.Authenticate(token)
		if err != nil {
			log.Debug().Str("socket", s.ID()).Err(err).Msg("socket connection rejected")
			return fmt.Errorf("authentication required")
		}
		s.SetContext(userID)

		sub := bus.Subscribe(userID)
		socketSubs.Store(s.ID(), sub)
		go pumpSocket(s, sub)

		log.Debug().Str("socket", s.ID()).Uint("user_id", userID).Msg("socket authenticated")
		s.Emit("online_users", onlineFriendIDs(userID))
		return nil
	})

	server.OnEvent("/", "get_online_users", func(s socketio.Conn, msg string) {
		userID, ok := s.Context().(uint)
		if !ok {
			return
		}
		s.Emit("online_users", onlineFriendIDs(userID))
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if v, ok := socketSubs.LoadAndDelete(s.ID()); ok {
			bus.Unsubscribe(v.(*events.Subscription))
		}
		log.Debug().Str("socket", s.ID()).Str("reason", reason).Msg("socket closed")
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Warn().Err(e).Msg("socket error")
		if s == nil {
			return
		}
		if v, ok := socketSubs.LoadAndDelete(s.ID()); ok {
			bus.Unsubscribe(v.(*events.Subscription))
		}
	})

	go func() {
		if err := server.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io server stopped")
		}
	}()
	return server
}

// SocketHandler mounts the socket.io server on gin.
func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
