package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pushp314/devconnect-chat/internal/config"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/handlers"
	"github.com/pushp314/devconnect-chat/internal/middleware"
)

// Options wires optional pieces into the router. Tests leave SocketServer nil.
type Options struct {
	Bus          *events.Bus
	SocketServer *socketio.Server
	UploadDir    string
	UploadPath   string
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	if config.AppConfig != nil {
		r.Use(middleware.CORSMiddleware())
	}
	r.Use(middleware.SecurityHeaders())

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		RegisterFriendRoutes(api)
		RegisterConversationRoutes(api)
		RegisterGroupChatRoutes(api)
		RegisterMessageRoutes(api)
		RegisterNotificationRoutes(api)
		RegisterUploadRoutes(api)
	}

	r.GET("/health", healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.UploadDir != "" && opts.UploadPath != "" {
		r.Static(opts.UploadPath, opts.UploadDir)
	}
	if opts.Bus != nil {
		r.GET("/ws", handlers.WebSocketHandler(opts.Bus))
	}
	if opts.SocketServer != nil {
		r.GET("/socket.io/*any", handlers.SocketHandler(opts.SocketServer))
		r.POST("/socket.io/*any", handlers.SocketHandler(opts.SocketServer))
	}
	return r
}

func healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "error"
	}
	redisStatus := database.RedisStatus(ctx)

	status := "ok"
	if dbStatus != "ok" || redisStatus == "error" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"checks": gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
