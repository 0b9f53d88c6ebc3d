package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/handlers"
)

func RegisterNotificationRoutes(r gin.IRouter) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", handlers.GetNotifications)
		notifications.GET("/unread-count", handlers.GetUnreadCount)
		notifications.PUT("/read-all", handlers.MarkAllNotificationsRead)
		notifications.PATCH("/:id", handlers.UpdateNotification)
		notifications.DELETE("/:id", handlers.DeleteNotification)
	}
}
