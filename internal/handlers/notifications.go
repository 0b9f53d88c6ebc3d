package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/logger"
)

// notify stores the notifications and then pushes each one to its recipient.
// Failures are logged; they never fail the request that caused them.
func notify(inputs ...services.NotificationInput) {
	created, err := services.CreateNotifications(database.DB, inputs)
	if err != nil {
		logger.Error().Err(err).Int("count", len(inputs)).Msg("Failed to create notifications")
		return
	}
	for i := range created {
		emit(created[i].UserID, events.TypeNotification, created[i])
	}
}

// GetNotifications GET /api/notifications
func GetNotifications(c *gin.Context) {
	userID := currentUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	list, err := services.ListNotifications(database.DB, userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// GetUnreadCount GET /api/notifications/unread-count
func GetUnreadCount(c *gin.Context) {
	count, err := services.UnreadNotificationCount(database.DB, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type updateNotificationInput struct {
	Read *bool `json:"read"`
}

// UpdateNotification PATCH /api/notifications/:id
func UpdateNotification(c *gin.Context) {
	userID := currentUserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input updateNotificationInput
	// An empty body marks the notification as read.
	_ = c.ShouldBindJSON(&input)
	read := true
	if input.Read != nil {
		read = *input.Read
	}

	n, err := services.SetNotificationRead(database.DB, id, userID, read)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// MarkAllNotificationsRead PUT /api/notifications/read-all
func MarkAllNotificationsRead(c *gin.Context) {
	updated, err := services.MarkAllNotificationsRead(database.DB, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": updated})
}

// DeleteNotification DELETE /api/notifications/:id
func DeleteNotification(c *gin.Context) {
	userID := currentUserID(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := services.DeleteNotification(database.DB, id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
