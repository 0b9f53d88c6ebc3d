package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/storage"
	"github.com/pushp314/devconnect-chat/pkg/errors"
	"github.com/pushp314/devconnect-chat/pkg/logger"
)

// Bus delivers realtime events; nil disables them.
var Bus *events.Bus

// Uploads stores message attachments.
var Uploads storage.Store

// currentUserID is set by AuthMiddleware.
func currentUserID(c *gin.Context) uint {
	return c.MustGet("userId").(uint)
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.BadRequest("Invalid " + name)
	}
	return uint(id), nil
}

func queryID(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, errors.BadRequest(name + " is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.BadRequest("Invalid " + name)
	}
	return uint(id), nil
}

// respondError writes AppErrors as-is and hides everything else behind a 500.
func respondError(c *gin.Context, err error) {
	if appErr, ok := errors.As(err); ok {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Message})
}

// emit runs after the write it describes has been committed. Delivery is best effort.
func emit(userID uint, t events.Type, data any) {
	if Bus == nil {
		return
	}
	Bus.Emit(userID, t, data)
}

func emitEach(userIDs []uint, skip uint, t events.Type, data any) {
	for _, id := range userIDs {
		if id == skip {
			continue
		}
		emit(id, t, data)
	}
}

func isOnline(userID uint) bool {
	return Bus != nil && Bus.Online(userID)
}
