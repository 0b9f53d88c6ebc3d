package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/errors"
)

type typingInput struct {
	ConversationID *uint `json:"conversationId"`
	GroupChatID    *uint `json:"groupChatId"`
	IsTyping       bool  `json:"isTyping"`
}

// Typing POST /api/typing
// Nothing is stored; other members with an open connection see the indicator.
func Typing(c *gin.Context) {
	userID := currentUserID(c)

	var input typingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.BadRequest("conversationId or groupChatId required"))
		return
	}
	parent, err := models.ParentFromIDs(input.ConversationID, input.GroupChatID)
	if err != nil {
		respondError(c, errors.BadRequest("conversationId or groupChatId required"))
		return
	}

	if _, err := services.Authorize(database.DB, parent, userID); err != nil {
		respondError(c, err)
		return
	}

	var me models.User
	if err := database.DB.First(&me, userID).Error; err != nil {
		respondError(c, fmt.Errorf("load user: %w", err))
		return
	}
	memberIDs, err := services.MemberIDs(database.DB, parent)
	if err != nil {
		respondError(c, err)
		return
	}

	emitEach(memberIDs, userID, events.TypeTyping, events.NewTypingPayload(parent, me, input.IsTyping))

	c.JSON(http.StatusOK, gin.H{"success": true})
}
