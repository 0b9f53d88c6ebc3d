package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/errors"
	"github.com/pushp314/devconnect-chat/pkg/logger"
	"gorm.io/gorm"
)

type conversationView struct {
	models.Conversation
	LastMessage *models.Message `json:"lastMessage"`
	UnreadCount int64           `json:"unreadCount"`
}

// lastMessage returns nil when the resource has no messages yet.
func lastMessage(parent models.Parent) *models.Message {
	var msg models.Message
	err := database.DB.Preload("Sender").
		Where(parent.Column()+" = ?", parent.ID()).
		Order("id desc").
		Limit(1).
		Find(&msg).Error
	if err != nil || msg.ID == 0 {
		return nil
	}
	return &msg
}

// unreadFor never fails a listing; a broken count is logged and shown as zero.
func unreadFor(parent models.Parent, userID uint, lastRead *uint) int64 {
	m := &services.Membership{Parent: parent, UserID: userID, LastReadMessageID: lastRead}
	count, err := services.UnreadCount(database.DB, m)
	if err != nil {
		logger.Warn().Err(err).Str("parent", parent.String()).Msg("unread count failed")
		return 0
	}
	return count
}

// ListConversations GET /api/conversations
func ListConversations(c *gin.Context) {
	userID := currentUserID(c)

	var conversations []models.Conversation
	err := database.DB.
		Preload("Members.User").
		Where("id IN (?)", database.DB.Model(&models.ConversationMember{}).Select("conversation_id").Where("user_id = ?", userID)).
		Order("updated_at desc").
		Find(&conversations).Error
	if err != nil {
		respondError(c, fmt.Errorf("list conversations: %w", err))
		return
	}

	out := make([]conversationView, 0, len(conversations))
	for _, conv := range conversations {
		parent := models.Direct(conv.ID)
		view := conversationView{Conversation: conv, LastMessage: lastMessage(parent)}
		for _, m := range conv.Members {
			if m.UserID == userID {
				view.UnreadCount = unreadFor(parent, userID, m.LastReadMessageID)
			}
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, out)
}

type createConversationInput struct {
	FriendID uint `json:"friendId"`
}

// CreateConversation POST /api/conversations
func CreateConversation(c *gin.Context) {
	userID := currentUserID(c)

	var input createConversationInput
	if err := c.ShouldBindJSON(&input); err != nil || input.FriendID == 0 {
		respondError(c, errors.BadRequest("Friend ID is required"))
		return
	}
	if input.FriendID == userID {
		respondError(c, errors.BadRequest("Cannot create conversation with yourself"))
		return
	}

	friends, err := services.AreFriends(database.DB, userID, input.FriendID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !friends {
		respondError(c, errors.Forbidden("You are not friends with this user"))
		return
	}

	var existing []uint
	err = database.DB.Model(&models.ConversationMember{}).
		Where("user_id IN ?", []uint{userID, input.FriendID}).
		Group("conversation_id").
		Having("COUNT(DISTINCT user_id) = 2").
		Limit(1).
		Pluck("conversation_id", &existing).Error
	if err != nil {
		respondError(c, fmt.Errorf("find conversation: %w", err))
		return
	}

	var conv models.Conversation
	if len(existing) > 0 {
		if err := database.DB.Preload("Members.User").First(&conv, existing[0]).Error; err != nil {
			respondError(c, fmt.Errorf("load conversation: %w", err))
			return
		}
		c.JSON(http.StatusOK, conv)
		return
	}

	conv.Members = []models.ConversationMember{{UserID: userID}, {UserID: input.FriendID}}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&conv).Error
	})
	if err != nil {
		respondError(c, fmt.Errorf("create conversation: %w", err))
		return
	}
	if err := database.DB.Preload("Members.User").First(&conv, conv.ID).Error; err != nil {
		respondError(c, fmt.Errorf("reload conversation: %w", err))
		return
	}

	c.JSON(http.StatusOK, conv)
}
