package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/errors"
	"github.com/pushp314/devconnect-chat/pkg/utils"
	"gorm.io/gorm"
)

const (
	maxAttachments  = 10
	previewLength   = 50
	messagePageSize = 200
)

type sendMessageInput struct {
	Content     string              `json:"content"`
	Attachments []models.Attachment `json:"attachments"`
}

func conversationParent(c *gin.Context) (models.Parent, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return models.Parent{}, err
	}
	return models.Direct(id), nil
}

func groupParent(c *gin.Context) (models.Parent, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return models.Parent{}, err
	}
	return models.Group(id), nil
}

// GetConversationMessages GET /api/conversations/:id/messages
func GetConversationMessages(c *gin.Context) {
	parent, err := conversationParent(c)
	if err != nil {
		respondError(c, err)
		return
	}
	listMessages(c, parent)
}

// SendConversationMessage POST /api/conversations/:id/messages
func SendConversationMessage(c *gin.Context) {
	parent, err := conversationParent(c)
	if err != nil {
		respondError(c, err)
		return
	}
	sendMessage(c, parent)
}

// GetGroupMessages GET /api/groupchats/:id/messages
func GetGroupMessages(c *gin.Context) {
	parent, err := groupParent(c)
	if err != nil {
		respondError(c, err)
		return
	}
	listMessages(c, parent)
}

// SendGroupMessage POST /api/groupchats/:id/messages
func SendGroupMessage(c *gin.Context) {
	parent, err := groupParent(c)
	if err != nil {
		respondError(c, err)
		return
	}
	sendMessage(c, parent)
}

func listMessages(c *gin.Context, parent models.Parent) {
	userID := currentUserID(c)
	if _, err := services.Authorize(database.DB, parent, userID); err != nil {
		respondError(c, err)
		return
	}

	q := database.DB.Preload("Sender").Preload("Reactions.User").
		Where(parent.Column()+" = ?", parent.ID())
	// No cursor means the latest page.
	if c.Query("before") != "" {
		before, err := queryID(c, "before")
		if err != nil {
			respondError(c, err)
			return
		}
		q = q.Where("id < ?", before)
	}

	// Newest page first, then flipped so clients render oldest to newest.
	var messages []models.Message
	if err := q.Order("id desc").Limit(messagePageSize).Find(&messages).Error; err != nil {
		respondError(c, fmt.Errorf("list messages: %w", err))
		return
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	c.JSON(http.StatusOK, messages)
}

func sendMessage(c *gin.Context, parent models.Parent) {
	userID := currentUserID(c)

	var input sendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.BadRequest("Message content is required"))
		return
	}
	if len(input.Attachments) > maxAttachments {
		respondError(c, errors.BadRequest(fmt.Sprintf("At most %d attachments per message", maxAttachments)))
		return
	}

	content := strings.TrimSpace(input.Content)
	if content != "" || len(input.Attachments) == 0 {
		sanitized, err := SanitizeMessageContent(input.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		content = sanitized
	}

	if _, err := services.Authorize(database.DB, parent, userID); err != nil {
		respondError(c, err)
		return
	}

	msg := models.NewMessage(parent, userID, content)
	if err := msg.SetAttachments(input.Attachments); err != nil {
		respondError(c, errors.BadRequest("Invalid attachments"))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return touchParent(tx, parent)
	})
	if err != nil {
		respondError(c, fmt.Errorf("create message: %w", err))
		return
	}
	if err := database.DB.Preload("Sender").First(&msg, msg.ID).Error; err != nil {
		respondError(c, fmt.Errorf("reload message: %w", err))
		return
	}

	memberIDs, err := services.MemberIDs(database.DB, parent)
	if err != nil {
		// The message is stored; recipients will see it on their next fetch.
		c.JSON(http.StatusOK, msg)
		return
	}

	emitEach(memberIDs, userID, events.TypeMessage, msg)
	notify(messageNotifications(parent, msg, memberIDs)...)

	c.JSON(http.StatusOK, msg)
}

func touchParent(tx *gorm.DB, parent models.Parent) error {
	now := time.Now()
	if parent.IsGroup() {
		return tx.Model(&models.GroupChat{}).Where("id = ?", parent.ID()).Update("updated_at", now).Error
	}
	return tx.Model(&models.Conversation{}).Where("id = ?", parent.ID()).Update("updated_at", now).Error
}

func messageNotifications(parent models.Parent, msg models.Message, memberIDs []uint) []services.NotificationInput {
	title := "New Message"
	link := fmt.Sprintf("/messages?conversation=%d", parent.ID())
	if parent.IsGroup() {
		var group models.GroupChat
		if err := database.DB.Select("id", "name").First(&group, parent.ID()).Error; err == nil {
			title = "New message in " + group.Name
		}
		link = fmt.Sprintf("/messages?group=%d", parent.ID())
	}

	body := msg.Content
	if body == "" {
		body = "sent an attachment"
	}
	text := fmt.Sprintf("%s: %s", msg.Sender.DisplayName(), utils.Preview(body, previewLength))

	inputs := make([]services.NotificationInput, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id == msg.SenderID {
			continue
		}
		inputs = append(inputs, services.NotificationInput{
			UserID:  id,
			Type:    models.NotificationTypeMessage,
			Title:   title,
			Message: text,
			Link:    link,
		})
	}
	return inputs
}

type markReadInput struct {
	ConversationID *uint `json:"conversationId"`
	GroupChatID    *uint `json:"groupChatId"`
}

// MarkRead POST /api/messages/mark-read
func MarkRead(c *gin.Context) {
	userID := currentUserID(c)

	var input markReadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.BadRequest("conversationId or groupChatId is required"))
		return
	}
	parent, err := models.ParentFromIDs(input.ConversationID, input.GroupChatID)
	if err != nil {
		respondError(c, errors.BadRequest("Provide exactly one of conversationId or groupChatId"))
		return
	}

	if _, err := services.Authorize(database.DB, parent, userID); err != nil {
		respondError(c, err)
		return
	}

	watermark, err := services.MarkRead(database.DB, parent, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"success": true, "lastReadMessageId": nil}
	if watermark != 0 {
		resp["lastReadMessageId"] = watermark
	}
	c.JSON(http.StatusOK, resp)
}
