package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxEmojiRunes = 16

type reactionInput struct {
	Emoji string `json:"emoji"`
}

func validEmoji(emoji string) (string, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return "", errors.BadRequest("Emoji is required")
	}
	if utf8.RuneCountInString(emoji) > maxEmojiRunes || len(emoji) > 32 {
		return "", errors.BadRequest("Invalid emoji")
	}
	return emoji, nil
}

// reactionTarget loads the message and checks the caller belongs to its conversation or group.
func reactionTarget(c *gin.Context, userID uint) (*models.Message, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	var msg models.Message
	err = database.DB.First(&msg, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("Message not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load message: %w", err)
	}
	if _, err := services.Authorize(database.DB, msg.Parent(), userID); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AddReaction POST /api/messages/:id/reactions
// Adding the same emoji twice leaves a single row.
func AddReaction(c *gin.Context) {
	userID := currentUserID(c)

	var input reactionInput
	_ = c.ShouldBindJSON(&input)
	emoji, err := validEmoji(input.Emoji)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := reactionTarget(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	reaction := models.Reaction{MessageID: msg.ID, UserID: userID, Emoji: emoji}
	err = database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}, {Name: "emoji"}},
		DoNothing: true,
	}).Create(&reaction).Error
	if err != nil {
		respondError(c, fmt.Errorf("add reaction: %w", err))
		return
	}
	err = database.DB.Preload("User").
		Where("message_id = ? AND user_id = ? AND emoji = ?", msg.ID, userID, emoji).
		First(&reaction).Error
	if err != nil {
		respondError(c, fmt.Errorf("reload reaction: %w", err))
		return
	}

	if memberIDs, err := services.MemberIDs(database.DB, msg.Parent()); err == nil {
		emitEach(memberIDs, 0, events.TypeReaction, events.ReactionPayload{
			MessageID: msg.ID,
			Reaction:  &reaction,
			Action:    events.ReactionAdded,
		})
	}

	c.JSON(http.StatusOK, reaction)
}

// RemoveReaction DELETE /api/messages/:id/reactions?emoji=
func RemoveReaction(c *gin.Context) {
	userID := currentUserID(c)

	emoji, err := validEmoji(c.Query("emoji"))
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := reactionTarget(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	res := database.DB.Where("message_id = ? AND user_id = ? AND emoji = ?", msg.ID, userID, emoji).
		Delete(&models.Reaction{})
	if res.Error != nil {
		respondError(c, fmt.Errorf("remove reaction: %w", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, errors.NotFound("Reaction not found"))
		return
	}

	if memberIDs, err := services.MemberIDs(database.DB, msg.Parent()); err == nil {
		emitEach(memberIDs, 0, events.TypeReaction, events.ReactionPayload{
			MessageID: msg.ID,
			UserID:    userID,
			Emoji:     emoji,
			Action:    events.ReactionRemoved,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
