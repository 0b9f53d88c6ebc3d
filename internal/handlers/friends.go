package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/errors"
	"gorm.io/gorm"
)

type friendView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	IsOnline bool   `json:"isOnline"`
}

// ListFriends GET /api/friends
func ListFriends(c *gin.Context) {
	userID := currentUserID(c)

	var friends []models.Friend
	if err := database.DB.Preload("FriendUser").Where("user_id = ?", userID).Find(&friends).Error; err != nil {
		respondError(c, fmt.Errorf("list friends: %w", err))
		return
	}

	out := make([]friendView, 0, len(friends))
	for _, f := range friends {
		out = append(out, friendView{
			ID:       f.FriendUser.ID,
			Username: f.FriendUser.Username,
			Nickname: f.FriendUser.Nickname,
			Avatar:   f.FriendUser.Avatar,
			IsOnline: isOnline(f.FriendUser.ID),
		})
	}
	c.JSON(http.StatusOK, out)
}

// RemoveFriend DELETE /api/friends?friendId=
func RemoveFriend(c *gin.Context) {
	userID := currentUserID(c)
	friendID, err := queryID(c, "friendId")
	if err != nil {
		respondError(c, errors.BadRequest("Friend ID is required"))
		return
	}

	var me models.User
	if err := database.DB.First(&me, userID).Error; err != nil {
		respondError(c, fmt.Errorf("load user: %w", err))
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND friend_id = ?", userID, friendID).Delete(&models.Friend{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND friend_id = ?", friendID, userID).Delete(&models.Friend{}).Error
	})
	if err != nil {
		respondError(c, fmt.Errorf("remove friend: %w", err))
		return
	}

	emit(friendID, events.TypeFriendRemoved, events.FriendRemovedPayload{
		RemovedBy:         userID,
		RemovedByUsername: me.Username,
		RemovedByNickname: me.Nickname,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed successfully"})
}

// ListFriendRequests GET /api/friends/requests
func ListFriendRequests(c *gin.Context) {
	userID := currentUserID(c)

	var requests []models.FriendRequest
	err := database.DB.Preload("Sender").
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestPending).
		Order("created_at desc").
		Find(&requests).Error
	if err != nil {
		respondError(c, fmt.Errorf("list friend requests: %w", err))
		return
	}
	c.JSON(http.StatusOK, requests)
}

type sendFriendRequestInput struct {
	UserID uint `json:"userId" binding:"required"`
}

// SendFriendRequest POST /api/friends/requests
func SendFriendRequest(c *gin.Context) {
	userID := currentUserID(c)

	var input sendFriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.BadRequest("userId is required"))
		return
	}
	if input.UserID == userID {
		respondError(c, errors.BadRequest("You cannot add yourself"))
		return
	}

	var sender, receiver models.User
	if err := database.DB.First(&sender, userID).Error; err != nil {
		respondError(c, fmt.Errorf("load sender: %w", err))
		return
	}
	if err := database.DB.First(&receiver, input.UserID).Error; err != nil {
		respondError(c, errors.NotFound("User not found"))
		return
	}

	already, err := services.AreFriends(database.DB, userID, input.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if already {
		respondError(c, errors.BadRequest("Already friends"))
		return
	}

	var pending int64
	database.DB.Model(&models.FriendRequest{}).
		Where("status = ? AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
			models.FriendRequestPending, userID, input.UserID, input.UserID, userID).
		Count(&pending)
	if pending > 0 {
		respondError(c, errors.BadRequest("A friend request is already pending"))
		return
	}

	req := models.FriendRequest{SenderID: userID, ReceiverID: input.UserID, Status: models.FriendRequestPending}
	if err := database.DB.Create(&req).Error; err != nil {
		respondError(c, fmt.Errorf("create friend request: %w", err))
		return
	}
	req.Sender = sender

	notify(services.NotificationInput{
		UserID:  input.UserID,
		Type:    models.NotificationTypeFriendRequest,
		Title:   "New friend request",
		Message: fmt.Sprintf("%s sent you a friend request", sender.DisplayName()),
		Link:    "/friends",
	})

	c.JSON(http.StatusCreated, req)
}

// loadIncomingRequest returns a pending request addressed to userID.
func loadIncomingRequest(c *gin.Context, userID uint) (*models.FriendRequest, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	var req models.FriendRequest
	err = database.DB.Where("id = ? AND receiver_id = ?", id, userID).First(&req).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("Request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load friend request: %w", err)
	}
	if req.Status != models.FriendRequestPending {
		return nil, errors.BadRequest("Request already handled")
	}
	return &req, nil
}

// AcceptFriendRequest POST /api/friends/requests/:id/accept
func AcceptFriendRequest(c *gin.Context) {
	userID := currentUserID(c)
	req, err := loadIncomingRequest(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(req).Update("status", models.FriendRequestAccepted).Error; err != nil {
			return err
		}
		for _, pair := range [][2]uint{{req.SenderID, req.ReceiverID}, {req.ReceiverID, req.SenderID}} {
			var existing int64
			tx.Model(&models.Friend{}).Where("user_id = ? AND friend_id = ?", pair[0], pair[1]).Count(&existing)
			if existing > 0 {
				continue
			}
			if err := tx.Create(&models.Friend{UserID: pair[0], FriendID: pair[1]}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, fmt.Errorf("accept friend request: %w", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// RejectFriendRequest POST /api/friends/requests/:id/reject
func RejectFriendRequest(c *gin.Context) {
	userID := currentUserID(c)
	req, err := loadIncomingRequest(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := database.DB.Model(req).Update("status", models.FriendRequestRejected).Error; err != nil {
		respondError(c, fmt.Errorf("reject friend request: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
}
