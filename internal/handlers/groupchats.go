package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/events"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/pushp314/devconnect-chat/pkg/errors"
	"github.com/pushp314/devconnect-chat/pkg/utils"
	"gorm.io/gorm"
)

const maxGroupNameLength = 100

var errLastAdminLeave = errors.Invariant("Cannot leave as the last admin. Promote another member first or delete the group.")

type groupView struct {
	models.GroupChat
	Role        models.GroupRole `json:"role"`
	LastMessage *models.Message  `json:"lastMessage"`
	UnreadCount int64            `json:"unreadCount"`
}

// ListGroupChats GET /api/groupchats
func ListGroupChats(c *gin.Context) {
	userID := currentUserID(c)

	var memberships []models.GroupChatMember
	if err := database.DB.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		respondError(c, fmt.Errorf("list group memberships: %w", err))
		return
	}
	if len(memberships) == 0 {
		c.JSON(http.StatusOK, []groupView{})
		return
	}

	byGroup := make(map[uint]models.GroupChatMember, len(memberships))
	ids := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		byGroup[m.GroupChatID] = m
		ids = append(ids, m.GroupChatID)
	}

	var groups []models.GroupChat
	if err := database.DB.Preload("Members.User").Where("id IN ?", ids).Order("updated_at desc").Find(&groups).Error; err != nil {
		respondError(c, fmt.Errorf("list groups: %w", err))
		return
	}

	out := make([]groupView, 0, len(groups))
	for _, g := range groups {
		mine := byGroup[g.ID]
		parent := models.Group(g.ID)
		out = append(out, groupView{
			GroupChat:   g,
			Role:        mine.Role,
			LastMessage: lastMessage(parent),
			UnreadCount: unreadFor(parent, userID, mine.LastReadMessageID),
		})
	}
	c.JSON(http.StatusOK, out)
}

type createGroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberIDs   []uint `json:"memberIds"`
}

// CreateGroupChat POST /api/groupchats
// The creator always becomes the first admin.
func CreateGroupChat(c *gin.Context) {
	userID := currentUserID(c)

	var input createGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.BadRequest("Invalid request body"))
		return
	}
	input.Name = strings.TrimSpace(utils.StripHTML(input.Name))
	if input.Name == "" {
		respondError(c, errors.BadRequest("Group name is required"))
		return
	}
	if len([]rune(input.Name)) > maxGroupNameLength {
		respondError(c, errors.BadRequest("Group name is too long"))
		return
	}

	seen := map[uint]bool{userID: true}
	members := []models.GroupChatMember{{UserID: userID, Role: models.GroupRoleAdmin}}
	for _, id := range input.MemberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ok, err := services.AreFriends(database.DB, userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		if !ok {
			respondError(c, errors.Forbidden("You can only add friends to a group"))
			return
		}
		members = append(members, models.GroupChatMember{UserID: id, Role: models.GroupRoleMember})
	}

	group := models.GroupChat{
		Name:        input.Name,
		Description: strings.TrimSpace(utils.StripHTML(input.Description)),
		CreatedByID: userID,
		Members:     members,
	}
	if err := database.DB.Create(&group).Error; err != nil {
		respondError(c, fmt.Errorf("create group: %w", err))
		return
	}
	if err := database.DB.Preload("Members.User").First(&group, group.ID).Error; err != nil {
		respondError(c, fmt.Errorf("reload group: %w", err))
		return
	}

	var creator models.User
	database.DB.First(&creator, userID)
	invites := make([]services.NotificationInput, 0, len(members)-1)
	for _, m := range members[1:] {
		invites = append(invites, groupInvite(group, creator, m.UserID))
	}
	notify(invites...)

	c.JSON(http.StatusCreated, group)
}

func groupInvite(group models.GroupChat, by models.User, userID uint) services.NotificationInput {
	return services.NotificationInput{
		UserID:  userID,
		Type:    models.NotificationTypeGroupInvite,
		Title:   "Added to " + group.Name,
		Message: fmt.Sprintf("%s added you to %s", by.DisplayName(), group.Name),
		Link:    fmt.Sprintf("/messages?group=%d", group.ID),
	}
}

// GetGroupChat GET /api/groupchats/:id
func GetGroupChat(c *gin.Context) {
	userID := currentUserID(c)
	parent, err := groupParent(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := services.Authorize(database.DB, parent, userID); err != nil {
		respondError(c, err)
		return
	}

	var group models.GroupChat
	if err := database.DB.Preload("Members.User").First(&group, parent.ID()).Error; err != nil {
		respondError(c, fmt.Errorf("load group: %w", err))
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteGroupChat DELETE /api/groupchats/:id
func DeleteGroupChat(c *gin.Context) {
	userID := currentUserID(c)
	parent, err := groupParent(c)
	if err != nil {
		respondError(c, err)
		return
	}
	membership, err := services.Authorize(database.DB, parent, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !membership.IsAdmin() {
		respondError(c, errors.Forbidden("Only admins can delete the group"))
		return
	}

	var group models.GroupChat
	if err := database.DB.First(&group, parent.ID()).Error; err != nil {
		respondError(c, fmt.Errorf("load group: %w", err))
		return
	}
	memberIDs, err := services.MemberIDs(database.DB, parent)
	if err != nil {
		respondError(c, err)
		return
	}

	// SQLite does not enforce the cascades unless foreign keys are switched on,
	// so children are removed explicitly.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		messageIDs := tx.Model(&models.Message{}).Select("id").Where("group_chat_id = ?", group.ID)
		if err := tx.Where("message_id IN (?)", messageIDs).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_chat_id = ?", group.ID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_chat_id = ?", group.ID).Delete(&models.GroupChatMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
	if err != nil {
		respondError(c, fmt.Errorf("delete group: %w", err))
		return
	}

	emitEach(memberIDs, userID, events.TypeGroupDeleted, events.GroupDeletedPayload{
		GroupChatID: group.ID,
		Name:        group.Name,
		DeletedBy:   userID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}

type addMemberInput struct {
	UserID uint `json:"userId" binding:"required"`
}

// AddGroupMember POST /api/groupchats/:id/members
func AddGroupMember(c *gin.Context) {
	userID := currentUserID(c)
	parent, err := groupParent(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input addMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errors.BadRequest("userId is required"))
		return
	}

	membership, err := services.Authorize(database.DB, parent, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := services.RequireAdmin(membership); err != nil {
		respondError(c, errors.Forbidden("Only admins can add members"))
		return
	}

	if _, err := services.Authorize(database.DB, parent, input.UserID); err == nil {
		respondError(c, errors.BadRequest("User is already a member"))
		return
	}
	ok, err := services.AreFriends(database.DB, userID, input.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		respondError(c, errors.Forbidden("You can only add friends to a group"))
		return
	}

	member := models.GroupChatMember{GroupChatID: parent.ID(), UserID: input.UserID, Role: models.GroupRoleMember}
	if err := database.DB.Create(&member).Error; err != nil {
		respondError(c, fmt.Errorf("add member: %w", err))
		return
	}
	database.DB.Preload("User").First(&member, member.ID)

	var group models.GroupChat
	var actor models.User
	if database.DB.First(&group, parent.ID()).Error == nil && database.DB.First(&actor, userID).Error == nil {
		notify(groupInvite(group, actor, input.UserID))
	}

	c.JSON(http.StatusCreated, member)
}

type updateRoleInput struct {
	Role models.GroupRole `json:"role"`
}

// UpdateGroupMemberRole PATCH /api/groupchats/:id/members/:userId
func UpdateGroupMemberRole(c *gin.Context) {
	userID := currentUserID(c)
	parent, err := groupParent(c)
	if err != nil {
		respondError(c, err)
		return
	}
	targetID, err := paramID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}

	var input updateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil || !input.Role.Valid() {
		respondError(c, errors.BadRequest("role must be member or admin"))
		return
	}

	membership, err := services.Authorize(database.DB, parent, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := services.RequireAdmin(membership); err != nil {
		respondError(c, errors.Forbidden("Only admins can change roles"))
		return
	}

	if err := services.SetRole(database.DB, parent.ID(), targetID, input.Role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": targetID, "role": input.Role})
}

// RemoveGroupMember DELETE /api/groupchats/:id/members/:userId
// Admins may remove anyone; everyone may remove themselves.
func RemoveGroupMember(c *gin.Context) {
	userID := currentUserID(c)
	parent, err := groupParent(c)
	if err != nil {
		respondError(c, err)
		return
	}
	targetID, err := paramID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}

	membership, err := services.Authorize(database.DB, parent, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	selfLeave := targetID == userID
	if !selfLeave && !membership.IsAdmin() {
		respondError(c, errors.Forbidden("Only admins can remove members"))
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		target, err := services.LoadTarget(tx, parent.ID(), targetID)
		if err != nil {
			return err
		}
		if err := services.EnsureNotLastAdmin(tx, parent.ID(), target); err != nil {
			if selfLeave && stderrors.Is(err, errors.ErrLastAdmin) {
				return errLastAdminLeave
			}
			return err
		}
		return tx.Where("group_chat_id = ? AND user_id = ?", parent.ID(), targetID).
			Delete(&models.GroupChatMember{}).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	payload := events.MemberRemovedPayload{GroupChatID: parent.ID(), UserID: targetID, RemovedBy: userID}
	if remaining, err := services.MemberIDs(database.DB, parent); err == nil {
		emitEach(remaining, userID, events.TypeMemberRemoved, payload)
	}
	if !selfLeave {
		emit(targetID, events.TypeMemberRemoved, payload)
	}

	msg := "Member removed successfully"
	if selfLeave {
		msg = "Left group successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
