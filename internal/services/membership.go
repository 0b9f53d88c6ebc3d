package services

import (
	stderrors "errors"
	"fmt"

	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/pkg/errors"
	"gorm.io/gorm"
)

// Membership is the common view of a ConversationMember or GroupChatMember.
// Role is empty for direct conversations.
type Membership struct {
	Parent            models.Parent
	UserID            uint
	Role              models.GroupRole
	LastReadMessageID *uint
}

func (m *Membership) IsAdmin() bool {
	return m.Parent.IsGroup() && m.Role == models.GroupRoleAdmin
}

var errNotAdmin = errors.Forbidden("Only admins can perform this action")

// Authorize loads the caller's membership of parent. A missing row is reported as
// Forbidden so that callers cannot probe which resources exist.
func Authorize(db *gorm.DB, parent models.Parent, userID uint) (*Membership, error) {
	if !parent.Valid() || userID == 0 {
		return nil, errors.ErrNotMember
	}

	if parent.IsGroup() {
		var gm models.GroupChatMember
		err := db.Where("group_chat_id = ? AND user_id = ?", parent.ID(), userID).First(&gm).Error
		if err != nil {
			return nil, membershipLookupErr(err)
		}
		return &Membership{
			Parent:            parent,
			UserID:            userID,
			Role:              gm.Role,
			LastReadMessageID: gm.LastReadMessageID,
		}, nil
	}

	var cm models.ConversationMember
	err := db.Where("conversation_id = ? AND user_id = ?", parent.ID(), userID).First(&cm).Error
	if err != nil {
		return nil, membershipLookupErr(err)
	}
	return &Membership{
		Parent:            parent,
		UserID:            userID,
		LastReadMessageID: cm.LastReadMessageID,
	}, nil
}

func membershipLookupErr(err error) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.ErrNotMember
	}
	return fmt.Errorf("lookup membership: %w", err)
}

// RequireAdmin rejects members of a group that do not hold the admin role.
func RequireAdmin(m *Membership) error {
	if m == nil || !m.IsAdmin() {
		return errNotAdmin
	}
	return nil
}

// AdminCount returns how many admins the group currently has.
func AdminCount(db *gorm.DB, groupChatID uint) (int64, error) {
	var count int64
	err := db.Model(&models.GroupChatMember{}).
		Where("group_chat_id = ? AND role = ?", groupChatID, models.GroupRoleAdmin).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

// EnsureNotLastAdmin must run before an admin is removed, leaves or is demoted.
// Non-admin targets always pass.
func EnsureNotLastAdmin(db *gorm.DB, groupChatID uint, target *Membership) error {
	if target == nil || target.Role != models.GroupRoleAdmin {
		return nil
	}
	count, err := AdminCount(db, groupChatID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return errors.ErrLastAdmin
	}
	return nil
}

// MemberIDs lists every user id that belongs to parent.
func MemberIDs(db *gorm.DB, parent models.Parent) ([]uint, error) {
	var ids []uint
	var err error
	if parent.IsGroup() {
		err = db.Model(&models.GroupChatMember{}).Where("group_chat_id = ?", parent.ID()).Pluck("user_id", &ids).Error
	} else {
		err = db.Model(&models.ConversationMember{}).Where("conversation_id = ?", parent.ID()).Pluck("user_id", &ids).Error
	}
	if err != nil {
		return nil, fmt.Errorf("list members of %s: %w", parent, err)
	}
	return ids, nil
}

// AreFriends reports whether a friendship row exists from userID to friendID.
func AreFriends(db *gorm.DB, userID, friendID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Friend{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return count > 0, nil
}
