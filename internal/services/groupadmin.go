package services

import (
	stderrors "errors"
	"fmt"

	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/pkg/errors"
	"gorm.io/gorm"
)

// SetRole changes a member's role inside one transaction, refusing to demote the last admin.
func SetRole(db *gorm.DB, groupChatID, userID uint, role models.GroupRole) error {
	if !role.Valid() {
		return errors.BadRequest("Role must be admin or member")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		target, err := LoadTarget(tx, groupChatID, userID)
		if err != nil {
			return err
		}
		if target.Role == role {
			return nil
		}
		if role == models.GroupRoleMember {
			if err := EnsureNotLastAdmin(tx, groupChatID, target); err != nil {
				return err
			}
		}
		return tx.Model(&models.GroupChatMember{}).
			Where("group_chat_id = ? AND user_id = ?", groupChatID, userID).
			Update("role", role).Error
	})
}

// Admins lists the admin memberships of a group with their users loaded.
func Admins(db *gorm.DB, groupChatID uint) ([]models.GroupChatMember, error) {
	var admins []models.GroupChatMember
	err := db.Preload("User").
		Where("group_chat_id = ? AND role = ?", groupChatID, models.GroupRoleAdmin).
		Order("id").
		Find(&admins).Error
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// RepairOrphanGroups promotes the longest-standing member of every group that has
// members but no admin. It returns the ids of the groups it repaired.
func RepairOrphanGroups(db *gorm.DB) ([]uint, error) {
	var orphans []uint
	err := db.Model(&models.GroupChatMember{}).
		Select("group_chat_id").
		Group("group_chat_id").
		Having("SUM(CASE WHEN role = ? THEN 1 ELSE 0 END) = 0", models.GroupRoleAdmin).
		Pluck("group_chat_id", &orphans).Error
	if err != nil {
		return nil, fmt.Errorf("find groups without admins: %w", err)
	}

	repaired := make([]uint, 0, len(orphans))
	for _, groupID := range orphans {
		err := db.Transaction(func(tx *gorm.DB) error {
			var oldest models.GroupChatMember
			if err := tx.Where("group_chat_id = ?", groupID).Order("created_at, id").First(&oldest).Error; err != nil {
				return err
			}
			return tx.Model(&oldest).Update("role", models.GroupRoleAdmin).Error
		})
		if err != nil {
			return repaired, fmt.Errorf("repair group %d: %w", groupID, err)
		}
		repaired = append(repaired, groupID)
	}
	return repaired, nil
}

// ErrTargetNotMember reports that the member an admin acted on is not in the group.
var ErrTargetNotMember = errors.NotFound("User is not a member")

// targetLookupErr maps a missing target membership to NotFound; store failures pass through.
func targetLookupErr(err error) error {
	if stderrors.Is(err, errors.ErrNotMember) {
		return ErrTargetNotMember
	}
	return err
}

// LoadTarget loads the membership of the user an admin acts on.
func LoadTarget(db *gorm.DB, groupChatID, userID uint) (*Membership, error) {
	m, err := Authorize(db, models.Group(groupChatID), userID)
	if err != nil {
		return nil, targetLookupErr(err)
	}
	return m, nil
}
