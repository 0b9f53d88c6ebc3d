package services

import (
	"database/sql"
	"fmt"

	"github.com/pushp314/devconnect-chat/internal/models"
	"gorm.io/gorm"
)

// UnreadCount counts messages in the membership's resource that were written by
// someone else after the member's read watermark.
func UnreadCount(db *gorm.DB, m *Membership) (int64, error) {
	q := db.Model(&models.Message{}).
		Where(m.Parent.Column()+" = ?", m.Parent.ID()).
		Where("sender_id <> ?", m.UserID)
	if m.LastReadMessageID != nil {
		q = q.Where("id > ?", *m.LastReadMessageID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count unread in %s: %w", m.Parent, err)
	}
	return count, nil
}

// LatestMessageID returns the highest message id in parent, or 0 when it has none.
func LatestMessageID(db *gorm.DB, parent models.Parent) (uint, error) {
	var latest sql.NullInt64
	err := db.Model(&models.Message{}).
		Select("MAX(id)").
		Where(parent.Column()+" = ?", parent.ID()).
		Scan(&latest).Error
	if err != nil {
		return 0, fmt.Errorf("latest message in %s: %w", parent, err)
	}
	if !latest.Valid {
		return 0, nil
	}
	return uint(latest.Int64), nil
}

// MarkRead moves the user's watermark to the newest message of parent as seen by the store
// right now. The update only applies when it moves the pointer forward, so concurrent calls
// settle on the highest id any of them observed. It returns the watermark it tried to set,
// or 0 when the resource has no messages.
func MarkRead(db *gorm.DB, parent models.Parent, userID uint) (uint, error) {
	latest, err := LatestMessageID(db, parent)
	if err != nil {
		return 0, err
	}
	if latest == 0 {
		return 0, nil
	}

	var model interface{} = &models.ConversationMember{}
	if parent.IsGroup() {
		model = &models.GroupChatMember{}
	}
	err = db.Model(model).
		Where(parent.Column()+" = ? AND user_id = ?", parent.ID(), userID).
		Where("(last_read_message_id IS NULL OR last_read_message_id < ?)", latest).
		Update("last_read_message_id", latest).Error
	if err != nil {
		return 0, fmt.Errorf("mark %s read: %w", parent, err)
	}
	return latest, nil
}
