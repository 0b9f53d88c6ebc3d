package services

import (
	stderrors "errors"
	"fmt"

	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/pkg/errors"
	"gorm.io/gorm"
)

const DefaultNotificationLimit = 50

var errNotificationNotFound = errors.NotFound("Notification not found")

type NotificationInput struct {
	UserID  uint
	Type    models.NotificationType
	Title   string
	Message string
	Link    string
}

func (in NotificationInput) model() models.Notification {
	n := models.Notification{
		UserID:  in.UserID,
		Type:    in.Type,
		Title:   in.Title,
		Message: in.Message,
	}
	if in.Link != "" {
		link := in.Link
		n.Link = &link
	}
	return n
}

func CreateNotification(db *gorm.DB, in NotificationInput) (*models.Notification, error) {
	n := in.model()
	if err := db.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return &n, nil
}

// CreateNotifications inserts one row per input in a single batch.
func CreateNotifications(db *gorm.DB, inputs []NotificationInput) ([]models.Notification, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	rows := make([]models.Notification, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, in.model())
	}
	if err := db.Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("create notifications: %w", err)
	}
	return rows, nil
}

func ListNotifications(db *gorm.DB, userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	var out []models.Notification
	err := db.Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func UnreadNotificationCount(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// ownedNotification loads a notification only if it belongs to userID.
func ownedNotification(db *gorm.DB, id, userID uint) (*models.Notification, error) {
	var n models.Notification
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load notification: %w", err)
	}
	return &n, nil
}

func SetNotificationRead(db *gorm.DB, id, userID uint, read bool) (*models.Notification, error) {
	n, err := ownedNotification(db, id, userID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(n).Update("read", read).Error; err != nil {
		return nil, fmt.Errorf("update notification: %w", err)
	}
	return n, nil
}

// MarkAllNotificationsRead returns the number of rows it changed.
func MarkAllNotificationsRead(db *gorm.DB, userID uint) (int64, error) {
	res := db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func DeleteNotification(db *gorm.DB, id, userID uint) error {
	n, err := ownedNotification(db, id, userID)
	if err != nil {
		return err
	}
	if err := db.Delete(n).Error; err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
