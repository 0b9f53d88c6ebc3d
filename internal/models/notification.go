package models

import "time"

type NotificationType string

const (
	NotificationTypeFriendRequest NotificationType = "friend_request"
	NotificationTypeMessage       NotificationType = "message"
	NotificationTypeGroupInvite   NotificationType = "group_invite"
	NotificationTypeSystem        NotificationType = "system"
)

type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"index:idx_notification_user_read;not null" json:"userId"` // Recipient
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	Link      *string          `json:"link,omitempty"`
	Read      bool             `gorm:"index:idx_notification_user_read;default:false" json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// AllModels is the AutoMigrate set, parents before children.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Friend{},
		&FriendRequest{},
		&Conversation{},
		&ConversationMember{},
		&GroupChat{},
		&GroupChatMember{},
		&Message{},
		&Reaction{},
		&Notification{},
	}
}
