package models

import "time"

// Conversation is a direct chat between two friends.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`

	Members  []ConversationMember `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"members"`
	Messages []Message            `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// ConversationMember has no role; LastReadMessageID is the read watermark.
type ConversationMember struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ConversationID    uint      `gorm:"uniqueIndex:idx_conversation_user;not null" json:"conversationId"`
	UserID            uint      `gorm:"uniqueIndex:idx_conversation_user;not null" json:"userId"`
	LastReadMessageID *uint     `json:"lastReadMessageId"`
	CreatedAt         time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

type GroupRole string

const (
	GroupRoleMember GroupRole = "member"
	GroupRoleAdmin  GroupRole = "admin"
)

func (r GroupRole) Valid() bool {
	return r == GroupRoleMember || r == GroupRoleAdmin
}

type GroupChat struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Avatar      string    `json:"avatar"`
	CreatedByID uint      `gorm:"index" json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `gorm:"index" json:"updatedAt"`

	Members  []GroupChatMember `gorm:"foreignKey:GroupChatID;constraint:OnDelete:CASCADE" json:"members"`
	Messages []Message         `gorm:"foreignKey:GroupChatID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

type GroupChatMember struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	GroupChatID       uint      `gorm:"uniqueIndex:idx_group_user;not null" json:"groupChatId"`
	UserID            uint      `gorm:"uniqueIndex:idx_group_user;not null" json:"userId"`
	Role              GroupRole `gorm:"type:varchar(16);default:'member';index" json:"role"`
	LastReadMessageID *uint     `json:"lastReadMessageId"`
	CreatedAt         time.Time `json:"joinedAt"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}
