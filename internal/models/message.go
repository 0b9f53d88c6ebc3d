package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Message belongs to exactly one Parent. The two nullable columns are a storage detail;
// build messages with NewMessage and read the owner back with Parent().
type Message struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Attachments datatypes.JSON `json:"attachments,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`

	SenderID uint `gorm:"index;not null" json:"senderId"`
	Sender   User `gorm:"foreignKey:SenderID" json:"sender"`

	ConversationID *uint `gorm:"index" json:"conversationId,omitempty"`
	GroupChatID    *uint `gorm:"index" json:"groupChatId,omitempty"`

	Reactions []Reaction `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"reactions,omitempty"`
}

// Attachment describes an uploaded file referenced by a message.
type Attachment struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func NewMessage(parent Parent, senderID uint, content string) Message {
	msg := Message{SenderID: senderID, Content: content}
	id := parent.ID()
	switch parent.Kind() {
	case ParentDirect:
		msg.ConversationID = &id
	case ParentGroup:
		msg.GroupChatID = &id
	}
	return msg
}

// Parent returns the owning resource, or the zero Parent for a malformed row.
func (m Message) Parent() Parent {
	switch {
	case m.ConversationID != nil && m.GroupChatID == nil:
		return Direct(*m.ConversationID)
	case m.GroupChatID != nil && m.ConversationID == nil:
		return Group(*m.GroupChatID)
	}
	return Parent{}
}

func (m *Message) SetAttachments(files []Attachment) error {
	if len(files) == 0 {
		m.Attachments = nil
		return nil
	}
	raw, err := json.Marshal(files)
	if err != nil {
		return err
	}
	m.Attachments = datatypes.JSON(raw)
	return nil
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if !m.Parent().Valid() {
		return ErrInvalidParent
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return nil
}

// Reaction is unique per (message, user, emoji).
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"uniqueIndex:idx_message_user_emoji;not null" json:"messageId"`
	UserID    uint      `gorm:"uniqueIndex:idx_message_user_emoji;not null" json:"userId"`
	Emoji     string    `gorm:"uniqueIndex:idx_message_user_emoji;type:varchar(32);not null" json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}
