package events

import "github.com/pushp314/devconnect-chat/internal/models"

// Type names an event on the wire. The bus never looks inside Data.
type Type string

const (
	TypeTyping        Type = "typing"
	TypeReaction      Type = "reaction"
	TypeFriendRemoved Type = "friend_removed"
	TypeMessage       Type = "message"
	TypeNotification  Type = "notification"
	TypeMemberRemoved Type = "member_removed"
	TypeGroupDeleted  Type = "group_deleted"
)

type Event struct {
	Type Type `json:"type"`
	Data any  `json:"data"`
}

type ReactionAction string

const (
	ReactionAdded   ReactionAction = "add"
	ReactionRemoved ReactionAction = "remove"
)

// Payloads sent by the HTTP handlers.

type TypingPayload struct {
	ConversationID *uint  `json:"conversationId,omitempty"`
	GroupChatID    *uint  `json:"groupChatId,omitempty"`
	UserID         uint   `json:"userId"`
	UserName       string `json:"userName"`
	IsTyping       bool   `json:"isTyping"`
}

// NewTypingPayload fills exactly one of the parent ids.
func NewTypingPayload(parent models.Parent, user models.User, isTyping bool) TypingPayload {
	p := TypingPayload{UserID: user.ID, UserName: user.DisplayName(), IsTyping: isTyping}
	id := parent.ID()
	if parent.IsGroup() {
		p.GroupChatID = &id
	} else {
		p.ConversationID = &id
	}
	return p
}

// ReactionPayload carries the full reaction on add and only userId/emoji on remove.
type ReactionPayload struct {
	MessageID uint             `json:"messageId"`
	Reaction  *models.Reaction `json:"reaction,omitempty"`
	UserID    uint             `json:"userId,omitempty"`
	Emoji     string           `json:"emoji,omitempty"`
	Action    ReactionAction   `json:"action"`
}

type FriendRemovedPayload struct {
	RemovedBy         uint   `json:"removedBy"`
	RemovedByUsername string `json:"removedByUsername"`
	RemovedByNickname string `json:"removedByNickname"`
}

type MemberRemovedPayload struct {
	GroupChatID uint `json:"groupChatId"`
	UserID      uint `json:"userId"`
	RemovedBy   uint `json:"removedBy"`
}

type GroupDeletedPayload struct {
	GroupChatID uint   `json:"groupChatId"`
	Name        string `json:"name"`
	DeletedBy   uint   `json:"deletedBy"`
}
