package models

import (
	"errors"
	"fmt"
)

// ParentKind tells which kind of resource owns a message or membership.
type ParentKind uint8

const (
	ParentDirect ParentKind = iota + 1
	ParentGroup
)

var ErrInvalidParent = errors.New("message must belong to exactly one conversation or group chat")

// Parent identifies the resource a message belongs to: a direct conversation or a group chat.
// The zero value is invalid; build one with Direct or Group.
type Parent struct {
	kind ParentKind
	id   uint
}

func Direct(conversationID uint) Parent {
	return Parent{kind: ParentDirect, id: conversationID}
}

func Group(groupChatID uint) Parent {
	return Parent{kind: ParentGroup, id: groupChatID}
}

func (p Parent) Kind() ParentKind { return p.kind }
func (p Parent) ID() uint         { return p.id }
func (p Parent) IsGroup() bool    { return p.kind == ParentGroup }
func (p Parent) Valid() bool      { return p.kind != 0 && p.id != 0 }

// Column is the messages column that references this parent.
func (p Parent) Column() string {
	if p.IsGroup() {
		return "group_chat_id"
	}
	return "conversation_id"
}

func (p Parent) String() string {
	switch p.kind {
	case ParentDirect:
		return fmt.Sprintf("conversation:%d", p.id)
	case ParentGroup:
		return fmt.Sprintf("group:%d", p.id)
	}
	return "invalid"
}

// ParentFromIDs builds a Parent from a pair of optional ids as sent by clients.
// Exactly one of them must be set.
func ParentFromIDs(conversationID, groupChatID *uint) (Parent, error) {
	hasConversation := conversationID != nil && *conversationID != 0
	hasGroup := groupChatID != nil && *groupChatID != 0
	switch {
	case hasConversation && hasGroup, !hasConversation && !hasGroup:
		return Parent{}, ErrInvalidParent
	case hasConversation:
		return Direct(*conversationID), nil
	default:
		return Group(*groupChatID), nil
	}
}
