package models

import "time"

// Friend is one direction of a friendship; accepted friendships are stored as two rows.
type Friend struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID   uint `gorm:"uniqueIndex:idx_user_friend;not null" json:"userId"`
	FriendID uint `gorm:"uniqueIndex:idx_user_friend;not null" json:"friendId"`

	FriendUser User `gorm:"foreignKey:FriendID" json:"friend"`
}

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "PENDING"
	FriendRequestAccepted FriendRequestStatus = "ACCEPTED"
	FriendRequestRejected FriendRequestStatus = "REJECTED"
)

type FriendRequest struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	SenderID   uint                `gorm:"index;not null" json:"senderId"`
	Sender     User                `gorm:"foreignKey:SenderID" json:"sender"`
	ReceiverID uint                `gorm:"index;not null" json:"receiverId"`
	Receiver   User                `gorm:"foreignKey:ReceiverID" json:"-"`
	Status     FriendRequestStatus `gorm:"type:varchar(16);default:'PENDING'" json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}
