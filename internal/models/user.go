package models

import "time"

// User is owned by the identity provider; this service only reads profile fields.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Nickname string `json:"nickname"`
	Email    string `gorm:"index" json:"-"`
	Avatar   string `json:"avatar"`
}

// DisplayName prefers the nickname, as shown in notifications and typing indicators.
func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	if u.Username != "" {
		return u.Username
	}
	return "Someone"
}
