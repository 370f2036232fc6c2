package models

import "time"

// MaxMessageLength bounds the text column, matching the column size below.
const MaxMessageLength = 140

// Message is a single warble owned by exactly one user.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:140;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `json:"-"`
}

// TableName overrides the table name used by GORM
func (Message) TableName() string {
	return "messages"
}
