package models

import (
	"fmt"
	"time"
)

// User represents an account in the system. The password is only ever
// stored as a bcrypt hash.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	ImageURL       string    `json:"image_url"`
	HeaderImageURL string    `json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`

	Messages []Message `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// DefaultImageURL is used when signup does not supply a profile image.
const DefaultImageURL = "/static/images/default-pic.png"

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "users"
}

// String returns a debugging representation. Not a security boundary.
func (u *User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}
