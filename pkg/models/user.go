package models

import (
	"time"
)

// User is a registered shopper. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"`
	FullName  string    `gorm:"type:varchar(100);not null" json:"full_name"`
	Mobile    string    `gorm:"type:varchar(20)" json:"mobile"`
	ChatID    int64     `gorm:"index" json:"chat_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
