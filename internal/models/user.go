package models

import "time"

// User represents a registered diary user.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username     string     `json:"username" gorm:"uniqueIndex;type:varchar(64)" validate:"required,min=3,max=64"`
	Email        string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}
