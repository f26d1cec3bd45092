package models

import "time"

// MoodEntry represents one mood record for one user on one calendar date.
// The composite unique index makes a concurrent double-insert for the same
// (user, date) fail deterministically instead of racing a prior lookup.
type MoodEntry struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_user_date"`
	User       *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // owning user; deleting it cascades here
	Date       time.Time `json:"date" gorm:"type:date;uniqueIndex:idx_user_date"`
	MoodScore  int       `json:"mood_score"`
	Emoji      string    `json:"emoji" gorm:"type:varchar(16)"`
	Notes      string    `json:"notes" gorm:"type:text"`
	Activities string    `json:"activities" gorm:"type:varchar(255)"` // comma-separated free-text tokens
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DateOnly strips the time-of-day component, keeping year/month/day in UTC.
// Entry dates are always stored and compared in this normalized form.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
