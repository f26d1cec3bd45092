package repositories

import (
	"time"

	"moodiary/internal/models"
)

// EntryRepository defines the interface for mood entry data access.
// All listing methods return entries in ascending date order.
type EntryRepository interface {
	Create(entry *models.MoodEntry) error
	Update(entry *models.MoodEntry) error
	GetByDate(userID string, date time.Time) (*models.MoodEntry, error)
	// GetInRange returns entries with start <= date < end.
	GetInRange(userID string, start, end time.Time) ([]models.MoodEntry, error)
	GetAll(userID string) ([]models.MoodEntry, error)
}
