package repositories

import (
	"errors"
	"fmt"
	"time"

	"moodiary/internal/apperrors"
	"moodiary/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMEntryRepository is a GORM implementation of EntryRepository.
type GORMEntryRepository struct {
	db *gorm.DB
}

// NewGORMEntryRepository creates a new instance of GORMEntryRepository.
func NewGORMEntryRepository(db *gorm.DB) *GORMEntryRepository {
	return &GORMEntryRepository{
		db: db,
	}
}

// Create inserts a new mood entry. The entry date is normalized to a bare
// calendar date before it is persisted. A violation of the (user_id, date)
// unique index surfaces as apperrors.ErrDuplicate.
func (r *GORMEntryRepository) Create(entry *models.MoodEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.Date = models.DateOnly(entry.Date)
	if err := r.db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create mood entry: %w", err)
	}
	return nil
}

// Update saves all fields of an existing mood entry.
func (r *GORMEntryRepository) Update(entry *models.MoodEntry) error {
	entry.Date = models.DateOnly(entry.Date)
	res := r.db.Save(entry)
	if res.Error != nil {
		return fmt.Errorf("failed to update mood entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("mood entry %s: %w", entry.ID, apperrors.ErrNotFound)
	}
	return nil
}

// GetByDate retrieves the entry for a specific user and calendar date.
func (r *GORMEntryRepository) GetByDate(userID string, date time.Time) (*models.MoodEntry, error) {
	var entry models.MoodEntry
	day := models.DateOnly(date)
	if err := r.db.First(&entry, "user_id = ? AND date = ?", userID, day).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("entry for %s: %w", day.Format("2006-01-02"), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get entry by date: %w", err)
	}
	return &entry, nil
}

// GetInRange retrieves entries with start <= date < end, ascending by date.
func (r *GORMEntryRepository) GetInRange(userID string, start, end time.Time) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	err := r.db.
		Where("user_id = ? AND date >= ? AND date < ?", userID, models.DateOnly(start), models.DateOnly(end)).
		Order("date asc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get entries in range: %w", err)
	}
	return entries, nil
}

// GetAll retrieves every entry for a user, ascending by date.
func (r *GORMEntryRepository) GetAll(userID string) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	if err := r.db.Where("user_id = ?", userID).Order("date asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get all entries: %w", err)
	}
	return entries, nil
}
