package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"moodiary/internal/apperrors"
	"moodiary/internal/models"

	"github.com/google/uuid"
)

// MockEntryRepository is an in-memory implementation of EntryRepository.
// Unlike the GORM schema it carries no unique (user_id, date) index, so it
// can back either upsert mode in tests.
type MockEntryRepository struct {
	entries map[string]models.MoodEntry
	mu      sync.RWMutex
}

// NewMockEntryRepository creates a new instance of MockEntryRepository.
func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]models.MoodEntry),
	}
}

// Create adds a new mood entry.
func (r *MockEntryRepository) Create(entry *models.MoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.Date = models.DateOnly(entry.Date)
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}
	r.entries[entry.ID] = *entry
	return nil
}

// Update modifies an existing mood entry.
func (r *MockEntryRepository) Update(entry *models.MoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.ID]; !ok {
		return fmt.Errorf("mood entry %s: %w", entry.ID, apperrors.ErrNotFound)
	}
	entry.Date = models.DateOnly(entry.Date)
	r.entries[entry.ID] = *entry
	return nil
}

// GetByDate returns the entry for a specific user and calendar date.
func (r *MockEntryRepository) GetByDate(userID string, date time.Time) (*models.MoodEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := models.DateOnly(date)
	for _, e := range r.entries {
		if e.UserID == userID && e.Date.Equal(day) {
			entry := e
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("entry for %s: %w", day.Format("2006-01-02"), apperrors.ErrNotFound)
}

// GetInRange returns entries with start <= date < end, ascending by date.
func (r *MockEntryRepository) GetInRange(userID string, start, end time.Time) ([]models.MoodEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, to := models.DateOnly(start), models.DateOnly(end)
	var entries []models.MoodEntry
	for _, e := range r.entries {
		if e.UserID == userID && !e.Date.Before(from) && e.Date.Before(to) {
			entries = append(entries, e)
		}
	}
	sortByDate(entries)
	return entries, nil
}

// GetAll returns every entry for a user, ascending by date.
func (r *MockEntryRepository) GetAll(userID string) ([]models.MoodEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []models.MoodEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sortByDate(entries)
	return entries, nil
}

func sortByDate(entries []models.MoodEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}
