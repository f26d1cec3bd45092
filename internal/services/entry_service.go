package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"moodiary/internal/apperrors"
	"moodiary/internal/models"
	"moodiary/internal/repositories"
	"moodiary/pkg/rabbitmq"
)

// UpsertMode selects how a second submission for the same (user, date) is
// handled. The two original stacks disagreed on this; UpsertByDate is the
// default here and the migrated schema enforces it with a unique index.
type UpsertMode string

const (
	// UpsertByDate updates the existing entry for the date in place,
	// touching only the fields the caller supplied.
	UpsertByDate UpsertMode = "by_date"
	// AlwaysInsert creates a new row on every submission, permitting
	// duplicate dates. Requires a schema without the (user_id, date) index.
	AlwaysInsert UpsertMode = "always_insert"
)

// EntryService handles business logic for mood entries.
type EntryService struct {
	entryRepo repositories.EntryRepository
	mqClient  *rabbitmq.Client // nil when messaging is disabled
	mode      UpsertMode
}

// NewEntryService creates a new EntryService.
func NewEntryService(entryRepo repositories.EntryRepository, mqClient *rabbitmq.Client, mode UpsertMode) *EntryService {
	if mode != AlwaysInsert {
		mode = UpsertByDate
	}
	return &EntryService{
		entryRepo: entryRepo,
		mqClient:  mqClient,
		mode:      mode,
	}
}

// Upsert records a mood for a calendar date. Optional fields are pointers:
// nil means "not supplied", which on an update leaves the stored value
// untouched. The updated_at timestamp is refreshed on every mutation.
func (s *EntryService) Upsert(userID string, date time.Time, moodScore int, emoji, notes, activities *string) (*models.MoodEntry, error) {
	day := models.DateOnly(date)

	if s.mode == UpsertByDate {
		existing, err := s.entryRepo.GetByDate(userID, day)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			existing.MoodScore = moodScore
			if emoji != nil {
				existing.Emoji = *emoji
			}
			if notes != nil {
				existing.Notes = *notes
			}
			if activities != nil {
				existing.Activities = *activities
			}
			existing.UpdatedAt = time.Now()
			if err := s.entryRepo.Update(existing); err != nil {
				return nil, err
			}
			s.publishEvent("entry.updated", existing)
			return existing, nil
		}
	}

	now := time.Now()
	entry := &models.MoodEntry{
		UserID:    userID,
		Date:      day,
		MoodScore: moodScore,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if emoji != nil {
		entry.Emoji = *emoji
	}
	if notes != nil {
		entry.Notes = *notes
	}
	if activities != nil {
		entry.Activities = *activities
	}
	if err := s.entryRepo.Create(entry); err != nil {
		return nil, err
	}
	s.publishEvent("entry.created", entry)
	return entry, nil
}

// GetByDate returns the entry for a user on a specific calendar date.
func (s *EntryService) GetByDate(userID string, date time.Time) (*models.MoodEntry, error) {
	return s.entryRepo.GetByDate(userID, date)
}

// GetAll returns every entry for a user, ascending by date.
func (s *EntryService) GetAll(userID string) ([]models.MoodEntry, error) {
	return s.entryRepo.GetAll(userID)
}

// GetMonth returns a user's entries for one calendar month, ascending by
// date. The window is [first of month, first of next month); time.AddDate
// handles the December-to-January rollover.
func (s *EntryService) GetMonth(userID string, year int, month time.Month) ([]models.MoodEntry, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return s.entryRepo.GetInRange(userID, start, end)
}

// Streak counts consecutive calendar days with an entry, ending at today
// and walking backward until the first day without one. The boundary is the
// day of computation, not the most recent entry.
func (s *EntryService) Streak(userID string, today time.Time) (int, error) {
	day := models.DateOnly(today)
	streak := 0
	for {
		_, err := s.entryRepo.GetByDate(userID, day)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return streak, nil
			}
			return 0, fmt.Errorf("failed to compute streak: %w", err)
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// publishEvent hands the entry to the message broker, if one is configured.
// A publish failure is logged, never surfaced: the entry is already durable.
func (s *EntryService) publishEvent(event string, entry *models.MoodEntry) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"event":      event,
		"entry_id":   entry.ID,
		"user_id":    entry.UserID,
		"date":       entry.Date.Format("2006-01-02"),
		"mood_score": entry.MoodScore,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if err := s.mqClient.Publish(body); err != nil {
		log.Printf("Warning: failed to publish %s event for entry %s: %v", event, entry.ID, err)
	}
}
