package handlers

import (
	"log"
	"math"
	"time"

	"moodiary/internal/middleware"
	"moodiary/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler handles HTTP requests for statistics, calendar and profile
// views.
type StatsHandler struct {
	service *services.EntryService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *services.EntryService) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

// RegisterRoutes registers the statistics routes with the Fiber app.
func (h *StatsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/stats", h.HandleGetStats)
	router.Get("/calendar/:year/:month", h.HandleGetCalendar)
	router.Get("/profile", h.HandleGetProfile)
}

// HandleGetStats returns the aggregate summary plus the monthly average
// series for charting, computed over all of the user's entries.
func (h *StatsHandler) HandleGetStats(c *fiber.Ctx) error {
	entries, err := h.service.GetAll(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting entries for stats: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "Could not compute statistics", nil)
	}

	summary := services.Summarize(entries)
	return c.JSON(fiber.Map{
		"total_entries":    summary.TotalEntries,
		"avg_score":        summary.AvgScore,
		"max_score":        summary.MaxScore,
		"min_score":        summary.MinScore,
		"emoji_counts":     summary.EmojiCounts,
		"top_activities":   summary.TopActivities,
		"monthly_averages": services.MonthlyAverages(entries),
	})
}

// HandleGetCalendar returns the annotated month grid for a year and month.
func (h *StatsHandler) HandleGetCalendar(c *fiber.Ctx) error {
	year, month, ok := parseYearMonth(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "Invalid year or month", nil)
	}

	entries, err := h.service.GetMonth(middleware.UserID(c), year, month)
	if err != nil {
		log.Printf("Error getting entries for calendar: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "Could not build calendar", nil)
	}

	return c.JSON(services.BuildMonthGrid(year, month, entries))
}

// HandleGetProfile returns the user's entry count, average mood rounded for
// display, and current consecutive-day streak ending today.
func (h *StatsHandler) HandleGetProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	entries, err := h.service.GetAll(userID)
	if err != nil {
		log.Printf("Error getting entries for profile: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "Could not load profile", nil)
	}

	streak, err := h.service.Streak(userID, time.Now())
	if err != nil {
		log.Printf("Error computing streak: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "Could not load profile", nil)
	}

	summary := services.Summarize(entries)
	return c.JSON(fiber.Map{
		"entry_count": summary.TotalEntries,
		"avg_mood":    math.Round(summary.AvgScore*10) / 10,
		"streak":      streak,
	})
}
