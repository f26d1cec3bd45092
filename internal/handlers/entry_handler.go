package handlers

import (
	"errors"
	"log"
	"time"

	"moodiary/internal/apperrors"
	"moodiary/internal/middleware"
	"moodiary/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

// EntryHandler handles HTTP requests for mood entries.
type EntryHandler struct {
	service  *services.EntryService
	validate *validator.Validate
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(service *services.EntryService) *EntryHandler {
	return &EntryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the mood entry routes with the Fiber app.
func (h *EntryHandler) RegisterRoutes(router fiber.Router) {
	entryRoutes := router.Group("/entries")
	entryRoutes.Post("/", h.HandleUpsertEntry)
	entryRoutes.Get("/", h.HandleGetEntries)
	entryRoutes.Get("/date/:date", h.HandleGetEntryByDate)
	entryRoutes.Get("/:year/:month", h.HandleGetMonthEntries)
}

// EntryRequest represents the request body for creating or updating an
// entry. The optional fields are pointers so an omitted field can be told
// apart from an explicitly empty one on update.
type EntryRequest struct {
	Date       string  `json:"date" validate:"required"`
	MoodScore  int     `json:"mood_score" validate:"required,min=1,max=10"`
	Emoji      *string `json:"emoji" validate:"omitempty,max=16"`
	Notes      *string `json:"notes" validate:"omitempty,max=1000"`
	Activities *string `json:"activities" validate:"omitempty,max=255"`
}

// HandleUpsertEntry records a mood for a date, creating or updating
// depending on the configured upsert mode.
func (h *EntryHandler) HandleUpsertEntry(c *fiber.Ctx) error {
	var req EntryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing entry request body: %v", err)
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if err := h.validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Validation failed", fieldErrors(err))
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Validation failed",
			[]apperrors.FieldError{{Field: "date", Message: "must be formatted YYYY-MM-DD"}})
	}

	entry, err := h.service.Upsert(middleware.UserID(c), date, req.MoodScore, req.Emoji, req.Notes, req.Activities)
	if err != nil {
		log.Printf("Error saving mood entry: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "Could not save mood entry", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleGetEntries lists every entry for the authenticated user, ascending
// by date.
func (h *EntryHandler) HandleGetEntries(c *fiber.Ctx) error {
	entries, err := h.service.GetAll(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting entries: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve entries", nil)
	}
	return c.JSON(entries)
}

// HandleGetEntryByDate retrieves the entry for one calendar date, so a
// client can pre-populate an edit form.
func (h *EntryHandler) HandleGetEntryByDate(c *fiber.Ctx) error {
	date, err := time.Parse(dateLayout, c.Params("date"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD.", nil)
	}

	entry, err := h.service.GetByDate(middleware.UserID(c), date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "No entry for that date", nil)
		}
		log.Printf("Error getting entry by date: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve entry", nil)
	}
	return c.JSON(entry)
}

// HandleGetMonthEntries lists the entries for one calendar month.
func (h *EntryHandler) HandleGetMonthEntries(c *fiber.Ctx) error {
	year, month, ok := parseYearMonth(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "Invalid year or month", nil)
	}

	entries, err := h.service.GetMonth(middleware.UserID(c), year, month)
	if err != nil {
		log.Printf("Error getting monthly entries: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve entries", nil)
	}
	return c.JSON(entries)
}

func parseYearMonth(c *fiber.Ctx) (int, time.Month, bool) {
	year, err := c.ParamsInt("year")
	if err != nil || year < 1 {
		return 0, 0, false
	}
	month, err := c.ParamsInt("month")
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}
