package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/ports"
)

// NoteHandler serves the note CRUD and search endpoints.
type NoteHandler struct {
	noteService ports.NoteService
	logger      *logger.Logger
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(noteService ports.NoteService, log *logger.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      log,
	}
}

// ListNotes handles GET /api/notes?date=&category=
func (h *NoteHandler) ListNotes(c echo.Context) error {
	var filter ports.NoteFilter
	if date := c.QueryParam("date"); date != "" {
		filter.Date = &date
	}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
	}

	notes, err := h.noteService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notes)
}

// CreateNote handles POST /api/notes
func (h *NoteHandler) CreateNote(c echo.Context) error {
	var req ports.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.noteService.Add(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes
func (h *NoteHandler) UpdateNote(c echo.Context) error {
	var req ports.UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.noteService.Update(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes?id=
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing id parameter")
	}

	if _, err := h.noteService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Note deleted successfully"})
}

// SearchNotes handles GET /api/notes/search?q=&field=
func (h *NoteHandler) SearchNotes(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing q parameter")
	}
	field := c.QueryParam("field")
	if field == "" {
		field = "all"
	}

	notes, err := h.noteService.Search(c.Request().Context(), query, field)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notes)
}
