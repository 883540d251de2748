package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/ports"
)

// CalendarHandler serves the year-level calendar endpoints.
type CalendarHandler struct {
	calendarService ports.CalendarService
	logger          *logger.Logger
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(calendarService ports.CalendarService, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		logger:          log,
	}
}

// GetCalendar handles GET /api/calendar/:year
func (h *CalendarHandler) GetCalendar(c echo.Context) error {
	year, err := yearParam(c)
	if err != nil {
		return err
	}

	days, err := h.calendarService.GetCalendar(c.Request().Context(), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, days)
}

// GetFestivals handles GET /api/festivals/:year
func (h *CalendarHandler) GetFestivals(c echo.Context) error {
	year, err := yearParam(c)
	if err != nil {
		return err
	}

	festivals, err := h.calendarService.GetFestivals(c.Request().Context(), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, festivals)
}

// GetHolidays handles GET /api/holidays/:year
func (h *CalendarHandler) GetHolidays(c echo.Context) error {
	year, err := yearParam(c)
	if err != nil {
		return err
	}

	holidays, err := h.calendarService.GetHolidays(c.Request().Context(), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, holidays)
}

func yearParam(c echo.Context) (int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid year parameter")
	}
	return year, nil
}
