package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/ports"
)

// ExportHandler serves calendar downloads.
type ExportHandler struct {
	exportService ports.ExportService
	logger        *logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exportService ports.ExportService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        log,
	}
}

// Export handles GET /api/export/:format?year=
// The year defaults to the current year.
func (h *ExportHandler) Export(c echo.Context) error {
	format := c.Param("format")

	year := time.Now().Year()
	if raw := c.QueryParam("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid year parameter")
		}
		year = parsed
	}

	result, err := h.exportService.Export(c.Request().Context(), year, format)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", result.Filename))
	return c.Blob(http.StatusOK, result.ContentType, result.Data)
}
