package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/panchang/core/internal/domain/entities"
	"github.com/panchang/core/internal/domain/panchang"
	"github.com/panchang/core/internal/infrastructure/logger"
	"github.com/panchang/core/internal/ports"
)

// ExportService renders a year's calendar for download. Renderings use
// the English labels; the JSON form carries all languages.
type ExportService struct {
	calendar ports.CalendarService
	logger   *logger.Logger
}

// NewExportService creates a new export service.
func NewExportService(calendar ports.CalendarService, log *logger.Logger) *ExportService {
	return &ExportService{calendar: calendar, logger: log}
}

// Export renders the year in the requested format: json, csv or pdf.
func (s *ExportService) Export(ctx context.Context, year int, format string) (*ports.ExportResult, error) {
	days, err := s.calendar.GetCalendar(ctx, year)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var result *ports.ExportResult
	switch format {
	case "json":
		result, err = exportJSON(year, days)
	case "csv":
		result, err = exportCSV(year, days)
	case "pdf":
		result, err = exportPDF(year, days)
	default:
		return nil, entities.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Calendar exported",
		"year", year,
		"format", format,
		"bytes", len(result.Data),
		"duration_ms", float64(time.Since(start).Nanoseconds())/1e6,
	)
	return result, nil
}

func exportJSON(year int, days []entities.DayRecord) (*ports.ExportResult, error) {
	data, err := json.MarshalIndent(days, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal calendar: %w", err)
	}
	return &ports.ExportResult{
		ContentType: "application/json",
		Filename:    fmt.Sprintf("calendar-%d.json", year),
		Data:        data,
	}, nil
}

func exportCSV(year int, days []entities.DayRecord) (*ports.ExportResult, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Date", "Day", "Tithi", "Nakshatra", "Festivals", "National Holiday", "Notes"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, day := range days {
		festivals := make([]string, len(day.Festivals))
		for i, f := range day.Festivals {
			festivals[i] = f.En
		}
		titles := make([]string, len(day.Notes))
		for i, n := range day.Notes {
			titles[i] = n.Title
		}
		holiday := "No"
		if day.NationalHoliday {
			holiday = "Yes"
		}

		row := []string{
			day.Date,
			day.Day.En,
			day.Tithi.En,
			day.Nakshatra.En,
			strings.Join(festivals, "; "),
			holiday,
			strings.Join(titles, "; "),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return &ports.ExportResult{
		ContentType: "text/csv",
		Filename:    fmt.Sprintf("calendar-%d.csv", year),
		Data:        buf.Bytes(),
	}, nil
}

func exportPDF(year int, days []entities.DayRecord) (*ports.ExportResult, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Hindu Panchang Calendar %d", year), true)

	byMonth := make(map[int][]entities.DayRecord)
	for _, day := range days {
		var y, m, d int
		if _, err := fmt.Sscanf(day.Date, "%d-%d-%d", &y, &m, &d); err != nil {
			continue
		}
		byMonth[m] = append(byMonth[m], day)
	}

	widths := []float64{24, 24, 50, 32, 60}
	columns := []string{"Date", "Day", "Tithi", "Nakshatra", "Festivals"}

	for month := 1; month <= 12; month++ {
		monthDays, ok := byMonth[month]
		if !ok {
			continue
		}

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, fmt.Sprintf("Hindu Panchang Calendar %d", year), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s %d", panchang.MonthName(month).En, year), "", 1, "C", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range columns {
			pdf.CellFormat(widths[i], 7, col, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetFillColor(255, 245, 220)
		for _, day := range monthDays {
			festivals := make([]string, len(day.Festivals))
			for i, f := range day.Festivals {
				festivals[i] = f.En
			}
			cells := []string{
				day.Date,
				day.Day.En,
				day.Tithi.En,
				day.Nakshatra.En,
				strings.Join(festivals, ", "),
			}
			for i, cell := range cells {
				pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", day.HasFestivals(), 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return &ports.ExportResult{
		ContentType: "application/pdf",
		Filename:    fmt.Sprintf("calendar-%d.pdf", year),
		Data:        buf.Bytes(),
	}, nil
}
