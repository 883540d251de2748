// Package panchang derives tithi, nakshatra and festival data for
// Gregorian calendar dates using a simplified periodic approximation.
// All functions are pure: the output depends only on the (year, month,
// day) triple, never on time of day, timezone, or external state.
package panchang

import (
	"fmt"
	"strings"
	"time"

	"github.com/panchang/core/internal/domain/entities"
)

// Date is a pure calendar date. Time-of-day and timezone are
// deliberately absent.
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate builds a Date from its components.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MonthDay formats the date as MM-DD, the key shape of the festival table.
func (d Date) MonthDay() string {
	return fmt.Sprintf("%02d-%02d", d.Month, d.Day)
}

// Weekday returns the day of week (0 = Sunday).
func (d Date) Weekday() int {
	return int(d.time().Weekday())
}

// DayOfYear returns the 0-based offset from January 1 of the date's
// own year.
func (d Date) DayOfYear() int {
	return d.time().YearDay() - 1
}

func (d Date) time() time.Time {
	// Noon UTC sidesteps DST edge cases when deriving weekday and
	// year-day.
	return time.Date(d.Year, time.Month(d.Month), d.Day, 12, 0, 0, 0, time.UTC)
}

// Tithi computes the lunar day for a date: the day-of-year modulo 30
// selects one of 30 tithis, split into two fortnights of 15. Each
// language concatenates its own paksha label with its own name list.
func Tithi(d Date) entities.LocalizedText {
	tithiIndex := d.DayOfYear() % 30
	pakshaIdx := 0
	if tithiIndex >= 15 {
		pakshaIdx = 1
	}
	tithiNum := tithiIndex % 15

	return entities.LocalizedText{
		En: pakshaNames[entities.LangEnglish][pakshaIdx] + " " + tithiNames[entities.LangEnglish][tithiNum],
		Hi: pakshaNames[entities.LangHindi][pakshaIdx] + " " + tithiNames[entities.LangHindi][tithiNum],
		Sa: pakshaNames[entities.LangSanskrit][pakshaIdx] + " " + tithiNames[entities.LangSanskrit][tithiNum],
	}
}

// Nakshatra computes the lunar mansion for a date: day-of-year modulo 27.
func Nakshatra(d Date) entities.LocalizedText {
	idx := d.DayOfYear() % 27
	return entities.LocalizedText{
		En: nakshatraNames[entities.LangEnglish][idx],
		Hi: nakshatraNames[entities.LangHindi][idx],
		Sa: nakshatraNames[entities.LangSanskrit][idx],
	}
}

// Festivals returns the festivals falling on a date: the fixed MM-DD
// table entry first, then synthetic Ekadashi/Purnima/Amavasya entries
// derived from the English tithi label. Detection is by substring match
// on the English rendering only; this mirrors the historical behaviour
// and must not be replaced with per-language detection.
func Festivals(d Date) []entities.LocalizedText {
	var festivals []entities.LocalizedText

	if f, ok := majorFestivals[d.MonthDay()]; ok {
		festivals = append(festivals, f)
	}

	tithi := Tithi(d)
	if strings.Contains(tithi.En, "Ekadashi") {
		festivals = append(festivals, festivalEkadashi)
	}
	if strings.Contains(tithi.En, "Purnima") {
		festivals = append(festivals, festivalPurnima)
	}
	if strings.Contains(tithi.En, "Amavasya") {
		festivals = append(festivals, festivalAmavasya)
	}

	return festivals
}

// DayName returns the localized weekday name for a date.
func DayName(d Date) entities.LocalizedText {
	w := d.Weekday()
	return entities.LocalizedText{
		En: dayNames[entities.LangEnglish][w],
		Hi: dayNames[entities.LangHindi][w],
		Sa: dayNames[entities.LangSanskrit][w],
	}
}
