package panchang

import "github.com/panchang/core/internal/domain/entities"

type holiday struct {
	month int
	day   int
	name  entities.LocalizedText
}

// HolidayMatch is the result of a holiday table lookup.
type HolidayMatch struct {
	IsHoliday bool
	Name      entities.LocalizedText
}

// IsNationalHoliday checks the fixed national holiday table. Lookups are
// year-independent; the first matching entry wins.
func IsNationalHoliday(d Date) HolidayMatch {
	return matchHoliday(nationalHolidays, d)
}

// IsOptionalHoliday checks the fixed optional (regional) holiday table.
func IsOptionalHoliday(d Date) HolidayMatch {
	return matchHoliday(optionalHolidays, d)
}

func matchHoliday(table []holiday, d Date) HolidayMatch {
	for _, h := range table {
		if h.month == d.Month && h.day == d.Day {
			return HolidayMatch{IsHoliday: true, Name: h.name}
		}
	}
	return HolidayMatch{}
}
