package panchang

import "github.com/panchang/core/internal/domain/entities"

// Placeholder sun times. The simplified model does not compute an
// ephemeris; these fixed values are part of the data contract.
const (
	PlaceholderSunrise = "06:00"
	PlaceholderSunset  = "18:00"
)

// BuildDay assembles the canonical DayRecord for a date. It combines the
// tithi/nakshatra/festival derivation with the holiday tables: an
// optional holiday's name is appended to the festival list in addition
// to anything the festival tables produced, so a date can carry both a
// fixed festival and the optional-holiday label. Notes start empty; they
// are owned by the notes store and merged in later.
func BuildDay(d Date) entities.DayRecord {
	festivals := Festivals(d)

	national := IsNationalHoliday(d)
	optional := IsOptionalHoliday(d)
	if optional.IsHoliday {
		festivals = append(festivals, optional.Name)
	}

	return entities.DayRecord{
		Date:            d.String(),
		Day:             DayName(d),
		Tithi:           Tithi(d),
		Nakshatra:       Nakshatra(d),
		Festivals:       festivals,
		NationalHoliday: national.IsHoliday,
		OptionalHoliday: optional.IsHoliday,
		Sunrise:         PlaceholderSunrise,
		Sunset:          PlaceholderSunset,
		Notes:           []entities.Note{},
	}
}
