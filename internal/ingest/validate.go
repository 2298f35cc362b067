package ingest

import (
	"encoding/json"
	"math"

	"github.com/refanz/bikeshare/internal/models"
)

const (
	FlagSeasonInvalid     = "season_invalid"
	FlagYearInvalid       = "year_invalid"
	FlagMonthInvalid      = "month_invalid"
	FlagWeekdayInvalid    = "weekday_invalid"
	FlagWeatherInvalid    = "weather_invalid"
	FlagHolidayNotBinary  = "holiday_not_binary"
	FlagWorkingNotBinary  = "workingday_not_binary"
	FlagReadingOutOfRange = "reading_out_of_range"
	FlagNegativeCount     = "negative_count"
	FlagCountMismatch     = "count_mismatch"
	FlagHourInvalid       = "hour_invalid"
	FlagMonthDateMismatch = "month_date_mismatch"
)

func ValidateDay(d *models.DayRecord) []string {
	var flags []string

	if d.Season < 1 || d.Season > 4 {
		flags = append(flags, FlagSeasonInvalid)
	}
	if d.Year < 0 {
		flags = append(flags, FlagYearInvalid)
	}
	if d.Month < 1 || d.Month > 12 {
		flags = append(flags, FlagMonthInvalid)
	} else if !d.Date.IsZero() && int(d.Date.Month()) != d.Month {
		flags = append(flags, FlagMonthDateMismatch)
	}
	if d.Weekday < 0 || d.Weekday > 6 {
		flags = append(flags, FlagWeekdayInvalid)
	}
	if d.Weather < 1 || d.Weather > 4 {
		flags = append(flags, FlagWeatherInvalid)
	}
	if d.Holiday != 0 && d.Holiday != 1 {
		flags = append(flags, FlagHolidayNotBinary)
	}
	if d.WorkingDay != 0 && d.WorkingDay != 1 {
		flags = append(flags, FlagWorkingNotBinary)
	}

	// Readings are normalised to 0..1.
	for _, v := range []float64{d.Temp, d.ATemp, d.Humidity, d.WindSpeed} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			flags = append(flags, FlagReadingOutOfRange)
			break
		}
	}

	if d.Casual < 0 || d.Registered < 0 || d.Count < 0 {
		flags = append(flags, FlagNegativeCount)
	} else if d.Casual+d.Registered != d.Count {
		flags = append(flags, FlagCountMismatch)
	}

	return flags
}

func ValidateHour(h *models.HourRecord) []string {
	flags := ValidateDay(&h.DayRecord)
	if h.Hour < 0 || h.Hour > 23 {
		flags = append(flags, FlagHourInvalid)
	}
	return flags
}

func QualityFlagsToJSON(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	b, _ := json.Marshal(flags)
	return string(b)
}
