package analysis

import "github.com/refanz/bikeshare/internal/models"

// Dashboard is every aggregate shown for one date range.
type Dashboard struct {
	Range       models.DateRange  `json:"-"`
	Start       string            `json:"start"`
	End         string            `json:"end"`
	Totals      Totals            `json:"totals"`
	Trend       []TrendPoint      `json:"trend"`
	DayCategory []Total           `json:"day_category"`
	Weather     []Total           `json:"weather"`
	Season      []Total           `json:"season"`
	Users       UserTotals        `json:"users"`
	TimeOfDay   []Total           `json:"time_of_day"`
	Correlation CorrelationMatrix `json:"correlation"`
	DayRows     int               `json:"day_rows"`
	HourRows    int               `json:"hour_rows"`
}

// Build aggregates already-filtered records. Day-level figures come from
// the day dataset; weather, time of day and correlation from the hour dataset.
func Build(rng models.DateRange, days []models.DayRecord, hours []models.HourRecord) *Dashboard {
	return &Dashboard{
		Range:       rng,
		Start:       rng.Start.Format(models.DateLayout),
		End:         rng.End.Format(models.DateLayout),
		Totals:      Summarize(days),
		Trend:       Trend(days),
		DayCategory: DayCategories(days),
		Weather:     ByWeather(hours),
		Season:      BySeason(days),
		Users:       Users(days),
		TimeOfDay:   ByTimeOfDay(hours),
		Correlation: Correlation(hours),
		DayRows:     len(days),
		HourRows:    len(hours),
	}
}
