package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/refanz/bikeshare/internal/models"
)

// BaseYear is the calendar year encoded as yr=0 in the datasets.
const BaseYear = 2011

const (
	CategoryHoliday    = "holiday"
	CategoryWorkingDay = "workingday"
	CategoryWeekend    = "weekend"
)

// Unknown labels a category code outside the documented range.
const Unknown = "unknown"

var weatherLabels = []string{"sunny", "mist/cloudy", "light rain/snow", "extreme weather"}

var seasonLabels = []string{"spring", "summer", "fall", "winter"}

// Total is a labelled rental count.
type Total struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type TrendPoint struct {
	Label string `json:"label"` // "Jan/2011"
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Count int    `json:"count"`
}

type UserTotals struct {
	Casual          int     `json:"casual"`
	Registered      int     `json:"registered"`
	CasualShare     float64 `json:"casual_share"`
	RegisteredShare float64 `json:"registered_share"`
}

type Totals struct {
	Rentals    int `json:"rentals"`
	Registered int `json:"registered"`
	Casual     int `json:"casual"`
}

// Trend sums rentals per calendar month, oldest first.
func Trend(days []models.DayRecord) []TrendPoint {
	type key struct{ yr, mnth int }
	sums := make(map[key]int)
	for _, d := range days {
		sums[key{d.Year, d.Month}] += d.Count
	}

	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].yr != keys[j].yr {
			return keys[i].yr < keys[j].yr
		}
		return keys[i].mnth < keys[j].mnth
	})

	points := make([]TrendPoint, 0, len(keys))
	for _, k := range keys {
		year := BaseYear + k.yr
		points = append(points, TrendPoint{
			Label: fmt.Sprintf("%s/%d", monthAbbr(k.mnth), year),
			Year:  year,
			Month: k.mnth,
			Count: sums[k],
		})
	}
	return points
}

func monthAbbr(m int) string {
	if m < 1 || m > 12 {
		return fmt.Sprintf("M%d", m)
	}
	return time.Month(m).String()[:3]
}

// DayCategories splits rentals into holiday, working day and weekend.
// Weekend is whatever is neither, so the three always add up to the total.
func DayCategories(days []models.DayRecord) []Total {
	var total, holiday, working int
	for _, d := range days {
		total += d.Count
		if d.Holiday == 1 {
			holiday += d.Count
		}
		if d.WorkingDay == 1 {
			working += d.Count
		}
	}
	return []Total{
		{Label: CategoryHoliday, Count: holiday},
		{Label: CategoryWorkingDay, Count: working},
		{Label: CategoryWeekend, Count: total - (holiday + working)},
	}
}

// ByWeather sums hourly rentals per weather situation, in code order.
func ByWeather(hours []models.HourRecord) []Total {
	sums := make(map[int]int)
	for _, h := range hours {
		sums[h.Weather] += h.Count
	}
	return labelledByCode(sums, weatherLabels)
}

// BySeason sums daily rentals per season, in code order.
func BySeason(days []models.DayRecord) []Total {
	sums := make(map[int]int)
	for _, d := range days {
		sums[d.Season] += d.Count
	}
	return labelledByCode(sums, seasonLabels)
}

// labelledByCode orders 1-based category codes ascending and names them.
// Codes without a label collapse into a single Unknown total at the end.
func labelledByCode(sums map[int]int, labels []string) []Total {
	codes := make([]int, 0, len(sums))
	for c := range sums {
		codes = append(codes, c)
	}
	sort.Ints(codes)

	out := make([]Total, 0, len(codes))
	unknown, hasUnknown := 0, false
	for _, c := range codes {
		if c < 1 || c > len(labels) {
			unknown += sums[c]
			hasUnknown = true
			continue
		}
		out = append(out, Total{Label: labels[c-1], Count: sums[c]})
	}
	if hasUnknown {
		out = append(out, Total{Label: Unknown, Count: unknown})
	}
	return out
}

func Users(days []models.DayRecord) UserTotals {
	var u UserTotals
	for _, d := range days {
		u.Casual += d.Casual
		u.Registered += d.Registered
	}
	if sum := u.Casual + u.Registered; sum > 0 {
		u.CasualShare = float64(u.Casual) / float64(sum)
		u.RegisteredShare = float64(u.Registered) / float64(sum)
	}
	return u
}

// ByTimeOfDay sums hourly rentals per bucket in chronological order.
// Buckets with no rows are omitted.
func ByTimeOfDay(hours []models.HourRecord) []Total {
	sums := make(map[string]int)
	for _, h := range hours {
		sums[TimeOfDay(h.Hour)] += h.Count
	}

	out := make([]Total, 0, len(Buckets))
	for _, b := range Buckets {
		if n, ok := sums[b]; ok {
			out = append(out, Total{Label: b, Count: n})
		}
	}
	return out
}

func Summarize(days []models.DayRecord) Totals {
	var t Totals
	for _, d := range days {
		t.Rentals += d.Count
		t.Registered += d.Registered
		t.Casual += d.Casual
	}
	return t
}

// Highlight returns the index of the largest total, or -1 for an empty slice.
// Ties go to the first occurrence.
func Highlight(totals []Total) int {
	best := -1
	for i, t := range totals {
		if best == -1 || t.Count > totals[best].Count {
			best = i
		}
	}
	return best
}
