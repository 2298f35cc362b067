package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/refanz/bikeshare/internal/models"
)

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{-1, ""},
		{0, BucketMidnight},
		{1, BucketLateNight},
		{3, BucketLateNight},
		{4, BucketMorning},
		{11, BucketMorning},
		{12, BucketNoon},
		{13, BucketAfternoon},
		{17, BucketAfternoon},
		{18, BucketEvening},
		{19, BucketEvening},
		{20, BucketNight},
		{23, BucketNight},
		{30, BucketNight},
	}
	for _, tt := range tests {
		if got := TimeOfDay(tt.hour); got != tt.want {
			t.Errorf("TimeOfDay(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func day(yr, mnth, season, weather, holiday, working, casual, registered int) models.DayRecord {
	return models.DayRecord{
		Date:       time.Date(BaseYear+yr, time.Month(mnth), 1, 0, 0, 0, 0, time.UTC),
		Year:       yr,
		Month:      mnth,
		Season:     season,
		Weather:    weather,
		Holiday:    holiday,
		WorkingDay: working,
		Casual:     casual,
		Registered: registered,
		Count:      casual + registered,
	}
}

func sampleDays() []models.DayRecord {
	return []models.DayRecord{
		day(1, 2, 1, 1, 0, 1, 10, 90),
		day(0, 1, 1, 2, 0, 0, 50, 50),
		day(0, 1, 1, 1, 1, 0, 5, 15),
		day(0, 7, 3, 3, 0, 1, 30, 170),
		day(1, 12, 4, 1, 0, 0, 40, 60),
	}
}

func sum(totals []Total) int {
	n := 0
	for _, t := range totals {
		n += t.Count
	}
	return n
}

func TestTrend_OrderedAndLabelled(t *testing.T) {
	got := Trend(sampleDays())
	want := []TrendPoint{
		{Label: "Jan/2011", Year: 2011, Month: 1, Count: 120},
		{Label: "Jul/2011", Year: 2011, Month: 7, Count: 200},
		{Label: "Feb/2012", Year: 2012, Month: 2, Count: 100},
		{Label: "Dec/2012", Year: 2012, Month: 12, Count: 100},
	}
	if len(got) != len(want) {
		t.Fatalf("Trend = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Trend[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDayCategories_Partition(t *testing.T) {
	days := sampleDays()
	got := DayCategories(days)

	if len(got) != 3 || got[0].Label != CategoryHoliday || got[1].Label != CategoryWorkingDay || got[2].Label != CategoryWeekend {
		t.Fatalf("DayCategories labels = %+v", got)
	}
	if got[0].Count != 20 || got[1].Count != 300 || got[2].Count != 200 {
		t.Errorf("DayCategories = %+v, want 20/300/200", got)
	}
	if sum(got) != Summarize(days).Rentals {
		t.Errorf("categories sum to %d, want %d", sum(got), Summarize(days).Rentals)
	}
}

func TestBySeason(t *testing.T) {
	days := append(sampleDays(), day(0, 3, 9, 1, 0, 1, 1, 1))
	got := BySeason(days)
	want := []Total{
		{Label: "spring", Count: 220},
		{Label: "fall", Count: 200},
		{Label: "winter", Count: 100},
		{Label: Unknown, Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("BySeason = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("BySeason[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if sum(got) != Summarize(days).Rentals {
		t.Errorf("seasons sum to %d, want %d", sum(got), Summarize(days).Rentals)
	}
}

func hour(hr, weather, cnt int, temp float64) models.HourRecord {
	return models.HourRecord{
		DayRecord: models.DayRecord{Weather: weather, Count: cnt, Registered: cnt, Temp: temp, ATemp: temp, Humidity: 0.5, WindSpeed: 0},
		Hour:      hr,
	}
}

func TestByWeather(t *testing.T) {
	hours := []models.HourRecord{
		hour(8, 2, 10, 0.2),
		hour(9, 1, 30, 0.3),
		hour(10, 1, 20, 0.4),
		hour(11, 4, 1, 0.1),
	}
	got := ByWeather(hours)
	want := []Total{
		{Label: "sunny", Count: 50},
		{Label: "mist/cloudy", Count: 10},
		{Label: "extreme weather", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("ByWeather = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ByWeather[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestByTimeOfDay_Chronological(t *testing.T) {
	var hours []models.HourRecord
	for hr := 23; hr >= 0; hr-- {
		hours = append(hours, hour(hr, 1, hr+1, 0.5))
	}
	got := ByTimeOfDay(hours)
	if len(got) != len(Buckets) {
		t.Fatalf("ByTimeOfDay returned %d buckets, want %d", len(got), len(Buckets))
	}
	for i, b := range Buckets {
		if got[i].Label != b {
			t.Errorf("bucket %d = %q, want %q", i, got[i].Label, b)
		}
	}
	// hours 0..23 carry counts 1..24
	if sum(got) != 300 {
		t.Errorf("buckets sum to %d, want 300", sum(got))
	}
	if got[0].Count != 1 || got[3].Count != 13 {
		t.Errorf("midnight=%d noon=%d, want 1 and 13", got[0].Count, got[3].Count)
	}

	partial := ByTimeOfDay([]models.HourRecord{hour(14, 1, 5, 0.5), hour(2, 1, 3, 0.5)})
	if len(partial) != 2 || partial[0].Label != BucketLateNight || partial[1].Label != BucketAfternoon {
		t.Errorf("partial buckets = %+v", partial)
	}
}

func TestUsersAndTotals(t *testing.T) {
	days := sampleDays()
	u := Users(days)
	if u.Casual != 135 || u.Registered != 385 {
		t.Errorf("Users = %+v, want 135/385", u)
	}
	if math.Abs(u.CasualShare+u.RegisteredShare-1) > 1e-12 {
		t.Errorf("shares sum to %v", u.CasualShare+u.RegisteredShare)
	}

	tot := Summarize(days)
	if tot.Rentals != 520 || tot.Casual != 135 || tot.Registered != 385 {
		t.Errorf("Summarize = %+v", tot)
	}

	empty := Users(nil)
	if empty.CasualShare != 0 || empty.RegisteredShare != 0 {
		t.Errorf("Users(nil) = %+v, want zero shares", empty)
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		name   string
		totals []Total
		want   int
	}{
		{"empty", nil, -1},
		{"single", []Total{{"a", 1}}, 0},
		{"max in middle", []Total{{"a", 1}, {"b", 9}, {"c", 3}}, 1},
		{"tie goes to first", []Total{{"a", 5}, {"b", 5}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Highlight(tt.totals); got != tt.want {
				t.Errorf("Highlight() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCorrelation(t *testing.T) {
	hours := []models.HourRecord{
		hour(0, 1, 10, 0.1),
		hour(1, 1, 25, 0.3),
		hour(2, 1, 30, 0.4),
		hour(3, 1, 60, 0.8),
	}
	m := Correlation(hours)

	for i, name := range m.Columns {
		for j := range m.Columns {
			if m.Cells[i][j] != m.Cells[j][i] {
				t.Errorf("matrix not symmetric at %d,%d", i, j)
			}
		}
		c, _ := m.At(name, name)
		// hum and windspeed are constant in this sample.
		if name == "hum" || name == "windspeed" {
			if c.Valid {
				t.Errorf("%s diagonal valid for a constant column", name)
			}
			continue
		}
		if !c.Valid || math.Abs(c.Value-1) > 1e-9 {
			t.Errorf("%s diagonal = %+v, want 1", name, c)
		}
	}

	c, ok := m.At("temp", "cnt")
	if !ok || !c.Valid || c.Value < 0.9 {
		t.Errorf("temp/cnt = %+v, want strong positive", c)
	}
	c, _ = m.At("hum", "cnt")
	if c.Valid || c.Value != 0 {
		t.Errorf("hum/cnt = %+v, want invalid zero", c)
	}
	if _, ok := m.At("rain", "cnt"); ok {
		t.Error("At returned ok for unknown column")
	}
}

func TestCorrelation_TooFewRows(t *testing.T) {
	m := Correlation([]models.HourRecord{hour(0, 1, 10, 0.1)})
	for i := range m.Cells {
		for j := range m.Cells[i] {
			if m.Cells[i][j].Valid {
				t.Fatalf("cell %d,%d valid with one row", i, j)
			}
		}
	}
}

func TestBuild(t *testing.T) {
	rng := models.DateRange{
		Start: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2012, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	hours := []models.HourRecord{hour(8, 1, 10, 0.2), hour(18, 2, 20, 0.6)}
	d := Build(rng, sampleDays(), hours)

	if d.Start != "2011-01-01" || d.End != "2012-12-31" {
		t.Errorf("range = %s..%s", d.Start, d.End)
	}
	if d.DayRows != 5 || d.HourRows != 2 {
		t.Errorf("rows = %d/%d, want 5/2", d.DayRows, d.HourRows)
	}
	if d.Totals.Rentals != 520 {
		t.Errorf("Totals.Rentals = %d, want 520", d.Totals.Rentals)
	}
	if sum(d.Weather) != 30 || sum(d.TimeOfDay) != 30 {
		t.Errorf("hourly aggregates sum to %d/%d, want 30", sum(d.Weather), sum(d.TimeOfDay))
	}
}
