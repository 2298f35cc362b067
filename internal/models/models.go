package models

import "time"

// DateLayout is the calendar date format used by the datasets and the API.
const DateLayout = "2006-01-02"

const (
	DatasetDay  = "day"
	DatasetHour = "hour"
)

type DayRecord struct {
	Instant    int
	Date       time.Time
	Season     int // 1=spring, 2=summer, 3=fall, 4=winter
	Year       int // 0=2011, 1=2012
	Month      int
	Holiday    int
	Weekday    int
	WorkingDay int
	Weather    int // 1=sunny .. 4=extreme
	Temp       float64
	ATemp      float64
	Humidity   float64
	WindSpeed  float64
	Casual     int
	Registered int
	Count      int
}

type HourRecord struct {
	DayRecord
	Hour int
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

type IngestRun struct {
	ID       int64
	Dataset  string
	Source   string
	Checksum string
	Rows     int
	Flagged  int
	LoadedAt time.Time
}
