package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/hashicorp/go-multierror"

	"github.com/refanz/bikeshare/internal/models"
)

var intColumns = []string{"instant", "season", "yr", "mnth", "holiday", "weekday", "workingday", "weathersit", "casual", "registered", "cnt"}

var floatColumns = []string{"temp", "atemp", "hum", "windspeed"}

func columnTypes(hourly bool) map[string]series.Type {
	types := map[string]series.Type{"dteday": series.String}
	for _, c := range intColumns {
		types[c] = series.Int
	}
	for _, c := range floatColumns {
		types[c] = series.Float
	}
	if hourly {
		types["hr"] = series.Int
	}
	return types
}

// ErrNoRows is returned for a file with no data rows below the header.
var ErrNoRows = errors.New("no data rows")

// hasDataRows reports whether data holds a non-blank line after the header.
func hasDataRows(data []byte) bool {
	lines := bytes.Split(data, []byte("\n"))
	if len(lines) < 2 {
		return false
	}
	for _, line := range lines[1:] {
		if len(bytes.TrimSpace(line)) > 0 {
			return true
		}
	}
	return false
}

// frame holds the typed columns of a parsed dataset.
type frame struct {
	n      int
	dates  []time.Time
	ints   map[string][]int
	floats map[string][]float64
}

func readFrame(r io.Reader, hourly bool) (*frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if !hasDataRows(data) {
		return nil, ErrNoRows
	}

	types := columnTypes(hourly)
	df := dataframe.ReadCSV(bytes.NewReader(data), dataframe.WithTypes(types))
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}

	present := make(map[string]bool)
	for _, name := range df.Names() {
		present[name] = true
	}
	var missing []string
	for name := range types {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	f := &frame{
		n:      df.Nrow(),
		ints:   make(map[string][]int),
		floats: make(map[string][]float64),
	}

	var errs *multierror.Error
	for name, typ := range types {
		switch typ {
		case series.Int:
			vals, err := df.Col(name).Int()
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("column %s: %w", name, err))
				continue
			}
			f.ints[name] = vals
		case series.Float:
			vals := df.Col(name).Float()
			for i, v := range vals {
				// Blank and non-numeric cells come back as NaN.
				if math.IsNaN(v) {
					errs = multierror.Append(errs, fmt.Errorf("row %d: invalid %s", i+2, name))
				}
			}
			f.floats[name] = vals
		}
	}

	raw := df.Col("dteday").Records()
	f.dates = make([]time.Time, len(raw))
	for i, v := range raw {
		d, err := time.Parse(models.DateLayout, strings.TrimSpace(v))
		if err != nil {
			// Row numbers are 1-based and count the header line.
			errs = multierror.Append(errs, fmt.Errorf("row %d: invalid dteday %q", i+2, v))
			continue
		}
		f.dates[i] = d
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *frame) day(i int) models.DayRecord {
	return models.DayRecord{
		Instant:    f.ints["instant"][i],
		Date:       f.dates[i],
		Season:     f.ints["season"][i],
		Year:       f.ints["yr"][i],
		Month:      f.ints["mnth"][i],
		Holiday:    f.ints["holiday"][i],
		Weekday:    f.ints["weekday"][i],
		WorkingDay: f.ints["workingday"][i],
		Weather:    f.ints["weathersit"][i],
		Temp:       f.floats["temp"][i],
		ATemp:      f.floats["atemp"][i],
		Humidity:   f.floats["hum"][i],
		WindSpeed:  f.floats["windspeed"][i],
		Casual:     f.ints["casual"][i],
		Registered: f.ints["registered"][i],
		Count:      f.ints["cnt"][i],
	}
}

// ParseDayCSV parses day.csv into records in file order.
func ParseDayCSV(r io.Reader) ([]models.DayRecord, error) {
	f, err := readFrame(r, false)
	if err != nil {
		return nil, err
	}
	records := make([]models.DayRecord, f.n)
	for i := range records {
		records[i] = f.day(i)
	}
	return records, nil
}

// ParseHourCSV parses hour.csv into records in file order.
func ParseHourCSV(r io.Reader) ([]models.HourRecord, error) {
	f, err := readFrame(r, true)
	if err != nil {
		return nil, err
	}
	records := make([]models.HourRecord, f.n)
	for i := range records {
		records[i] = models.HourRecord{DayRecord: f.day(i), Hour: f.ints["hr"][i]}
	}
	return records, nil
}
