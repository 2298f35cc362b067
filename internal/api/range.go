package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/refanz/bikeshare/internal/analysis"
	"github.com/refanz/bikeshare/internal/models"
)

var errBadRange = errors.New("invalid date range")

// parseRange reads start and end from the query. Missing values fall back
// to bounds. When hasBounds is set, a range overlapping bounds is clamped to
// them and a range entirely outside bounds is kept as given, so it selects
// no rows.
func parseRange(q url.Values, bounds models.DateRange, hasBounds bool) (models.DateRange, error) {
	rng := bounds
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(models.DateLayout, v)
		if err != nil {
			return rng, fmt.Errorf("%w: start %q is not YYYY-MM-DD", errBadRange, v)
		}
		rng.Start = t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(models.DateLayout, v)
		if err != nil {
			return rng, fmt.Errorf("%w: end %q is not YYYY-MM-DD", errBadRange, v)
		}
		rng.End = t
	}
	if rng.Start.After(rng.End) {
		return rng, fmt.Errorf("%w: start %s is after end %s", errBadRange,
			rng.Start.Format(models.DateLayout), rng.End.Format(models.DateLayout))
	}
	if hasBounds && !rng.End.Before(bounds.Start) && !rng.Start.After(bounds.End) {
		rng.Start = clamp(rng.Start, bounds)
		rng.End = clamp(rng.End, bounds)
	}
	return rng, nil
}

func clamp(t time.Time, bounds models.DateRange) time.Time {
	if t.Before(bounds.Start) {
		return bounds.Start
	}
	if t.After(bounds.End) {
		return bounds.End
	}
	return t
}

// view is the filtered data behind one request.
type view struct {
	Bounds    models.DateRange
	HasData   bool
	Range     models.DateRange
	Days      []models.DayRecord
	Hours     []models.HourRecord
	Dashboard *analysis.Dashboard
}

func (s *Server) loadView(r *http.Request) (*view, error) {
	bounds, ok, err := s.store.GetDateBounds()
	if err != nil {
		return nil, fmt.Errorf("get date bounds: %w", err)
	}
	rng, err := parseRange(r.URL.Query(), bounds, ok)
	if err != nil {
		return nil, err
	}
	days, err := s.store.GetDayRecords(rng)
	if err != nil {
		return nil, fmt.Errorf("get day records: %w", err)
	}
	hours, err := s.store.GetHourRecords(rng)
	if err != nil {
		return nil, fmt.Errorf("get hour records: %w", err)
	}
	return &view{
		Bounds:    bounds,
		HasData:   ok,
		Range:     rng,
		Days:      days,
		Hours:     hours,
		Dashboard: analysis.Build(rng, days, hours),
	}, nil
}

// writeError maps range errors to 400 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBadRange) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
