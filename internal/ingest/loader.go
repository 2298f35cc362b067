package ingest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/refanz/bikeshare/internal/metrics"
	"github.com/refanz/bikeshare/internal/models"
	"github.com/refanz/bikeshare/internal/store"
)

// LoadResult describes what a load did to one dataset.
type LoadResult struct {
	Dataset   string
	Source    string
	Rows      int
	Flagged   int
	Unchanged bool
}

// Loader keeps the store in sync with the day and hour CSV sources.
type Loader struct {
	store      *store.Store
	fetcher    *Fetcher
	daySource  string
	hourSource string

	mu          sync.Mutex // serialises loads from the watcher, scheduler and startup
	retryWindow time.Duration
	onChange    func()
}

func NewLoader(st *store.Store, fetcher *Fetcher, daySource, hourSource string) *Loader {
	return &Loader{
		store:       st,
		fetcher:     fetcher,
		daySource:   daySource,
		hourSource:  hourSource,
		retryWindow: 10 * time.Second,
	}
}

// Sources returns the configured day and hour sources.
func (l *Loader) Sources() (day, hour string) {
	return l.daySource, l.hourSource
}

// OnChange registers fn to run after a load that replaced at least one dataset.
func (l *Loader) OnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Load refreshes both datasets. A dataset whose bytes match the last
// recorded load is left untouched. Both datasets are attempted even if
// one fails.
func (l *Loader) Load(ctx context.Context) ([]LoadResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var results []LoadResult
	var errs *multierror.Error
	changed := false
	for _, dataset := range []string{models.DatasetDay, models.DatasetHour} {
		res, err := l.loadDataset(ctx, dataset)
		if err != nil {
			metrics.ReloadsTotal.WithLabelValues(dataset, "error").Inc()
			errs = multierror.Append(errs, fmt.Errorf("load %s: %w", dataset, err))
			continue
		}
		if res.Unchanged {
			metrics.ReloadsTotal.WithLabelValues(dataset, "unchanged").Inc()
		} else {
			metrics.ReloadsTotal.WithLabelValues(dataset, "loaded").Inc()
			changed = true
		}
		results = append(results, res)
	}
	if changed && l.onChange != nil {
		l.onChange()
	}
	return results, errs.ErrorOrNil()
}

func (l *Loader) loadDataset(ctx context.Context, dataset string) (LoadResult, error) {
	source := l.daySource
	if dataset == models.DatasetHour {
		source = l.hourSource
	}
	res := LoadResult{Dataset: dataset, Source: source}

	var data []byte
	var checksum string
	var days []models.DayRecord
	var hours []models.HourRecord

	// A watched file may be caught half written, so parse failures are retried
	// with a fresh read until the retry window closes.
	operation := func() error {
		var err error
		data, err = l.fetcher.Fetch(ctx, source)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return backoff.Permanent(err)
			}
			return err
		}

		sum := sha256.Sum256(data)
		checksum = hex.EncodeToString(sum[:])

		latest, err := l.store.LatestIngestRun(dataset)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("latest ingest run: %w", err))
		}
		if latest != nil && latest.Checksum == checksum {
			res.Unchanged = true
			res.Rows = latest.Rows
			res.Flagged = latest.Flagged
			return nil
		}

		if dataset == models.DatasetDay {
			days, err = ParseDayCSV(bytes.NewReader(data))
		} else {
			hours, err = ParseHourCSV(bytes.NewReader(data))
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = l.retryWindow
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return res, err
	}

	if res.Unchanged {
		log.Printf("ingest: %s unchanged (%d rows)", dataset, res.Rows)
		metrics.RecordsLoaded.WithLabelValues(dataset).Set(float64(res.Rows))
		return res, nil
	}

	flagCounts := make(map[string]int)
	run := models.IngestRun{
		Dataset:  dataset,
		Source:   source,
		Checksum: checksum,
		LoadedAt: time.Now().UTC(),
	}

	var err error
	if dataset == models.DatasetDay {
		for i := range days {
			if flags := ValidateDay(&days[i]); len(flags) > 0 {
				run.Flagged++
				countFlags(flagCounts, flags, run.Flagged == 1, days[i].Instant)
			}
		}
		run.Rows = len(days)
		err = l.store.ReplaceDayRecords(days, run)
	} else {
		for i := range hours {
			if flags := ValidateHour(&hours[i]); len(flags) > 0 {
				run.Flagged++
				countFlags(flagCounts, flags, run.Flagged == 1, hours[i].Instant)
			}
		}
		run.Rows = len(hours)
		err = l.store.ReplaceHourRecords(hours, run)
	}
	if err != nil {
		return res, fmt.Errorf("store: %w", err)
	}

	for flag, n := range flagCounts {
		metrics.QualityFlags.WithLabelValues(dataset, flag).Add(float64(n))
	}
	metrics.RecordsLoaded.WithLabelValues(dataset).Set(float64(run.Rows))

	res.Rows = run.Rows
	res.Flagged = run.Flagged
	log.Printf("ingest: loaded %d %s rows from %s (%d flagged%s)", run.Rows, dataset, source, run.Flagged, summarizeFlags(flagCounts))
	return res, nil
}

func countFlags(counts map[string]int, flags []string, first bool, instant int) {
	for _, f := range flags {
		counts[f]++
	}
	if first {
		log.Printf("ingest: first flagged row instant=%d flags=%s", instant, QualityFlagsToJSON(flags))
	}
}

func summarizeFlags(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	out := ":"
	for _, name := range names {
		out += fmt.Sprintf(" %s=%d", name, counts[name])
	}
	return out
}
