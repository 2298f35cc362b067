package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/refanz/bikeshare/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const dayColumns = `instant, dteday, season, yr, mnth, holiday, weekday, workingday, weathersit, temp, atemp, hum, windspeed, casual, registered, cnt`

// ReplaceDayRecords swaps the whole day dataset and records the load in one transaction.
func (s *Store) ReplaceDayRecords(records []models.DayRecord, run models.IngestRun) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM day_records`); err != nil {
		return fmt.Errorf("clear day records: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO day_records (` + dayColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Instant, r.Date.Format(models.DateLayout), r.Season, r.Year, r.Month, r.Holiday, r.Weekday, r.WorkingDay, r.Weather, r.Temp, r.ATemp, r.Humidity, r.WindSpeed, r.Casual, r.Registered, r.Count); err != nil {
			return fmt.Errorf("insert day %d: %w", r.Instant, err)
		}
	}

	if err := insertIngestRun(tx, run); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceHourRecords swaps the whole hour dataset and records the load in one transaction.
func (s *Store) ReplaceHourRecords(records []models.HourRecord, run models.IngestRun) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM hour_records`); err != nil {
		return fmt.Errorf("clear hour records: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO hour_records (` + dayColumns + `, hr) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Instant, r.Date.Format(models.DateLayout), r.Season, r.Year, r.Month, r.Holiday, r.Weekday, r.WorkingDay, r.Weather, r.Temp, r.ATemp, r.Humidity, r.WindSpeed, r.Casual, r.Registered, r.Count, r.Hour); err != nil {
			return fmt.Errorf("insert hour %d: %w", r.Instant, err)
		}
	}

	if err := insertIngestRun(tx, run); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetDayRecords(rng models.DateRange) ([]models.DayRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+dayColumns+`
		FROM day_records
		WHERE dteday >= ? AND dteday <= ?
		ORDER BY dteday ASC, instant ASC
	`, rng.Start.Format(models.DateLayout), rng.End.Format(models.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DayRecord
	for rows.Next() {
		var r models.DayRecord
		var date string
		if err := rows.Scan(&r.Instant, &date, &r.Season, &r.Year, &r.Month, &r.Holiday, &r.Weekday, &r.WorkingDay, &r.Weather, &r.Temp, &r.ATemp, &r.Humidity, &r.WindSpeed, &r.Casual, &r.Registered, &r.Count); err != nil {
			return nil, err
		}
		if r.Date, err = time.Parse(models.DateLayout, date); err != nil {
			return nil, fmt.Errorf("parse dteday %q: %w", date, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) GetHourRecords(rng models.DateRange) ([]models.HourRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+dayColumns+`, hr
		FROM hour_records
		WHERE dteday >= ? AND dteday <= ?
		ORDER BY dteday ASC, hr ASC
	`, rng.Start.Format(models.DateLayout), rng.End.Format(models.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.HourRecord
	for rows.Next() {
		var r models.HourRecord
		var date string
		if err := rows.Scan(&r.Instant, &date, &r.Season, &r.Year, &r.Month, &r.Holiday, &r.Weekday, &r.WorkingDay, &r.Weather, &r.Temp, &r.ATemp, &r.Humidity, &r.WindSpeed, &r.Casual, &r.Registered, &r.Count, &r.Hour); err != nil {
			return nil, err
		}
		if r.Date, err = time.Parse(models.DateLayout, date); err != nil {
			return nil, fmt.Errorf("parse dteday %q: %w", date, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetDateBounds returns the first and last date of the day dataset.
// ok is false when the dataset is empty.
func (s *Store) GetDateBounds() (rng models.DateRange, ok bool, err error) {
	var minDate, maxDate sql.NullString
	if err := s.db.QueryRow(`SELECT MIN(dteday), MAX(dteday) FROM day_records`).Scan(&minDate, &maxDate); err != nil {
		return rng, false, err
	}
	if !minDate.Valid || !maxDate.Valid {
		return rng, false, nil
	}
	if rng.Start, err = time.Parse(models.DateLayout, minDate.String); err != nil {
		return rng, false, fmt.Errorf("parse min date: %w", err)
	}
	if rng.End, err = time.Parse(models.DateLayout, maxDate.String); err != nil {
		return rng, false, fmt.Errorf("parse max date: %w", err)
	}
	return rng, true, nil
}

// CountRecords returns the number of stored rows for a dataset.
func (s *Store) CountRecords(dataset string) (int, error) {
	var table string
	switch dataset {
	case models.DatasetDay:
		table = "day_records"
	case models.DatasetHour:
		table = "hour_records"
	default:
		return 0, fmt.Errorf("unknown dataset %q", dataset)
	}
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n)
	return n, err
}
