package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/refanz/bikeshare/internal/models"
)

func insertIngestRun(tx *sql.Tx, run models.IngestRun) error {
	loadedAt := run.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now().UTC()
	}
	_, err := tx.Exec(`
		INSERT INTO ingest_runs (dataset, source, checksum, rows, flagged, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.Dataset, run.Source, run.Checksum, run.Rows, run.Flagged, loadedAt)
	if err != nil {
		return fmt.Errorf("record ingest run: %w", err)
	}
	return nil
}

// LatestIngestRun returns the most recent load of a dataset, or nil if it was never loaded.
func (s *Store) LatestIngestRun(dataset string) (*models.IngestRun, error) {
	row := s.db.QueryRow(`
		SELECT id, dataset, source, checksum, rows, flagged, loaded_at
		FROM ingest_runs
		WHERE dataset = ?
		ORDER BY id DESC
		LIMIT 1
	`, dataset)

	var run models.IngestRun
	err := row.Scan(&run.ID, &run.Dataset, &run.Source, &run.Checksum, &run.Rows, &run.Flagged, &run.LoadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListIngestRuns returns the most recent loads across all datasets, newest first.
func (s *Store) ListIngestRuns(limit int) ([]models.IngestRun, error) {
	rows, err := s.db.Query(`
		SELECT id, dataset, source, checksum, rows, flagged, loaded_at
		FROM ingest_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.IngestRun
	for rows.Next() {
		var run models.IngestRun
		if err := rows.Scan(&run.ID, &run.Dataset, &run.Source, &run.Checksum, &run.Rows, &run.Flagged, &run.LoadedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
