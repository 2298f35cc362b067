package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Rental datasets",
		SQL: `
CREATE TABLE IF NOT EXISTS day_records (
    instant INTEGER PRIMARY KEY,
    dteday TEXT NOT NULL,
    season INTEGER NOT NULL,
    yr INTEGER NOT NULL,
    mnth INTEGER NOT NULL,
    holiday INTEGER NOT NULL,
    weekday INTEGER NOT NULL,
    workingday INTEGER NOT NULL,
    weathersit INTEGER NOT NULL,
    temp REAL,
    atemp REAL,
    hum REAL,
    windspeed REAL,
    casual INTEGER NOT NULL,
    registered INTEGER NOT NULL,
    cnt INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS hour_records (
    instant INTEGER PRIMARY KEY,
    dteday TEXT NOT NULL,
    hr INTEGER NOT NULL,
    season INTEGER NOT NULL,
    yr INTEGER NOT NULL,
    mnth INTEGER NOT NULL,
    holiday INTEGER NOT NULL,
    weekday INTEGER NOT NULL,
    workingday INTEGER NOT NULL,
    weathersit INTEGER NOT NULL,
    temp REAL,
    atemp REAL,
    hum REAL,
    windspeed REAL,
    casual INTEGER NOT NULL,
    registered INTEGER NOT NULL,
    cnt INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_day_records_date ON day_records(dteday);
CREATE INDEX IF NOT EXISTS idx_hour_records_date ON hour_records(dteday, hr);
`,
	},
	{
		Version:     2,
		Description: "Ingest run audit log",
		SQL: `
CREATE TABLE IF NOT EXISTS ingest_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    dataset TEXT NOT NULL,
    source TEXT NOT NULL,
    checksum TEXT NOT NULL,
    rows INTEGER NOT NULL,
    flagged INTEGER NOT NULL DEFAULT 0,
    loaded_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ingest_runs_dataset ON ingest_runs(dataset, id);
`,
	},
}

func (s *Store) Migrate() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		log.Printf("migrations: applying %d - %s", m.Version, m.Description)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}

		log.Printf("migrations: completed %d", m.Version)
	}

	return nil
}

func (s *Store) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`)
	return err
}

func (s *Store) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (s *Store) MigrationVersion() (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
