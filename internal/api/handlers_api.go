package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/refanz/bikeshare/internal/analysis"
	"github.com/refanz/bikeshare/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	v, err := s.loadView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Dashboard)
}

// aggregate serves one piece of the dashboard for the requested range.
func (s *Server) aggregate(pick func(*analysis.Dashboard) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.loadView(r)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pick(v.Dashboard))
	}
}

type boundsResponse struct {
	Min string `json:"min,omitempty"`
	Max string `json:"max,omitempty"`
}

func (s *Server) handleAPIBounds(w http.ResponseWriter, r *http.Request) {
	bounds, ok, err := s.store.GetDateBounds()
	if err != nil {
		writeError(w, err)
		return
	}
	var resp boundsResponse
	if ok {
		resp.Min = bounds.Start.Format(models.DateLayout)
		resp.Max = bounds.End.Format(models.DateLayout)
	}
	writeJSON(w, http.StatusOK, resp)
}

type DatasetHealth struct {
	Dataset    string     `json:"dataset"`
	Rows       int        `json:"rows"`
	LastLoaded *time.Time `json:"last_loaded,omitempty"`
	Source     string     `json:"source,omitempty"`
	Checksum   string     `json:"checksum,omitempty"`
}

type LoadSummary struct {
	Dataset  string    `json:"dataset"`
	Rows     int       `json:"rows"`
	Flagged  int       `json:"flagged"`
	LoadedAt time.Time `json:"loaded_at"`
}

type HealthStatus struct {
	Status           string          `json:"status"`
	MigrationVersion int             `json:"migration_version"`
	Datasets         []DatasetHealth `json:"datasets"`
	RecentLoads      []LoadSummary   `json:"recent_loads,omitempty"`
	Errors           []string        `json:"errors,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{Status: "ok"}

	version, err := s.store.MigrationVersion()
	if err != nil {
		health.Errors = append(health.Errors, "migrations: "+err.Error())
	}
	health.MigrationVersion = version

	for _, dataset := range []string{models.DatasetDay, models.DatasetHour} {
		dh := DatasetHealth{Dataset: dataset}
		n, err := s.store.CountRecords(dataset)
		if err != nil {
			health.Errors = append(health.Errors, dataset+": "+err.Error())
			continue
		}
		dh.Rows = n
		run, err := s.store.LatestIngestRun(dataset)
		if err != nil {
			health.Errors = append(health.Errors, dataset+": "+err.Error())
		} else if run != nil {
			loaded := run.LoadedAt
			dh.LastLoaded = &loaded
			dh.Source = run.Source
			dh.Checksum = run.Checksum
		}
		if n == 0 {
			health.Status = "degraded"
		}
		health.Datasets = append(health.Datasets, dh)
	}

	runs, err := s.store.ListIngestRuns(5)
	if err != nil {
		health.Errors = append(health.Errors, "ingest runs: "+err.Error())
	}
	for _, run := range runs {
		health.RecentLoads = append(health.RecentLoads, LoadSummary{
			Dataset:  run.Dataset,
			Rows:     run.Rows,
			Flagged:  run.Flagged,
			LoadedAt: run.LoadedAt,
		})
	}

	if len(health.Errors) > 0 {
		health.Status = "error"
	}

	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}
