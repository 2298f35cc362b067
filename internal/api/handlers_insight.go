package api

import (
	"log"
	"net/http"

	"github.com/refanz/bikeshare/internal/insight"
	"github.com/refanz/bikeshare/internal/metrics"
	"github.com/refanz/bikeshare/internal/models"
)

type insightResponse struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Summary string `json:"summary"`
	Cached  bool   `json:"cached"`
}

func (s *Server) handleAPIInsight(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		metrics.InsightRequests.WithLabelValues("disabled").Inc()
		http.Error(w, insight.ErrDisabled.Error(), http.StatusServiceUnavailable)
		return
	}

	v, err := s.loadView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !v.HasData {
		http.Error(w, "no data loaded", http.StatusServiceUnavailable)
		return
	}

	key := insight.Key(v.Dashboard.Start, v.Dashboard.End, s.datasetVersion())
	resp := insightResponse{Start: v.Dashboard.Start, End: v.Dashboard.End}

	s.insightMu.Lock()
	defer s.insightMu.Unlock()

	if s.insightCache != nil {
		if text, ok := s.insightCache.Get(key); ok {
			metrics.InsightRequests.WithLabelValues("cached").Inc()
			resp.Summary, resp.Cached = text, true
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}

	text, err := s.insights.Summarize(r.Context(), v.Dashboard)
	if err != nil {
		metrics.InsightRequests.WithLabelValues("error").Inc()
		log.Printf("api: insight %s: %v", v.Range, err)
		http.Error(w, "insight generation failed", http.StatusBadGateway)
		return
	}
	metrics.InsightRequests.WithLabelValues("generated").Inc()

	if s.insightCache != nil {
		if err := s.insightCache.Set(key, text); err != nil {
			log.Printf("api: cache insight: %v", err)
		}
	}
	resp.Summary = text
	writeJSON(w, http.StatusOK, resp)
}

// datasetVersion identifies the loaded data so cached summaries expire on reload.
func (s *Server) datasetVersion() string {
	var version string
	for _, dataset := range []string{models.DatasetDay, models.DatasetHour} {
		run, err := s.store.LatestIngestRun(dataset)
		if err != nil || run == nil {
			continue
		}
		version += run.Checksum
	}
	return version
}
