package api

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/refanz/bikeshare/internal/analysis"
	"github.com/refanz/bikeshare/internal/insight"
	"github.com/refanz/bikeshare/internal/metrics"
	"github.com/refanz/bikeshare/internal/render"
	"github.com/refanz/bikeshare/internal/store"
)

// Config holds the optional parts of a Server.
type Config struct {
	Port         string
	CORSOrigins  []string
	Insights     *insight.Generator // nil disables /api/insight
	InsightCache *insight.Cache
}

type Server struct {
	store        *store.Store
	port         string
	tmpl         *template.Template
	cors         *cors.Cors
	charts       *render.Cache
	insights     *insight.Generator
	insightCache *insight.Cache
	insightMu    sync.Mutex // one OpenAI call at a time
}

func NewServer(st *store.Store, cfg Config) *Server {
	s := &Server{
		store:        st,
		port:         cfg.Port,
		tmpl:         newTemplates(),
		charts:       render.NewCache(10*time.Minute, 512),
		insights:     cfg.Insights,
		insightCache: cfg.InsightCache,
	}
	// rs/cors allows every origin when the list is empty, so only wrap when configured.
	if len(cfg.CORSOrigins) > 0 {
		s.cors = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet},
		})
	}
	if s.insights == nil {
		log.Printf("api: insight summaries disabled")
	}
	return s
}

// Reloaded drops rendered charts after the datasets change.
func (s *Server) Reloaded() {
	s.charts.Purge()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /partials/dashboard", s.handleDashboardPartial)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("GET /api/dashboard", s.api(s.handleAPIDashboard))
	mux.Handle("GET /api/trend", s.api(s.aggregate(func(d *analysis.Dashboard) any { return d.Trend })))
	mux.Handle("GET /api/day-category", s.api(s.aggregate(func(d *analysis.Dashboard) any { return d.DayCategory })))
	mux.Handle("GET /api/weather", s.api(s.aggregate(func(d *analysis.Dashboard) any { return d.Weather })))
	mux.Handle("GET /api/season", s.api(s.aggregate(func(d *analysis.Dashboard) any { return d.Season })))
	mux.Handle("GET /api/users", s.api(s.aggregate(func(d *analysis.Dashboard) any { return d.Users })))
	mux.Handle("GET /api/time-of-day", s.api(s.aggregate(func(d *analysis.Dashboard) any { return d.TimeOfDay })))
	mux.Handle("GET /api/correlation", s.api(s.aggregate(func(d *analysis.Dashboard) any { return d.Correlation })))
	mux.Handle("GET /api/bounds", s.api(s.handleAPIBounds))
	mux.Handle("GET /api/insight", s.api(s.handleAPIInsight))

	mux.HandleFunc("GET /charts/{file}", s.handleChart)
	mux.HandleFunc("GET /export.xlsx", s.handleExportXLSX)
	mux.HandleFunc("GET /export/day.parquet", s.handleExportDayParquet)
	mux.HandleFunc("GET /export/hour.parquet", s.handleExportHourParquet)

	return instrument(mux)
}

// api applies CORS to a JSON endpoint when origins are configured.
func (s *Server) api(h http.HandlerFunc) http.Handler {
	if s.cors == nil {
		return h
	}
	return s.cors.Handler(h)
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("api: listening on :%s", s.port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request counts and latency by matched route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
