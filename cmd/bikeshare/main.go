package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/refanz/bikeshare/internal/analysis"
	"github.com/refanz/bikeshare/internal/api"
	"github.com/refanz/bikeshare/internal/export"
	"github.com/refanz/bikeshare/internal/ingest"
	"github.com/refanz/bikeshare/internal/insight"
	"github.com/refanz/bikeshare/internal/models"
	"github.com/refanz/bikeshare/internal/store"
)

type Globals struct {
	DataDir string `default:"data" help:"Directory for the database and caches."`
	Day     string `default:"data/day.csv" help:"Day dataset: path, http(s):// or ftp:// URL."`
	Hour    string `default:"data/hour.csv" help:"Hour dataset: path, http(s):// or ftp:// URL."`
	DB      string `name:"db" default:"data/bikeshare.db" help:"Path to SQLite database."`
}

type ServeCmd struct {
	Port         string        `default:"8080" help:"HTTP server port."`
	ReloadEvery  time.Duration `default:"0" help:"Reload datasets on this interval (0 disables)."`
	CORSOrigin   []string      `name:"cors-origin" help:"Origin allowed to call /api/ (repeatable)."`
	InsightCache string        `default:"data/insights" help:"Directory for cached insight summaries."`
	InsightModel string        `default:"gpt-4o-mini" help:"OpenAI model used for insight summaries."`
	OpenAIKey    string        `name:"openai-api-key" env:"OPENAI_API_KEY" help:"Enables /api/insight."`
	NoWatch      bool          `help:"Do not watch local dataset files for changes."`
}

type LoadCmd struct{}

type ExportCmd struct {
	Start string `help:"First date (YYYY-MM-DD); defaults to the first loaded date."`
	End   string `help:"Last date (YYYY-MM-DD); defaults to the last loaded date."`
	Out   string `short:"o" default:"bikeshare.xlsx" help:"Output workbook path."`
}

type CLI struct {
	Globals

	Serve  ServeCmd  `cmd:"" default:"withargs" help:"Load the datasets and serve the dashboard."`
	Load   LoadCmd   `cmd:"" help:"Load the datasets once and exit."`
	Export ExportCmd `cmd:"" help:"Write the dashboard aggregates for a range to an xlsx workbook."`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: load .env: %v", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bikeshare"),
		kong.Description("Bike sharing dashboard over the day and hour rental datasets."),
		kong.DefaultEnvars("BIKESHARE"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}

func openStore(g *Globals) (*store.Store, *sql.DB, error) {
	if err := os.MkdirAll(g.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", g.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	log.Println("database migrated")
	return st, db, nil
}

func (c *LoadCmd) Run(g *Globals) error {
	st, db, err := openStore(g)
	if err != nil {
		return err
	}
	defer db.Close()

	loader := ingest.NewLoader(st, ingest.NewFetcher(), g.Day, g.Hour)
	results, err := loader.Load(context.Background())
	for _, res := range results {
		state := "loaded"
		if res.Unchanged {
			state = "unchanged"
		}
		fmt.Printf("%-5s %-10s %6d rows  %d flagged  %s\n", res.Dataset, state, res.Rows, res.Flagged, res.Source)
	}
	return err
}

func (c *ExportCmd) Run(g *Globals) error {
	st, db, err := openStore(g)
	if err != nil {
		return err
	}
	defer db.Close()

	bounds, ok, err := st.GetDateBounds()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no data loaded; run bikeshare load first")
	}
	rng := bounds
	if c.Start != "" {
		if rng.Start, err = time.Parse(models.DateLayout, c.Start); err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
	}
	if c.End != "" {
		if rng.End, err = time.Parse(models.DateLayout, c.End); err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
	}
	if rng.Start.After(rng.End) {
		return fmt.Errorf("start %s is after end %s", rng.Start.Format(models.DateLayout), rng.End.Format(models.DateLayout))
	}

	days, err := st.GetDayRecords(rng)
	if err != nil {
		return err
	}
	hours, err := st.GetHourRecords(rng)
	if err != nil {
		return err
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	if err := export.WriteWorkbook(f, analysis.Build(rng, days, hours)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %s (%s, %d days, %d hours)", c.Out, rng, len(days), len(hours))
	return nil
}

func (c *ServeCmd) Run(g *Globals) error {
	st, db, err := openStore(g)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loader := ingest.NewLoader(st, ingest.NewFetcher(), g.Day, g.Hour)
	if _, err := loader.Load(ctx); err != nil {
		// Serve whatever was loaded previously; /health reports empty datasets.
		log.Printf("initial load: %v", err)
	}

	cfg := api.Config{
		Port:        c.Port,
		CORSOrigins: c.CORSOrigin,
	}
	if gen, err := insight.NewGenerator(c.OpenAIKey, c.InsightModel); err != nil {
		log.Printf("insight: %v", err)
	} else {
		cfg.Insights = gen
		cfg.InsightCache = insight.NewCache(c.InsightCache, 7*24*time.Hour)
	}
	server := api.NewServer(st, cfg)
	loader.OnChange(server.Reloaded)

	var wg sync.WaitGroup

	if !c.NoWatch {
		var local []string
		day, hour := loader.Sources()
		for _, src := range []string{day, hour} {
			if !ingest.IsRemote(src) {
				local = append(local, src)
			}
		}
		if len(local) > 0 {
			watcher, err := ingest.NewWatcher(local, 2*time.Second, func() {
				if _, err := loader.Load(ctx); err != nil {
					log.Printf("watcher: reload: %v", err)
				}
			})
			if err != nil {
				log.Printf("watcher disabled: %v", err)
			} else {
				wg.Add(1)
				go func() {
					defer wg.Done()
					watcher.Run(ctx)
				}()
			}
		}
	}

	if c.ReloadEvery > 0 {
		scheduler := ingest.NewScheduler(loader, c.ReloadEvery)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := scheduler.Run(ctx); err != nil {
				log.Printf("scheduler: %v", err)
			}
		}()
	}

	err = server.Run(ctx)
	cancel()
	wg.Wait()
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Println("shutdown complete")
	return nil
}
