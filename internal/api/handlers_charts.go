package api

import (
	"net/http"
	"strings"

	"github.com/refanz/bikeshare/internal/analysis"
	"github.com/refanz/bikeshare/internal/render"
)

var chartTitles = map[string]string{
	"day-category": "Number of Bike Renters by Day Category",
	"weather":      "Number of Bike Renters by Weather",
	"season":       "Number of Bike Renters by Season",
	"time-of-day":  "Number of Bike Renters by Time",
}

func chartTotals(name string, d *analysis.Dashboard) []analysis.Total {
	switch name {
	case "day-category":
		return d.DayCategory
	case "weather":
		return d.Weather
	case "season":
		return d.Season
	case "time-of-day":
		return d.TimeOfDay
	}
	return nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	title, known := chartTitles[name]
	if !ok || !known {
		http.NotFound(w, r)
		return
	}

	v, err := s.loadView(r)
	if err != nil {
		writeError(w, err)
		return
	}

	key := name + "|" + v.Dashboard.Start + "|" + v.Dashboard.End
	data, cached := s.charts.Get(key)
	if !cached {
		totals := chartTotals(name, v.Dashboard)
		chart := render.BarChart{
			Title:     title + " (" + v.Dashboard.Start + " to " + v.Dashboard.End + ")",
			Bars:      chartBars(totals),
			Highlight: analysis.Highlight(totals),
		}
		data, err = chart.PNG()
		if err != nil {
			writeError(w, err)
			return
		}
		s.charts.Set(key, data)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(data)
}
