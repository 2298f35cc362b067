package api

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/refanz/bikeshare/internal/analysis"
	"github.com/refanz/bikeshare/internal/models"
	"github.com/refanz/bikeshare/internal/render"
)

const (
	accentColor = "#72BCD4"
	mutedColor  = "#D3D3D3"
	trendColor  = "#90CAF9"
)

// IndexData is everything the dashboard page renders.
type IndexData struct {
	Dashboard *analysis.Dashboard
	Start     string
	End       string
	MinDate   string
	MaxDate   string
	HasData   bool
	Metrics   []Metric
	Charts    ChartSet
	ChartJSON string
	Pie       []PieSlice
	Heatmap   Heatmap
	Caption   string

	InsightEnabled bool
}

// Metric is one headline number.
type Metric struct {
	Label string
	Value string
}

// ChartSet is serialised into the page for Chart.js.
type ChartSet struct {
	Trend       LineChart `json:"trend"`
	DayCategory BarChart  `json:"day_category"`
	Weather     BarChart  `json:"weather"`
	Season      BarChart  `json:"season"`
	TimeOfDay   BarChart  `json:"time_of_day"`
	Users       PieChart  `json:"users"`
}

type LineChart struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
	Color  string   `json:"color"`
}

type BarChart struct {
	Labels     []string `json:"labels"`
	Data       []int    `json:"data"`
	Colors     []string `json:"colors"`
	Horizontal bool     `json:"horizontal"`
}

type PieChart struct {
	Labels []string  `json:"labels"`
	Data   []int     `json:"data"`
	Shares []float64 `json:"shares"`
}

type PieSlice struct {
	Label   string
	Count   string
	Percent string
}

type Heatmap struct {
	Columns []string
	Rows    []HeatmapRow
}

type HeatmapRow struct {
	Name  string
	Cells []HeatmapCell
}

type HeatmapCell struct {
	Text  string
	Color string
}

func newIndexData(d *analysis.Dashboard, bounds models.DateRange, hasData bool) IndexData {
	data := IndexData{
		Dashboard: d,
		HasData:   hasData,
		Caption:   "Copyright (c) Refanz 2025",
	}
	if hasData {
		data.MinDate = bounds.Start.Format(models.DateLayout)
		data.MaxDate = bounds.End.Format(models.DateLayout)
	}
	if d == nil {
		return data
	}
	if hasData {
		data.Start = d.Start
		data.End = d.End
	}

	data.Metrics = []Metric{
		{Label: "Total rentals", Value: render.FormatCount(float64(d.Totals.Rentals))},
		{Label: "Total registered users", Value: render.FormatCount(float64(d.Totals.Registered))},
		{Label: "Total casual users", Value: render.FormatCount(float64(d.Totals.Casual))},
	}
	data.Charts = newChartSet(d)
	if b, err := json.Marshal(data.Charts); err == nil {
		data.ChartJSON = string(b)
	}
	data.Pie = []PieSlice{
		{Label: "casual", Count: render.FormatCount(float64(d.Users.Casual)), Percent: percent(d.Users.CasualShare)},
		{Label: "registered", Count: render.FormatCount(float64(d.Users.Registered)), Percent: percent(d.Users.RegisteredShare)},
	}
	data.Heatmap = newHeatmap(d.Correlation)
	return data
}

func newChartSet(d *analysis.Dashboard) ChartSet {
	trend := LineChart{Labels: []string{}, Data: []int{}, Color: trendColor}
	for _, p := range d.Trend {
		trend.Labels = append(trend.Labels, p.Label)
		trend.Data = append(trend.Data, p.Count)
	}
	return ChartSet{
		Trend:       trend,
		DayCategory: newBarChart(d.DayCategory, false),
		Weather:     newBarChart(d.Weather, true),
		Season:      newBarChart(d.Season, false),
		TimeOfDay:   newBarChart(d.TimeOfDay, true),
		Users: PieChart{
			Labels: []string{"casual", "registered"},
			Data:   []int{d.Users.Casual, d.Users.Registered},
			Shares: []float64{d.Users.CasualShare, d.Users.RegisteredShare},
		},
	}
}

func newBarChart(totals []analysis.Total, horizontal bool) BarChart {
	c := BarChart{
		Labels:     make([]string, 0, len(totals)),
		Data:       make([]int, 0, len(totals)),
		Colors:     make([]string, 0, len(totals)),
		Horizontal: horizontal,
	}
	hi := analysis.Highlight(totals)
	for i, t := range totals {
		c.Labels = append(c.Labels, t.Label)
		c.Data = append(c.Data, t.Count)
		if i == hi {
			c.Colors = append(c.Colors, accentColor)
		} else {
			c.Colors = append(c.Colors, mutedColor)
		}
	}
	return c
}

func percent(share float64) string {
	return fmt.Sprintf("%.1f%%", share*100)
}

func newHeatmap(m analysis.CorrelationMatrix) Heatmap {
	h := Heatmap{Columns: m.Columns}
	for i, name := range m.Columns {
		row := HeatmapRow{Name: name}
		for _, c := range m.Cells[i] {
			if !c.Valid {
				row.Cells = append(row.Cells, HeatmapCell{Text: "n/a", Color: "#f5f5f5"})
				continue
			}
			row.Cells = append(row.Cells, HeatmapCell{Text: fmt.Sprintf("%.2f", c.Value), Color: heatColor(c.Value)})
		}
		h.Rows = append(h.Rows, row)
	}
	return h
}

// heatColor maps -1..1 onto a blue-white-red ramp.
func heatColor(v float64) string {
	v = math.Max(-1, math.Min(1, v))
	if v >= 0 {
		g := uint8(255 - v*180)
		return fmt.Sprintf("#ff%02x%02x", g, g)
	}
	g := uint8(255 + v*180)
	return fmt.Sprintf("#%02x%02xff", g, g)
}

// chartBars converts totals for the PNG renderer.
func chartBars(totals []analysis.Total) []render.Bar {
	bars := make([]render.Bar, len(totals))
	for i, t := range totals {
		bars[i] = render.Bar{Label: t.Label, Value: float64(t.Count)}
	}
	return bars
}
