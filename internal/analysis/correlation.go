package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/refanz/bikeshare/internal/models"
)

// CorrelationColumns are the hourly readings compared against rentals.
var CorrelationColumns = []string{"temp", "atemp", "hum", "windspeed", "cnt"}

// Cell is one correlation coefficient. Valid is false when the coefficient
// is undefined, e.g. a column with no variance.
type Cell struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

type CorrelationMatrix struct {
	Columns []string `json:"columns"`
	Cells   [][]Cell `json:"cells"`
}

// At returns the cell for a pair of column names.
func (m CorrelationMatrix) At(row, col string) (Cell, bool) {
	i, j := indexOf(m.Columns, row), indexOf(m.Columns, col)
	if i < 0 || j < 0 {
		return Cell{}, false
	}
	return m.Cells[i][j], true
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}

func hourColumn(h models.HourRecord, name string) float64 {
	switch name {
	case "temp":
		return h.Temp
	case "atemp":
		return h.ATemp
	case "hum":
		return h.Humidity
	case "windspeed":
		return h.WindSpeed
	case "cnt":
		return float64(h.Count)
	}
	return math.NaN()
}

// Correlation computes the Pearson correlation matrix of CorrelationColumns.
func Correlation(hours []models.HourRecord) CorrelationMatrix {
	cols := make([][]float64, len(CorrelationColumns))
	for i, name := range CorrelationColumns {
		cols[i] = make([]float64, len(hours))
		for j, h := range hours {
			cols[i][j] = hourColumn(h, name)
		}
	}

	m := CorrelationMatrix{
		Columns: append([]string(nil), CorrelationColumns...),
		Cells:   make([][]Cell, len(cols)),
	}
	for i := range cols {
		m.Cells[i] = make([]Cell, len(cols))
	}
	if len(hours) < 2 {
		return m
	}

	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := stat.Correlation(cols[i], cols[j], nil)
			c := Cell{Value: r, Valid: !math.IsNaN(r) && !math.IsInf(r, 0)}
			if !c.Valid {
				c.Value = 0
			}
			m.Cells[i][j] = c
			m.Cells[j][i] = c
		}
	}
	return m
}
