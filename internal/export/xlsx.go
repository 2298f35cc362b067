package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/refanz/bikeshare/internal/analysis"
)

const defaultSheet = "Sheet1"

// WriteWorkbook writes one sheet per aggregate of the dashboard.
func WriteWorkbook(w io.Writer, d *analysis.Dashboard) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{"Summary", []interface{}{"metric", "value"}, summaryRows(d)},
		{"Trend", []interface{}{"year_month", "cnt"}, trendRows(d.Trend)},
		{"Day Category", []interface{}{"day", "total"}, totalRows(d.DayCategory)},
		{"Weather", []interface{}{"weathersit", "cnt"}, totalRows(d.Weather)},
		{"Season", []interface{}{"season", "cnt"}, totalRows(d.Season)},
		{"Time of Day", []interface{}{"time_of_day", "cnt"}, totalRows(d.TimeOfDay)},
		{"Correlation", correlationHeader(d.Correlation), correlationRows(d.Correlation)},
	}

	for i, sh := range sheets {
		if i == 0 {
			// Reuse the default sheet so the summary opens first.
			if err := f.SetSheetName(defaultSheet, sh.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sh.name, err)
		}
		if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
			return fmt.Errorf("write %s header: %w", sh.name, err)
		}
		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			row := row
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", sh.name, r+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func summaryRows(d *analysis.Dashboard) [][]interface{} {
	return [][]interface{}{
		{"start", d.Start},
		{"end", d.End},
		{"total_rentals", d.Totals.Rentals},
		{"total_registered", d.Totals.Registered},
		{"total_casual", d.Totals.Casual},
		{"casual_share", d.Users.CasualShare},
		{"registered_share", d.Users.RegisteredShare},
	}
}

func trendRows(points []analysis.TrendPoint) [][]interface{} {
	rows := make([][]interface{}, 0, len(points))
	for _, p := range points {
		rows = append(rows, []interface{}{p.Label, p.Count})
	}
	return rows
}

func totalRows(totals []analysis.Total) [][]interface{} {
	rows := make([][]interface{}, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []interface{}{t.Label, t.Count})
	}
	return rows
}

func correlationHeader(m analysis.CorrelationMatrix) []interface{} {
	header := []interface{}{""}
	for _, c := range m.Columns {
		header = append(header, c)
	}
	return header
}

func correlationRows(m analysis.CorrelationMatrix) [][]interface{} {
	rows := make([][]interface{}, 0, len(m.Columns))
	for i, name := range m.Columns {
		row := []interface{}{name}
		for _, cell := range m.Cells[i] {
			if cell.Valid {
				row = append(row, cell.Value)
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}
