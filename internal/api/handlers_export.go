package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/refanz/bikeshare/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	v, err := s.loadView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, v.Dashboard); err != nil {
		writeError(w, err)
		return
	}
	name := fmt.Sprintf("bikeshare_%s_%s.xlsx", v.Dashboard.Start, v.Dashboard.End)
	attachment(w, xlsxContentType, name, buf.Bytes())
}

func (s *Server) handleExportDayParquet(w http.ResponseWriter, r *http.Request) {
	v, err := s.loadView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteDayParquet(&buf, v.Days); err != nil {
		writeError(w, err)
		return
	}
	name := fmt.Sprintf("day_%s_%s.parquet", v.Dashboard.Start, v.Dashboard.End)
	attachment(w, "application/vnd.apache.parquet", name, buf.Bytes())
}

func (s *Server) handleExportHourParquet(w http.ResponseWriter, r *http.Request) {
	v, err := s.loadView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteHourParquet(&buf, v.Hours); err != nil {
		writeError(w, err)
		return
	}
	name := fmt.Sprintf("hour_%s_%s.parquet", v.Dashboard.Start, v.Dashboard.End)
	attachment(w, "application/vnd.apache.parquet", name, buf.Bytes())
}
