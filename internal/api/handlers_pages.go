package api

import (
	"bytes"
	"log"
	"net/http"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, "index.html")
}

func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, "dashboard.html")
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, name string) {
	v, err := s.loadView(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data := newIndexData(v.Dashboard, v.Bounds, v.HasData)
	data.InsightEnabled = s.insights != nil

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("api: template %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
