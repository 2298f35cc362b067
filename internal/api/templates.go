package api

import (
	"embed"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates creates and parses the HTML templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		// query builds the range query string; both dates are already validated.
		"query": func(start, end string) template.URL {
			if start == "" || end == "" {
				return ""
			}
			return template.URL("?start=" + start + "&end=" + end)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
