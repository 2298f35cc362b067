package api

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/refanz/bikeshare/internal/models"
)

func TestParseRange(t *testing.T) {
	d := func(s string) time.Time {
		t, _ := time.Parse(models.DateLayout, s)
		return t
	}
	bounds := models.DateRange{Start: d("2011-01-01"), End: d("2012-12-31")}

	tests := []struct {
		name      string
		query     string
		hasBounds bool
		want      string
		wantErr   bool
	}{
		{"defaults", "", true, "2011-01-01..2012-12-31", false},
		{"explicit", "start=2011-03-01&end=2011-03-31", true, "2011-03-01..2011-03-31", false},
		{"same day", "start=2012-02-29&end=2012-02-29", true, "2012-02-29..2012-02-29", false},
		{"start before bounds", "start=2010-01-01", true, "2011-01-01..2012-12-31", false},
		{"end after bounds", "end=2013-06-01", true, "2011-01-01..2012-12-31", false},
		{"both above bounds", "start=2013-01-01&end=2013-02-01", true, "2013-01-01..2013-02-01", false},
		{"both below bounds", "start=2010-01-01&end=2010-12-31", true, "2010-01-01..2010-12-31", false},
		{"touching the first day", "start=2010-01-01&end=2011-01-01", true, "2011-01-01..2011-01-01", false},
		{"no bounds keeps values", "start=2020-01-01&end=2020-01-02", false, "2020-01-01..2020-01-02", false},
		{"reversed", "start=2012-01-02&end=2012-01-01", true, "", true},
		{"bad start", "start=2011-13-01", true, "", true},
		{"bad end", "end=31-12-2012", true, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			b := bounds
			if !tt.hasBounds {
				b = models.DateRange{}
			}
			got, err := parseRange(q, b, tt.hasBounds)
			if tt.wantErr {
				if !errors.Is(err, errBadRange) {
					t.Errorf("err = %v, want errBadRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRange: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("parseRange = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHeatColor(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "#ffffff"},
		{1, "#ff4b4b"},
		{-1, "#4b4bff"},
		{5, "#ff4b4b"},
	}
	for _, tt := range tests {
		if got := heatColor(tt.v); got != tt.want {
			t.Errorf("heatColor(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
