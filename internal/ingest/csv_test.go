package ingest

import (
	"errors"
	"strings"
	"testing"
)

const dayHeader = "instant,dteday,season,yr,mnth,holiday,weekday,workingday,weathersit,temp,atemp,hum,windspeed,casual,registered,cnt\n"

const dayCSV = dayHeader +
	"1,2011-01-01,1,0,1,0,6,0,2,0.344167,0.363625,0.805833,0.160446,331,654,985\n" +
	"2,2011-01-02,1,0,1,0,0,0,2,0.363478,0.353739,0.696087,0.248539,131,670,801\n" +
	"3,2011-01-03,1,0,1,0,1,1,1,0.196364,0.189405,0.437273,0.248309,120,1229,1349\n"

const hourHeader = "instant,dteday,season,yr,mnth,hr,holiday,weekday,workingday,weathersit,temp,atemp,hum,windspeed,casual,registered,cnt\n"

const hourCSV = hourHeader +
	"1,2011-01-01,1,0,1,0,0,6,0,1,0.24,0.2879,0.81,0,3,13,16\n" +
	"2,2011-01-01,1,0,1,1,0,6,0,1,0.22,0.2727,0.8,0,8,32,40\n" +
	"3,2011-01-01,1,0,1,2,0,6,0,1,0.22,0.2727,0.8,0,5,27,32\n"

func TestParseDayCSV(t *testing.T) {
	records, err := ParseDayCSV(strings.NewReader(dayCSV))
	if err != nil {
		t.Fatalf("ParseDayCSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	r := records[2]
	if r.Instant != 3 || r.WorkingDay != 1 || r.Weather != 1 {
		t.Errorf("record 3 = %+v", r)
	}
	if r.Casual != 120 || r.Registered != 1229 || r.Count != 1349 {
		t.Errorf("counts = %d/%d/%d, want 120/1229/1349", r.Casual, r.Registered, r.Count)
	}
	if got := r.Date.Format("2006-01-02"); got != "2011-01-03" {
		t.Errorf("Date = %s, want 2011-01-03", got)
	}
	if r.Temp != 0.196364 {
		t.Errorf("Temp = %v, want 0.196364", r.Temp)
	}
}

func TestParseDayCSV_ColumnOrderIndependent(t *testing.T) {
	csv := "cnt,registered,casual,windspeed,hum,atemp,temp,weathersit,workingday,weekday,holiday,mnth,yr,season,dteday,instant\n" +
		"985,654,331,0.160446,0.805833,0.363625,0.344167,2,0,6,0,1,0,1,2011-01-01,1\n"
	records, err := ParseDayCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseDayCSV: %v", err)
	}
	if len(records) != 1 || records[0].Count != 985 || records[0].Season != 1 {
		t.Errorf("records = %+v", records)
	}
}

func TestParseHourCSV(t *testing.T) {
	records, err := ParseHourCSV(strings.NewReader(hourCSV))
	if err != nil {
		t.Fatalf("ParseHourCSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	for i, r := range records {
		if r.Hour != i {
			t.Errorf("records[%d].Hour = %d, want %d", i, r.Hour, i)
		}
	}
	if records[1].Count != 40 {
		t.Errorf("records[1].Count = %d, want 40", records[1].Count)
	}
}

func TestParseCSV_MissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		parse   func(string) error
		csv     string
		wantErr string
	}{
		{
			name:    "day without cnt",
			parse:   func(s string) error { _, err := ParseDayCSV(strings.NewReader(s)); return err },
			csv:     "instant,dteday,season,yr,mnth,holiday,weekday,workingday,weathersit,temp,atemp,hum,windspeed,casual,registered\n1,2011-01-01,1,0,1,0,6,0,2,0.3,0.3,0.8,0.1,331,654\n",
			wantErr: "cnt",
		},
		{
			name:    "hour csv without hr",
			parse:   func(s string) error { _, err := ParseHourCSV(strings.NewReader(s)); return err },
			csv:     dayCSV,
			wantErr: "hr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(tt.csv)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "missing columns") || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want missing column %s", err, tt.wantErr)
			}
		})
	}
}

func TestParseDayCSV_InvalidDate(t *testing.T) {
	csv := dayHeader +
		"1,2011-01-01,1,0,1,0,6,0,2,0.344167,0.363625,0.805833,0.160446,331,654,985\n" +
		"2,01/02/2011,1,0,1,0,0,0,2,0.363478,0.353739,0.696087,0.248539,131,670,801\n"
	_, err := ParseDayCSV(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for malformed dteday")
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("error = %q, want it to name row 3", err)
	}
}

func TestParseDayCSV_NonNumericCount(t *testing.T) {
	csv := dayHeader +
		"1,2011-01-01,1,0,1,0,6,0,2,0.344167,0.363625,0.805833,0.160446,331,654,lots\n"
	if _, err := ParseDayCSV(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for non-numeric cnt")
	}
}

func TestParseDayCSV_NonNumericReading(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{"blank temp", "1,2011-01-01,1,0,1,0,6,0,2,,0.363625,0.805833,0.160446,331,654,985\n", "row 2: invalid temp"},
		{"text humidity", "1,2011-01-01,1,0,1,0,6,0,2,0.344167,0.363625,abc,0.160446,331,654,985\n", "row 2: invalid hum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDayCSV(strings.NewReader(dayHeader + tt.row))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	for _, csv := range []string{"", dayHeader, dayHeader + "\n\n"} {
		if _, err := ParseDayCSV(strings.NewReader(csv)); !errors.Is(err, ErrNoRows) {
			t.Errorf("ParseDayCSV(%q) error = %v, want ErrNoRows", csv, err)
		}
	}
	if _, err := ParseHourCSV(strings.NewReader(hourHeader)); !errors.Is(err, ErrNoRows) {
		t.Errorf("ParseHourCSV error = %v, want ErrNoRows", err)
	}
}
