package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{3292679, "3,292,679"},
		{-12345, "-12,345"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBarChartPNG(t *testing.T) {
	tests := []struct {
		name  string
		chart BarChart
	}{
		{
			name: "bars",
			chart: BarChart{
				Title:     "Rentals by season",
				Bars:      []Bar{{"spring", 471348}, {"summer", 918589}, {"fall", 1061129}, {"winter", 841613}},
				Highlight: 2,
			},
		},
		{
			name:  "empty",
			chart: BarChart{Title: "Rentals by weather", Highlight: -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.chart.PNG()
			if err != nil {
				t.Fatalf("PNG: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), Width, Height)
			}
		})
	}
}

func TestBarChartPNG_HighlightColour(t *testing.T) {
	chart := BarChart{Bars: []Bar{{"a", 10}, {"b", 5}}, Highlight: 0}
	data, err := chart.PNG()
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Sample just inside the start of the first bar.
	x, y := padding+labelCol+2, padding+titleRow+2
	r, g, b, _ := img.At(x, y).RGBA()
	if uint8(r>>8) != Accent.R || uint8(g>>8) != Accent.G || uint8(b>>8) != Accent.B {
		t.Errorf("pixel at %d,%d = %02x%02x%02x, want accent", x, y, r>>8, g>>8, b>>8)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("light rain/snow", 8); got != "light r~" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("noon", 8); got != "noon" {
		t.Errorf("truncate = %q", got)
	}
}

func TestCache(t *testing.T) {
	c := NewCache(time.Hour, 8)
	if _, ok := c.Get("weather"); ok {
		t.Fatal("empty cache returned a hit")
	}
	c.Set("weather", []byte("png"))
	if data, ok := c.Get("weather"); !ok || string(data) != "png" {
		t.Errorf("Get = %q, %v", data, ok)
	}
	c.Purge()
	if _, ok := c.Get("weather"); ok {
		t.Error("hit after Purge")
	}

	expired := NewCache(-time.Second, 8)
	expired.Set("k", []byte("v"))
	if _, ok := expired.Get("k"); ok {
		t.Error("expired entry returned")
	}
	if n := expired.Len(); n != 0 {
		t.Errorf("Len after expired Get = %d, want 0", n)
	}
}

func TestCache_SweepsExpiredOnSet(t *testing.T) {
	c := NewCache(-time.Second, 8)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, []byte(k))
	}
	// Each Set sweeps the entries already expired, leaving only the newest.
	if n := c.Len(); n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}
}

func TestCache_EvictsAtCapacity(t *testing.T) {
	c := NewCache(time.Hour, 2)
	c.Set("a", []byte("1"))
	time.Sleep(time.Millisecond)
	c.Set("b", []byte("2"))
	time.Sleep(time.Millisecond)
	c.Set("c", []byte("3"))

	if n := c.Len(); n != 2 {
		t.Fatalf("Len = %d, want 2", n)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry survived eviction")
	}
	for _, k := range []string{"b", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("entry %s evicted", k)
		}
	}

	c.Set("b", []byte("4"))
	if n := c.Len(); n != 2 {
		t.Errorf("Len after overwrite = %d, want 2", n)
	}
}
