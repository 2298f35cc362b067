package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Accent and Muted are the bar colours: the largest bar is drawn in Accent.
var (
	Accent = color.RGBA{0x72, 0xBC, 0xD4, 0xFF}
	Muted  = color.RGBA{0xD3, 0xD3, 0xD3, 0xFF}
)

const (
	Width  = 800
	Height = 400

	padding   = 16
	titleRow  = 28
	labelCol  = 130
	valueCol  = 90
	barGap    = 8
	charWidth = 7 // basicfont.Face7x13 advance
)

var (
	background = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	textColor  = color.RGBA{0x33, 0x33, 0x33, 0xFF}
)

// Bar is one labelled value.
type Bar struct {
	Label string
	Value float64
}

// BarChart is a horizontal bar chart with the highlighted index in Accent.
type BarChart struct {
	Title     string
	Bars      []Bar
	Highlight int
}

// PNG draws the chart and encodes it.
func (c BarChart) PNG() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawText(img, c.Title, padding, padding+13, textColor, face)

	if len(c.Bars) > 0 {
		c.drawBars(img, face)
	} else {
		drawText(img, "no data for this range", padding, Height/2, textColor, face)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (c BarChart) drawBars(img *image.RGBA, face font.Face) {
	peak := 0.0
	for _, b := range c.Bars {
		if b.Value > peak {
			peak = b.Value
		}
	}

	top := padding + titleRow
	plotHeight := Height - top - padding
	rowHeight := plotHeight / len(c.Bars)
	barHeight := rowHeight - barGap
	if barHeight < 4 {
		barHeight = 4
	}
	plotWidth := Width - 2*padding - labelCol - valueCol

	for i, b := range c.Bars {
		y := top + i*rowHeight
		fill := Muted
		if i == c.Highlight {
			fill = Accent
		}

		w := 0
		if peak > 0 && b.Value > 0 {
			w = int(b.Value / peak * float64(plotWidth))
		}
		x0 := padding + labelCol
		rect := image.Rect(x0, y, x0+w, y+barHeight)
		draw.Draw(img, rect, image.NewUniform(fill), image.Point{}, draw.Src)

		baseline := y + barHeight/2 + 5
		drawText(img, truncate(b.Label, labelCol/charWidth-1), padding, baseline, textColor, face)
		drawText(img, FormatCount(b.Value), x0+w+6, baseline, textColor, face)
	}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "~"
}

// FormatCount renders a count with thousands separators.
func FormatCount(v float64) string {
	n := int64(v)
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
