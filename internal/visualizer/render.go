// Package visualizer renders audio sample data into RGBA frames, one frame
// per animation tick. The routines are pure pixel work with no UI toolkit
// dependency; the caller owns the canvas the frames end up on.
package visualizer

import (
	"image"
	"image/color"

	"github.com/pinkcrab/jukebox/internal/domain"
)

// BinCount is the number of sample values every render expects, matching an
// analyser configured with an FFT size of 256.
const BinCount = 128

// Layout constants for the bar modes.
const (
	classicBarCount = 32
	mirrorBarCount  = 32
	fireBarCount    = 48
)

// gradientStop is one color stop of a vertical bar gradient.
type gradientStop struct {
	pos float64
	col color.RGBA
}

// The bar palettes. Classic is the green-yellow-red spectrum look, mirror is
// the theme's pink pair, fire runs dark red up to white hot.
var (
	classicStops = []gradientStop{
		{0, color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}},
		{0.5, color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}},
		{1, color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}},
	}
	mirrorStops = []gradientStop{
		{0, color.RGBA{R: 0xe9, G: 0x45, B: 0x60, A: 0xff}},
		{1, color.RGBA{R: 0xff, G: 0x6b, B: 0x9d, A: 0xff}},
	}
	fireStops = []gradientStop{
		{0, color.RGBA{R: 0x33, G: 0x00, B: 0x00, A: 0xff}},
		{0.3, color.RGBA{R: 0xff, G: 0x33, B: 0x00, A: 0xff}},
		{0.6, color.RGBA{R: 0xff, G: 0x99, B: 0x00, A: 0xff}},
		{0.85, color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}},
		{1, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
	}

	scopeColor = color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
)

// Renderer draws visualizer frames at a fixed size. It is not safe for
// concurrent use; the frame loop is its only caller.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer producing frames of the given size.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// Render draws one frame for the mode from 8-bit sample data: frequency
// magnitudes for the bar modes, centered waveform samples for the
// oscilloscope. The off mode and empty data yield a blank frame.
func (r *Renderer) Render(mode domain.VizMode, data []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	if len(data) == 0 {
		return img
	}

	switch mode {
	case domain.VizBars:
		r.drawBars(img, data, classicBarCount, 2, r.height, classicStops)
	case domain.VizOscilloscope:
		r.drawOscilloscope(img, data)
	case domain.VizMirror:
		r.drawMirror(img, data)
	case domain.VizFire:
		r.drawBars(img, data, fireBarCount, 1, r.height, fireStops)
	}
	return img
}

// drawBars renders bottom-anchored spectrum bars with a vertical gradient.
// Silent bins draw nothing at all, matching the hard-cut look of the
// original skins rather than a resting baseline.
func (r *Renderer) drawBars(img *image.RGBA, data []byte, barCount, spacing int, maxHeight int, stops []gradientStop) {
	barWidth := r.width/barCount - spacing
	if barWidth < 1 {
		barWidth = 1
	}

	for i := 0; i < barCount; i++ {
		value := data[i*len(data)/barCount]
		if value == 0 {
			continue
		}

		barHeight := int(float64(value) / 255 * float64(maxHeight))
		x := i * (barWidth + spacing)
		for dy := 0; dy < barHeight; dy++ {
			t := float64(dy) / float64(maxHeight)
			col := gradientColor(stops, t)
			fillRow(img, x, r.height-1-dy, barWidth, col)
		}
	}
}

// drawOscilloscope renders the waveform as a connected polyline, closing
// with a run back to the vertical midpoint.
func (r *Renderer) drawOscilloscope(img *image.RGBA, data []byte) {
	sliceWidth := float64(r.width) / float64(len(data))

	prevX, prevY := 0.0, sampleY(data[0], r.height)
	for i := 1; i < len(data); i++ {
		x := float64(i) * sliceWidth
		y := sampleY(data[i], r.height)
		drawLine(img, prevX, prevY, x, y, 2, scopeColor)
		prevX, prevY = x, y
	}
	drawLine(img, prevX, prevY, float64(r.width), float64(r.height)/2, 2, scopeColor)
}

// drawMirror renders bars reflected about the vertical center, the bottom
// half at half intensity.
func (r *Renderer) drawMirror(img *image.RGBA, data []byte) {
	barWidth := r.width/mirrorBarCount - 2
	if barWidth < 1 {
		barWidth = 1
	}
	centerY := r.height / 2

	for i := 0; i < mirrorBarCount; i++ {
		value := data[i*len(data)/mirrorBarCount]
		if value == 0 {
			continue
		}

		barHeight := int(float64(value) / 255 * float64(centerY))
		x := i * (barWidth + 2)
		for dy := 0; dy < barHeight; dy++ {
			t := float64(dy) / float64(centerY)
			col := gradientColor(mirrorStops, t)
			fillRow(img, x, centerY-1-dy, barWidth, col)
			fillRow(img, x, centerY+dy, barWidth, dim(col))
		}
	}
}

// sampleY maps an 8-bit centered waveform sample to a y coordinate, with
// 128 landing on the vertical midpoint.
func sampleY(sample byte, height int) float64 {
	return float64(sample) / 128 * float64(height) / 2
}

// gradientColor interpolates between the stops at position t in [0,1].
func gradientColor(stops []gradientStop, t float64) color.RGBA {
	if t <= stops[0].pos {
		return stops[0].col
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].pos {
			span := stops[i].pos - stops[i-1].pos
			local := (t - stops[i-1].pos) / span
			return lerp(stops[i-1].col, stops[i].col, local)
		}
	}
	return stops[len(stops)-1].col
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 0xff,
	}
}

// dim halves a color's intensity, pre-multiplied for the transparent frame.
func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 0x80}
}

// fillRow fills a horizontal run of pixels with bounds clipping.
func fillRow(img *image.RGBA, x, y, width int, col color.RGBA) {
	bounds := img.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for dx := 0; dx < width; dx++ {
		px := x + dx
		if px >= bounds.Min.X && px < bounds.Max.X {
			img.Set(px, y, col)
		}
	}
}

// drawLine draws a stepped line with the given thickness.
func drawLine(img *image.RGBA, x1, y1, x2, y2 float64, thickness int, col color.RGBA) {
	bounds := img.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	steps := int(max(abs(dx), abs(dy))) + 1

	for i := 0; i <= steps; i++ {
		progress := float64(i) / float64(steps)
		px := int(x1 + dx*progress)
		py := int(y1 + dy*progress)

		for t := -thickness / 2; t <= thickness/2; t++ {
			y := py + t
			if px >= bounds.Min.X && px < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				img.Set(px, y, col)
			}
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
