package gui

import (
	"github.com/san-kum/tablesim/internal/palette"
	"github.com/san-kum/tablesim/internal/table"
)

const (
	StatusBarHeight = 24
	swatchSize      = 16
	swatchGap       = 4
)

type rect struct {
	X, Y, W, H float64
}

func (r rect) contains(p table.Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// swatchStrip lays the palette out in a row beside ball b, flipping to the
// left side when the right side would run off the table.
func swatchStrip(t table.Table, b table.Ball) []rect {
	n := float64(len(palette.Swatches))
	width := n*swatchSize + (n-1)*swatchGap

	x := b.Pos.X + b.Radius + 8
	if x+width > t.Width {
		x = b.Pos.X - b.Radius - 8 - width
	}
	if x < 0 {
		x = 0
	}
	y := b.Pos.Y - swatchSize/2
	if y < 0 {
		y = 0
	}
	if y+swatchSize > t.Height {
		y = t.Height - swatchSize
	}

	rects := make([]rect, len(palette.Swatches))
	for i := range rects {
		rects[i] = rect{X: x + float64(i)*(swatchSize+swatchGap), Y: y, W: swatchSize, H: swatchSize}
	}
	return rects
}

// swatchAt returns the swatch under p, or -1.
func swatchAt(rects []rect, p table.Vec2) int {
	for i, r := range rects {
		if r.contains(p) {
			return i
		}
	}
	return -1
}
