package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/tablesim/internal/table"
)

// screen draws straight into the raylib backbuffer. The window is opened at
// table size so one table unit is one pixel.
type screen struct{}

func toRL(c table.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, 255)
}

func (screen) Clear() {
	rl.ClearBackground(ColBg)
}

func (screen) FillRect(x, y, w, h float64, c table.Color) {
	rl.DrawRectangle(int32(x), int32(y), int32(w), int32(h), toRL(c))
}

func (screen) FillCircle(cx, cy, r float64, c table.Color) {
	rl.DrawCircleV(rl.NewVector2(float32(cx), float32(cy)), float32(r), toRL(c))
}
