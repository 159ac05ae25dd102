// Package render paints the table and its balls onto a drawing surface.
package render

import "github.com/san-kum/tablesim/internal/table"

// Surface is anything that can show a frame. Coordinates are table units;
// surfaces scale to their own resolution.
type Surface interface {
	Clear()
	FillRect(x, y, w, h float64, c table.Color)
	FillCircle(cx, cy, r float64, c table.Color)
}

// Pass draws one frame. It only reads the balls it is given.
type Pass struct {
	Table table.Table
}

func NewPass(t table.Table) Pass {
	return Pass{Table: t}
}

func (p Pass) Draw(s Surface, balls []table.Ball) {
	s.Clear()
	s.FillRect(0, 0, p.Table.Width, p.Table.Height, p.Table.Background)
	for _, b := range balls {
		s.FillCircle(b.Pos.X, b.Pos.Y, b.Radius, b.Color)
	}
}

// DrawRegistry draws a snapshot of reg.
func (p Pass) DrawRegistry(s Surface, reg *table.Registry) {
	p.Draw(s, reg.Snapshot())
}
