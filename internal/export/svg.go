package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/tablesim/internal/render"
	"github.com/san-kum/tablesim/internal/sim"
	"github.com/san-kum/tablesim/internal/table"
)

// SVG is a render.Surface that builds an SVG document in table units.
type SVG struct {
	width, height float64
	body          strings.Builder
}

var _ render.Surface = (*SVG)(nil)

func NewSVG(t table.Table) *SVG {
	return &SVG{width: t.Width, height: t.Height}
}

func (s *SVG) Clear() {
	s.body.Reset()
}

func (s *SVG) FillRect(x, y, w, h float64, c table.Color) {
	fmt.Fprintf(&s.body, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, x, y, w, h, c)
}

func (s *SVG) FillCircle(cx, cy, r float64, c table.Color) {
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, r, c)
}

// Polyline adds an unfilled path through points.
func (s *SVG) Polyline(points []table.Vec2, c table.Color) {
	if len(points) < 2 {
		return
	}
	var sb strings.Builder
	for i, p := range points {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", p.X, p.Y)
	}
	fmt.Fprintf(&s.body, `<polyline fill="none" stroke="%s" stroke-width="1.5" stroke-opacity="0.6" points="%s"/>
`, c, sb.String())
}

func (s *SVG) String() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
%s</svg>`, s.width, s.height, s.width, s.height, s.body.String())
}

// FrameToSVG renders a single frame.
func FrameToSVG(t table.Table, balls []table.Ball) string {
	s := NewSVG(t)
	render.NewPass(t).Draw(s, balls)
	return s.String()
}

// TrajectoryToSVG renders the last frame with each ball's path across all
// frames drawn underneath it.
func TrajectoryToSVG(t table.Table, frames []sim.Frame) string {
	if len(frames) == 0 {
		return ""
	}
	final := frames[len(frames)-1].Balls

	s := NewSVG(t)
	s.Clear()
	s.FillRect(0, 0, t.Width, t.Height, t.Background)
	for i, b := range final {
		path := make([]table.Vec2, 0, len(frames))
		for _, f := range frames {
			if i < len(f.Balls) {
				path = append(path, f.Balls[i].Pos)
			}
		}
		s.Polyline(path, b.Color)
	}
	for _, b := range final {
		s.FillCircle(b.Pos.X, b.Pos.Y, b.Radius, b.Color)
	}
	return s.String()
}
