package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/tablesim/internal/table"
)

const halfBlock = "▀"

// Canvas is a grid of terminal cells, each holding two vertically stacked
// pixels drawn with an upper half block: the top pixel is the foreground,
// the bottom pixel the background. It implements render.Surface.
type Canvas struct {
	Cols, Rows int
	Pix        [][]table.Color // Rows*2 pixel rows of Cols pixels

	table table.Table
	sx    float64 // table units per pixel
	sy    float64
}

func NewCanvas(t table.Table, cols, rows int) *Canvas {
	c := &Canvas{
		Cols:  cols,
		Rows:  rows,
		Pix:   make([][]table.Color, rows*2),
		table: t,
		sx:    t.Width / float64(cols),
		sy:    t.Height / float64(rows*2),
	}
	for i := range c.Pix {
		c.Pix[i] = make([]table.Color, cols)
	}
	return c
}

// Set colors the pixel at (x, y); out of range pixels are ignored.
func (c *Canvas) Set(x, y int, col table.Color) {
	if x < 0 || y < 0 || x >= c.Cols || y >= len(c.Pix) {
		return
	}
	c.Pix[y][x] = col
}

func (c *Canvas) Clear() {
	for _, row := range c.Pix {
		for j := range row {
			row[j] = table.Color{}
		}
	}
}

func (c *Canvas) FillRect(x, y, w, h float64, col table.Color) {
	x0, y0 := int(x/c.sx), int(y/c.sy)
	x1, y1 := int((x+w)/c.sx), int((y+h)/c.sy)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.Set(px, py, col)
		}
	}
}

// FillCircle lights every pixel whose center falls inside the circle. A
// circle smaller than a pixel still lights the pixel holding its center.
func (c *Canvas) FillCircle(cx, cy, r float64, col table.Color) {
	x0, x1 := int((cx-r)/c.sx), int((cx+r)/c.sx)
	y0, y1 := int((cy-r)/c.sy), int((cy+r)/c.sy)
	hit := false
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			dx := (float64(px)+0.5)*c.sx - cx
			dy := (float64(py)+0.5)*c.sy - cy
			if dx*dx+dy*dy <= r*r {
				c.Set(px, py, col)
				hit = true
			}
		}
	}
	if !hit {
		c.Set(int(cx/c.sx), int(cy/c.sy), col)
	}
}

// DrawLine draws a line in table units using Bresenham's algorithm.
func (c *Canvas) DrawLine(from, to table.Vec2, col table.Color) {
	x0, y0 := int(from.X/c.sx), int(from.Y/c.sy)
	x1, y1 := int(to.X/c.sx), int(to.Y/c.sy)

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// CellToTable maps a terminal cell relative to the canvas origin to the
// table point at the cell's center.
func (c *Canvas) CellToTable(col, row int) (table.Vec2, bool) {
	if col < 0 || row < 0 || col >= c.Cols || row >= c.Rows {
		return table.Vec2{}, false
	}
	return table.Vec2{
		X: (float64(col) + 0.5) * c.sx,
		Y: (float64(row) + 0.5) * 2 * c.sy,
	}, true
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Rows; row++ {
		top, bottom := c.Pix[row*2], c.Pix[row*2+1]
		for col := 0; col < c.Cols; col++ {
			st := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top[col].String())).
				Background(lipgloss.Color(bottom[col].String()))
			b.WriteString(st.Render(halfBlock))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
