// Package palette implements the color option panel shown for a
// right-clicked ball.
package palette

import (
	"errors"
	"fmt"

	"github.com/san-kum/tablesim/internal/table"
)

// ErrClosed is returned when editing a panel that is not open.
var ErrClosed = errors.New("palette: panel is closed")

// Swatches are the quick-pick colors both frontends offer.
var Swatches = []table.Color{
	table.MustParseColor("#FF0000"),
	table.MustParseColor("#FF8800"),
	table.MustParseColor("#FFFF00"),
	table.MustParseColor("#008000"),
	table.MustParseColor("#00FFFF"),
	table.MustParseColor("#0000FF"),
	table.MustParseColor("#FF00FF"),
	table.MustParseColor("#FFFFFF"),
	table.MustParseColor("#000000"),
}

// Panel edits the color of one ball. Every edit is written to the registry
// immediately; there is no cancel.
type Panel struct {
	reg    *table.Registry
	open   bool
	target int
	value  table.Color
}

func New(reg *table.Registry) *Panel {
	return &Panel{reg: reg, target: -1}
}

// Open targets ball i and loads its current color as the editable value.
func (p *Panel) Open(i int) error {
	b, err := p.reg.At(i)
	if err != nil {
		return err
	}
	p.open = true
	p.target = i
	p.value = b.Color
	return nil
}

func (p *Panel) IsOpen() bool { return p.open }

// Target returns the index the panel is editing.
func (p *Panel) Target() (int, bool) {
	return p.target, p.open
}

func (p *Panel) Value() table.Color { return p.value }

// Set makes c the panel value and the target ball's color.
func (p *Panel) Set(c table.Color) error {
	if !p.open {
		return ErrClosed
	}
	if err := p.reg.SetColor(p.target, c); err != nil {
		return fmt.Errorf("set color: %w", err)
	}
	p.value = c
	return nil
}

// SetHex parses s as #RRGGBB or #RGB and applies it.
func (p *Panel) SetHex(s string) error {
	if !p.open {
		return ErrClosed
	}
	c, err := table.ParseColor(s)
	if err != nil {
		return err
	}
	return p.Set(c)
}

// Blur closes the panel and clears the target.
func (p *Panel) Blur() {
	p.open = false
	p.target = -1
}

// SwatchIndex returns the position of the current value in Swatches, or -1.
func (p *Panel) SwatchIndex() int {
	for i, s := range Swatches {
		if s == p.value {
			return i
		}
	}
	return -1
}

// Cycle moves the value dir steps through Swatches, wrapping around, and
// applies it. A value that is not a swatch starts from the first entry.
func (p *Panel) Cycle(dir int) error {
	if !p.open {
		return ErrClosed
	}
	n := len(Swatches)
	i := p.SwatchIndex()
	if i < 0 {
		i = 0
	} else {
		i = ((i+dir)%n + n) % n
	}
	return p.Set(Swatches[i])
}
