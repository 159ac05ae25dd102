// Package pointer turns raw mouse events into selection state and velocity
// impulses.
//
// The controller is a small state machine:
//
//	Idle -> Hovering(i) -> Dragging(i, anchor) -> Idle
//
// with a secondary-button press on a hovered ball handed to a [MenuOpener].
// Only Release leaves Dragging; moving off the ball does not cancel a drag.
package pointer

import (
	"github.com/san-kum/tablesim/internal/table"
)

// DefaultImpulseScale converts a drag delta in table units to a velocity in
// table units per tick.
const DefaultImpulseScale = 0.05

type Mode int

const (
	Idle Mode = iota
	Hovering
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

type Button int

const (
	Primary Button = iota
	Secondary
)

type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
)

// MenuOpener is told which ball a context gesture landed on.
type MenuOpener interface {
	Open(index int) error
}

type Controller struct {
	reg     *table.Registry
	menu    MenuOpener
	impulse float64

	mode     Mode
	hovered  int
	selected int
	anchor   table.Vec2
	pointer  table.Vec2
}

// New returns an idle controller. menu may be nil, in which case context
// gestures are ignored.
func New(reg *table.Registry, menu MenuOpener, impulseScale float64) *Controller {
	return &Controller{
		reg:      reg,
		menu:     menu,
		impulse:  impulseScale,
		hovered:  -1,
		selected: -1,
	}
}

func (c *Controller) Mode() Mode { return c.mode }

// Hovered returns the ball under the pointer as of the last event.
func (c *Controller) Hovered() (int, bool) {
	return c.hovered, c.hovered >= 0
}

// Selected returns the ball being dragged.
func (c *Controller) Selected() (int, bool) {
	return c.selected, c.mode == Dragging
}

// Anchor returns the drag start point; only meaningful while dragging.
func (c *Controller) Anchor() table.Vec2 { return c.anchor }

// Pointer returns the last pointer position seen.
func (c *Controller) Pointer() table.Vec2 { return c.pointer }

func (c *Controller) Cursor() Cursor {
	if c.mode == Idle {
		return CursorDefault
	}
	return CursorPointer
}

// Move handles a pointer move to (x, y). While dragging, the selected ball's
// velocity is overwritten with the scaled delta from the anchor. A
// non-finite velocity is rejected by the registry and the error returned;
// the ball keeps its previous velocity.
func (c *Controller) Move(x, y float64) error {
	c.pointer = table.Vec2{X: x, Y: y}
	c.hover()

	if c.mode != Dragging {
		return nil
	}
	v := c.pointer.Minus(c.anchor).Times(c.impulse)
	return c.reg.SetVelocity(c.selected, v)
}

// Press handles a button press at (x, y). It reports whether the gesture
// was consumed; a consumed secondary press should suppress any frontend
// context menu.
func (c *Controller) Press(b Button, x, y float64) bool {
	c.pointer = table.Vec2{X: x, Y: y}
	c.hover()
	if c.hovered < 0 {
		return false
	}

	switch b {
	case Primary:
		c.mode = Dragging
		c.selected = c.hovered
		c.anchor = c.pointer
		return true
	case Secondary:
		if c.mode == Dragging || c.menu == nil {
			return false
		}
		return c.menu.Open(c.hovered) == nil
	}
	return false
}

// Release ends any drag. The velocity set by the last move stands.
func (c *Controller) Release() {
	c.selected = -1
	c.anchor = table.Vec2{}
	c.mode = Idle
	if c.hovered >= 0 {
		c.mode = Hovering
	}
}

// Reset drops all pointer state, e.g. after the table was reset.
func (c *Controller) Reset() {
	c.mode = Idle
	c.hovered = -1
	c.selected = -1
	c.anchor = table.Vec2{}
}

func (c *Controller) hover() {
	idx, ok := c.reg.HitTest(c.pointer)
	if !ok {
		idx = -1
	}
	c.hovered = idx
	if c.mode == Dragging {
		return
	}
	if ok {
		c.mode = Hovering
	} else {
		c.mode = Idle
	}
}
