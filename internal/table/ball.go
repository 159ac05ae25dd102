package table

import "fmt"

const (
	DefaultWidth  = 600.0
	DefaultHeight = 300.0
	DefaultRadius = 10.0
)

// Ball is one disc on the table.
type Ball struct {
	Pos    Vec2    `json:"pos"`
	Vel    Vec2    `json:"vel"`
	Radius float64 `json:"radius"`
	Color  Color   `json:"color"`
}

// Contains reports whether p lies strictly inside the ball.
func (b Ball) Contains(p Vec2) bool {
	return Distance(b.Pos, p) < b.Radius
}

// Speed returns the magnitude of the ball's velocity.
func (b Ball) Speed() float64 {
	return b.Vel.Magnitude()
}

func (b Ball) validate() error {
	if !(b.Radius > 0) {
		return fmt.Errorf("%w: radius %v", ErrInvalidBall, b.Radius)
	}
	if !b.Pos.IsFinite() || !b.Vel.IsFinite() {
		return fmt.Errorf("%w: %+v", ErrNonFinite, b)
	}
	return nil
}

// Table is the bounding rectangle the balls live in.
type Table struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background Color   `json:"background"`
}

func DefaultTable() Table {
	return Table{Width: DefaultWidth, Height: DefaultHeight, Background: Brown}
}

// DefaultBalls returns the three resting balls the toy starts with.
func DefaultBalls() []Ball {
	return []Ball{
		{Pos: Vec2{X: 100, Y: 150}, Radius: DefaultRadius, Color: Red},
		{Pos: Vec2{X: 200, Y: 150}, Radius: DefaultRadius, Color: Blue},
		{Pos: Vec2{X: 300, Y: 150}, Radius: DefaultRadius, Color: Green},
	}
}
