package sim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/table"
)

// Drag is a scripted mouse drag: press on the center of Ball, move by
// (DX, DY), release.
type Drag struct {
	Ball int
	DX   float64
	DY   float64
}

// ParseDrag reads the "ball:dx,dy" form used on the command line.
func ParseDrag(s string) (Drag, error) {
	idx, delta, ok := strings.Cut(s, ":")
	if !ok {
		return Drag{}, fmt.Errorf("%w: drag %q, want ball:dx,dy", ErrInvalidConfig, s)
	}
	xs, ys, ok := strings.Cut(delta, ",")
	if !ok {
		return Drag{}, fmt.Errorf("%w: drag %q, want ball:dx,dy", ErrInvalidConfig, s)
	}
	ball, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil {
		return Drag{}, fmt.Errorf("%w: drag ball %q", ErrInvalidConfig, idx)
	}
	dx, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Drag{}, fmt.Errorf("%w: drag dx %q", ErrInvalidConfig, xs)
	}
	dy, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Drag{}, fmt.Errorf("%w: drag dy %q", ErrInvalidConfig, ys)
	}
	return Drag{Ball: ball, DX: dx, DY: dy}, nil
}

func (d Drag) String() string {
	return fmt.Sprintf("%d:%g,%g", d.Ball, d.DX, d.DY)
}

type Config struct {
	Ticks int
	// SampleEvery keeps every n-th tick. The initial and final frames are
	// always kept.
	SampleEvery int
	Drags       []Drag
	// StopAtRest ends the run early once every ball has stopped.
	StopAtRest bool
}

// Frame is the table as it was after Tick steps.
type Frame struct {
	Tick  int          `json:"tick"`
	Balls []table.Ball `json:"balls"`
}

type Result struct {
	Frames     []Frame
	Ticks      int
	Collisions int
	Bounces    int
	Metrics    map[string]float64
}

// Final returns the last recorded frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

type Metric interface {
	Name() string
	Observe(balls []table.Ball, st physics.Stats)
	Value() float64
	Reset()
}

// Starter is implemented by metrics that need the table as it was before
// the first tick, after any scripted drags.
type Starter interface {
	Start(balls []table.Ball)
}

type Observer interface {
	OnTick(tick int, balls []table.Ball, st physics.Stats)
}
