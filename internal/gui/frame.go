package gui

import (
	"fmt"
	"os"

	"github.com/san-kum/tablesim/internal/palette"
	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/pointer"
	"github.com/san-kum/tablesim/internal/table"
)

// Input is the pointer state sampled for one frame.
type Input struct {
	X, Y float64
	// Moved is set when the pointer position differs from the previous
	// frame. A drag impulse is only re-applied on movement.
	Moved bool

	PrimaryPressed   bool
	SecondaryPressed bool
	PrimaryReleased  bool
}

// Frame applies one frame of pointer input and, if running, advances the
// table by one tick. It returns the tick's stats.
func (a *App) Frame(in Input) physics.Stats {
	a.applyPointer(in)

	if !a.Running {
		return physics.Stats{}
	}
	st := a.Stepper.Step(a.Reg)
	a.Ticks++
	a.Last = st
	a.Total.Collisions += st.Collisions
	a.Total.Bounces += st.Bounces
	if st.MaxImpact > a.Total.MaxImpact {
		a.Total.MaxImpact = st.MaxImpact
	}
	if st.MaxBounce > a.Total.MaxBounce {
		a.Total.MaxBounce = st.MaxBounce
	}

	if st.Collisions > 0 {
		a.Audio.Click(st.MaxImpact)
	}
	if st.Bounces > 0 {
		a.Audio.Thump(st.MaxBounce)
	}
	return st
}

func (a *App) applyPointer(in Input) {
	p := table.Vec2{X: in.X, Y: in.Y}

	if in.Moved {
		if err := a.Ctrl.Move(in.X, in.Y); err != nil {
			fmt.Fprintf(os.Stderr, "pointer: %v\n", err)
		}
	}

	if in.PrimaryPressed {
		if a.Panel.IsOpen() {
			if i := a.swatchUnder(p); i >= 0 {
				if err := a.Panel.Set(palette.Swatches[i]); err != nil {
					fmt.Fprintf(os.Stderr, "palette: %v\n", err)
				}
				return
			}
			a.Panel.Blur()
		}
		a.Ctrl.Press(pointer.Primary, in.X, in.Y)
	}
	if in.SecondaryPressed {
		if !a.Ctrl.Press(pointer.Secondary, in.X, in.Y) {
			a.Panel.Blur()
		}
	}
	if in.PrimaryReleased {
		a.Ctrl.Release()
	}
}
