package physics

import "github.com/san-kum/tablesim/internal/table"

const (
	DefaultFriction    = 0.99
	DefaultRestEpsilon = 1e-3
)

// Stats summarizes what happened during one tick.
type Stats struct {
	Collisions int
	Bounces    int
	// MaxImpact is the largest relative speed of a colliding pair, measured
	// before the velocities were exchanged.
	MaxImpact float64
	// MaxBounce is the largest speed of a ball that hit a wall, measured
	// before the bounce.
	MaxBounce float64
}

func (s *Stats) add(o Stats) {
	s.Collisions += o.Collisions
	s.Bounces += o.Bounces
	if o.MaxImpact > s.MaxImpact {
		s.MaxImpact = o.MaxImpact
	}
	if o.MaxBounce > s.MaxBounce {
		s.MaxBounce = o.MaxBounce
	}
}

// Stepper advances the table by one frame. There is no timestep: velocities
// are in table units per tick.
type Stepper struct {
	Width    float64
	Height   float64
	Friction float64
	// RestEpsilon snaps velocity components smaller than it to zero so that
	// friction actually stops a ball. Zero disables snapping.
	RestEpsilon float64
}

func NewStepper(t table.Table) *Stepper {
	return &Stepper{
		Width:       t.Width,
		Height:      t.Height,
		Friction:    DefaultFriction,
		RestEpsilon: DefaultRestEpsilon,
	}
}

// Step advances every ball in reg as one atomic update.
func (s *Stepper) Step(reg *table.Registry) Stats {
	var st Stats
	reg.Mutate(func(balls []table.Ball) {
		st = s.StepBalls(balls)
	})
	return st
}

// StepBalls advances balls in place. Each ball is integrated, checked against
// every other ball, bounced off the walls and slowed by friction before the
// next ball is visited, so later balls see earlier balls' new positions.
func (s *Stepper) StepBalls(balls []table.Ball) Stats {
	var st Stats
	for i := range balls {
		b := &balls[i]
		b.Pos = b.Pos.Plus(b.Vel)

		for j := range balls {
			if j == i {
				continue
			}
			if impact, hit := collide(b, &balls[j]); hit {
				st.add(Stats{Collisions: 1, MaxImpact: impact})
			}
		}

		speed := b.Speed()
		if n := s.bounce(b); n > 0 {
			st.add(Stats{Bounces: n, MaxBounce: speed})
		}
		s.applyFriction(b)
	}
	return st
}

// collide swaps velocities of two overlapping balls and pushes them apart
// along the line between their centers. o's correction is computed from b's
// already corrected position.
func collide(b, o *table.Ball) (float64, bool) {
	dist := table.Distance(b.Pos, o.Pos)
	sum := b.Radius + o.Radius
	if dist >= sum {
		return 0, false
	}

	impact := b.Vel.Minus(o.Vel).Magnitude()
	b.Vel, o.Vel = o.Vel, b.Vel

	if dist == 0 {
		// Coincident centers have no direction; separate along x.
		half := sum / 2
		b.Pos.X -= half
		o.Pos.X += half
		return impact, true
	}

	overlap := 0.5 * (dist - sum)
	b.Pos = b.Pos.Minus(b.Pos.Minus(o.Pos).Times(overlap / dist))
	o.Pos = o.Pos.Plus(b.Pos.Minus(o.Pos).Times(overlap / dist))
	return impact, true
}

// bounce inverts the velocity component of any wall the ball's edge is past.
// The position is left alone; the next integration brings the ball back.
func (s *Stepper) bounce(b *table.Ball) int {
	n := 0
	if b.Pos.X-b.Radius < 0 || b.Pos.X+b.Radius > s.Width {
		b.Vel.X = -b.Vel.X
		n++
	}
	if b.Pos.Y-b.Radius < 0 || b.Pos.Y+b.Radius > s.Height {
		b.Vel.Y = -b.Vel.Y
		n++
	}
	return n
}

func (s *Stepper) applyFriction(b *table.Ball) {
	b.Vel = b.Vel.Times(s.Friction)
	if s.RestEpsilon <= 0 {
		return
	}
	if b.Vel.X < s.RestEpsilon && b.Vel.X > -s.RestEpsilon {
		b.Vel.X = 0
	}
	if b.Vel.Y < s.RestEpsilon && b.Vel.Y > -s.RestEpsilon {
		b.Vel.Y = 0
	}
}

// KineticEnergy returns the sum of ½|v|² over all balls, treating every ball
// as unit mass.
func KineticEnergy(balls []table.Ball) float64 {
	e := 0.0
	for _, b := range balls {
		e += 0.5 * b.Vel.MagnitudeSquared()
	}
	return e
}

// MaxSpeed returns the speed of the fastest ball.
func MaxSpeed(balls []table.Ball) float64 {
	m := 0.0
	for _, b := range balls {
		if s := b.Speed(); s > m {
			m = s
		}
	}
	return m
}

// AtRest reports whether no ball is moving.
func AtRest(balls []table.Ball) bool {
	for _, b := range balls {
		if !b.Vel.IsZero() {
			return false
		}
	}
	return true
}
