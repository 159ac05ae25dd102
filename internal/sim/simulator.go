package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/pointer"
	"github.com/san-kum/tablesim/internal/table"
)

// Simulator runs the table without a window.
type Simulator struct {
	reg       *table.Registry
	stepper   *physics.Stepper
	ctrl      *pointer.Controller
	metrics   []Metric
	observers []Observer
}

// New returns a simulator over reg. Scripted drags go through ctrl exactly
// as mouse input would.
func New(reg *table.Registry, stepper *physics.Stepper, ctrl *pointer.Controller) *Simulator {
	return &Simulator{
		reg:       reg,
		stepper:   stepper,
		ctrl:      ctrl,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	for _, d := range cfg.Drags {
		if err := s.applyDrag(d); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Ticks/every+2),
		Metrics: make(map[string]float64),
	}
	initial := s.reg.Snapshot()
	result.Frames = append(result.Frames, Frame{Tick: 0, Balls: initial})
	for _, m := range s.metrics {
		if st, ok := m.(Starter); ok {
			st.Start(initial)
		}
	}

	for i := 1; i <= cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, &RunError{Tick: i, Balls: s.reg.Snapshot(), Wrapped: ErrCanceled}
		default:
		}

		st := s.stepper.Step(s.reg)
		balls := s.reg.Snapshot()
		result.Ticks = i
		result.Collisions += st.Collisions
		result.Bounces += st.Bounces

		for _, b := range balls {
			if !b.Pos.IsFinite() || !b.Vel.IsFinite() {
				return result, &RunError{Tick: i, Balls: balls, Wrapped: table.ErrNonFinite}
			}
		}

		for _, m := range s.metrics {
			m.Observe(balls, st)
		}
		for _, obs := range s.observers {
			obs.OnTick(i, balls, st)
		}

		rest := cfg.StopAtRest && physics.AtRest(balls)
		if i%every == 0 || i == cfg.Ticks || rest {
			result.Frames = append(result.Frames, Frame{Tick: i, Balls: balls})
		}
		if rest {
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidConfig, cfg.Ticks)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	for _, d := range cfg.Drags {
		if d.Ball < 0 || d.Ball >= s.reg.Len() {
			return fmt.Errorf("%w: drag on ball %d, table has %d", ErrInvalidConfig, d.Ball, s.reg.Len())
		}
	}
	return nil
}

// applyDrag presses on the ball's center, moves by the drag delta and
// releases.
func (s *Simulator) applyDrag(d Drag) error {
	b, err := s.reg.At(d.Ball)
	if err != nil {
		return err
	}
	if err := s.ctrl.Move(b.Pos.X, b.Pos.Y); err != nil {
		return err
	}
	s.ctrl.Press(pointer.Primary, b.Pos.X, b.Pos.Y)
	if idx, ok := s.ctrl.Selected(); !ok || idx != d.Ball {
		s.ctrl.Release()
		return fmt.Errorf("%w: ball %d cannot be grabbed at its center", ErrInvalidConfig, d.Ball)
	}
	err = s.ctrl.Move(b.Pos.X+d.DX, b.Pos.Y+d.DY)
	s.ctrl.Release()
	if err != nil {
		return fmt.Errorf("drag on ball %d: %w", d.Ball, err)
	}
	return nil
}
