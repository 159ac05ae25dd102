package table

import (
	"fmt"
	"sync"
)

// Registry is the ordered set of balls shared by the physics stepper, the
// pointer controller, the color panel and the renderers.
type Registry struct {
	mu      sync.RWMutex
	balls   []Ball
	initial []Ball
}

// NewRegistry copies balls into a new registry. The same set is restored by
// Reset.
func NewRegistry(balls []Ball) (*Registry, error) {
	for i, b := range balls {
		if err := b.validate(); err != nil {
			return nil, fmt.Errorf("ball %d: %w", i, err)
		}
	}
	return &Registry{
		balls:   cloneBalls(balls),
		initial: cloneBalls(balls),
	}, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.balls)
}

// At returns a copy of the ball at index i.
func (r *Registry) At(i int) (Ball, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.balls) {
		return Ball{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return r.balls[i], nil
}

// Snapshot returns a copy of every ball in registry order.
func (r *Registry) Snapshot() []Ball {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneBalls(r.balls)
}

func (r *Registry) SetVelocity(i int, v Vec2) error {
	if !v.IsFinite() {
		return fmt.Errorf("%w: velocity %+v", ErrNonFinite, v)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.balls) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	r.balls[i].Vel = v
	return nil
}

func (r *Registry) SetColor(i int, c Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.balls) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	r.balls[i].Color = c
	return nil
}

// HitTest returns the lowest index whose ball strictly contains p.
func (r *Registry) HitTest(p Vec2) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, b := range r.balls {
		if b.Contains(p) {
			return i, true
		}
	}
	return -1, false
}

// Mutate runs fn on the live slice with the write lock held. Radii are
// restored afterwards; they never change once a ball exists.
func (r *Registry) Mutate(fn func(balls []Ball)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.balls)
	for i := range r.balls {
		r.balls[i].Radius = r.initial[i].Radius
	}
}

// Reset puts every ball back to its initial position, velocity and color.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy(r.balls, r.initial)
}

func cloneBalls(balls []Ball) []Ball {
	c := make([]Ball, len(balls))
	copy(c, balls)
	return c
}
