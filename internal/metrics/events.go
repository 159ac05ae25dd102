package metrics

import (
	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/sim"
	"github.com/san-kum/tablesim/internal/table"
)

type PeakSpeed struct {
	max float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "max_speed" }

func (p *PeakSpeed) Observe(balls []table.Ball, st physics.Stats) {
	if s := physics.MaxSpeed(balls); s > p.max {
		p.max = s
	}
}

func (p *PeakSpeed) Value() float64 { return p.max }

func (p *PeakSpeed) Reset() { p.max = 0 }

// Counter totals collisions or wall bounces.
type Counter struct {
	name  string
	pick  func(physics.Stats) int
	total int
}

func NewCollisionCounter() *Counter {
	return &Counter{name: "collisions", pick: func(s physics.Stats) int { return s.Collisions }}
}

func NewBounceCounter() *Counter {
	return &Counter{name: "bounces", pick: func(s physics.Stats) int { return s.Bounces }}
}

func (c *Counter) Name() string { return c.name }

func (c *Counter) Observe(balls []table.Ball, st physics.Stats) {
	c.total += c.pick(st)
}

func (c *Counter) Value() float64 { return float64(c.total) }

func (c *Counter) Reset() { c.total = 0 }

var _ sim.Starter = (*EnergyLoss)(nil)

// Standard returns the metrics recorded for every headless run.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewEnergyLoss(),
		NewPeakSpeed(),
		NewCollisionCounter(),
		NewBounceCounter(),
	}
}
