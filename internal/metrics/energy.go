package metrics

import (
	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/table"
)

// KineticEnergy reports the table's kinetic energy at the last observed
// tick.
type KineticEnergy struct {
	last float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (e *KineticEnergy) Name() string { return "kinetic_energy" }

func (e *KineticEnergy) Observe(balls []table.Ball, st physics.Stats) {
	e.last = physics.KineticEnergy(balls)
}

func (e *KineticEnergy) Value() float64 { return e.last }

func (e *KineticEnergy) Reset() { e.last = 0 }

// EnergyLoss is the fraction of the starting energy that friction has
// removed by the last observed tick. The baseline is the table passed to
// Start; without it, the first observed tick is used.
type EnergyLoss struct {
	initial float64
	current float64
	started bool
}

func NewEnergyLoss() *EnergyLoss { return &EnergyLoss{} }

func (e *EnergyLoss) Name() string { return "energy_loss" }

func (e *EnergyLoss) Start(balls []table.Ball) {
	e.initial = physics.KineticEnergy(balls)
	e.current = e.initial
	e.started = true
}

func (e *EnergyLoss) Observe(balls []table.Ball, st physics.Stats) {
	ke := physics.KineticEnergy(balls)
	if !e.started {
		e.initial = ke
		e.started = true
	}
	e.current = ke
}

func (e *EnergyLoss) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return (e.initial - e.current) / e.initial
}

func (e *EnergyLoss) Reset() {
	e.initial = 0
	e.current = 0
	e.started = false
}
