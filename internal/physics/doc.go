// Package physics advances the balls on the table one frame at a time.
//
// [Stepper] integrates positions, resolves ball/ball overlaps by exchanging
// velocities and pushing the pair apart, inverts velocity at the walls and
// applies friction. Collision checking is all-pairs; every unordered pair is
// visited twice per tick.
//
//	stepper := physics.NewStepper(table.DefaultTable())
//	stats := stepper.Step(reg)
//
// Velocities are expressed per tick. Callers drive Step once per rendered
// frame.
package physics
