// Package table holds the shared state of the simulation: the balls on the
// table and the colors they are painted with.
//
//   - [Ball]: position, velocity, radius and color of one disc
//   - [Color]: 24-bit RGB value with a "#RRGGBB" text form
//   - [Registry]: the ordered, mutex-guarded collection every other package
//     reads and mutates through methods
//
// # Example
//
//	reg := table.NewRegistry(table.DefaultBalls())
//	_ = reg.SetVelocity(0, table.Vec2{X: 1})
//	reg.Mutate(func(balls []table.Ball) { ... })
//
// # Thread Safety
//
// Registry methods are safe for concurrent use. A callback passed to Mutate
// runs with the lock held and must not call back into the Registry.
package table
