package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/pointer"
	"github.com/san-kum/tablesim/internal/table"
)

func newSim(t *testing.T, balls []table.Ball) (*Simulator, *table.Registry) {
	t.Helper()
	reg, err := table.NewRegistry(balls)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	stepper := physics.NewStepper(table.DefaultTable())
	ctrl := pointer.New(reg, nil, pointer.DefaultImpulseScale)
	return New(reg, stepper, ctrl), reg
}

func TestSimulatorRestingTable(t *testing.T) {
	sim, _ := newSim(t, table.DefaultBalls())

	result, err := sim.Run(context.Background(), Config{Ticks: 100, SampleEvery: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// tick 0, 10, 20, ..., 100
	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.Ticks != 100 {
		t.Errorf("expected 100 ticks, got %d", result.Ticks)
	}
	final := result.Final()
	for i, want := range table.DefaultBalls() {
		if final.Balls[i] != want {
			t.Errorf("ball %d moved: %+v", i, final.Balls[i])
		}
	}
}

func TestSimulatorDrag(t *testing.T) {
	sim, _ := newSim(t, table.DefaultBalls())

	cfg := Config{Ticks: 1, Drags: []Drag{{Ball: 0, DX: 20, DY: 0}}}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	start := result.Frames[0].Balls[0]
	if math.Abs(start.Vel.X-1.0) > 1e-12 {
		t.Errorf("expected launch velocity 1.0, got %f", start.Vel.X)
	}
	b := result.Final().Balls[0]
	if math.Abs(b.Pos.X-101) > 1e-12 || b.Pos.Y != 150 {
		t.Errorf("expected ball at (101, 150), got %+v", b.Pos)
	}
	if math.Abs(b.Vel.X-0.99) > 1e-12 {
		t.Errorf("expected vx 0.99, got %f", b.Vel.X)
	}
}

type startRecorder struct {
	started  []table.Ball
	observed int
}

func (r *startRecorder) Name() string { return "start_recorder" }
func (r *startRecorder) Start(balls []table.Ball) {
	if r.observed == 0 {
		r.started = balls
	}
}
func (r *startRecorder) Observe([]table.Ball, physics.Stats) { r.observed++ }
func (r *startRecorder) Value() float64                      { return float64(r.observed) }
func (r *startRecorder) Reset()                              { r.started, r.observed = nil, 0 }

func TestSimulatorStartsMetricsBeforeFirstTick(t *testing.T) {
	sim, _ := newSim(t, table.DefaultBalls())
	rec := &startRecorder{}
	sim.AddMetric(rec)

	result, err := sim.Run(context.Background(), Config{Ticks: 3, Drags: []Drag{{Ball: 0, DX: 20}}})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if rec.started == nil {
		t.Fatal("expected Start before the first tick")
	}
	if rec.started[0] != result.Frames[0].Balls[0] {
		t.Errorf("expected start from the dragged table %+v, got %+v", result.Frames[0].Balls[0], rec.started[0])
	}
	if rec.observed != 3 {
		t.Errorf("expected 3 observations, got %d", rec.observed)
	}
}

func TestSimulatorCollisionsCounted(t *testing.T) {
	sim, _ := newSim(t, table.DefaultBalls())

	cfg := Config{Ticks: 600, SampleEvery: 50, Drags: []Drag{{Ball: 0, DX: 100, DY: 0}}}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Collisions == 0 {
		t.Error("expected the launched ball to hit ball 1")
	}
}

func TestSimulatorStopAtRest(t *testing.T) {
	sim, _ := newSim(t, table.DefaultBalls())

	cfg := Config{Ticks: 100000, SampleEvery: 1000, StopAtRest: true, Drags: []Drag{{Ball: 2, DX: 0, DY: 10}}}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Ticks >= 100000 {
		t.Errorf("expected early stop, ran %d ticks", result.Ticks)
	}
	if !physics.AtRest(result.Final().Balls) {
		t.Error("final frame not at rest")
	}
	if result.Final().Tick != result.Ticks {
		t.Errorf("final frame tick %d, want %d", result.Final().Tick, result.Ticks)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim, _ := newSim(t, table.DefaultBalls())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero ticks", Config{Ticks: 0}},
		{"negative ticks", Config{Ticks: -5}},
		{"negative sample", Config{Ticks: 5, SampleEvery: -1}},
		{"drag out of range", Config{Ticks: 5, Drags: []Drag{{Ball: 3}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorDragOnCoveredBall(t *testing.T) {
	balls := []table.Ball{
		{Pos: table.Vec2{X: 100, Y: 100}, Radius: 20, Color: table.Red},
		{Pos: table.Vec2{X: 105, Y: 100}, Radius: 5, Color: table.Blue},
	}
	sim, _ := newSim(t, balls)

	_, err := sim.Run(context.Background(), Config{Ticks: 1, Drags: []Drag{{Ball: 1, DX: 5}}})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim, _ := newSim(t, table.DefaultBalls())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Ticks: 10})
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
	var runErr *RunError
	if !errors.As(err, &runErr) || runErr.Tick != 1 {
		t.Errorf("expected RunError at tick 1, got %v", err)
	}
	if len(result.Frames) != 1 {
		t.Errorf("expected only the initial frame, got %d", len(result.Frames))
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(balls []table.Ball, st physics.Stats) {
	t.count++
	t.sum += physics.KineticEnergy(balls)
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type countingObserver struct{ ticks []int }

func (o *countingObserver) OnTick(tick int, balls []table.Ball, st physics.Stats) {
	o.ticks = append(o.ticks, tick)
}

func TestSimulatorMetrics(t *testing.T) {
	sim, _ := newSim(t, table.DefaultBalls())

	metric := &testMetric{}
	obs := &countingObserver{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	result, err := sim.Run(context.Background(), Config{Ticks: 10, Drags: []Drag{{Ball: 1, DY: 20}}})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if v, ok := result.Metrics["test"]; !ok || v <= 0 {
		t.Errorf("expected positive metric, got %v (%v)", v, ok)
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if len(obs.ticks) != 10 || obs.ticks[0] != 1 || obs.ticks[9] != 10 {
		t.Errorf("unexpected observed ticks %v", obs.ticks)
	}
}
