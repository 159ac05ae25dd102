// Package automation runs scripted sequences of headless tables and
// parameter sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/tablesim/internal/config"
	"github.com/san-kum/tablesim/internal/metrics"
	"github.com/san-kum/tablesim/internal/pointer"
	"github.com/san-kum/tablesim/internal/sim"
	"gopkg.in/yaml.v3"
)

var ErrUnknownParam = errors.New("automation: unknown sweep parameter")

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one headless run. Config takes precedence over Preset.
type ScenarioStep struct {
	Preset      string   `yaml:"preset"`
	Config      string   `yaml:"config"`
	Ticks       int      `yaml:"ticks"`
	SampleEvery int      `yaml:"sample_every"`
	Drags       []string `yaml:"drags"`
	StopAtRest  bool     `yaml:"stop_at_rest"`
	SaveAs      string   `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}

	return &scenario, nil
}

// Label names the step in reports and run IDs.
func (s ScenarioStep) Label() string {
	switch {
	case s.SaveAs != "":
		return s.SaveAs
	case s.Preset != "":
		return s.Preset
	case s.Config != "":
		return s.Config
	default:
		return "default"
	}
}

// Run executes one configured table and returns its result.
func Run(ctx context.Context, cfg *config.Config, sc sim.Config) (*sim.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	s := sim.New(reg, cfg.Stepper(), pointer.New(reg, nil, cfg.Input.ImpulseScale))
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}
	return s.Run(ctx, sc)
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario) ([]*sim.Result, error) {
	results := make([]*sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Printf("Running step %d/%d: %s\n", i+1, len(scenario.Steps), step.Label())

		cfg, err := config.Resolve(step.Config, step.Preset)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		drags := make([]sim.Drag, 0, len(step.Drags))
		for _, s := range step.Drags {
			d, err := sim.ParseDrag(s)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			drags = append(drags, d)
		}

		sample := step.SampleEvery
		if sample == 0 {
			sample = 1
		}
		result, err := Run(ctx, cfg, sim.Config{
			Ticks:       step.Ticks,
			SampleEvery: sample,
			Drags:       drags,
			StopAtRest:  step.StopAtRest,
		})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, result)
	}

	return results, nil
}

// ParameterSweep runs the same scripted shot across a range of one
// parameter.
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Ticks     int
	Drags     []sim.Drag
}

// SweepResult summarizes one sweep point.
type SweepResult struct {
	ParamValue float64
	Ticks      int
	Collisions int
	Bounces    int
	FinalKE    float64
	PeakSpeed  float64
}

// sweepParams are the parameters a sweep can vary.
var sweepParams = map[string]func(*config.Config, float64){
	"friction":      func(c *config.Config, v float64) { c.Physics.Friction = v },
	"rest_epsilon":  func(c *config.Config, v float64) { c.Physics.RestEpsilon = v },
	"impulse_scale": func(c *config.Config, v float64) { c.Input.ImpulseScale = v },
}

// RunSweep executes a parameter sweep. Each point stops early once the
// table is at rest.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	apply, ok := sweepParams[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParam, sweep.ParamName)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", sim.ErrInvalidConfig)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg, err := config.Resolve("", sweep.Preset)
		if err != nil {
			return nil, err
		}
		apply(cfg, paramVal)

		result, err := Run(ctx, cfg, sim.Config{
			Ticks:       sweep.Ticks,
			SampleEvery: sweep.Ticks,
			Drags:       sweep.Drags,
			StopAtRest:  true,
		})
		if err != nil {
			return results, fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Ticks:      result.Ticks,
			Collisions: result.Collisions,
			Bounces:    result.Bounces,
			FinalKE:    result.Metrics["kinetic_energy"],
			PeakSpeed:  result.Metrics["max_speed"],
		})
	}

	return results, nil
}

// SweepParams lists the parameters RunSweep accepts.
func SweepParams() []string {
	return []string{"friction", "impulse_scale", "rest_epsilon"}
}
