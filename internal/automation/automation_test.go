package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/tablesim/internal/sim"
)

const scenarioYAML = `name: break
description: cue ball into the line, then a quiet table
steps:
  - preset: line
    ticks: 400
    sample_every: 50
    drags: ["0:100,0"]
    save_as: line-break
  - preset: default
    ticks: 10
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndRunScenario(t *testing.T) {
	g := NewWithT(t)

	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sc.Name).To(Equal("break"))
	g.Expect(sc.Steps).To(HaveLen(2))
	g.Expect(sc.Steps[0].Label()).To(Equal("line-break"))
	g.Expect(sc.Steps[1].Label()).To(Equal("default"))

	results, err := RunScenario(context.Background(), sc)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(results).To(HaveLen(2))
	g.Expect(results[0].Collisions).To(BeNumerically(">", 0))
	g.Expect(results[1].Collisions).To(Equal(0))
	g.Expect(results[1].Ticks).To(Equal(10))
}

func TestLoadScenarioWithoutSteps(t *testing.T) {
	g := NewWithT(t)
	_, err := LoadScenario(writeScenario(t, "name: empty\n"))
	g.Expect(err).To(HaveOccurred())
}

func TestRunScenarioBadDrag(t *testing.T) {
	g := NewWithT(t)
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "default", Ticks: 5, Drags: []string{"7:1,1"}}}}

	results, err := RunScenario(context.Background(), sc)
	g.Expect(err).To(MatchError(sim.ErrInvalidConfig))
	g.Expect(results).To(BeEmpty())
}

func TestRunScenarioUnknownPreset(t *testing.T) {
	g := NewWithT(t)
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "nope", Ticks: 5}}}
	_, err := RunScenario(context.Background(), sc)
	g.Expect(err).To(HaveOccurred())
}

func TestRunSweepFriction(t *testing.T) {
	g := NewWithT(t)

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Preset:    "default",
		ParamName: "friction",
		ParamMin:  0.9,
		ParamMax:  0.99,
		NumSteps:  4,
		Ticks:     3000,
		Drags:     []sim.Drag{{Ball: 0, DX: 100}},
	})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(results).To(HaveLen(4))
	g.Expect(results[0].ParamValue).To(BeNumerically("~", 0.9, 1e-12))
	g.Expect(results[3].ParamValue).To(BeNumerically("~", 0.99, 1e-12))

	g.Expect(results[0].Ticks).To(BeNumerically("<", results[3].Ticks))
	for _, r := range results {
		g.Expect(r.Ticks).To(BeNumerically("<", 3000), "table should come to rest")
		g.Expect(r.FinalKE).To(BeZero())
		g.Expect(r.PeakSpeed).To(BeNumerically(">", 0))
	}
}

func TestRunSweepUnknownParam(t *testing.T) {
	g := NewWithT(t)
	_, err := RunSweep(context.Background(), &ParameterSweep{Preset: "default", ParamName: "gravity", NumSteps: 2, Ticks: 10})
	g.Expect(err).To(MatchError(ErrUnknownParam))
}

func TestRunSweepCanceled(t *testing.T) {
	g := NewWithT(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunSweep(ctx, &ParameterSweep{Preset: "default", ParamName: "friction", ParamMin: 0.98, ParamMax: 0.98, NumSteps: 1, Ticks: 10})
	g.Expect(err).To(MatchError(sim.ErrCanceled))
}
