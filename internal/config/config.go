package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/pointer"
	"github.com/san-kum/tablesim/internal/table"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

const (
	DefaultWidth        = table.DefaultWidth
	DefaultHeight       = table.DefaultHeight
	DefaultBackground   = "#A52A2A"
	DefaultFriction     = physics.DefaultFriction
	DefaultRestEpsilon  = physics.DefaultRestEpsilon
	DefaultImpulseScale = pointer.DefaultImpulseScale
	DefaultRadius       = table.DefaultRadius
)

type Config struct {
	Table   TableConfig   `yaml:"table"`
	Physics PhysicsConfig `yaml:"physics"`
	Input   InputConfig   `yaml:"input"`
	Balls   []BallConfig  `yaml:"balls"`
}

type TableConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Background string  `yaml:"background"`
}

type PhysicsConfig struct {
	Friction    float64 `yaml:"friction"`
	RestEpsilon float64 `yaml:"rest_epsilon"`
}

type InputConfig struct {
	ImpulseScale float64 `yaml:"impulse_scale"`
}

type BallConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx,omitempty"`
	VY     float64 `yaml:"vy,omitempty"`
	Radius float64 `yaml:"radius"`
	Color  string  `yaml:"color"`
}

func DefaultConfig() *Config {
	return &Config{
		Table: TableConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Background: DefaultBackground,
		},
		Physics: PhysicsConfig{
			Friction:    DefaultFriction,
			RestEpsilon: DefaultRestEpsilon,
		},
		Input: InputConfig{
			ImpulseScale: DefaultImpulseScale,
		},
		Balls: []BallConfig{
			{X: 100, Y: 150, Radius: DefaultRadius, Color: "#FF0000"},
			{X: 200, Y: 150, Radius: DefaultRadius, Color: "#0000FF"},
			{X: 300, Y: 150, Radius: DefaultRadius, Color: "#008000"},
		},
	}
}

// Load reads a YAML file over the defaults. A file that lists balls
// replaces the default set entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Balls = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Balls) == 0 {
		cfg.Balls = DefaultConfig().Balls
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Table.Width > 0) || !(c.Table.Height > 0) {
		return fmt.Errorf("%w: table size %vx%v", ErrInvalid, c.Table.Width, c.Table.Height)
	}
	if _, err := table.ParseColor(c.Table.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalid, err)
	}
	if !(c.Physics.Friction > 0) || c.Physics.Friction > 1 {
		return fmt.Errorf("%w: friction %v not in (0, 1]", ErrInvalid, c.Physics.Friction)
	}
	if c.Physics.RestEpsilon < 0 {
		return fmt.Errorf("%w: rest_epsilon %v is negative", ErrInvalid, c.Physics.RestEpsilon)
	}
	if !(c.Input.ImpulseScale > 0) {
		return fmt.Errorf("%w: impulse_scale %v", ErrInvalid, c.Input.ImpulseScale)
	}
	if len(c.Balls) == 0 {
		return fmt.Errorf("%w: no balls", ErrInvalid)
	}
	for i, b := range c.Balls {
		if !(b.Radius > 0) {
			return fmt.Errorf("%w: ball %d radius %v", ErrInvalid, i, b.Radius)
		}
		if _, err := table.ParseColor(b.Color); err != nil {
			return fmt.Errorf("%w: ball %d: %v", ErrInvalid, i, err)
		}
		if b.X-b.Radius < 0 || b.X+b.Radius > c.Table.Width || b.Y-b.Radius < 0 || b.Y+b.Radius > c.Table.Height {
			return fmt.Errorf("%w: ball %d at (%v, %v) is off the table", ErrInvalid, i, b.X, b.Y)
		}
	}
	return nil
}

// TableSpec returns the table geometry. Call Validate first.
func (c *Config) TableSpec() table.Table {
	bg, err := table.ParseColor(c.Table.Background)
	if err != nil {
		bg = table.Brown
	}
	return table.Table{Width: c.Table.Width, Height: c.Table.Height, Background: bg}
}

// InitialBalls converts the configured balls.
func (c *Config) InitialBalls() ([]table.Ball, error) {
	balls := make([]table.Ball, 0, len(c.Balls))
	for i, b := range c.Balls {
		col, err := table.ParseColor(b.Color)
		if err != nil {
			return nil, fmt.Errorf("ball %d: %w", i, err)
		}
		balls = append(balls, table.Ball{
			Pos:    table.Vec2{X: b.X, Y: b.Y},
			Vel:    table.Vec2{X: b.VX, Y: b.VY},
			Radius: b.Radius,
			Color:  col,
		})
	}
	return balls, nil
}

// Stepper builds a physics stepper for this configuration.
func (c *Config) Stepper() *physics.Stepper {
	s := physics.NewStepper(c.TableSpec())
	s.Friction = c.Physics.Friction
	s.RestEpsilon = c.Physics.RestEpsilon
	return s
}

// Registry builds a fresh ball registry from the configured balls.
func (c *Config) Registry() (*table.Registry, error) {
	balls, err := c.InitialBalls()
	if err != nil {
		return nil, err
	}
	return table.NewRegistry(balls)
}

// Resolve picks the configuration a command should run with: a file when
// path is set, otherwise the named preset, otherwise the defaults.
func Resolve(path, preset string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if preset != "" {
		cfg := GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, ListPresets())
		}
		return cfg, nil
	}
	return DefaultConfig(), nil
}
