package config

import "sort"

// Presets maps a name to a constructor so callers always get a fresh copy.
var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"line": func() *Config {
		cfg := DefaultConfig()
		cfg.Balls = []BallConfig{
			{X: 60, Y: 150, VX: 6, Radius: DefaultRadius, Color: "#FFFFFF"},
			{X: 250, Y: 150, Radius: DefaultRadius, Color: "#FF0000"},
			{X: 271, Y: 150, Radius: DefaultRadius, Color: "#FF8800"},
			{X: 292, Y: 150, Radius: DefaultRadius, Color: "#FFFF00"},
			{X: 313, Y: 150, Radius: DefaultRadius, Color: "#008000"},
		}
		return cfg
	},
	"rack": func() *Config {
		cfg := DefaultConfig()
		colors := []string{"#FF0000", "#0000FF", "#FFFF00", "#008000", "#FF00FF", "#FF8800"}
		cfg.Balls = []BallConfig{{X: 120, Y: 150, Radius: DefaultRadius, Color: "#FFFFFF"}}
		k := 0
		for row := 0; row < 3; row++ {
			for i := 0; i <= row; i++ {
				cfg.Balls = append(cfg.Balls, BallConfig{
					X:      420 + float64(row)*18,
					Y:      150 + (float64(i)-float64(row)/2)*21,
					Radius: DefaultRadius,
					Color:  colors[k],
				})
				k++
			}
		}
		return cfg
	},
	"corners": func() *Config {
		cfg := DefaultConfig()
		cfg.Physics.Friction = 0.995
		cfg.Balls = []BallConfig{
			{X: 40, Y: 40, VX: 4, VY: 2, Radius: DefaultRadius, Color: "#FF0000"},
			{X: 560, Y: 40, VX: -4, VY: 2, Radius: DefaultRadius, Color: "#0000FF"},
			{X: 40, Y: 260, VX: 4, VY: -2, Radius: DefaultRadius, Color: "#008000"},
			{X: 560, Y: 260, VX: -4, VY: -2, Radius: DefaultRadius, Color: "#FFFF00"},
		}
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
