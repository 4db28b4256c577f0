package config

import (
	"sort"

	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
)

var presets = map[string]*Config{
	"binary": DefaultConfig(),

	// Chenciner-Montgomery choreography, period ~6.33 for G = 1.
	"figure-eight": {
		Name: "figure-eight", Dimensions: 2, Dt: 0.001, Steps: 6300, Gravity: 1, SampleEvery: 50,
		Bodies: []BodyConfig{
			{Mass: 1, Position: []float64{0.97000436, -0.24308753}, Velocity: []float64{0.4662036850, 0.4323657300}},
			{Mass: 1, Position: []float64{-0.97000436, 0.24308753}, Velocity: []float64{0.4662036850, 0.4323657300}},
			{Mass: 1, Position: []float64{0, 0}, Velocity: []float64{-0.93240737, -0.86473146}},
		},
	},

	// Equilateral triangle rotating rigidly about its centre.
	"lagrange": {
		Name: "lagrange", Dimensions: 2, Dt: 0.001, Steps: 10000, Gravity: 1, SampleEvery: 100,
		Bodies: []BodyConfig{
			{Mass: 1, Position: []float64{0, 1}, Velocity: []float64{-0.7598356857, 0}},
			{Mass: 1, Position: []float64{-0.8660254, -0.5}, Velocity: []float64{0.3799178429, -0.6580370064}},
			{Mass: 1, Position: []float64{0.8660254, -0.5}, Velocity: []float64{0.3799178429, 0.6580370064}},
		},
	},

	// One year in hourly steps, SI units. The moon orbit is inclined ~5 degrees.
	"sun-earth-moon": {
		Name: "sun-earth-moon", Dimensions: 3, Dt: 3600, Steps: 8766, Gravity: physics.G, SampleEvery: 24,
		Bodies: []BodyConfig{
			{Mass: 1.989e30, Position: []float64{0, 0, 0}, Velocity: []float64{0, 0, 0}},
			{Mass: 5.972e24, Position: []float64{1.496e11, 0, 0}, Velocity: []float64{0, 29780, 0}},
			{Mass: 7.342e22, Position: []float64{1.496e11 + 3.844e8, 0, 0}, Velocity: []float64{0, 29780 + 1017.9, 91.6}},
		},
	},

	"single": {
		Name: "single", Dimensions: 1, Dt: 0.1, Steps: 100, Gravity: physics.G, SampleEvery: 10,
		Bodies: []BodyConfig{
			{Mass: 1, Position: []float64{0}, Velocity: []float64{1}},
		},
	},
}

// GetPreset returns a copy of the named scenario, or nil.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
