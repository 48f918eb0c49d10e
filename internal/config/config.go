package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/m-weigel/relorbit/internal/spacetime"
)

const (
	DefaultDt            = 0.05
	DefaultMaxProperTime = 400.0
	DefaultMaxRadius     = 1e6
	DefaultTolerance     = 1e-9
	DefaultDriftWarn     = 1e-6
	DefaultDriftCeiling  = 1e-2
)

type Config struct {
	// Units selects the constant set: "geometrized" (G=c=1, mass
	// sets the length scale) or "si" (masses in kilograms or solar
	// masses, lengths in meters, times in seconds).
	Units      string  `yaml:"units"`
	Mass       float64 `yaml:"mass"`       // geometrized mass
	MassKg     float64 `yaml:"mass_kg"`    // SI mass in kilograms
	MassSolar  float64 `yaml:"mass_solar"` // SI mass in solar masses
	Integrator string  `yaml:"integrator"` // euler | rk4 | rk45

	Dt            float64 `yaml:"dt"`
	MaxProperTime float64 `yaml:"max_proper_time"`
	Adaptive      bool    `yaml:"adaptive"`
	Tolerance     float64 `yaml:"tolerance"`
	MinDt         float64 `yaml:"min_dt"`
	MaxDt         float64 `yaml:"max_dt"`

	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`

	DriftTolerance float64 `yaml:"drift_tolerance"`
	DriftCeiling   float64 `yaml:"drift_ceiling"`

	InitState InitStateConfig `yaml:"init_state"`
}

type InitStateConfig struct {
	// Circular ignores the velocity fields and starts on the
	// circular equatorial orbit of radius R.
	Circular bool    `yaml:"circular"`
	R        float64 `yaml:"r"`
	Theta    float64 `yaml:"theta"`
	Phi      float64 `yaml:"phi"`
	VR       float64 `yaml:"vr"`
	VTheta   float64 `yaml:"vtheta"`
	VPhi     float64 `yaml:"vphi"`
}

func DefaultConfig() *Config {
	return &Config{
		Units:          "geometrized",
		Mass:           1,
		Integrator:     "rk4",
		Dt:             DefaultDt,
		MaxProperTime:  DefaultMaxProperTime,
		MaxRadius:      DefaultMaxRadius,
		Tolerance:      DefaultTolerance,
		MinDt:          1e-12,
		MaxDt:          1,
		DriftTolerance: DefaultDriftWarn,
		DriftCeiling:   DefaultDriftCeiling,
		InitState: InitStateConfig{
			Circular: true,
			R:        10,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

// Constants resolves the unit system.
func (c *Config) Constants() (spacetime.Constants, error) {
	switch c.Units {
	case "", "geometrized":
		return spacetime.Geometrized, nil
	case "si":
		return spacetime.SI, nil
	default:
		return spacetime.Constants{}, fmt.Errorf("unknown unit system %q", c.Units)
	}
}

// ResolvedMass returns the central mass in the active unit system.
func (c *Config) ResolvedMass() (float64, error) {
	switch c.Units {
	case "", "geometrized":
		if c.Mass <= 0 {
			return 0, fmt.Errorf("geometrized units need mass > 0, got %g", c.Mass)
		}
		return c.Mass, nil
	case "si":
		switch {
		case c.MassKg > 0 && c.MassSolar > 0:
			return 0, fmt.Errorf("set mass_kg or mass_solar, not both")
		case c.MassKg > 0:
			return c.MassKg, nil
		case c.MassSolar > 0:
			return c.MassSolar * spacetime.SolarMass, nil
		default:
			return 0, fmt.Errorf("si units need mass_kg or mass_solar")
		}
	default:
		return 0, fmt.Errorf("unknown unit system %q", c.Units)
	}
}

func (c *Config) Validate() error {
	if _, err := c.ResolvedMass(); err != nil {
		return err
	}
	switch c.Integrator {
	case "euler", "rk4", "rk45":
	default:
		return fmt.Errorf("unknown integrator %q", c.Integrator)
	}
	if c.Adaptive && c.Integrator != "rk45" {
		return fmt.Errorf("integrator %q does not support adaptive stepping", c.Integrator)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.MaxProperTime <= 0 {
		return fmt.Errorf("max_proper_time must be positive, got %g", c.MaxProperTime)
	}
	if c.MinRadius < 0 || c.MinRadius >= c.MaxRadius {
		return fmt.Errorf("radius bounds [%g, %g] invalid", c.MinRadius, c.MaxRadius)
	}
	if c.InitState.R <= 0 {
		return fmt.Errorf("initial radius must be positive, got %g", c.InitState.R)
	}
	return nil
}
