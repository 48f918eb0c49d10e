package config

import "math"

// Presets are curated scenarios, keyed by name. Geometrized presets
// measure radii in units of the central mass; SI presets in meters.
var Presets = map[string]*Config{
	"circular": {
		Units: "geometrized", Mass: 1, Integrator: "rk4",
		Dt: 0.05, MaxProperTime: 400,
		MinRadius: 2.5, MaxRadius: 1e4,
		DriftTolerance: DefaultDriftWarn, DriftCeiling: DefaultDriftCeiling,
		InitState: InitStateConfig{Circular: true, R: 10},
	},
	"precession": {
		Units: "geometrized", Mass: 1, Integrator: "rk45", Adaptive: true,
		Dt: 0.5, MaxProperTime: 22000,
		Tolerance: 1e-10, MinDt: 1e-6, MaxDt: 5,
		MinRadius: 2.5, MaxRadius: 1e4,
		DriftTolerance: DefaultDriftWarn, DriftCeiling: DefaultDriftCeiling,
		// Aphelion of a bound orbit with a ~ 100, e ~ 0.2.
		InitState: InitStateConfig{R: 120, Theta: math.Pi / 2, VPhi: 6.804e-4},
	},
	"infall": {
		Units: "geometrized", Mass: 1, Integrator: "rk4",
		Dt: 0.001, MaxProperTime: 100,
		MinRadius: 2.1, MaxRadius: 1e4,
		DriftTolerance: DefaultDriftWarn, DriftCeiling: DefaultDriftCeiling,
		InitState: InitStateConfig{R: 8, Theta: math.Pi / 2},
	},
	// A particle skimming an Earth-mass black hole (rs below a
	// centimeter) at thirty meters.
	"earth-bh": {
		Units: "si", MassKg: 5.9722e24, Integrator: "rk4",
		Dt: 1e-6, MaxProperTime: 4e-4,
		MinRadius: 0.01, MaxRadius: 1e6,
		DriftTolerance: DefaultDriftWarn, DriftCeiling: DefaultDriftCeiling,
		InitState: InitStateConfig{R: 30, Theta: math.Pi / 2, VPhi: 20000},
	},
	// Mercury near perihelion around the sun. The famous 43"/century
	// works out to about 5e-7 radians per orbit.
	"mercury": {
		Units: "si", MassSolar: 1, Integrator: "rk45", Adaptive: true,
		Dt: 100, MaxProperTime: 2.3e7,
		Tolerance: 1e-12, MinDt: 1e-3, MaxDt: 5000,
		MinRadius: 1e4, MaxRadius: 1e12,
		DriftTolerance: DefaultDriftWarn, DriftCeiling: DefaultDriftCeiling,
		InitState: InitStateConfig{R: 4.60012e10, Theta: math.Pi / 2, VPhi: 1.28214e-6},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	clone := *cfg
	return &clone
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
