package astro

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config governs ambient, non-numerical concerns: logging level, output
// directory for CSV export, and default solver tolerances. Frame/ephemeris
// backend selection is explicitly out of scope (spec §1 Non-goals) — this
// is a narrower surface than the teacher's smdConfig() singleton, which
// also switched between SPICE and VSOP87/Meeus ephemeris backends; that
// switch has no home here because the core never picks an ephemeris
// backend itself (callers inject a CelestialBody/SunOracle directly).
type Config struct {
	LogLevel        string
	OutputDir       string
	DefaultAbsTol   float64
	DefaultRelTol   float64
	DefaultEventTol float64
}

// DefaultConfig returns the configuration used when no file is loaded.
func DefaultConfig() Config {
	return Config{
		LogLevel:        "info",
		OutputDir:       ".",
		DefaultAbsTol:   1e-12,
		DefaultRelTol:   1e-12,
		DefaultEventTol: 1e-6,
	}
}

// LoadConfig reads a TOML/YAML/JSON config file at path via viper,
// following the teacher's smdConfig() "read-once, return a plain struct"
// pattern, but loaded explicitly by the caller rather than cached behind a
// package-level singleton (spec §9 "pass ephemerides/config explicitly"
// redesign note).
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("log_level", "info")
	v.SetDefault("output_dir", ".")
	v.SetDefault("default_abs_tol", 1e-12)
	v.SetDefault("default_rel_tol", 1e-12)
	v.SetDefault("default_event_tol", 1e-6)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, NewWrongError("config file", fmt.Sprintf("could not read %s: %v", path, err))
	}

	return Config{
		LogLevel:        v.GetString("log_level"),
		OutputDir:       v.GetString("output_dir"),
		DefaultAbsTol:   v.GetFloat64("default_abs_tol"),
		DefaultRelTol:   v.GetFloat64("default_rel_tol"),
		DefaultEventTol: v.GetFloat64("default_event_tol"),
	}, nil
}

// IntegratorConfig builds an IntegratorConfig seeded with this Config's
// default tolerances.
func (c Config) IntegratorConfig(family SolverFamily) IntegratorConfig {
	cfg := DefaultIntegratorConfig()
	cfg.Family = family
	cfg.AbsTol = c.DefaultAbsTol
	cfg.RelTol = c.DefaultRelTol
	return cfg
}
