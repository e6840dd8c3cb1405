package engine

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/potential"
	"github.com/san-kum/mdsim/internal/species"
)

// Ensemble selects the thermodynamic ensemble a run is driven under.
type Ensemble int

const (
	NVT Ensemble = iota
	NPT
)

func (e Ensemble) String() string {
	if e == NPT {
		return "NPT"
	}
	return "NVT"
}

// MaxAtomCount is the engine's upper bound on atom count.
const MaxAtomCount = 200

// Default tunables applied when a SimConfig leaves them unset.
const (
	DefaultSubsteps    = 10
	DefaultTauT        = 0.5
	DefaultTauP        = 1.0
	DefaultChainLength = 3
	DefaultReportEvery = 1
)

// SimConfig is the frozen-per-run configuration validated by Build.
type SimConfig struct {
	Species      species.Kind    `yaml:"species"`
	AtomCount    int             `yaml:"atom_count"`
	Potential    potential.Kind  `yaml:"potential"`
	Sigma        float64         `yaml:"sigma"`   // 0 => use species default
	Epsilon      float64         `yaml:"epsilon"` // 0 => use species default
	Mass         float64         `yaml:"mass"`    // 0 => use species default
	Boundary     mdbox.Kind      `yaml:"boundary"`
	Ensemble     Ensemble        `yaml:"ensemble"`
	TTarget      float64         `yaml:"t_target"`
	VInit        float64         `yaml:"v_init"` // L/mol
	PTarget      float64         `yaml:"p_target,omitempty"`
	Dt           float64         `yaml:"dt"`
	NSteps       int             `yaml:"n_steps"`
	ReportEvery  int             `yaml:"report_interval"`
	Substeps     int             `yaml:"substeps"`
	TauT         float64         `yaml:"tau_t"`
	TauP         float64         `yaml:"tau_p,omitempty"`
	ChainLength  int             `yaml:"chain_length"`
	Seed         int64           `yaml:"seed"`

	// DisableThermostat skips the particle NHC half-steps in both the NVT
	// and NPT pipelines. Under NVT this gives a microcanonical (NVE)
	// trajectory; under NPT the barostat and its own piston chain still run.
	DisableThermostat bool `yaml:"disable_thermostat,omitempty"`
}

// DefaultConfig returns a SimConfig with sensible defaults for an argon
// NVT run.
func DefaultConfig() SimConfig {
	return SimConfig{
		Species:     species.Argon,
		AtomCount:   50,
		Potential:   potential.LennardJones,
		Boundary:    mdbox.Periodic,
		Ensemble:    NVT,
		TTarget:     300,
		VInit:       22.4,
		Dt:          0.001,
		NSteps:      1000,
		ReportEvery: DefaultReportEvery,
		Substeps:    DefaultSubsteps,
		TauT:        DefaultTauT,
		TauP:        DefaultTauP,
		ChainLength: DefaultChainLength,
		Seed:        1,
	}
}

// resolvedSpecies returns the species record this config actually uses,
// applying any explicit sigma/epsilon/mass override.
func (c SimConfig) resolvedSpecies() species.Record {
	r := species.DefaultRecord(c.Species)
	if c.Sigma > 0 {
		r.Sigma = c.Sigma
	}
	if c.Epsilon > 0 {
		r.Epsilon = c.Epsilon
	}
	if c.Mass > 0 {
		r.Mass = c.Mass
	}
	return r
}

// Validate checks SimConfig's invariants, returning a *ConfigError wrapping
// ErrConfigInvalid on the first failure.
func (c SimConfig) Validate() error {
	if c.AtomCount < 1 || c.AtomCount > MaxAtomCount {
		return &ConfigError{Field: "atom_count", Reason: "must be in [1, 200]"}
	}
	rec := c.resolvedSpecies()
	if rec.Mass <= 0 {
		return &ConfigError{Field: "mass", Reason: "must be positive"}
	}
	if EnsurePotentialDefaults(c.Potential) && (rec.Sigma <= 0 || rec.Epsilon <= 0) {
		return &ConfigError{Field: "sigma/epsilon", Reason: "must be positive for lj/soft_sphere"}
	}
	if c.TTarget <= 0 {
		return &ConfigError{Field: "t_target", Reason: "must be positive"}
	}
	if c.VInit <= 0 {
		return &ConfigError{Field: "v_init", Reason: "must be positive"}
	}
	if c.Dt <= 0 {
		return &ConfigError{Field: "dt", Reason: "must be positive"}
	}
	if c.NSteps < 0 {
		return &ConfigError{Field: "n_steps", Reason: "must be non-negative"}
	}
	if c.ReportEvery < 1 {
		return &ConfigError{Field: "report_interval", Reason: "must be at least 1"}
	}
	if c.Ensemble == NPT {
		if c.Boundary != mdbox.Periodic {
			return &ConfigError{Field: "boundary", Reason: "NPT requires periodic boundary"}
		}
		if c.PTarget <= 0 {
			return &ConfigError{Field: "p_target", Reason: "must be positive for NPT"}
		}
	}
	return nil
}

// withDefaults fills in zero-valued tunables with the documented defaults.
func (c SimConfig) withDefaults() SimConfig {
	if c.Substeps <= 0 {
		c.Substeps = DefaultSubsteps
	}
	if c.TauT <= 0 {
		c.TauT = DefaultTauT
	}
	if c.TauP <= 0 {
		c.TauP = DefaultTauP
	}
	if c.ChainLength <= 0 {
		c.ChainLength = DefaultChainLength
	}
	if c.ReportEvery <= 0 {
		c.ReportEvery = DefaultReportEvery
	}
	return c
}

// LoadConfig reads and validates a SimConfig from a YAML file.
func LoadConfig(path string) (SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SimConfig{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SimConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return SimConfig{}, err
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(path string, cfg SimConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
