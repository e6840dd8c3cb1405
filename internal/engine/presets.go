package engine

import (
	"sort"

	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/potential"
	"github.com/san-kum/mdsim/internal/species"
)

// presets holds named starting configurations for common study setups a
// user would otherwise have to hand-assemble every time.
var presets = map[string]SimConfig{
	"argon/nvt-equilibrate": {
		Species:     species.Argon,
		AtomCount:   8,
		Potential:   potential.LennardJones,
		Boundary:    mdbox.Periodic,
		Ensemble:    NVT,
		TTarget:     300,
		VInit:       22.4,
		Dt:          0.001,
		NSteps:      200,
		ReportEvery: 1,
		Substeps:    DefaultSubsteps,
		TauT:        DefaultTauT,
		ChainLength: DefaultChainLength,
		Seed:        1,
	},
	"argon/npt-1atm": {
		Species:     species.Argon,
		AtomCount:   100,
		Potential:   potential.LennardJones,
		Boundary:    mdbox.Periodic,
		Ensemble:    NPT,
		TTarget:     300,
		PTarget:     1,
		VInit:       22.4,
		Dt:          0.001,
		NSteps:      5000,
		ReportEvery: 1,
		Substeps:    DefaultSubsteps,
		TauT:        DefaultTauT,
		TauP:        DefaultTauP,
		ChainLength: DefaultChainLength,
		Seed:        1,
	},
	"helium/gas-none": {
		Species:     species.Helium,
		AtomCount:   50,
		Potential:   potential.None,
		Boundary:    mdbox.Reflect,
		Ensemble:    NVT,
		TTarget:     200,
		VInit:       22.4,
		Dt:          0.002,
		NSteps:      500,
		ReportEvery: 1,
		Substeps:    DefaultSubsteps,
		TauT:        DefaultTauT,
		ChainLength: DefaultChainLength,
		Seed:        1,
	},
	"krypton/soft-sphere-liquid": {
		Species:     species.Krypton,
		AtomCount:   120,
		Potential:   potential.SoftSphere,
		Boundary:    mdbox.Periodic,
		Ensemble:    NVT,
		TTarget:     150,
		VInit:       18,
		Dt:          0.0008,
		NSteps:      2000,
		ReportEvery: 1,
		Substeps:    DefaultSubsteps,
		TauT:        DefaultTauT,
		ChainLength: DefaultChainLength,
		Seed:        1,
	},
}

// PresetConfig returns the named preset's SimConfig, with documented
// defaults filled in.
func PresetConfig(name string) (SimConfig, bool) {
	cfg, ok := presets[name]
	if !ok {
		return SimConfig{}, false
	}
	return cfg.withDefaults(), true
}

// PresetNames returns every registered preset name, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
