// Command mdsim is the CLI front-end for the molecular-dynamics engine: a
// cobra root command with run/list/plot/presets/live subcommands,
// package-level flag variables bound with cobra.Flags(), and
// tabwriter/asciigraph for terminal output.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/engine"
	"github.com/san-kum/mdsim/internal/mdbox"
	"github.com/san-kum/mdsim/internal/observables"
	"github.com/san-kum/mdsim/internal/potential"
	"github.com/san-kum/mdsim/internal/species"
	"github.com/san-kum/mdsim/internal/store"
	"github.com/san-kum/mdsim/internal/tui"
	"github.com/san-kum/mdsim/internal/units"
)

var (
	dataDir      string
	speciesFlag  string
	atomCount    int
	potentialFl  string
	boundaryFl   string
	ensembleFl   string
	tTarget      float64
	pTarget      float64
	vInit        float64
	dt           float64
	nSteps       int
	reportEvery  int
	seed         int64
	configFile   string
	presetName   string
	disableTherm bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mdsim",
		Short: "noble-gas molecular dynamics engine",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mdsim", "run data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation headlessly and record it",
		RunE:  runHeadless,
	}
	bindRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live terminal view",
		RunE:  runLive,
	}
	bindRunFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named preset configurations",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run's observables",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, listCmd, plotCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&speciesFlag, "species", "Ar", "species: He, Ne, Ar, Kr, Xe")
	cmd.Flags().IntVar(&atomCount, "atoms", 50, "atom count")
	cmd.Flags().StringVar(&potentialFl, "potential", "lj", "potential: none, lj, soft_sphere")
	cmd.Flags().StringVar(&boundaryFl, "boundary", "periodic", "boundary: reflect, periodic")
	cmd.Flags().StringVar(&ensembleFl, "ensemble", "nvt", "ensemble: nvt, npt")
	cmd.Flags().Float64Var(&tTarget, "temperature", 300, "target temperature (K)")
	cmd.Flags().Float64Var(&pTarget, "pressure", 1, "target pressure (atm, npt only)")
	cmd.Flags().Float64Var(&vInit, "volume", 22.4, "initial molar volume (L/mol)")
	cmd.Flags().Float64Var(&dt, "dt", 0.001, "timestep (ps)")
	cmd.Flags().IntVar(&nSteps, "steps", 1000, "number of reported steps")
	cmd.Flags().IntVar(&reportEvery, "report-every", 1, "dt-sized steps advanced per reported step (one callback per reported step)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml), overrides flags")
	cmd.Flags().StringVar(&presetName, "preset", "", "use a named preset configuration")
	cmd.Flags().BoolVar(&disableTherm, "disable-thermostat", false, "run without thermostat coupling (microcanonical trajectory under the chosen ensemble)")
}

func resolveConfig() (engine.SimConfig, error) {
	if presetName != "" {
		cfg, ok := engine.PresetConfig(presetName)
		if !ok {
			return engine.SimConfig{}, fmt.Errorf("unknown preset: %s (available: %v)", presetName, engine.PresetNames())
		}
		return cfg, nil
	}
	if configFile != "" {
		return engine.LoadConfig(configFile)
	}

	cfg := engine.DefaultConfig()
	cfg.Species = parseSpecies(speciesFlag)
	cfg.AtomCount = atomCount
	cfg.Potential = parsePotential(potentialFl)
	cfg.Boundary = parseBoundary(boundaryFl)
	cfg.Ensemble = parseEnsemble(ensembleFl)
	cfg.TTarget = tTarget
	cfg.PTarget = pTarget
	cfg.VInit = vInit
	cfg.Dt = dt
	cfg.NSteps = nSteps
	cfg.ReportEvery = reportEvery
	cfg.Seed = seed
	cfg.DisableThermostat = disableTherm
	return cfg, nil
}

func parseSpecies(s string) species.Kind {
	switch s {
	case "He":
		return species.Helium
	case "Ne":
		return species.Neon
	case "Kr":
		return species.Krypton
	case "Xe":
		return species.Xenon
	default:
		return species.Argon
	}
}

func parsePotential(s string) potential.Kind {
	switch s {
	case "none":
		return potential.None
	case "soft_sphere":
		return potential.SoftSphere
	default:
		return potential.LennardJones
	}
}

func parseBoundary(s string) mdbox.Kind {
	if s == "reflect" {
		return mdbox.Reflect
	}
	return mdbox.Periodic
}

func parseEnsemble(s string) engine.Ensemble {
	if s == "npt" {
		return engine.NPT
	}
	return engine.NVT
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	eng := engine.New()
	if err := eng.Build(cfg); err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	rec, err := st.NewRecorder(cfg)
	if err != nil {
		return err
	}

	eng.OnSample(func(s observables.Sample) {
		_ = rec.Record(eng.Time().CurrentSimTime, s)
	})

	if err := eng.StartRun(); err != nil {
		return err
	}
	if err := eng.RunToCompletion(); err != nil {
		return err
	}

	averages := map[string]float64{
		"temperature": eng.AverageTemperature(),
		"pressure":    eng.AveragePressure(),
		"volume":      eng.AverageVolume(),
		"kinetic_e":   eng.AverageKinetic(),
		"potential_e": eng.AveragePotential(),
		"total_e":     eng.AverageTotal(),
	}
	runID, err := rec.Finish(eng.StepCounter(), averages)
	if err != nil {
		return err
	}
	molarVolume := units.BoxVolumeToMolarVolume(eng.AverageVolume(), cfg.AtomCount)
	fmt.Printf("run complete: %s (%d steps, avg volume %.3f L/mol)\n", runID, eng.StepCounter(), molarVolume)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	eng := engine.New()
	if err := eng.Build(cfg); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(eng))
	_, err = p.Run()
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := engine.PresetNames()
	if len(names) == 0 {
		fmt.Println("no presets registered")
		return nil
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSPECIES\tENSEMBLE\tATOMS\tSTEPS\tTIME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID, run.Species, run.Ensemble, run.Config.AtomCount, run.StepsRun,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s  species: %s  ensemble: %s  steps: %d\n\n", meta.ID, meta.Species, meta.Ensemble, meta.StepsRun)
	for name, value := range meta.Averages {
		fmt.Printf("average %s: %.4f\n", name, value)
	}

	sample := []float64{meta.Averages["temperature"], meta.Averages["temperature"]}
	fmt.Println()
	fmt.Println(asciigraph.Plot(sample, asciigraph.Height(4), asciigraph.Width(40), asciigraph.Caption("temperature (average marker)")))
	return nil
}
