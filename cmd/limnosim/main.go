package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/limnetics/limnosim/internal/foodweb"
	"github.com/limnetics/limnosim/internal/scenario"
	"github.com/limnetics/limnosim/internal/store"
	"github.com/limnetics/limnosim/internal/viz"
)

var (
	dataDir      string
	scenarioPath string
	days         float64
	dt           float64
	variable     string
	outPath      string
	frameRate    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "limnosim",
		Short: "lake ecosystem simulation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".limnosim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario",
		RunE:  runScenario,
	}
	runCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "scenario.yaml", "scenario file (yaml)")
	runCmd.Flags().Float64Var(&days, "days", 0, "simulation length in days (overrides scenario)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep in days (overrides scenario)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&variable, "var", "", "state variable to plot (default: first)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run as wide-format CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: <run_id>.csv)")

	matricesCmd := &cobra.Command{
		Use:   "matrices",
		Short: "print the food-web preference and egestion matrices",
		RunE:  printMatrices,
	}
	matricesCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "scenario.yaml", "scenario file (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scenario with live visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "scenario.yaml", "scenario file (yaml)")
	liveCmd.Flags().Float64Var(&days, "days", 0, "simulation length in days (overrides scenario)")
	liveCmd.Flags().Float64Var(&dt, "dt", 0, "timestep in days (overrides scenario)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, matricesCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadScenario(cmd *cobra.Command) (*scenario.Scenario, float64, float64, error) {
	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return nil, 0, 0, err
	}
	runDays, runDt := sc.Run.Days, sc.Run.Dt
	if cmd.Flags().Changed("days") {
		runDays = days
	}
	if cmd.Flags().Changed("dt") {
		runDt = dt
	}
	if runDays <= 0 || runDt <= 0 {
		return nil, 0, 0, fmt.Errorf("days and dt must be positive (days=%g dt=%g)", runDays, runDt)
	}
	return sc, runDays, runDt, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, runDays, runDt, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	s, err := sc.Build(filepath.Dir(scenarioPath))
	if err != nil {
		return err
	}

	start := s.StartTime()
	end := start.Add(time.Duration(runDays * float64(24) * float64(time.Hour)))
	if err := s.Run(end, runDt); err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(store.RunMetadata{
		Scenario:    sc.Name,
		Method:      sc.Run.Method,
		Dt:          runDt,
		Days:        runDays,
		FinalVolume: s.Env.Volume,
		Variables:   s.VariableNames(),
	}, s.OutputResults())
	if err != nil {
		return err
	}

	outputs := s.OutputResults()
	fmt.Printf("run %s: %d ticks (%s to %s)\n", runID, len(outputs),
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("final volume: %.3f m^3\n", s.Env.Volume)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "variable\tfinal\t\n")
	if len(outputs) > 0 {
		last := outputs[len(outputs)-1]
		for _, name := range s.VariableNames() {
			fmt.Fprintf(w, "%s\t%.6g\t\n", name, last.Values[name])
		}
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "id\tscenario\tticks\tdt\tfinal volume\t\n")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%.3f\t\n", r.ID, r.Scenario, r.Ticks, r.Dt, r.FinalVolume)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.LoadMetadata(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadResults(args[0])
	if err != nil {
		return err
	}
	name := variable
	if name == "" {
		if len(meta.Variables) == 0 {
			return fmt.Errorf("run %s has no variables", args[0])
		}
		name = meta.Variables[0]
	}
	values := store.Trajectory(rows, name)
	if len(values) == 0 {
		return fmt.Errorf("no samples for variable %q (have %v)", name, meta.Variables)
	}
	fmt.Println(asciigraph.Plot(values,
		asciigraph.Height(16),
		asciigraph.Width(90),
		asciigraph.Caption(fmt.Sprintf("%s (%s)", name, args[0])),
	))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.LoadMetadata(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadResults(args[0])
	if err != nil {
		return err
	}

	// Pivot the long rows back into one wide line per tick.
	type tick struct {
		time   string
		values map[string]float64
	}
	var ticks []*tick
	byTime := make(map[string]*tick)
	for _, r := range rows {
		tk, ok := byTime[r.Time]
		if !ok {
			tk = &tick{time: r.Time, values: make(map[string]float64)}
			byTime[r.Time] = tk
			ticks = append(ticks, tk)
		}
		tk.values[r.Variable] = r.Value
	}

	path := outPath
	if path == "" {
		path = args[0] + ".csv"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"time"}, meta.Variables...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, tk := range ticks {
		record := make([]string, 0, len(header))
		record = append(record, tk.time)
		for _, name := range meta.Variables {
			record = append(record, strconv.FormatFloat(tk.values[name], 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	fmt.Printf("exported %d ticks to %s\n", len(ticks), path)
	return nil
}

func printMatrices(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}
	s, err := sc.Build(filepath.Dir(scenarioPath))
	if err != nil {
		return err
	}
	if s.Env.Web == nil {
		return fmt.Errorf("scenario %s has no food web", scenarioPath)
	}
	pools := make([]foodweb.Pool, len(s.Vars))
	for i, sv := range s.Vars {
		pools[i] = sv
	}
	names, preferences, egestion := s.Env.Web.BuildMatrices(pools)
	if len(names) == 0 {
		fmt.Println("no biota in scenario")
		return nil
	}
	fmt.Println("organisms (row = predator, column = prey):")
	for i, name := range names {
		fmt.Printf("  [%d] %s\n", i, name)
	}
	fmt.Printf("\npreference weights:\n%v\n",
		mat.Formatted(preferences, mat.Prefix(""), mat.Squeeze()))
	fmt.Printf("\negestion coefficients:\n%v\n",
		mat.Formatted(egestion, mat.Prefix(""), mat.Squeeze()))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	sc, runDays, runDt, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	s, err := sc.Build(filepath.Dir(scenarioPath))
	if err != nil {
		return err
	}
	return viz.Run(s, runDays, runDt, frameRate)
}
