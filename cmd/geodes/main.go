package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/geode-solver/internal/batch"
	"github.com/napolitain/geode-solver/internal/config"
	"github.com/napolitain/geode-solver/internal/loader"
	"github.com/napolitain/geode-solver/internal/logging"
	"github.com/napolitain/geode-solver/internal/models"
	"github.com/napolitain/geode-solver/internal/solver/geode"
	"github.com/napolitain/geode-solver/internal/tui"
)

// productMinutes is the horizon of the product mode unless overridden
const productMinutes = 32

type app struct {
	cfg      config.Config
	input    string
	quiet    bool
	schedule bool
	verify   bool
	getenv   func(string) string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Getenv).ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	a := &app{getenv: getenv}

	cfg, envErr := config.Default().ApplyEnv(getenv)
	a.cfg = cfg

	rootCmd := &cobra.Command{
		Use:   "geodes",
		Short: "Geode cracking robot factory optimizer",
		Long: `Finds, for each blueprint, the robot build order that opens the most
geodes within a fixed number of minutes, using a depth-first
branch-and-bound search.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			logging.Init(a.cfg.LogLevel)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	a.cfg.BindFlags(flags)
	flags.StringVarP(&a.input, "input", "i", "-", "Blueprint file, text or JSON (- for stdin)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Minimal output")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve every blueprint and show the best schedules",
		RunE:  a.runSolve,
	}
	solveCmd.Flags().BoolVarP(&a.schedule, "schedule", "s", true, "Print each blueprint's build schedule")
	solveCmd.Flags().BoolVar(&a.verify, "verify", false, "Replay every schedule minute by minute")

	qualityCmd := &cobra.Command{
		Use:   "quality",
		Short: "Sum of blueprint id × geodes over all blueprints",
		RunE:  a.runQuality,
	}

	productCmd := &cobra.Command{
		Use:   "product",
		Short: fmt.Sprintf("Product of geodes over the first blueprints (%d minutes by default)", productMinutes),
		RunE:  a.runProduct,
	}
	productCmd.Flags().IntVar(&a.cfg.First, "first", a.cfg.First, "Blueprints to keep (0 = all)")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Solve every blueprint with a live progress view",
		RunE:  a.runWatch,
	}

	rootCmd.AddCommand(solveCmd, qualityCmd, productCmd, watchCmd)
	return rootCmd
}

func (a *app) load(cmd *cobra.Command) ([]*models.Blueprint, error) {
	var (
		bps []*models.Blueprint
		err error
	)
	if a.input == "" || a.input == "-" {
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", readErr)
		}
		bps, err = loader.Parse(data)
	} else {
		bps, err = loader.LoadBlueprints(a.input)
	}
	if err != nil {
		return nil, err
	}
	if len(bps) == 0 {
		return nil, errors.New("no blueprints found")
	}
	return bps, nil
}

func (a *app) options() batch.Options {
	return batch.Options{
		Minutes: a.cfg.Minutes,
		Workers: a.cfg.Workers,
		Timeout: a.cfg.Timeout,
	}
}

// solveAll runs the batch and separates interruptions, which still carry a
// best-so-far answer, from real failures
func (a *app) solveAll(cmd *cobra.Command, bps []*models.Blueprint) ([]batch.Result, error) {
	results, err := batch.Run(cmd.Context(), bps, a.options())
	return results, a.checkResults(cmd, results, err)
}

func (a *app) checkResults(cmd *cobra.Command, results []batch.Result, err error) error {
	if err == nil {
		return nil
	}
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		if !errors.Is(r.Err, geode.ErrInterrupted) {
			return err
		}
		if !a.quiet {
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "⚠ %v\n", r.Err)
		}
	}
	return nil
}

func (a *app) runSolve(cmd *cobra.Command, args []string) error {
	bps, err := a.load(cmd)
	if err != nil {
		return err
	}

	a.banner(cmd, len(bps))
	results, err := a.solveAll(cmd, bps)
	if err != nil {
		return err
	}

	if a.verify {
		if err := verify(results, a.cfg.Minutes); err != nil {
			return err
		}
	}

	if a.cfg.Output == config.OutputJSON {
		return writeJSON(cmd.OutOrStdout(), batch.NewReport(a.cfg.Minutes, results))
	}

	w := cmd.OutOrStdout()
	printResults(w, results)
	if a.schedule && !a.quiet {
		for _, r := range results {
			printSchedule(w, r)
		}
	}
	if a.verify {
		color.New(color.FgGreen).Fprintf(w, "✓ %d schedules replayed\n", len(results))
	}
	return nil
}

func (a *app) runQuality(cmd *cobra.Command, args []string) error {
	bps, err := a.load(cmd)
	if err != nil {
		return err
	}

	a.banner(cmd, len(bps))
	results, err := a.solveAll(cmd, bps)
	if err != nil {
		return err
	}
	return a.printTotal(cmd, results, "Quality sum", batch.QualitySum(results))
}

func (a *app) runProduct(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("minutes") && a.getenv(config.EnvPrefix+"MINUTES") == "" {
		a.cfg.Minutes = productMinutes
	}
	bps, err := a.load(cmd)
	if err != nil {
		return err
	}
	bps = batch.First(bps, a.cfg.First)

	a.banner(cmd, len(bps))
	results, err := a.solveAll(cmd, bps)
	if err != nil {
		return err
	}
	return a.printTotal(cmd, results, "Geode product", batch.Product(results))
}

func (a *app) runWatch(cmd *cobra.Command, args []string) error {
	bps, err := a.load(cmd)
	if err != nil {
		return err
	}

	progOpts := []tea.ProgramOption{tea.WithOutput(cmd.OutOrStdout())}
	if a.input == "" || a.input == "-" {
		// stdin held the blueprints, so there are no keys to read
		progOpts = append(progOpts, tea.WithInput(nil))
	}

	results, err := tui.Watch(cmd.Context(), bps, a.options(), progOpts...)
	if err := a.checkResults(cmd, results, err); err != nil {
		return err
	}
	return a.printTotal(cmd, results, "Quality sum", batch.QualitySum(results))
}

func (a *app) printTotal(cmd *cobra.Command, results []batch.Result, label string, total int) error {
	w := cmd.OutOrStdout()
	switch {
	case a.cfg.Output == config.OutputJSON:
		return writeJSON(w, batch.NewReport(a.cfg.Minutes, results))
	case a.quiet:
		fmt.Fprintln(w, total)
	default:
		printResults(w, results)
		color.New(color.FgGreen, color.Bold).Fprintf(w, "\n✓ %s: %d\n", label, total)
	}
	return nil
}

func verify(results []batch.Result, minutes int) error {
	for _, r := range results {
		if r.Solution == nil {
			continue
		}
		got, err := geode.Replay(r.Blueprint, minutes, r.Solution.Schedule)
		if err != nil {
			return fmt.Errorf("blueprint %d: schedule does not replay: %w", r.Blueprint.ID, err)
		}
		if got != r.Solution.Geodes {
			return fmt.Errorf("blueprint %d: schedule replays to %d geodes, search reported %d",
				r.Blueprint.ID, got, r.Solution.Geodes)
		}
	}
	return nil
}
