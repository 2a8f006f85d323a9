package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/geode-solver/internal/batch"
	"github.com/napolitain/geode-solver/internal/config"
)

func (a *app) banner(cmd *cobra.Command, count int) {
	if a.quiet || a.cfg.Output == config.OutputJSON {
		return
	}
	w := cmd.OutOrStdout()
	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)

	titleColor.Fprintln(w, "\n╭───────────────────────────╮")
	titleColor.Fprintln(w, "│  Geode Factory Optimizer  │")
	titleColor.Fprintln(w, "╰───────────────────────────╯")
	fmt.Fprintln(w)
	infoColor.Fprintf(w, "📦 Loaded %d blueprints, %d minutes, %d workers\n\n", count, a.cfg.Minutes, a.cfg.Workers)
}

func printResults(w io.Writer, results []batch.Result) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Blueprint", "Geodes", "Quality", "States", "Pruned", "Time", "Status"}),
	)

	for _, r := range results {
		row := []string{
			fmt.Sprintf("%d", r.Blueprint.ID),
			fmt.Sprintf("%d", r.Geodes()),
			fmt.Sprintf("%d", r.Quality()),
		}
		if r.Solution == nil {
			row = append(row, "-", "-", "-", "rejected")
		} else {
			status := "optimal"
			if !r.Solution.Complete {
				status = "interrupted"
			}
			row = append(row,
				fmt.Sprintf("%d", r.Solution.Stats.Nodes),
				fmt.Sprintf("%d", r.Solution.Stats.Pruned),
				r.Solution.Elapsed.Round(time.Microsecond).String(),
				status,
			)
		}
		_ = table.Append(row)
	}

	_ = table.Render()
}

func printSchedule(w io.Writer, r batch.Result) {
	if r.Solution == nil {
		return
	}
	color.New(color.FgCyan).Fprintf(w, "\n🤖 Blueprint %d: %d geodes\n", r.Blueprint.ID, r.Solution.Geodes)
	if len(r.Solution.Schedule) == 0 {
		fmt.Fprintln(w, "   (no robots built)")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Minute", "Robot", "Cost"}),
	)
	for i, action := range r.Solution.Schedule {
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", action.Minute),
			action.Robot.String(),
			r.Blueprint.Cost(action.Robot).String(),
		})
	}
	_ = table.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
