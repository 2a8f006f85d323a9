package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/napolitain/geode-solver/internal/batch"
	"github.com/napolitain/geode-solver/internal/models"
)

// Watch runs a batch while rendering its progress. Quitting the program
// cancels the remaining searches, which then report their best so far.
func Watch(ctx context.Context, blueprints []*models.Blueprint, opts batch.Options, progOpts ...tea.ProgramOption) ([]batch.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(blueprints, opts.Minutes), progOpts...)

	var (
		results []batch.Result
		runErr  error
	)
	finished := make(chan struct{})
	onResult := opts.OnResult
	opts.OnResult = func(r batch.Result) {
		if onResult != nil {
			onResult(r)
		}
		p.Send(ResultMsg(r))
	}

	go func() {
		defer close(finished)
		results, runErr = batch.Run(ctx, blueprints, opts)
		p.Send(DoneMsg{Err: runErr})
	}()

	_, err := p.Run()
	cancel()
	<-finished
	if err != nil {
		return results, err
	}
	return results, runErr
}
