package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/napolitain/geode-solver/internal/logging"
	"github.com/napolitain/geode-solver/internal/models"
	"github.com/napolitain/geode-solver/internal/solver/geode"
)

// Options controls a batch run
type Options struct {
	Minutes int
	Workers int           // concurrent searches; <= 0 means 1
	Timeout time.Duration // per blueprint, 0 = unlimited

	// OnResult, if set, is called once per blueprint as it finishes, from
	// the goroutine that called Run
	OnResult func(Result)
}

// Result is the outcome for one blueprint. Solution is nil only when the
// blueprint could not be searched at all; an interrupted search keeps its
// best-so-far Solution and sets Err.
type Result struct {
	Blueprint *models.Blueprint
	Solution  *geode.Solution
	Err       error
}

// Geodes returns the best geode count, 0 without a solution
func (r Result) Geodes() int {
	if r.Solution == nil {
		return 0
	}
	return r.Solution.Geodes
}

// Quality is the blueprint id times its geode count
func (r Result) Quality() int {
	return r.Blueprint.ID * r.Geodes()
}

// Run solves every blueprint with a pool of workers and returns results in
// input order. The error joins every per-blueprint error.
func Run(ctx context.Context, blueprints []*models.Blueprint, opts Options) ([]Result, error) {
	workers := max(opts.Workers, 1)
	results := make([]Result, len(blueprints))
	if len(blueprints) == 0 {
		return results, nil
	}

	// Spare workers go to splitting each search on its first decision
	branchWorkers := max(workers/len(blueprints), 1)
	workers = min(workers, len(blueprints))

	type done struct {
		idx int
		res Result
	}
	jobs := make(chan int, len(blueprints))
	for i := range blueprints {
		jobs <- i
	}
	close(jobs)
	resultCh := make(chan done, len(blueprints))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				resultCh <- done{idx, solveOne(ctx, blueprints[idx], opts, branchWorkers)}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var errs []error
	for d := range resultCh {
		results[d.idx] = d.res
		if d.res.Err != nil {
			errs = append(errs, d.res.Err)
		}
		if opts.OnResult != nil {
			opts.OnResult(d.res)
		}
	}

	return results, errors.Join(errs...)
}

func solveOne(ctx context.Context, bp *models.Blueprint, opts Options, branchWorkers int) Result {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	solver := geode.NewSolver(bp, opts.Minutes)
	var (
		sol *geode.Solution
		err error
	)
	if branchWorkers > 1 {
		sol, err = solver.RunParallel(ctx, branchWorkers)
	} else {
		sol, err = solver.Run(ctx)
	}

	switch {
	case err != nil && sol == nil:
		logging.Error("blueprint rejected", "id", bp.ID, "error", err)
		return Result{Blueprint: bp, Err: fmt.Errorf("blueprint %d: %w", bp.ID, err)}
	case err != nil:
		logging.Warn("search interrupted", "id", bp.ID, "best", sol.Geodes, "nodes", sol.Stats.Nodes, "elapsed", sol.Elapsed)
	default:
		logging.Info("blueprint solved", "id", bp.ID, "geodes", sol.Geodes, "elapsed", sol.Elapsed)
	}
	logging.Debug("search stats", "id", bp.ID,
		"nodes", sol.Stats.Nodes, "pruned", sol.Stats.Pruned,
		"infeasible", sol.Stats.Infeasible, "overshoot", sol.Stats.Overshoot)

	return Result{Blueprint: bp, Solution: sol, Err: err}
}

// QualitySum adds up id × geodes over results
func QualitySum(results []Result) int {
	total := 0
	for _, r := range results {
		total += r.Quality()
	}
	return total
}

// Product multiplies the geode counts of results; 1 for no results
func Product(results []Result) int {
	product := 1
	for _, r := range results {
		product *= r.Geodes()
	}
	return product
}

// First returns at most n blueprints from the front; n <= 0 keeps all
func First(blueprints []*models.Blueprint, n int) []*models.Blueprint {
	if n <= 0 || n >= len(blueprints) {
		return blueprints
	}
	return blueprints[:n]
}
