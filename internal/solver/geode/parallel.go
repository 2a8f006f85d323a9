package geode

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/napolitain/geode-solver/internal/models"
)

// branch is one first-level decision: the state after the first robot
type branch struct {
	action BuildAction
	state  State
}

// RunParallel splits the search on the first robot built and explores each
// branch on its own goroutine with its own best-so-far. Branch results are
// merged by max, ties going to the earlier branch, so the answer and the
// schedule match Run. workers <= 0 means GOMAXPROCS.
func (s *Solver) RunParallel(ctx context.Context, workers int) (*Solution, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()

	root := s.newSearch(ctx)
	var branches []branch
	if root.visit(NewState()) {
		branches = root.branches(NewState())
	}

	results := make([]*Solution, len(branches))
	if len(branches) > 0 {
		workers = min(workers, len(branches))

		jobs := make(chan int, len(branches))
		for i := range branches {
			jobs <- i
		}
		close(jobs)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = s.exploreBranch(ctx, branches[i])
				}
			}()
		}
		wg.Wait()
	}

	merged := root.solution()
	for _, r := range results {
		merged.Stats.add(r.Stats)
		merged.Complete = merged.Complete && r.Complete
		if r.Geodes > merged.Geodes {
			merged.Geodes = r.Geodes
			merged.Schedule = r.Schedule
		}
	}
	merged.Elapsed = time.Since(start)

	if !merged.Complete {
		return merged, s.interrupted(ctx, merged)
	}
	return merged, nil
}

// branches lists the children explore would descend into from state, in the
// same order
func (sr *search) branches(state State) []branch {
	var out []branch
	for _, robot := range models.AllRobotTypes() {
		if sr.saturated(state, robot) {
			continue
		}
		child, ok := JumpTo(sr.bp, robot, state)
		if !ok {
			sr.stats.Infeasible++
			continue
		}
		if child.Tick > sr.horizon {
			sr.stats.Overshoot++
			continue
		}
		out = append(out, branch{
			action: BuildAction{Robot: robot, Minute: child.Tick},
			state:  child,
		})
	}
	return out
}

func (s *Solver) exploreBranch(ctx context.Context, b branch) *Solution {
	sr := s.newSearch(ctx)
	sr.path = append(sr.path, b.action)
	sr.explore(b.state)
	return sr.solution()
}
