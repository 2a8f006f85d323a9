package geode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/napolitain/geode-solver/internal/models"
)

// MaxHorizon bounds the horizon so bound arithmetic cannot overflow
const MaxHorizon = 1 << 20

// deadlineCheckMask sets how often (in visited nodes) the context is polled
const deadlineCheckMask = 4095

var (
	// ErrInterrupted is returned when the context ends before the search
	// finishes. The accompanying Solution holds the best result found so far.
	ErrInterrupted = errors.New("search interrupted")

	// ErrInvalidHorizon is returned for a negative or oversized horizon
	ErrInvalidHorizon = errors.New("invalid horizon")
)

// BuildAction records one robot built by a schedule. Minute is the 1-based
// minute during which the robot is assembled; it produces from the next one.
type BuildAction struct {
	Robot  models.RobotType
	Minute int
}

func (a BuildAction) String() string {
	return fmt.Sprintf("minute %d: build %s robot", a.Minute, a.Robot)
}

// Stats counts what the search did
type Stats struct {
	Nodes      int64 // states visited
	Pruned     int64 // states cut by the upper bound
	Infeasible int64 // builds that could never be afforded
	Overshoot  int64 // builds that would finish after the horizon
}

func (s *Stats) add(o Stats) {
	s.Nodes += o.Nodes
	s.Pruned += o.Pruned
	s.Infeasible += o.Infeasible
	s.Overshoot += o.Overshoot
}

// Solution is the outcome of a search for one blueprint
type Solution struct {
	BlueprintID int
	Horizon     int
	Geodes      int
	Schedule    []BuildAction
	Stats       Stats
	Complete    bool
	Elapsed     time.Duration
}

// Solver finds the most geodes a blueprint can open within Horizon minutes
type Solver struct {
	Blueprint *models.Blueprint
	Horizon   int
}

// NewSolver creates a solver for one blueprint
func NewSolver(bp *models.Blueprint, horizon int) *Solver {
	return &Solver{
		Blueprint: bp,
		Horizon:   horizon,
	}
}

// Solve runs the search for bp to completion and returns the best geode count.
// It panics on an invalid blueprint or horizon; use Solver.Run for an error.
func Solve(bp *models.Blueprint, horizon int) int {
	return NewSolver(bp, horizon).Solve()
}

// Solve runs the search to completion and returns the best geode count
func (s *Solver) Solve() int {
	sol, err := s.Run(context.Background())
	if err != nil {
		panic(err)
	}
	return sol.Geodes
}

// Run searches every schedule reachable within the horizon, depth first with
// branch-and-bound pruning. If ctx ends first, Run returns the best solution
// found so far together with an error wrapping ErrInterrupted.
func (s *Solver) Run(ctx context.Context) (*Solution, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	sr := s.newSearch(ctx)
	sr.explore(NewState())

	sol := sr.solution()
	sol.Elapsed = time.Since(start)
	if sr.stopped {
		return sol, s.interrupted(ctx, sol)
	}
	return sol, nil
}

func (s *Solver) validate() error {
	if err := s.Blueprint.Validate(); err != nil {
		return err
	}
	if s.Horizon < 0 || s.Horizon > MaxHorizon {
		return fmt.Errorf("horizon %d not in [0, %d]: %w", s.Horizon, MaxHorizon, ErrInvalidHorizon)
	}
	return nil
}

func (s *Solver) interrupted(ctx context.Context, sol *Solution) error {
	return fmt.Errorf("blueprint %d after %d states (best so far %d): %w: %w",
		s.Blueprint.ID, sol.Stats.Nodes, sol.Geodes, ErrInterrupted, context.Cause(ctx))
}

// UpperBound is an optimistic estimate of the geodes reachable from state: it
// assumes a new geode robot could be finished every remaining minute with
// no resource constraints. It never underestimates the true optimum.
func UpperBound(state State, horizon int) int {
	remaining := state.Remaining(horizon)
	return state.Stock[models.Target] +
		remaining*state.Robots[models.Target] +
		remaining*(remaining+1)/2
}

// search holds the mutable state of one depth-first exploration. Each Run,
// and each parallel worker, owns its own search.
type search struct {
	bp       *models.Blueprint
	horizon  int
	maxSpend [models.NumResources]int
	ctx      context.Context

	stopped bool
	found   bool
	best    int
	path    []BuildAction
	bestRun []BuildAction
	stats   Stats
}

func (s *Solver) newSearch(ctx context.Context) *search {
	return &search{
		bp:       s.Blueprint,
		horizon:  s.Horizon,
		maxSpend: s.Blueprint.MaxSpend(),
		ctx:      ctx,
	}
}

// explore visits state and every state reachable from it by building robots
func (sr *search) explore(state State) {
	if !sr.visit(state) {
		return
	}

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

		sr.path = append(sr.path, BuildAction{Robot: robot, Minute: child.Tick})
		sr.explore(child)
		sr.path = sr.path[:len(sr.path)-1]
	}
}

// visit records state as a candidate result and reports whether its
// children are worth exploring
func (sr *search) visit(state State) bool {
	if sr.stopped {
		return false
	}
	sr.stats.Nodes++
	if (sr.stats.Nodes-1)&deadlineCheckMask == 0 && sr.ctx != nil && sr.ctx.Err() != nil {
		sr.stopped = true
		return false
	}

	// Building nothing more is always an option
	if v := state.IdleValue(sr.horizon); v > sr.best || !sr.found {
		sr.found = true
		sr.best = v
		sr.bestRun = append(sr.bestRun[:0], sr.path...)
	}

	if UpperBound(state, sr.horizon) <= sr.best {
		sr.stats.Pruned++
		return false
	}
	return true
}

// saturated reports whether the factory already produces enough of robot's
// resource to cover any single build each minute. The target is never capped.
func (sr *search) saturated(state State, robot models.RobotType) bool {
	return robot != models.Target && state.Robots[robot] >= sr.maxSpend[robot]
}

func (sr *search) solution() *Solution {
	schedule := make([]BuildAction, len(sr.bestRun))
	copy(schedule, sr.bestRun)
	return &Solution{
		BlueprintID: sr.bp.ID,
		Horizon:     sr.horizon,
		Geodes:      sr.best,
		Schedule:    schedule,
		Stats:       sr.stats,
		Complete:    !sr.stopped,
	}
}
