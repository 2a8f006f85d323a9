package geode

import (
	"math/rand"

	"github.com/napolitain/geode-solver/internal/models"
)

// walk collects up to n distinct states reachable within horizon by random
// jumps from the starting state. Seeded, so deterministic.
func walk(bp *models.Blueprint, horizon, n int) []State {
	rng := rand.New(rand.NewSource(19))
	seen := make(map[State]bool)
	var out []State

	for attempts := 0; len(out) < n && attempts < n*20; attempts++ {
		state := NewState()
		for {
			if !seen[state] {
				seen[state] = true
				out = append(out, state)
			}
			robots := models.AllRobotTypes()
			robot := robots[rng.Intn(len(robots))]
			next, ok := JumpTo(bp, robot, state)
			if !ok || next.Tick > horizon {
				break
			}
			state = next
		}
	}
	return out
}

// exhaustive returns the best geode count reachable from state with no
// pruning of any kind
func exhaustive(bp *models.Blueprint, horizon int, state State) int {
	best := state.IdleValue(horizon)
	for _, robot := range models.AllRobotTypes() {
		child, ok := JumpTo(bp, robot, state)
		if !ok || child.Tick > horizon {
			continue
		}
		best = max(best, exhaustive(bp, horizon, child))
	}
	return best
}
