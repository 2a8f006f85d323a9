package geode

import (
	"fmt"

	"github.com/napolitain/geode-solver/internal/models"
)

// EarliestAffordTime returns how many minutes of production state needs
// before it can pay for one robot of the given type. The second result is
// false when some missing resource has no producer at all, in which case the
// robot can never be built from this state.
func EarliestAffordTime(bp *models.Blueprint, robot models.RobotType, state State) (int, bool) {
	cost := bp.Robots[robot]
	wait := 0

	for _, r := range models.AllResources() {
		need := cost[r] - state.Stock[r]
		if need <= 0 {
			continue
		}
		producers := state.Robots[r]
		if producers == 0 {
			return 0, false
		}
		// Partial minutes of production are worth nothing
		if w := ceilDiv(need, producers); w > wait {
			wait = w
		}
	}

	return wait, true
}

// JumpTo advances state to the end of the minute in which one more robot of
// the given type is finished: it waits until the robot is affordable, spends
// one minute building it while every existing robot keeps producing, then
// adds the robot. Returns false if the robot can never be afforded.
func JumpTo(bp *models.Blueprint, robot models.RobotType, state State) (State, bool) {
	wait, ok := EarliestAffordTime(bp, robot, state)
	if !ok {
		return State{}, false
	}

	elapsed := wait + 1
	cost := bp.Robots[robot]

	next := state
	next.Tick += elapsed
	if next.Tick <= state.Tick {
		panic(fmt.Sprintf("geode: blueprint %d: time overflow building %s robot from %s (wait %d)",
			bp.ID, robot, state, wait))
	}
	for _, r := range models.AllResources() {
		next.Stock[r] += elapsed*state.Robots[r] - cost[r]
		if next.Stock[r] < 0 {
			panic(fmt.Sprintf("geode: blueprint %d: %s stock went negative (%d) building %s robot from %s",
				bp.ID, r, next.Stock[r], robot, state))
		}
	}
	next.Robots[robot]++

	return next, true
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
