package geode

import (
	"fmt"

	"github.com/napolitain/geode-solver/internal/models"
)

// Replay simulates schedule minute by minute and returns the geodes opened by
// the end of horizon. It fails if a build is unaffordable when due, or if
// actions are out of order or fall outside the horizon.
func Replay(bp *models.Blueprint, horizon int, schedule []BuildAction) (int, error) {
	state := NewState()
	next := 0

	for minute := 1; minute <= horizon; minute++ {
		building := -1
		if next < len(schedule) && schedule[next].Minute == minute {
			robot := schedule[next].Robot
			cost := bp.Robots[robot]
			for _, r := range models.AllResources() {
				if state.Stock[r] < cost[r] {
					return 0, fmt.Errorf("minute %d: cannot afford %s robot (have %d %s, need %d)",
						minute, robot, state.Stock[r], r, cost[r])
				}
			}
			for _, r := range models.AllResources() {
				state.Stock[r] -= cost[r]
			}
			building = int(robot)
			next++
		}

		for _, r := range models.AllResources() {
			state.Stock[r] += state.Robots[r]
		}
		if building >= 0 {
			state.Robots[building]++
		}
		state.Tick = minute
	}

	if next < len(schedule) {
		return 0, fmt.Errorf("action %q is out of order or past minute %d", schedule[next], horizon)
	}

	return state.Stock[models.Target], nil
}
