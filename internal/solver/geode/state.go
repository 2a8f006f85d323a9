package geode

import (
	"fmt"

	"github.com/napolitain/geode-solver/internal/models"
)

// State is a snapshot of the factory after Tick minutes. It is a value type:
// transitions return a new State and never modify the receiver, so sibling
// branches never share one.
type State struct {
	Stock  [models.NumResources]int
	Robots [models.NumResources]int
	Tick   int
}

// NewState returns the starting factory: one ore robot, nothing in stock
func NewState() State {
	var s State
	s.Robots[models.Ore] = 1
	return s
}

// Remaining returns the minutes left before horizon, never negative
func (s State) Remaining(horizon int) int {
	return max(horizon-s.Tick, 0)
}

// IdleValue is the target stock at horizon if nothing else is ever built
func (s State) IdleValue(horizon int) int {
	return s.Stock[models.Target] + s.Robots[models.Target]*s.Remaining(horizon)
}

func (s State) String() string {
	return fmt.Sprintf("t=%d stock=[ore:%d clay:%d obs:%d geo:%d] robots=[ore:%d clay:%d obs:%d geo:%d]",
		s.Tick,
		s.Stock[models.Ore], s.Stock[models.Clay], s.Stock[models.Obsidian], s.Stock[models.Geode],
		s.Robots[models.Ore], s.Robots[models.Clay], s.Robots[models.Obsidian], s.Robots[models.Geode])
}
