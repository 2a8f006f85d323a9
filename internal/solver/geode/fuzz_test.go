package geode

import (
	"context"
	"testing"

	"github.com/napolitain/geode-solver/internal/models"
)

func fuzzBlueprint(oreOre, clayOre, obsOre, obsClay, geoOre, geoObs uint8) *models.Blueprint {
	// Keep costs in a realistic range so searches stay short
	c := func(v uint8) int { return int(v%8) + 1 }
	return &models.Blueprint{
		ID: 1,
		Robots: [models.NumResources]models.Costs{
			models.Ore:      {models.Ore: c(oreOre)},
			models.Clay:     {models.Ore: c(clayOre)},
			models.Obsidian: {models.Ore: c(obsOre), models.Clay: c(obsClay) * 2},
			models.Geode:    {models.Ore: c(geoOre), models.Obsidian: c(geoObs) * 2},
		},
	}
}

func FuzzJumpToNeverNegative(f *testing.F) {
	f.Add(uint8(4), uint8(2), uint8(3), uint8(7), uint8(2), uint8(3), uint8(0), uint8(16))
	f.Add(uint8(2), uint8(3), uint8(3), uint8(4), uint8(3), uint8(6), uint8(1), uint8(20))
	f.Add(uint8(0), uint8(0), uint8(0), uint8(0), uint8(0), uint8(0), uint8(9), uint8(0))

	f.Fuzz(func(t *testing.T, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs, robotByte, horizonByte uint8) {
		bp := fuzzBlueprint(oreOre, clayOre, obsOre, obsClay, geoOre, geoObs)
		horizon := int(horizonByte % 25)
		robot := models.RobotType(int(robotByte) % models.NumResources)

		for _, state := range walk(bp, horizon, 50) {
			child, ok := JumpTo(bp, robot, state)
			if !ok {
				continue
			}
			for _, r := range models.AllResources() {
				if child.Stock[r] < 0 {
					t.Fatalf("negative %s stock after %s robot: %s -> %s", r, robot, state, child)
				}
			}
			if child.Tick <= state.Tick {
				t.Fatalf("tick did not advance: %s -> %s", state, child)
			}
		}
	})
}

func FuzzSolveSchedulesReplay(f *testing.F) {
	f.Add(uint8(4), uint8(2), uint8(3), uint8(7), uint8(2), uint8(3), uint8(18))
	f.Add(uint8(2), uint8(3), uint8(3), uint8(4), uint8(3), uint8(6), uint8(20))
	f.Add(uint8(1), uint8(1), uint8(1), uint8(1), uint8(1), uint8(1), uint8(12))

	f.Fuzz(func(t *testing.T, oreOre, clayOre, obsOre, obsClay, geoOre, geoObs, horizonByte uint8) {
		bp := fuzzBlueprint(oreOre, clayOre, obsOre, obsClay, geoOre, geoObs)
		horizon := int(horizonByte % 21)

		sol, err := NewSolver(bp, horizon).Run(context.Background())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		got, err := Replay(bp, horizon, sol.Schedule)
		if err != nil {
			t.Fatalf("schedule %v does not replay: %v", sol.Schedule, err)
		}
		if got != sol.Geodes {
			t.Fatalf("replay = %d, solution = %d", got, sol.Geodes)
		}
		if bound := UpperBound(NewState(), horizon); sol.Geodes > bound {
			t.Fatalf("solution %d exceeds root bound %d", sol.Geodes, bound)
		}
	})
}
