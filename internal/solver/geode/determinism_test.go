package geode

import (
	"context"
	"testing"
)

// TestSolverDeterminism verifies that repeated runs, sequential or parallel,
// return the same geode count, schedule and node count.
func TestSolverDeterminism(t *testing.T) {
	const iterations = 20

	first, err := NewSolver(blueprintB(), 24).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	t.Logf("Baseline: geodes=%d, nodes=%d, schedule=%v", first.Geodes, first.Stats.Nodes, first.Schedule)

	for i := 1; i < iterations; i++ {
		sol, err := NewSolver(blueprintB(), 24).Run(context.Background())
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if sol.Geodes != first.Geodes || sol.Stats != first.Stats || !sameSchedule(sol.Schedule, first.Schedule) {
			t.Fatalf("iteration %d differs: geodes=%d nodes=%d schedule=%v",
				i, sol.Geodes, sol.Stats.Nodes, sol.Schedule)
		}

		par, err := NewSolver(blueprintB(), 24).RunParallel(context.Background(), 4)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if par.Geodes != first.Geodes || !sameSchedule(par.Schedule, first.Schedule) {
			t.Fatalf("iteration %d: parallel differs: geodes=%d schedule=%v", i, par.Geodes, par.Schedule)
		}
	}
}
