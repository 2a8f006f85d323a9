package geode

import (
	"strings"
	"testing"

	"github.com/napolitain/geode-solver/internal/models"
)

// The walkthrough schedule for blueprint 1 over 24 minutes
var walkthrough = []BuildAction{
	{models.Clay, 3},
	{models.Clay, 5},
	{models.Clay, 7},
	{models.Obsidian, 11},
	{models.Clay, 12},
	{models.Obsidian, 15},
	{models.Geode, 18},
	{models.Geode, 21},
}

func TestReplayWalkthrough(t *testing.T) {
	got, err := Replay(blueprintA(), 24, walkthrough)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if got != 9 {
		t.Errorf("Replay = %d, want 9", got)
	}
}

func TestReplayMatchesJumps(t *testing.T) {
	bp := blueprintA()
	state := NewState()
	for _, a := range walkthrough {
		next, ok := JumpTo(bp, a.Robot, state)
		if !ok {
			t.Fatalf("%s not reachable from %s", a, state)
		}
		// Jumping lands on the earliest minute; the walkthrough never waits longer
		if next.Tick != a.Minute {
			t.Fatalf("%s: jump lands on minute %d", a, next.Tick)
		}
		state = next
	}
	if v := state.IdleValue(24); v != 9 {
		t.Errorf("idle value after walkthrough = %d, want 9", v)
	}
}

func TestReplayErrors(t *testing.T) {
	bp := blueprintA()

	tests := []struct {
		name     string
		schedule []BuildAction
		want     string
	}{
		{"unaffordable", []BuildAction{{models.Ore, 2}}, "cannot afford"},
		{"out of order", []BuildAction{{models.Clay, 5}, {models.Clay, 3}}, "out of order"},
		{"same minute", []BuildAction{{models.Clay, 5}, {models.Clay, 5}}, "out of order"},
		{"past horizon", []BuildAction{{models.Clay, 30}}, "out of order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Replay(bp, 24, tt.schedule)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
