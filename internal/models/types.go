package models

import (
	"errors"
	"fmt"
	"strings"
)

// Resource represents the different resource types in the factory
type Resource int

const (
	Ore Resource = iota
	Clay
	Obsidian
	Geode
)

// NumResources is the number of resource (and robot) types
const NumResources = 4

// Target is the resource the solver maximizes
const Target = Geode

var resourceNames = [NumResources]string{"ore", "clay", "obsidian", "geode"}

// AllResources returns all resource types in deterministic order
func AllResources() []Resource {
	return []Resource{Ore, Clay, Obsidian, Geode}
}

func (r Resource) String() string {
	if r < 0 || int(r) >= NumResources {
		return fmt.Sprintf("resource(%d)", int(r))
	}
	return resourceNames[r]
}

// ParseResource maps a resource name ("ore", "Obsidian", ...) to its Resource
func ParseResource(name string) (Resource, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, rn := range resourceNames {
		if rn == n {
			return Resource(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", name)
}

// RobotType represents a kind of production capacity. A robot of type r
// produces one unit of resource r per minute, forever.
type RobotType = Resource

// AllRobotTypes returns robot types in search order: the target producer
// first, ore last. Order changes search speed only.
func AllRobotTypes() []RobotType {
	return []RobotType{Geode, Obsidian, Clay, Ore}
}

// Costs is the amount of each resource consumed to build one robot
type Costs [NumResources]int

// IsZero reports whether nothing is consumed
func (c Costs) IsZero() bool {
	return c == Costs{}
}

func (c Costs) String() string {
	var parts []string
	for _, r := range AllResources() {
		if c[r] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c[r], r))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, " and ")
}

// MaxCost bounds a single cost amount so that waiting times and stock stay
// far from integer overflow
const MaxCost = 1 << 31

var (
	// ErrNegativeCost is returned when a blueprint lists a negative amount
	ErrNegativeCost = errors.New("negative cost")

	// ErrCostTooLarge is returned when an amount exceeds MaxCost
	ErrCostTooLarge = errors.New("cost too large")
)

// Blueprint is the cost table of a factory: what each robot type consumes.
// Blueprints are immutable once parsed.
type Blueprint struct {
	ID     int
	Robots [NumResources]Costs
}

// Cost returns the build cost of a robot type
func (b *Blueprint) Cost(robot RobotType) Costs {
	return b.Robots[robot]
}

// Validate checks that every amount is in [0, MaxCost]
func (b *Blueprint) Validate() error {
	if b == nil {
		return errors.New("blueprint is nil")
	}
	for _, robot := range AllResources() {
		for _, r := range AllResources() {
			if b.Robots[robot][r] < 0 {
				return fmt.Errorf("blueprint %d: %s robot costs %d %s: %w",
					b.ID, robot, b.Robots[robot][r], r, ErrNegativeCost)
			}
			if b.Robots[robot][r] > MaxCost {
				return fmt.Errorf("blueprint %d: %s robot costs %d %s, above %d: %w",
					b.ID, robot, b.Robots[robot][r], r, MaxCost, ErrCostTooLarge)
			}
		}
	}
	return nil
}

// MaxSpend returns, for each resource, the largest amount any robot type
// consumes of it. Only one robot is built per minute, so once a robot type's
// count reaches this the factory can never run short of its resource. The
// target entry is left 0.
func (b *Blueprint) MaxSpend() [NumResources]int {
	var spend [NumResources]int
	for _, robot := range AllResources() {
		for _, r := range AllResources() {
			spend[r] = max(spend[r], b.Robots[robot][r])
		}
	}
	spend[Target] = 0
	return spend
}

func (b *Blueprint) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Blueprint %d:", b.ID)
	for _, robot := range AllResources() {
		fmt.Fprintf(&sb, " Each %s robot costs %s.", robot, b.Robots[robot])
	}
	return sb.String()
}
