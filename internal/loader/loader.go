package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/napolitain/geode-solver/internal/models"
)

// ErrMalformed is wrapped by every parse error
var ErrMalformed = errors.New("malformed blueprint")

// Precompiled regexes for blueprint text
var (
	headerRegex = regexp.MustCompile(`Blueprint (\d+):`)
	robotRegex  = regexp.MustCompile(`Each (\w+) robot costs ([^.]*)\.`)
	amountRegex = regexp.MustCompile(`^(\d+) (\w+)$`)
)

// ParseBlueprint parses a single blueprint such as
//
//	Blueprint 1: Each ore robot costs 4 ore. Each clay robot costs 2 ore.
//	Each obsidian robot costs 3 ore and 14 clay. Each geode robot costs 2 ore and 7 obsidian.
//
// Whitespace, including line breaks, is insignificant. Every robot type must
// be listed exactly once.
func ParseBlueprint(text string) (*models.Blueprint, error) {
	text = normalize(text)

	loc := headerRegex.FindStringSubmatchIndex(text)
	if loc == nil || loc[0] != 0 {
		return nil, fmt.Errorf("missing \"Blueprint N:\" header: %w", ErrMalformed)
	}
	id, err := strconv.Atoi(text[loc[2]:loc[3]])
	if err != nil {
		return nil, fmt.Errorf("invalid blueprint id %q: %w", text[loc[2]:loc[3]], ErrMalformed)
	}

	bp := &models.Blueprint{ID: id}
	body := text[loc[1]:]

	if rest := strings.TrimSpace(robotRegex.ReplaceAllString(body, "")); rest != "" {
		return nil, fmt.Errorf("blueprint %d: unexpected text %q: %w", id, rest, ErrMalformed)
	}

	var seen [models.NumResources]bool
	for _, m := range robotRegex.FindAllStringSubmatch(body, -1) {
		robot, err := models.ParseResource(m[1])
		if err != nil {
			return nil, fmt.Errorf("blueprint %d: %v: %w", id, err, ErrMalformed)
		}
		if seen[robot] {
			return nil, fmt.Errorf("blueprint %d: %s robot listed twice: %w", id, robot, ErrMalformed)
		}
		seen[robot] = true

		costs, err := parseCosts(m[2])
		if err != nil {
			return nil, fmt.Errorf("blueprint %d: %s robot: %v: %w", id, robot, err, ErrMalformed)
		}
		bp.Robots[robot] = costs
	}

	for _, r := range models.AllResources() {
		if !seen[r] {
			return nil, fmt.Errorf("blueprint %d: missing %s robot: %w", id, r, ErrMalformed)
		}
	}

	if err := bp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrMalformed)
	}
	return bp, nil
}

// parseCosts parses "3 ore and 14 clay" or "nothing"
func parseCosts(s string) (models.Costs, error) {
	var costs models.Costs
	s = strings.TrimSpace(s)
	if s == "nothing" {
		return costs, nil
	}

	var seen [models.NumResources]bool
	for _, part := range strings.Split(s, " and ") {
		m := amountRegex.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return costs, fmt.Errorf("invalid cost %q", part)
		}
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			return costs, fmt.Errorf("invalid amount %q", m[1])
		}
		r, err := models.ParseResource(m[2])
		if err != nil {
			return costs, err
		}
		if seen[r] {
			return costs, fmt.Errorf("%s listed twice", r)
		}
		seen[r] = true
		costs[r] = amount
	}
	return costs, nil
}

// ParseBlueprints parses every blueprint in r. Blueprints may be one per
// line or wrapped over several lines.
func ParseBlueprints(r io.Reader) ([]*models.Blueprint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read blueprints: %w", err)
	}

	text := normalize(string(data))
	if text == "" {
		return nil, nil
	}

	starts := headerRegex.FindAllStringIndex(text, -1)
	if len(starts) == 0 || starts[0][0] != 0 {
		return nil, fmt.Errorf("text before first blueprint header: %w", ErrMalformed)
	}

	blueprints := make([]*models.Blueprint, 0, len(starts))
	ids := make(map[int]bool)
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		bp, err := ParseBlueprint(text[loc[0]:end])
		if err != nil {
			return nil, err
		}
		if ids[bp.ID] {
			return nil, fmt.Errorf("blueprint %d defined twice: %w", bp.ID, ErrMalformed)
		}
		ids[bp.ID] = true
		blueprints = append(blueprints, bp)
	}

	return blueprints, nil
}

// LoadBlueprints loads blueprints from a file. Files ending in .json, or whose
// content starts with '{' or '[', are read as JSON.
func LoadBlueprints(path string) ([]*models.Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseBlueprintsJSON(data)
	}
	return Parse(data)
}

// Parse reads blueprints in either format, choosing JSON when the content
// starts with '{' or '['
func Parse(data []byte) ([]*models.Blueprint, error) {
	if isJSON(data) {
		return ParseBlueprintsJSON(data)
	}
	return ParseBlueprints(bytes.NewReader(data))
}

func isJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
