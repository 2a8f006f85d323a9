package loader

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/napolitain/geode-solver/internal/models"
)

// ParseBlueprintsJSON reads blueprints from JSON of the form
//
//	{"blueprints": [{"id": 1, "robots": {"ore": {"ore": 4}, "clay": {"ore": 2}, ...}}]}
//
// A bare top-level array of blueprint objects is accepted too. Robot types
// left out of "robots" cost nothing.
func ParseBlueprintsJSON(data []byte) ([]*models.Blueprint, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON: %w", ErrMalformed)
	}

	root := gjson.ParseBytes(data)
	list := root
	if !root.IsArray() {
		list = root.Get("blueprints")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("expected a \"blueprints\" array: %w", ErrMalformed)
	}

	var blueprints []*models.Blueprint
	var parseErr error
	ids := make(map[int]bool)

	list.ForEach(func(_, v gjson.Result) bool {
		bp, err := blueprintFromJSON(v)
		if err != nil {
			parseErr = err
			return false
		}
		if ids[bp.ID] {
			parseErr = fmt.Errorf("blueprint %d defined twice: %w", bp.ID, ErrMalformed)
			return false
		}
		ids[bp.ID] = true
		blueprints = append(blueprints, bp)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return blueprints, nil
}

func blueprintFromJSON(v gjson.Result) (*models.Blueprint, error) {
	id := v.Get("id")
	if id.Type != gjson.Number || float64(id.Int()) != id.Num {
		return nil, fmt.Errorf("blueprint id must be an integer, got %s: %w", id.Raw, ErrMalformed)
	}
	bp := &models.Blueprint{ID: int(id.Int())}

	robots := v.Get("robots")
	if !robots.IsObject() {
		return nil, fmt.Errorf("blueprint %d: \"robots\" must be an object: %w", bp.ID, ErrMalformed)
	}

	var err error
	robots.ForEach(func(key, costs gjson.Result) bool {
		var robot models.RobotType
		robot, err = models.ParseResource(key.String())
		if err != nil {
			err = fmt.Errorf("blueprint %d: %v: %w", bp.ID, err, ErrMalformed)
			return false
		}
		if !costs.IsObject() {
			err = fmt.Errorf("blueprint %d: %s robot costs must be an object: %w", bp.ID, robot, ErrMalformed)
			return false
		}
		costs.ForEach(func(rk, amount gjson.Result) bool {
			var r models.Resource
			r, err = models.ParseResource(rk.String())
			if err != nil {
				err = fmt.Errorf("blueprint %d: %s robot: %v: %w", bp.ID, robot, err, ErrMalformed)
				return false
			}
			if amount.Type != gjson.Number || float64(amount.Int()) != amount.Num {
				err = fmt.Errorf("blueprint %d: %s robot: %s amount must be an integer: %w", bp.ID, robot, r, ErrMalformed)
				return false
			}
			bp.Robots[robot][r] = int(amount.Int())
			return true
		})
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	if err := bp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrMalformed)
	}
	return bp, nil
}
