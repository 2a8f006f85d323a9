package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/geode-solver/internal/models"
)

func TestParseBlueprintsJSONBareArray(t *testing.T) {
	data := []byte(`[{"id": 4, "robots": {"ore": {"ore": 2}, "geode": {"ore": 1, "clay": 3}}}]`)

	bps, err := ParseBlueprintsJSON(data)
	require.NoError(t, err)
	require.Len(t, bps, 1)

	bp := bps[0]
	assert.Equal(t, 4, bp.ID)
	assert.Equal(t, models.Costs{models.Ore: 2}, bp.Robots[models.Ore])
	assert.Equal(t, models.Costs{models.Ore: 1, models.Clay: 3}, bp.Robots[models.Geode])
	assert.True(t, bp.Robots[models.Clay].IsZero(), "omitted robots cost nothing")
}

func TestParseBlueprintsJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"blueprints": [`},
		{"no array", `{"blueprints": {}}`},
		{"missing id", `{"blueprints": [{"robots": {}}]}`},
		{"fractional id", `{"blueprints": [{"id": 1.5, "robots": {}}]}`},
		{"robots not object", `{"blueprints": [{"id": 1, "robots": []}]}`},
		{"unknown robot", `{"blueprints": [{"id": 1, "robots": {"sand": {"ore": 1}}}]}`},
		{"unknown resource", `{"blueprints": [{"id": 1, "robots": {"ore": {"wood": 1}}}]}`},
		{"string amount", `{"blueprints": [{"id": 1, "robots": {"ore": {"ore": "4"}}}]}`},
		{"negative amount", `{"blueprints": [{"id": 1, "robots": {"ore": {"ore": -4}}}]}`},
		{"duplicate id", `{"blueprints": [{"id": 1, "robots": {}}, {"id": 1, "robots": {}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBlueprintsJSON([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseBlueprintsJSONNegativeKeepsCause(t *testing.T) {
	_, err := ParseBlueprintsJSON([]byte(`[{"id": 2, "robots": {"clay": {"ore": -1}}}]`))
	assert.ErrorIs(t, err, models.ErrNegativeCost)
}
