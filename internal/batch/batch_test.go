package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/geode-solver/internal/loader"
	"github.com/napolitain/geode-solver/internal/models"
	"github.com/napolitain/geode-solver/internal/solver/geode"
)

func loadExample(t *testing.T) []*models.Blueprint {
	t.Helper()
	bps, err := loader.LoadBlueprints("../../testdata/example.txt")
	require.NoError(t, err)
	require.Len(t, bps, 2)
	return bps
}

func TestRunQualitySum(t *testing.T) {
	bps := loadExample(t)

	var seen []int
	results, err := Run(context.Background(), bps, Options{
		Minutes:  24,
		Workers:  2,
		OnResult: func(r Result) { seen = append(seen, r.Blueprint.ID) },
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 9, results[0].Geodes())
	assert.Equal(t, 12, results[1].Geodes())
	assert.Equal(t, 33, QualitySum(results))
	assert.ElementsMatch(t, []int{1, 2}, seen)
}

func TestRunProductOfFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("32-minute search skipped in short mode")
	}
	bps := loadExample(t)

	results, err := Run(context.Background(), First(bps, 3), Options{Minutes: 32, Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, 56*62, Product(results))
}

func TestRunSingleWorkerSplitsSearch(t *testing.T) {
	bps := loadExample(t)

	// One blueprint, many workers: the search itself is split
	results, err := Run(context.Background(), bps[1:], Options{Minutes: 24, Workers: 8})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 12, results[0].Geodes())
	assert.True(t, results[0].Solution.Complete)
}

func TestRunReportsBadBlueprint(t *testing.T) {
	bps := loadExample(t)
	bad := &models.Blueprint{ID: 5}
	bad.Robots[models.Ore][models.Ore] = -1

	results, err := Run(context.Background(), append(bps, bad), Options{Minutes: 24, Workers: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNegativeCost)

	require.Len(t, results, 3)
	assert.Nil(t, results[2].Solution)
	assert.Equal(t, 0, results[2].Geodes())
	assert.Equal(t, 33, QualitySum(results), "good blueprints still count")
}

func TestRunCancelledKeepsPartialResults(t *testing.T) {
	bps := loadExample(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, bps, Options{Minutes: 24, Workers: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, geode.ErrInterrupted))
	for _, r := range results {
		require.NotNil(t, r.Solution)
		assert.False(t, r.Solution.Complete)
	}
}

func TestRunEmpty(t *testing.T) {
	results, err := Run(context.Background(), nil, Options{Minutes: 24})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, QualitySum(results))
	assert.Equal(t, 1, Product(results))
}

func TestFirst(t *testing.T) {
	bps := []*models.Blueprint{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	assert.Len(t, First(bps, 3), 3)
	assert.Len(t, First(bps, 10), 4)
	assert.Len(t, First(bps, 0), 4)
}
