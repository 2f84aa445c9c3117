package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesslens/internal/analysis"
	"chesslens/internal/models"
)

func TestNormalizeFeatures_Clamps(t *testing.T) {
	raw := analysis.FeatureVector{
		analysis.FeatACPL:        500, // above range
		analysis.FeatBlunderRate: -1,  // below range
		analysis.FeatGameLength:  60,  // midpoint of 0-120
	}

	normalized := analysis.NormalizeFeatures(raw)

	assert.InDelta(t, 1.0, normalized[analysis.FeatACPL], 1e-9)
	assert.InDelta(t, 0.0, normalized[analysis.FeatBlunderRate], 1e-9)
	assert.InDelta(t, 0.5, normalized[analysis.FeatGameLength], 1e-9)
}

func TestExtractFeatures(t *testing.T) {
	cfg := testCfg()

	game, moves := alternatingGame(1, true, []int{0, 0, 200, 0})
	game.Result = models.ResultWin
	moves[0].SAN = "exd5"  // capture
	moves[2].SAN = "Qh5+"  // check
	moves[4].SAN = "Nxf7+" // both
	for i := range moves {
		moves[i].ClockSeconds = floatPtr(float64(600 - 10*i))
	}

	agg, err := analysis.AggregateGame(game, moves)
	require.NoError(t, err)

	fv := analysis.ExtractFeatures(analysis.GameMoves{Aggregate: agg, Moves: moves}, cfg)

	assert.InDelta(t, 50.0, fv[analysis.FeatACPL], 1e-9)
	assert.InDelta(t, 0.25, fv[analysis.FeatBlunderRate], 1e-9)
	assert.InDelta(t, 0.5, fv[analysis.FeatCaptureRate], 1e-9)
	assert.InDelta(t, 0.5, fv[analysis.FeatCheckRate], 1e-9)
	assert.InDelta(t, 8.0, fv[analysis.FeatGameLength], 1e-9)
	assert.InDelta(t, 1.0, fv[analysis.FeatDecisiveRate], 1e-9)
	assert.InDelta(t, 20.0, fv[analysis.FeatThinkTimeMean], 1e-9)
}

func TestExtractFeatures_DeviationNeedsRealBookData(t *testing.T) {
	cfg := testCfg()

	game, moves := alternatingGame(1, true, []int{0, 0, 0, 0, 0})
	game.DeviationPly = intPtr(4)
	game.NoBookData = true
	agg, err := analysis.AggregateGame(game, moves)
	require.NoError(t, err)

	fv := analysis.ExtractFeatures(analysis.GameMoves{Aggregate: agg, Moves: moves}, cfg)
	assert.Zero(t, fv[analysis.FeatDeviationRate], "missing book data is not a deviation")
}

func TestAggregateFeatures_MeansAcrossGames(t *testing.T) {
	vectors := []analysis.FeatureVector{
		{analysis.FeatACPL: 40, analysis.FeatBlunderRate: 0.1},
		{analysis.FeatACPL: 80, analysis.FeatBlunderRate: 0.3},
	}

	out := analysis.AggregateFeatures(vectors)
	assert.InDelta(t, 60.0, out[analysis.FeatACPL], 1e-9)
	assert.InDelta(t, 0.2, out[analysis.FeatBlunderRate], 1e-9)
}

func TestFingerprint_ScoresWithinBounds(t *testing.T) {
	vectors := []analysis.FeatureVector{
		{analysis.FeatCaptureRate: 0.9, analysis.FeatCheckRate: 0.8, analysis.FeatACPL: 0.2},
	}
	normalized := analysis.NormalizeFeatures(analysis.AggregateFeatures(vectors))

	profile := analysis.Fingerprint(normalized)

	require.Len(t, profile.Scores, len(models.Archetypes))
	for arch, score := range profile.Scores {
		assert.GreaterOrEqualf(t, score, 0.0, "%s below range", arch)
		assert.LessOrEqualf(t, score, 100.0, "%s above range", arch)
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	normalized := analysis.FeatureVector{
		analysis.FeatCaptureRate:   0.7,
		analysis.FeatCheckRate:     0.6,
		analysis.FeatSacrificeRate: 0.4,
		analysis.FeatACPL:          0.3,
		analysis.FeatBlunderRate:   0.2,
		analysis.FeatThinkTimeMean: 0.5,
	}

	first := analysis.Fingerprint(normalized)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, analysis.Fingerprint(normalized))
	}
}

func TestFingerprint_TieBreaksAlphabetically(t *testing.T) {
	// An empty vector backfills every feature with the neutral midpoint,
	// which scores all six archetypes identically.
	profile := analysis.Fingerprint(analysis.FeatureVector{})

	assert.Equal(t, models.ArchetypeAttacker, profile.PrimaryArchetype)
	assert.Equal(t, models.ArchetypeDefender, profile.SecondaryArchetype)
}

func TestFingerprint_AttackerProfile(t *testing.T) {
	normalized := analysis.FeatureVector{
		analysis.FeatCaptureRate:   1.0,
		analysis.FeatCheckRate:     1.0,
		analysis.FeatSacrificeRate: 1.0,
		analysis.FeatThinkTimeMean: 0.0,
		analysis.FeatDecisiveRate:  1.0,
		analysis.FeatACPL:          0.8,
		analysis.FeatBlunderRate:   0.7,
	}

	profile := analysis.Fingerprint(normalized)

	assert.Equal(t, models.ArchetypeAttacker, profile.PrimaryArchetype)
	assert.InDelta(t, 100.0, profile.Scores[models.ArchetypeAttacker], 1e-9)
}

func TestFingerprint_RadarAxes(t *testing.T) {
	profile := analysis.Fingerprint(analysis.FeatureVector{})

	require.Len(t, profile.Radar, 6)
	labels := make([]string, len(profile.Radar))
	for i, axis := range profile.Radar {
		labels[i] = axis.Label
		assert.GreaterOrEqual(t, axis.Value, 0.0)
		assert.LessOrEqual(t, axis.Value, 100.0)
	}
	assert.Equal(t, []string{"Aggression", "Accuracy", "Positional", "Endgame", "Speed", "Creativity"}, labels)
}
