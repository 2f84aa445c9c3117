package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesslens/internal/analysis"
	"chesslens/internal/models"
)

const (
	// Full starting material at a late move number.
	fullBoardFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	// Queens and a white rook off the board: 78 - 18 - 5 = 55.
	reducedFEN = "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/1NB1KBNR w Kkq - 0 1"
	// Rook ending, 12 points of material.
	rookEndingFEN = "8/4k3/7p/8/8/r7/4K2P/4R3 w - - 0 1"
)

func recordAt(ply int, fen string) models.MoveRecord {
	return models.MoveRecord{Ply: ply, FENBefore: fen}
}

func TestSegmentGame_PhaseBoundaries(t *testing.T) {
	cfg := testCfg()

	records := []models.MoveRecord{
		recordAt(0, fullBoardFEN),   // move 1, full material
		recordAt(1, fullBoardFEN),   // move 1
		recordAt(2, reducedFEN),     // move 2, material below opening floor
		recordAt(3, reducedFEN),     // move 2
		recordAt(4, rookEndingFEN),  // move 3, material below endgame ceiling
		recordAt(5, rookEndingFEN),  // move 3
	}

	phases, errs := analysis.SegmentGame(records, cfg)
	require.Empty(t, errs)
	require.Len(t, phases, len(records))

	assert.Equal(t, []models.Phase{
		models.PhaseOpening,
		models.PhaseOpening,
		models.PhaseMiddlegame,
		models.PhaseMiddlegame,
		models.PhaseEndgame,
		models.PhaseEndgame,
	}, phases)
}

func TestSegmentGame_MoveCutoffEndsOpening(t *testing.T) {
	cfg := testCfg()

	// Full material throughout; ply 24 is move 13, past the cutoff.
	var records []models.MoveRecord
	for ply := 0; ply <= 24; ply++ {
		records = append(records, recordAt(ply, fullBoardFEN))
	}

	phases, errs := analysis.SegmentGame(records, cfg)
	require.Empty(t, errs)

	assert.Equal(t, models.PhaseOpening, phases[23], "move 12 is still opening")
	assert.Equal(t, models.PhaseMiddlegame, phases[24], "move 13 leaves the opening")
}

func TestSegmentGame_PhasesNeverGoBackwards(t *testing.T) {
	cfg := testCfg()

	// An endgame position followed by a full board again. The full board
	// would classify as opening on its own; the game stays in the endgame.
	records := []models.MoveRecord{
		recordAt(0, rookEndingFEN),
		recordAt(1, fullBoardFEN),
	}

	phases, errs := analysis.SegmentGame(records, cfg)
	require.Empty(t, errs)

	assert.Equal(t, models.PhaseEndgame, phases[0])
	assert.Equal(t, models.PhaseEndgame, phases[1])
}

func TestSegmentGame_InvalidPositionIsCollected(t *testing.T) {
	cfg := testCfg()

	records := []models.MoveRecord{
		recordAt(0, fullBoardFEN),
		recordAt(1, "not a position"),
		recordAt(2, fullBoardFEN),
	}

	phases, errs := analysis.SegmentGame(records, cfg)
	require.Len(t, errs, 1)

	assert.Equal(t, models.PhaseOpening, phases[0])
	assert.Equal(t, models.Phase(""), phases[1], "broken position carries no phase")
	assert.Equal(t, models.PhaseOpening, phases[2], "segmentation continues past the broken position")
}
