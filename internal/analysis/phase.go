package analysis

import (
	"github.com/corentings/chess/v2"

	"chesslens/internal/config"
	apperrors "chesslens/internal/errors"
	"chesslens/internal/models"
)

var pieceValues = map[chess.PieceType]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

// materialCount sums piece values for both sides from a FEN position.
func materialCount(fen string) (int, error) {
	fenOpt, err := chess.FEN(fen)
	if err != nil {
		return 0, apperrors.NewInvalidPositionError(fen, err)
	}
	board := chess.NewGame(fenOpt).Position().Board()

	total := 0
	for _, piece := range board.SquareMap() {
		total += pieceValues[piece.Type()]
	}
	return total, nil
}

// classifyPhase applies the segmentation policy to a single position:
// opening while early and the board is still loaded, endgame once material
// falls to the endgame threshold, middlegame otherwise.
func classifyPhase(material, moveNumber int, cfg config.AnalysisConfig) models.Phase {
	switch {
	case moveNumber <= cfg.OpeningMoveCutoff && material >= cfg.OpeningMaterialMin:
		return models.PhaseOpening
	case material <= cfg.EndgameMaterialMax:
		return models.PhaseEndgame
	default:
		return models.PhaseMiddlegame
	}
}

// SegmentGame assigns a phase to every move. The returned slice is
// parallel to records; a move whose position string fails validation gets
// an empty phase and a collected error, and downstream folds skip it.
//
// Phase labels never go backwards: once the game has left a phase, a later
// position that momentarily looks like an earlier one keeps the advanced
// label.
func SegmentGame(records []models.MoveRecord, cfg config.AnalysisConfig) ([]models.Phase, []error) {
	phases := make([]models.Phase, len(records))
	var errs []error

	last := models.PhaseOpening
	for i, rec := range records {
		material, err := materialCount(rec.FENBefore)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		phase := classifyPhase(material, rec.MoveNumber(), cfg)
		if phase.Ord() < last.Ord() {
			phase = last
		}
		phases[i] = phase
		last = phase
	}
	return phases, errs
}
