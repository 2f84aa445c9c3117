package analysis

import (
	"chesslens/internal/config"
	"chesslens/internal/models"
)

// MateScore is the clamp applied to mate-in-N sentinels before any
// centipawn arithmetic.
const MateScore = 10000

// LossCap bounds a single move's centipawn loss so one resignation-worthy
// move cannot dominate a whole game's ACPL.
const LossCap = 1000

// normalize converts a score to signed centipawns from the mover's
// perspective, clamping mate sentinels to ±MateScore.
func normalize(s models.Score, isWhiteMove bool) int {
	cp := s.CP
	if s.Mate != nil {
		if *s.Mate > 0 {
			cp = MateScore
		} else {
			cp = -MateScore
		}
	}
	if !isWhiteMove {
		cp = -cp
	}
	return cp
}

// mateAgainstMover reports whether the score is a forced mate against the
// side that just moved.
func mateAgainstMover(s models.Score, isWhiteMove bool) bool {
	if s.Mate == nil {
		return false
	}
	if isWhiteMove {
		return *s.Mate < 0
	}
	return *s.Mate > 0
}

// CentipawnLoss computes how many centipawns the mover gave up relative to
// the engine's best line. Never negative, capped at LossCap.
func CentipawnLoss(ev models.Evaluation, isWhiteMove bool) int {
	before := normalize(ev.ScoreBefore, isWhiteMove)
	after := normalize(ev.ScoreAfter, isWhiteMove)
	loss := before - after
	if loss < 0 {
		loss = 0
	}
	if loss > LossCap {
		loss = LossCap
	}
	return loss
}

// Classify labels one move. inBook marks moves at or before the game's
// deviation ply that matched a known book move; the book label wins over
// every centipawn band.
//
// A move that walks into a forced mate from a position that had none is a
// blunder no matter how small the raw centipawn delta looks.
func Classify(m models.MoveRecord, ev models.Evaluation, inBook bool, cfg config.AnalysisConfig) models.Classification {
	if inBook {
		return models.ClassificationBook
	}

	if mateAgainstMover(ev.ScoreAfter, m.IsWhite) && !mateAgainstMover(ev.ScoreBefore, m.IsWhite) {
		return models.ClassificationBlunder
	}

	loss := CentipawnLoss(ev, m.IsWhite)

	if loss <= 0 && isBrilliant(m, ev, cfg) {
		return models.ClassificationBrilliant
	}

	switch {
	case loss < cfg.GoodThreshold:
		return models.ClassificationGood
	case loss < cfg.InaccuracyThreshold:
		return models.ClassificationInaccuracy
	case loss < cfg.MistakeThreshold:
		return models.ClassificationMistake
	default:
		return models.ClassificationBlunder
	}
}

// isBrilliant detects the exception case: the played move held or improved
// the evaluation, was not the engine's first choice, and was found in a
// position the mover was not already winning by a wide margin.
func isBrilliant(m models.MoveRecord, ev models.Evaluation, cfg config.AnalysisConfig) bool {
	if ev.BestMoveUCI == "" || m.UCI == "" {
		return false
	}
	if m.UCI == ev.BestMoveUCI {
		return false
	}
	return normalize(ev.ScoreBefore, m.IsWhite) < cfg.WinningMargin
}
