package analysis

import (
	"chesslens/internal/config"
	"chesslens/internal/models"
)

// AnalyzeRushing buckets a player's analyzed moves by remaining clock time
// and compares blunder rates across the threshold. Moves without clock
// data are ignored.
//
// The multiplier divides the under-threshold rate by the over-threshold
// rate. When either bucket is empty the multiplier is nil; the report
// never carries an infinity or a rate invented from zero moves.
func AnalyzeRushing(moves []models.ClassifiedMove, cfg config.AnalysisConfig) models.RushingAnalysis {
	var movesUnder, movesOver, blundersUnder, blundersOver int

	for _, m := range moves {
		if !m.Analyzed() || m.ClockSeconds == nil {
			continue
		}
		isBlunder := m.Classification == models.ClassificationBlunder
		if *m.ClockSeconds < cfg.TimePressureSeconds {
			movesUnder++
			if isBlunder {
				blundersUnder++
			}
		} else {
			movesOver++
			if isBlunder {
				blundersOver++
			}
		}
	}

	out := models.RushingAnalysis{Verdict: models.VerdictUnknownTimePressure}
	if movesUnder > 0 {
		out.BlunderRateUnderThreshold = float64(blundersUnder) / float64(movesUnder)
	}
	if movesOver > 0 {
		out.BlunderRateOverThreshold = float64(blundersOver) / float64(movesOver)
	}

	if movesUnder == 0 || movesOver == 0 || blundersOver == 0 {
		// Division guard: no baseline to compare against.
		return out
	}

	multiplier := out.BlunderRateUnderThreshold / out.BlunderRateOverThreshold
	out.Multiplier = &multiplier
	out.Verdict = rushingVerdict(multiplier)
	return out
}

// rushingVerdict maps the multiplier onto the banded verdicts. The band
// edges (2.0 and 1.5) are part of the reporting contract.
func rushingVerdict(multiplier float64) string {
	switch {
	case multiplier > 2.0:
		return models.VerdictSevereTimePressure
	case multiplier > 1.5:
		return models.VerdictModerateTimePressure
	default:
		return models.VerdictConsistent
	}
}
