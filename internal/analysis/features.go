package analysis

import (
	"math"
	"strings"

	"chesslens/internal/config"
	"chesslens/internal/models"
)

// Feature keys shared by extraction, normalization, and archetype weights.
const (
	FeatACPL           = "avg_centipawn_loss"
	FeatACPLOpening    = "acpl_opening"
	FeatACPLMiddlegame = "acpl_middlegame"
	FeatACPLEndgame    = "acpl_endgame"
	FeatBlunderRate    = "blunder_rate"
	FeatCaptureRate    = "capture_rate"
	FeatCheckRate      = "check_rate"
	FeatSacrificeRate  = "sacrifice_rate"
	FeatThinkTimeMean  = "think_time_mean"
	FeatThinkTimeStdev = "think_time_stdev"
	FeatTimePressure   = "time_pressure_blunder_rate"
	FeatDeviationRate  = "deviation_rate"
	FeatEndgameFreq    = "endgame_frequency"
	FeatGameLength     = "game_length"
	FeatDecisiveRate   = "decisive_rate"
)

// featureKeys fixes the iteration order for every fold over features.
var featureKeys = []string{
	FeatACPL,
	FeatACPLOpening,
	FeatACPLMiddlegame,
	FeatACPLEndgame,
	FeatBlunderRate,
	FeatCaptureRate,
	FeatCheckRate,
	FeatSacrificeRate,
	FeatThinkTimeMean,
	FeatThinkTimeStdev,
	FeatTimePressure,
	FeatDeviationRate,
	FeatEndgameFreq,
	FeatGameLength,
	FeatDecisiveRate,
}

// featureRanges are the fixed min-max ranges used to normalize raw
// feature values into [0,1]. Fixed ranges keep two runs over the same
// games bit-for-bit identical, which a population-relative z-score would
// not once the population changes.
var featureRanges = map[string][2]float64{
	FeatACPL:           {0, 200},
	FeatACPLOpening:    {0, 200},
	FeatACPLMiddlegame: {0, 200},
	FeatACPLEndgame:    {0, 200},
	FeatBlunderRate:    {0, 0.3},
	FeatCaptureRate:    {0, 0.5},
	FeatCheckRate:      {0, 0.15},
	FeatSacrificeRate:  {0, 0.1},
	FeatThinkTimeMean:  {0, 60},
	FeatThinkTimeStdev: {0, 30},
	FeatTimePressure:   {0, 0.5},
	FeatDeviationRate:  {0, 1},
	FeatEndgameFreq:    {0, 1},
	FeatGameLength:     {0, 120},
	FeatDecisiveRate:   {0, 1},
}

// FeatureVector maps feature keys to values. Raw vectors carry natural
// units; normalized vectors carry [0,1].
type FeatureVector map[string]float64

// ExtractFeatures derives one game's raw feature vector, restricted to the
// player's own analyzed moves.
func ExtractFeatures(g GameMoves, cfg config.AnalysisConfig) FeatureVector {
	fv := make(FeatureVector, len(featureKeys))
	agg := g.Aggregate

	fv[FeatACPL] = agg.PlayerACPL
	fv[FeatACPLOpening] = deref(agg.OpeningACPL)
	fv[FeatACPLMiddlegame] = deref(agg.MiddlegameACPL)
	fv[FeatACPLEndgame] = deref(agg.EndgameACPL)
	fv[FeatGameLength] = float64(agg.TotalMoves)

	if agg.Result != models.ResultDraw {
		fv[FeatDecisiveRate] = 1
	}
	if agg.DeviationPly != nil && !agg.NoBookData {
		fv[FeatDeviationRate] = 1
	}

	moves := g.playerMoves()
	if len(moves) == 0 {
		return fv
	}
	n := float64(len(moves))

	var captures, checks, blunders, brilliants int
	var pressureMoves, pressureBlunders int
	var clocks []float64
	endgameSeen := false

	for _, m := range moves {
		if strings.Contains(m.SAN, "x") {
			captures++
		}
		if strings.Contains(m.SAN, "+") || strings.Contains(m.SAN, "#") {
			checks++
		}
		switch m.Classification {
		case models.ClassificationBlunder:
			blunders++
		case models.ClassificationBrilliant:
			brilliants++
		}
		if m.Phase == models.PhaseEndgame {
			endgameSeen = true
		}
		if m.ClockSeconds != nil {
			clocks = append(clocks, *m.ClockSeconds)
			if *m.ClockSeconds < cfg.TimePressureSeconds {
				pressureMoves++
				if m.Classification == models.ClassificationBlunder {
					pressureBlunders++
				}
			}
		}
	}

	fv[FeatBlunderRate] = float64(blunders) / n
	fv[FeatCaptureRate] = float64(captures) / n
	fv[FeatCheckRate] = float64(checks) / n
	fv[FeatSacrificeRate] = float64(brilliants) / n
	if endgameSeen {
		fv[FeatEndgameFreq] = 1
	}
	if pressureMoves > 0 {
		fv[FeatTimePressure] = float64(pressureBlunders) / float64(pressureMoves)
	}

	mean, stdev := thinkTimes(clocks)
	fv[FeatThinkTimeMean] = mean
	fv[FeatThinkTimeStdev] = stdev

	return fv
}

// thinkTimes derives per-move thinking time from consecutive clock
// readings. Negative deltas (increment gains) are dropped.
func thinkTimes(clocks []float64) (mean, stdev float64) {
	var deltas []float64
	for i := 1; i < len(clocks); i++ {
		if d := clocks[i-1] - clocks[i]; d > 0 {
			deltas = append(deltas, d)
		}
	}
	if len(deltas) == 0 {
		return 0, 0
	}

	var sum float64
	for _, d := range deltas {
		sum += d
	}
	mean = sum / float64(len(deltas))

	if len(deltas) < 2 {
		return mean, 0
	}
	var sq float64
	for _, d := range deltas {
		sq += (d - mean) * (d - mean)
	}
	return mean, math.Sqrt(sq / float64(len(deltas)-1))
}

// AggregateFeatures means per-game vectors into one player-level vector.
// Keys are folded in fixed order so the result is reproducible exactly.
func AggregateFeatures(vectors []FeatureVector) FeatureVector {
	out := make(FeatureVector, len(featureKeys))
	if len(vectors) == 0 {
		return out
	}
	for _, key := range featureKeys {
		var sum float64
		for _, fv := range vectors {
			sum += fv[key]
		}
		out[key] = sum / float64(len(vectors))
	}
	return out
}

// NormalizeFeatures maps raw values onto [0,1] using the fixed ranges.
func NormalizeFeatures(raw FeatureVector) FeatureVector {
	out := make(FeatureVector, len(featureKeys))
	for _, key := range featureKeys {
		r := featureRanges[key]
		v := (raw[key] - r[0]) / (r[1] - r[0])
		out[key] = math.Max(0, math.Min(1, v))
	}
	return out
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
