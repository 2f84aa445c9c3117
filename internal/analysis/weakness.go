package analysis

import (
	"sort"

	"chesslens/internal/config"
	apperrors "chesslens/internal/errors"
	"chesslens/internal/models"
)

// GameMoves pairs a game's aggregate with its classified moves, the unit
// the cross-game miners fold over.
type GameMoves struct {
	Aggregate models.GameAggregate
	Moves     []models.ClassifiedMove
}

func (g GameMoves) playerIsWhite() bool {
	return g.Aggregate.Color == models.ColorWhite
}

// playerMoves returns the analyzed moves made by the player.
func (g GameMoves) playerMoves() []models.ClassifiedMove {
	var out []models.ClassifiedMove
	for _, m := range g.Moves {
		if m.Analyzed() && m.IsWhite == g.playerIsWhite() {
			out = append(out, m)
		}
	}
	return out
}

const topBlunderLimit = 10

// MineWeaknesses folds a player's classified moves across many games into
// a WeaknessReport. Games with too few analyzed player moves are excluded
// up front; below the minimum game count the miner returns an explicit
// insufficient-data report instead of drawing conclusions from noise.
func MineWeaknesses(games []GameMoves, cfg config.AnalysisConfig) models.WeaknessReport {
	var eligible []GameMoves
	for _, g := range games {
		if len(g.playerMoves()) >= cfg.MinMovesPerGame {
			eligible = append(eligible, g)
		}
	}

	if len(eligible) < cfg.MinGamesForPatterns {
		return models.WeaknessReport{
			InsufficientData: true,
			Reason:           apperrors.ErrCodeInsufficientSample,
			GamesAnalyzed:    len(eligible),
		}
	}

	var (
		totalMoves    int
		totalBlunders int
		allPlayerMoves []models.ClassifiedMove
		heatmap        = make(map[int]int)
		phaseMoves     = make(map[models.Phase]int)
		phaseBlunders  = make(map[models.Phase]int)
		highlights     []models.BlunderHighlight
	)

	for _, g := range eligible {
		for _, m := range g.playerMoves() {
			totalMoves++
			allPlayerMoves = append(allPlayerMoves, m)
			if m.Phase.Valid() {
				phaseMoves[m.Phase]++
			}

			if m.Classification != models.ClassificationBlunder {
				continue
			}
			totalBlunders++
			heatmap[m.MoveNumber()]++
			if m.Phase.Valid() {
				phaseBlunders[m.Phase]++
			}
			highlights = append(highlights, models.BlunderHighlight{
				GameID:        m.GameID,
				Ply:           m.Ply,
				SAN:           m.SAN,
				CentipawnLoss: m.CentipawnLoss,
				Phase:         m.Phase,
			})
		}
	}

	// Phase breakdown: blunder rate per phase. Phases the player never
	// reached are left out rather than reported as a perfect 0.
	phaseBreakdown := make(map[models.Phase]float64)
	for _, phase := range models.Phases {
		if n := phaseMoves[phase]; n > 0 {
			phaseBreakdown[phase] = float64(phaseBlunders[phase]) / float64(n)
		}
	}

	rushing := AnalyzeRushing(allPlayerMoves, cfg)

	sort.Slice(highlights, func(i, j int) bool {
		if highlights[i].CentipawnLoss != highlights[j].CentipawnLoss {
			return highlights[i].CentipawnLoss > highlights[j].CentipawnLoss
		}
		if highlights[i].GameID != highlights[j].GameID {
			return highlights[i].GameID < highlights[j].GameID
		}
		return highlights[i].Ply < highlights[j].Ply
	})
	if len(highlights) > topBlunderLimit {
		highlights = highlights[:topBlunderLimit]
	}

	overallRate := 0.0
	if totalMoves > 0 {
		overallRate = float64(totalBlunders) / float64(totalMoves)
	}

	return models.WeaknessReport{
		GamesAnalyzed:      len(eligible),
		OverallBlunderRate: overallRate,
		PhaseBreakdown:     phaseBreakdown,
		MoveNumberHeatmap:  heatmap,
		Rushing:            rushing,
		TopBlunders:        highlights,
		Patterns:           detectPatterns(phaseBreakdown, rushing, heatmap),
	}
}

// Pattern thresholds: a phase must show at least this blunder rate, a
// move-number cluster at least this many repeats, before being reported.
const (
	phasePatternMinRate   = 0.1
	clusterMinOccurrences = 3
)

// detectPatterns turns the aggregated maps into structured signatures.
// Ties are broken by fixed orderings (phase game order, lowest move
// number), never by map iteration order.
func detectPatterns(phaseBreakdown map[models.Phase]float64, rushing models.RushingAnalysis, heatmap map[int]int) []models.Pattern {
	var patterns []models.Pattern

	var worstPhase models.Phase
	worstRate := -1.0
	for _, phase := range models.Phases {
		if rate, ok := phaseBreakdown[phase]; ok && rate > worstRate {
			worstPhase, worstRate = phase, rate
		}
	}
	if worstRate > phasePatternMinRate {
		patterns = append(patterns, models.Pattern{
			Kind:  models.PatternPhaseBlunderExcess,
			Phase: worstPhase,
			Value: worstRate,
		})
	}

	if rushing.Multiplier != nil && *rushing.Multiplier > 2.0 {
		patterns = append(patterns, models.Pattern{
			Kind:  models.PatternTimeTrouble,
			Value: *rushing.Multiplier,
		})
	}

	peakMove, peakCount := 0, 0
	for moveNumber, count := range heatmap {
		if count > peakCount || (count == peakCount && moveNumber < peakMove) {
			peakMove, peakCount = moveNumber, count
		}
	}
	if peakCount >= clusterMinOccurrences {
		patterns = append(patterns, models.Pattern{
			Kind:       models.PatternMoveNumberCluster,
			MoveNumber: peakMove,
			Value:      float64(peakCount),
		})
	}

	return patterns
}
