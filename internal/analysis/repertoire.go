package analysis

import (
	"sort"

	"chesslens/internal/config"
	"chesslens/internal/models"
)

// ScoreRepertoire folds game aggregates grouped by opening into an
// OpeningReport. The fold is commutative: feeding games in any order
// produces the same report, so it can be recomputed incrementally as new
// games arrive.
//
// An empty input yields an empty report (breadth 0, no names), not an
// error.
func ScoreRepertoire(aggs []models.GameAggregate, cfg config.AnalysisConfig) models.OpeningReport {
	type bucket struct {
		stat           models.OpeningStat
		deviationSum   int
		deviationGames int
	}

	buckets := make(map[string]*bucket)
	keyOf := func(a models.GameAggregate) string {
		if a.ECOCode != "" {
			return a.ECOCode + ":" + a.OpeningName
		}
		return a.OpeningName
	}

	totalGames := 0
	inBookGames := 0
	for _, a := range aggs {
		key := keyOf(a)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{stat: models.OpeningStat{
				ECOCode:       a.ECOCode,
				Name:          a.OpeningName,
				FirstPlayedAt: a.PlayedAt,
			}}
			buckets[key] = b
		}

		b.stat.GamesPlayed++
		totalGames++
		switch a.Result {
		case models.ResultWin:
			b.stat.Wins++
		case models.ResultLoss:
			b.stat.Losses++
		default:
			b.stat.Draws++
		}

		if a.PlayedAt.Before(b.stat.FirstPlayedAt) {
			b.stat.FirstPlayedAt = a.PlayedAt
		}

		// Missing book data is out-of-book for breadth purposes but not a
		// player deviation, so it stays out of the deviation average.
		switch {
		case a.DeviationPly == nil:
			// Stayed in book the whole game.
			inBookGames++
		case !a.NoBookData:
			b.deviationSum += (*a.DeviationPly)/2 + 1
			b.deviationGames++
		}
	}

	openings := make([]models.OpeningStat, 0, len(buckets))
	for _, b := range buckets {
		s := b.stat
		s.WinRate = float64(s.Wins) / float64(s.GamesPlayed)
		if b.deviationGames > 0 {
			avg := float64(b.deviationSum) / float64(b.deviationGames)
			s.AvgDeviationMove = &avg
		}
		openings = append(openings, s)
	}

	// Stable presentation order: most played first, then name.
	sort.Slice(openings, func(i, j int) bool {
		if openings[i].GamesPlayed != openings[j].GamesPlayed {
			return openings[i].GamesPlayed > openings[j].GamesPlayed
		}
		return openings[i].Name < openings[j].Name
	})

	report := models.OpeningReport{
		Openings:          openings,
		RepertoireBreadth: len(openings),
	}
	if totalGames > 0 {
		report.BookAdherenceRate = float64(inBookGames) / float64(totalGames)
	}
	if len(openings) == 0 {
		return report
	}

	report.MostPlayed = mostPlayed(openings)
	report.BestPerforming = bestPerforming(openings, cfg.MinGamesForBest)
	report.WorstPerforming = worstPerforming(openings, cfg.MinGamesForBest)
	return report
}

// mostPlayed picks the opening with the most games; ties go to the one
// played earliest.
func mostPlayed(openings []models.OpeningStat) string {
	best := openings[0]
	for _, o := range openings[1:] {
		if o.GamesPlayed > best.GamesPlayed ||
			(o.GamesPlayed == best.GamesPlayed && o.FirstPlayedAt.Before(best.FirstPlayedAt)) {
			best = o
		}
	}
	return best.Name
}

// bestPerforming picks the highest win rate among openings with enough
// games to mean anything; a single lucky game never wins this. Ties go to
// the larger sample, then the earlier name.
func bestPerforming(openings []models.OpeningStat, minGames int) string {
	var best *models.OpeningStat
	for i := range openings {
		o := &openings[i]
		if o.GamesPlayed < minGames {
			continue
		}
		if best == nil || o.WinRate > best.WinRate ||
			(o.WinRate == best.WinRate && o.GamesPlayed > best.GamesPlayed) ||
			(o.WinRate == best.WinRate && o.GamesPlayed == best.GamesPlayed && o.Name < best.Name) {
			best = o
		}
	}
	if best == nil {
		return ""
	}
	return best.Name
}

func worstPerforming(openings []models.OpeningStat, minGames int) string {
	var worst *models.OpeningStat
	for i := range openings {
		o := &openings[i]
		if o.GamesPlayed < minGames {
			continue
		}
		if worst == nil || o.WinRate < worst.WinRate ||
			(o.WinRate == worst.WinRate && o.GamesPlayed > worst.GamesPlayed) ||
			(o.WinRate == worst.WinRate && o.GamesPlayed == worst.GamesPlayed && o.Name < worst.Name) {
			worst = o
		}
	}
	if worst == nil {
		return ""
	}
	return worst.Name
}
