package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"chesslens/internal/config"
	apperrors "chesslens/internal/errors"
	"chesslens/internal/models"
)

// ClassifyGame derives the full ClassifiedMove set for one game from its
// move records and whatever evaluations exist so far. Moves without an
// evaluation stay unclassified; invalid positions are reported in the
// second return value and excluded from phase folds while the rest of the
// game proceeds.
//
// bookChecked tells the classifier whether deviation detection ran for
// this game: only then can moves ahead of the deviation ply carry the book
// label.
//
// Classification is idempotent: running it twice over the same inputs
// yields identical output.
func ClassifyGame(
	records []models.MoveRecord,
	evals map[int]*models.Evaluation,
	deviationPly *int,
	bookChecked bool,
	cfg config.AnalysisConfig,
) ([]models.ClassifiedMove, []error, error) {
	for i, rec := range records {
		if rec.Ply != i {
			return nil, nil, apperrors.NewMalformedInputError(
				fmt.Sprintf("move records are not contiguous: ply %d at index %d", rec.Ply, i))
		}
	}

	phases, phaseErrs := SegmentGame(records, cfg)

	moves := make([]models.ClassifiedMove, len(records))
	for i, rec := range records {
		cm := models.ClassifiedMove{MoveRecord: rec, Phase: phases[i]}

		if ev := evals[rec.Ply]; ev != nil {
			inBook := bookChecked && rec.Ply < cfg.BookPlyLimit &&
				(deviationPly == nil || rec.Ply < *deviationPly)
			cm.Eval = ev
			cm.CentipawnLoss = CentipawnLoss(*ev, rec.IsWhite)
			cm.Classification = Classify(rec, *ev, inBook, cfg)
		}
		moves[i] = cm
	}
	return moves, phaseErrs, nil
}

// GameInput is one game handed to the cross-game pipeline.
type GameInput struct {
	Game  models.Game
	Moves []models.ClassifiedMove
}

// BuildAggregates fans per-game aggregation out across games and gathers
// the results. Per-game work has no cross-game dependency, so the fan-out
// is safe; the fold stages that follow consume the gathered slice.
//
// Games whose evaluation data is incomplete are excluded rather than
// blocking the report; the second return value flags that exclusion for
// the caller. Output is sorted by game ID regardless of completion order.
func BuildAggregates(ctx context.Context, inputs []GameInput, cfg config.AnalysisConfig) ([]GameMoves, bool, error) {
	results := make([]*GameMoves, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			agg, err := AggregateGame(in.Game, in.Moves)
			if err != nil {
				return err
			}
			results[i] = &GameMoves{Aggregate: agg, Moves: in.Moves}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	var complete []GameMoves
	partial := false
	for _, r := range results {
		if r.Aggregate.Complete() {
			complete = append(complete, *r)
		} else {
			partial = true
		}
	}

	sort.Slice(complete, func(i, j int) bool {
		return complete[i].Aggregate.GameID < complete[j].Aggregate.GameID
	})
	return complete, partial, nil
}

// BuildReport runs every cross-game fold over the gathered per-game
// results. Pure and re-entrant: callers may run it concurrently over the
// same inputs without coordination.
func BuildReport(games []GameMoves, cfg config.AnalysisConfig) models.PlayerReport {
	aggs := make([]models.GameAggregate, len(games))
	vectors := make([]FeatureVector, len(games))
	for i, g := range games {
		aggs[i] = g.Aggregate
		vectors[i] = ExtractFeatures(g, cfg)
	}

	normalized := NormalizeFeatures(AggregateFeatures(vectors))

	return models.PlayerReport{
		Games:      aggs,
		Weaknesses: MineWeaknesses(games, cfg),
		Openings:   ScoreRepertoire(aggs, cfg),
		Playstyle:  Fingerprint(normalized),
	}
}
