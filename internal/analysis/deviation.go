package analysis

import (
	"context"

	"chesslens/internal/config"
	"chesslens/internal/models"
)

// BookMove is one reference move for a position, with how many reference
// games reached it.
type BookMove struct {
	UCI   string
	SAN   string
	Games int
}

// BookSource is the opening-book collaborator: a lookup from a board
// position to the book-move frequency table for that position. An empty
// slice means the position has no book entry at all.
type BookSource interface {
	Lookup(ctx context.Context, fen string) ([]BookMove, error)
}

// Deviation is the result of walking a game against the book.
type Deviation struct {
	// Ply is the 0-based index of the first out-of-book move. Nil when
	// every checked move matched book through to the end of the walk.
	Ply *int
	// NoBookData distinguishes "this position was never reached in the
	// reference data" from a genuine player deviation, so repertoire
	// reports do not count missing data as an error by the player.
	NoBookData bool
	// Played and BookMoves describe the deviation point, for drill-down.
	Played    string
	BookMoves []BookMove
	FEN       string
}

// FindDeviation walks moves in ply order and returns the first move that
// is absent from the book table (or present below the noise floor) for its
// position. The walk stops at cfg.BookPlyLimit; openings do not last
// forever.
func FindDeviation(ctx context.Context, records []models.MoveRecord, book BookSource, cfg config.AnalysisConfig) (Deviation, error) {
	for i, rec := range records {
		if i >= cfg.BookPlyLimit {
			break
		}
		if err := ctx.Err(); err != nil {
			return Deviation{}, err
		}

		bookMoves, err := book.Lookup(ctx, rec.FENBefore)
		if err != nil {
			return Deviation{}, err
		}

		if len(bookMoves) == 0 {
			ply := rec.Ply
			return Deviation{Ply: &ply, NoBookData: true, Played: rec.UCI, FEN: rec.FENBefore}, nil
		}

		if !inBookTable(rec.UCI, bookMoves, cfg.BookNoiseFloor) {
			ply := rec.Ply
			return Deviation{Ply: &ply, Played: rec.UCI, BookMoves: bookMoves, FEN: rec.FENBefore}, nil
		}
	}
	return Deviation{}, nil
}

// inBookTable reports whether the played move appears in the table with a
// reference-game count at or above the noise floor.
func inBookTable(uci string, bookMoves []BookMove, noiseFloor int) bool {
	for _, bm := range bookMoves {
		if bm.UCI == uci && bm.Games >= noiseFloor {
			return true
		}
	}
	return false
}
