package book

import (
	"context"

	"chesslens/internal/analysis"
)

// StaticTable is an in-memory book keyed by position, for tests and
// offline runs.
type StaticTable struct {
	Tables map[string][]analysis.BookMove
}

func (s StaticTable) Lookup(_ context.Context, fen string) ([]analysis.BookMove, error) {
	return s.Tables[fen], nil
}

var _ analysis.BookSource = StaticTable{}
