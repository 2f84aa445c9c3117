package pgn

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"

	apperrors "chesslens/internal/errors"
	"chesslens/internal/models"
)

var headerRe = regexp.MustCompile(`\[(\w+)\s+"([^"]+)"\]`)

// ParseHeaders extracts PGN header tags into a map.
func ParseHeaders(pgn string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(pgn, "\n") {
		if !strings.HasPrefix(line, "[") {
			continue
		}
		m := headerRe.FindStringSubmatch(line)
		if len(m) == 3 {
			out[m[1]] = m[2]
		}
	}
	return out
}

var gameIDRe = regexp.MustCompile(`.*/game/[^/]+/([0-9]+)`)

// ExtractGameID extracts the game ID from a chess.com game URL.
func ExtractGameID(url string) string {
	m := gameIDRe.FindStringSubmatch(url)
	if len(m) == 2 {
		return m[1]
	}
	return url
}

var clockRe = regexp.MustCompile(`\[%clk\s+(\d+):(\d+):(\d+(?:\.\d+)?)\]`)

// ParseClocks pulls the per-ply clock readings out of the move text, in
// move order. Games without clock annotations yield an empty slice.
func ParseClocks(pgn string) []float64 {
	matches := clockRe.FindAllStringSubmatch(pgn, -1)
	clocks := make([]float64, 0, len(matches))
	for _, m := range matches {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds, _ := strconv.ParseFloat(m[3], 64)
		clocks = append(clocks, float64(hours*3600+minutes*60)+seconds)
	}
	return clocks
}

// ParseMoves replays a PGN and emits one record per ply, with the
// positions on either side of each move and the clock reading where the
// move text carries one.
func ParseMoves(pgnText string) ([]models.MoveRecord, error) {
	pgnOpt, err := chess.PGN(strings.NewReader(pgnText))
	if err != nil {
		return nil, apperrors.NewMalformedInputError(fmt.Sprintf("unparseable PGN: %v", err))
	}
	game := chess.NewGame(pgnOpt)

	positions := game.Positions()
	moves := game.Moves()
	if len(positions) != len(moves)+1 {
		return nil, apperrors.NewMalformedInputError(
			fmt.Sprintf("got %d positions for %d moves", len(positions), len(moves)))
	}

	clocks := ParseClocks(pgnText)
	notation := chess.AlgebraicNotation{}

	records := make([]models.MoveRecord, len(moves))
	for i, move := range moves {
		rec := models.MoveRecord{
			Ply:       i,
			IsWhite:   i%2 == 0,
			SAN:       notation.Encode(positions[i], move),
			UCI:       moveToUCI(move),
			FENBefore: positions[i].String(),
			FENAfter:  positions[i+1].String(),
		}
		if i < len(clocks) {
			clock := clocks[i]
			rec.ClockSeconds = &clock
		}
		records[i] = rec
	}
	return records, nil
}

// Opening names a recognized opening line.
type Opening struct {
	ECOCode string
	Name    string
}

// DetectOpening matches the game against the ECO book. Returns nil when
// the moves never line up with a known opening.
func DetectOpening(pgnText string) (*Opening, error) {
	pgnOpt, err := chess.PGN(strings.NewReader(pgnText))
	if err != nil {
		return nil, apperrors.NewMalformedInputError(fmt.Sprintf("unparseable PGN: %v", err))
	}
	game := chess.NewGame(pgnOpt)

	book := opening.NewBookECO()
	found := book.Find(game.Moves())
	if found == nil {
		return nil, nil
	}
	return &Opening{ECOCode: found.Code(), Name: found.Title()}, nil
}

// moveToUCI converts a move to UCI format (e.g. "e2e4", "e7e8q").
func moveToUCI(move *chess.Move) string {
	if move == nil {
		return ""
	}

	uci := squareToString(move.S1()) + squareToString(move.S2())

	switch move.Promo() {
	case chess.Queen:
		uci += "q"
	case chess.Rook:
		uci += "r"
	case chess.Bishop:
		uci += "b"
	case chess.Knight:
		uci += "n"
	}
	return uci
}

func squareToString(sq chess.Square) string {
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}
