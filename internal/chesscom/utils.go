package chesscom

import (
	"strings"

	"chesslens/internal/models"
)

// DeriveResult determines which color the user played, their opponent, and
// the result from the user's point of view.
func DeriveResult(username string, mg MonthlyGame) (playedAs models.Color, opponent string, result models.Result) {
	if strings.EqualFold(mg.White.Username, username) {
		return models.ColorWhite, mg.Black.Username, NormalizeResult(mg.White.Result)
	}
	return models.ColorBlack, mg.White.Username, NormalizeResult(mg.Black.Result)
}

// NormalizeResult collapses chess.com result strings into win/draw/loss.
func NormalizeResult(res string) models.Result {
	switch strings.ToLower(res) {
	case "win":
		return models.ResultWin
	case "stalemate", "agreed", "repetition", "timevsinsufficient", "insufficient", "fiftymove", "draw":
		return models.ResultDraw
	default:
		return models.ResultLoss
	}
}
