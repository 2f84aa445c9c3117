package sqlite

import (
	"context"
	"database/sql"

	"chesslens/internal/logger"
	"chesslens/internal/models"
	"chesslens/internal/repository"
)

type moveRepository struct {
	db *sql.DB
}

// NewMoveRepository creates a new MoveRepository implementation
func NewMoveRepository(db *sql.DB) repository.MoveRepository {
	return &moveRepository{db: db}
}

// ReplaceForGame swaps a game's move rows atomically. Classification is
// always recomputed as a whole game, so partial updates never happen.
func (r *moveRepository) ReplaceForGame(ctx context.Context, gameID int64, moves []models.ClassifiedMove) error {
	log := logger.FromContext(ctx).WithPrefix("move_repo")
	log.Debug("replacing %d moves for game_id=%d", len(moves), gameID)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM moves WHERE game_id = ?`, gameID); err != nil {
			log.Error("failed to clear moves for game %d: %v", gameID, err)
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO moves (
    game_id, ply, is_white, san, uci, fen_before, fen_after, clock_seconds,
    cp_before, mate_before, cp_after, mate_after, best_move_uci, best_move_san, depth,
    centipawn_loss, classification, phase
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			log.Error("failed to prepare move insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, m := range moves {
			var (
				cpBefore, cpAfter     *int
				mateBefore, mateAfter *int
				bestUCI, bestSAN      *string
				depth                 *int
			)
			if m.Eval != nil {
				cpBefore = &m.Eval.ScoreBefore.CP
				mateBefore = m.Eval.ScoreBefore.Mate
				cpAfter = &m.Eval.ScoreAfter.CP
				mateAfter = m.Eval.ScoreAfter.Mate
				bestUCI = &m.Eval.BestMoveUCI
				bestSAN = &m.Eval.BestMoveSAN
				depth = &m.Eval.Depth
			}

			if _, err := stmt.ExecContext(ctx, gameID, m.Ply, m.IsWhite, m.SAN, m.UCI,
				m.FENBefore, m.FENAfter, m.ClockSeconds,
				cpBefore, mateBefore, cpAfter, mateAfter, bestUCI, bestSAN, depth,
				m.CentipawnLoss, string(m.Classification), string(m.Phase)); err != nil {
				log.Error("failed to insert move ply=%d: %v", m.Ply, err)
				return err
			}
		}
		return nil
	})
}

func (r *moveRepository) MovesForGame(ctx context.Context, gameID int64) ([]models.ClassifiedMove, error) {
	log := logger.FromContext(ctx).WithPrefix("move_repo")
	log.Debug("loading moves for game_id=%d", gameID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, game_id, ply, is_white, san, uci, fen_before, fen_after, clock_seconds,
       cp_before, mate_before, cp_after, mate_after, best_move_uci, best_move_san, depth,
       centipawn_loss, classification, phase, created_at
FROM moves
WHERE game_id = ?
ORDER BY ply ASC
`, gameID)
	if err != nil {
		log.Error("failed to load moves: %v", err)
		return nil, err
	}
	defer rows.Close()

	var moves []models.ClassifiedMove
	for rows.Next() {
		var (
			m                     models.ClassifiedMove
			cpBefore, cpAfter     *int
			mateBefore, mateAfter *int
			bestUCI, bestSAN      sql.NullString
			depth                 sql.NullInt64
			classification, phase string
		)
		if err := rows.Scan(&m.ID, &m.GameID, &m.Ply, &m.IsWhite, &m.SAN, &m.UCI,
			&m.FENBefore, &m.FENAfter, &m.ClockSeconds,
			&cpBefore, &mateBefore, &cpAfter, &mateAfter, &bestUCI, &bestSAN, &depth,
			&m.CentipawnLoss, &classification, &phase, &m.CreatedAt); err != nil {
			log.Error("failed to scan move row: %v", err)
			return nil, err
		}

		m.Classification = models.Classification(classification)
		m.Phase = models.Phase(phase)
		if cpBefore != nil && cpAfter != nil {
			m.Eval = &models.Evaluation{
				ScoreBefore: models.Score{CP: *cpBefore, Mate: mateBefore},
				ScoreAfter:  models.Score{CP: *cpAfter, Mate: mateAfter},
				BestMoveUCI: bestUCI.String,
				BestMoveSAN: bestSAN.String,
				Depth:       int(depth.Int64),
			}
		}
		moves = append(moves, m)
	}

	log.Debug("loaded %d moves", len(moves))
	return moves, rows.Err()
}

func (r *moveRepository) CountAnalyzed(ctx context.Context, gameID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("move_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM moves
WHERE game_id = ? AND cp_before IS NOT NULL
`, gameID).Scan(&count)
	if err != nil {
		log.Error("failed to count analyzed moves: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *moveRepository) DeleteForGame(ctx context.Context, gameID int64) error {
	log := logger.FromContext(ctx).WithPrefix("move_repo")
	log.Debug("deleting moves for game_id=%d", gameID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM moves WHERE game_id = ?`, gameID)
	if err != nil {
		log.Error("failed to delete moves: %v", err)
	}
	return err
}
