package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chesslens/internal/chesscom"
	"chesslens/internal/models"
	"chesslens/internal/testutil/mocks"
	"chesslens/internal/worker"
)

const syncPGN = `[Event "Live Chess"]
[Site "Chess.com"]
[White "alice"]
[Black "bob"]
[Result "1-0"]
[WhiteElo "1520"]
[BlackElo "1490"]
[ECO "C50"]
[Opening "Italian Game"]

1. e4 e5 2. Nf3 Nc6 1-0`

type fakeAnalyzer struct{}

func (fakeAnalyzer) AnalyzeGame(ctx context.Context, gameID int64) error { return nil }

func monthlyGame(id string) chesscom.MonthlyGame {
	return chesscom.MonthlyGame{
		URL:       "https://www.chess.com/game/live/" + id,
		PGN:       syncPGN,
		TimeClass: "blitz",
		EndTime:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Unix(),
		White:     chesscom.Player{Username: "alice", Rating: 1500, Result: "win"},
		Black:     chesscom.Player{Username: "bob", Rating: 1480, Result: "checkmated"},
	}
}

func TestSyncGamesJob_ImportsNewGames(t *testing.T) {
	games := new(mocks.MockGameRepository)
	profiles := new(mocks.MockProfileRepository)
	client := new(mocks.MockChessClient)

	client.On("FetchArchives", mock.Anything, "alice").
		Return([]string{"https://api.chess.com/pub/player/alice/games/2024/03"}, nil)
	client.On("FetchMonthly", mock.Anything, mock.Anything).
		Return([]chesscom.MonthlyGame{monthlyGame("1001"), monthlyGame("1002")}, nil)

	games.On("GetExistingChessComIDs", mock.Anything, int64(1)).
		Return(map[string]bool{"1001": true}, nil)

	var inserted []models.Game
	games.On("InsertBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).([]models.Game)
		}).Return([]int64{7}, nil)
	profiles.On("UpdateSync", mock.Anything, int64(1), mock.Anything).Return(nil)

	analysisPool := worker.NewPool("analysis", 1, 4)
	job := &worker.SyncGamesJob{
		GameRepo:     games,
		ProfileRepo:  profiles,
		ChessClient:  client,
		Profile:      models.Profile{ID: 1, Username: "alice"},
		AnalysisPool: analysisPool,
		Analyzer:     fakeAnalyzer{},
	}
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, inserted, 1, "already imported games are skipped")
	game := inserted[0]
	assert.Equal(t, "1002", game.ChessComID)
	assert.Equal(t, models.ColorWhite, game.PlayedAs)
	assert.Equal(t, models.ResultWin, game.Result)
	assert.Equal(t, "bob", game.Opponent)
	assert.Equal(t, 1520, game.PlayerRating, "PGN headers win over the archive payload")
	assert.Equal(t, 1490, game.OpponentRating)
	assert.Equal(t, "C50", game.ECOCode)
	assert.Equal(t, "Italian Game", game.OpeningName)
	assert.Equal(t, models.AnalysisPending, game.AnalysisStatus)

	assert.Equal(t, 1, analysisPool.QueueSize(), "each new game is queued for analysis")
	profiles.AssertCalled(t, "UpdateSync", mock.Anything, int64(1), mock.Anything)
}

func TestSyncGamesJob_SkipsArchivesBeforeLastSync(t *testing.T) {
	games := new(mocks.MockGameRepository)
	profiles := new(mocks.MockProfileRepository)
	client := new(mocks.MockChessClient)

	lastSync := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	client.On("FetchArchives", mock.Anything, "alice").Return([]string{
		"https://api.chess.com/pub/player/alice/games/2024/01",
		"https://api.chess.com/pub/player/alice/games/2024/02",
		"https://api.chess.com/pub/player/alice/games/2024/03",
	}, nil)
	client.On("FetchMonthly", mock.Anything, "https://api.chess.com/pub/player/alice/games/2024/02").
		Return([]chesscom.MonthlyGame{}, nil)
	client.On("FetchMonthly", mock.Anything, "https://api.chess.com/pub/player/alice/games/2024/03").
		Return([]chesscom.MonthlyGame{}, nil)

	job := &worker.SyncGamesJob{
		GameRepo:    games,
		ProfileRepo: profiles,
		ChessClient: client,
		Profile:     models.Profile{ID: 1, Username: "alice", LastSyncAt: &lastSync},
	}
	require.NoError(t, job.Run(context.Background()))

	client.AssertNotCalled(t, "FetchMonthly", mock.Anything,
		"https://api.chess.com/pub/player/alice/games/2024/01")
}

func TestSyncGamesJob_ArchiveLimit(t *testing.T) {
	games := new(mocks.MockGameRepository)
	profiles := new(mocks.MockProfileRepository)
	client := new(mocks.MockChessClient)

	client.On("FetchArchives", mock.Anything, "alice").Return([]string{
		"https://api.chess.com/pub/player/alice/games/2024/01",
		"https://api.chess.com/pub/player/alice/games/2024/02",
		"https://api.chess.com/pub/player/alice/games/2024/03",
	}, nil)
	client.On("FetchMonthly", mock.Anything, "https://api.chess.com/pub/player/alice/games/2024/03").
		Return([]chesscom.MonthlyGame{}, nil)

	job := &worker.SyncGamesJob{
		GameRepo:     games,
		ProfileRepo:  profiles,
		ChessClient:  client,
		Profile:      models.Profile{ID: 1, Username: "alice"},
		ArchiveLimit: 1,
	}
	require.NoError(t, job.Run(context.Background()))

	client.AssertNumberOfCalls(t, "FetchMonthly", 1)
}

func TestAnalyzeGameJob_DelegatesToAnalyzer(t *testing.T) {
	job := &worker.AnalyzeGameJob{Analyzer: fakeAnalyzer{}, GameID: 5}
	assert.Equal(t, "analyze_game", job.Name())
	require.NoError(t, job.Run(context.Background()))
}

func TestPool_RunsSubmittedJobs(t *testing.T) {
	pool := worker.NewPool("test", 2, 8)
	pool.Start(context.Background())

	done := make(chan int64, 3)
	for i := int64(1); i <= 3; i++ {
		pool.Submit(&worker.AnalyzeGameJob{Analyzer: chanAnalyzer{done}, GameID: i})
	}

	seen := map[int64]bool{}
	for i := 0; i < 3; i++ {
		select {
		case id := <-done:
			seen[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	pool.Stop()
	assert.Len(t, seen, 3)
}

type chanAnalyzer struct {
	done chan int64
}

func (a chanAnalyzer) AnalyzeGame(ctx context.Context, gameID int64) error {
	a.done <- gameID
	return nil
}
