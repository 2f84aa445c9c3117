package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"chesslens/internal/worker"
)

var syncAnalyze bool

var syncCmd = &cobra.Command{
	Use:   "sync <username>",
	Short: "Import a player's games from chess.com",
	Args:  cobra.ExactArgs(1),
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncAnalyze, "analyze", false, "analyze imported games after the sync")
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	profile, err := a.profiles.Upsert(ctx, args[0])
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	// Run the sync job inline; the CLI has no reason to queue.
	job := &worker.SyncGamesJob{
		GameRepo:     a.games,
		ProfileRepo:  a.profiles,
		ChessClient:  a.chessClient,
		Profile:      *profile,
		ArchiveLimit: a.cfg.ArchiveLimit,
	}
	if err := job.Run(ctx); err != nil {
		return fmt.Errorf("sync games: %w", err)
	}

	if !syncAnalyze {
		fmt.Printf("Synced games for %s. Run 'chesslens sync %s --analyze' to analyze them.\n",
			profile.Username, profile.Username)
		return nil
	}

	pending, err := a.games.GamesNeedingAnalysis(ctx, profile.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Analyzing %d games...\n", len(pending))
	for i, game := range pending {
		if err := a.analysis.AnalyzeGame(ctx, game.ID); err != nil {
			fmt.Printf("  [%d/%d] game %s failed: %v\n", i+1, len(pending), game.ChessComID, err)
			continue
		}
		fmt.Printf("  [%d/%d] game %s vs %s done\n", i+1, len(pending), game.ChessComID, game.Opponent)
	}
	return nil
}
