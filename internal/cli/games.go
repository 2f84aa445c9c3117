package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"chesslens/internal/models"
)

var gamesStatus string

var gamesCmd = &cobra.Command{
	Use:   "games <username>",
	Short: "List a player's imported games",
	Args:  cobra.ExactArgs(1),
	RunE:  runGames,
}

func init() {
	gamesCmd.Flags().StringVar(&gamesStatus, "status", "", "filter by analysis status (pending, processing, completed, failed)")
}

func runGames(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	profile, err := a.profiles.GetByUsername(ctx, args[0])
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("no profile for %q, run 'chesslens sync %s' first", args[0], args[0])
	}

	games, err := a.games.List(ctx, models.GameFilter{
		ProfileID:      profile.ID,
		AnalysisStatus: gamesStatus,
	})
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Println("No games found.")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("ID", "DATE", "COLOR", "OPPONENT", "RESULT", "TIME", "OPENING", "STATUS")
	for _, g := range games {
		table.Append(
			fmt.Sprintf("%d", g.ID),
			g.PlayedAt.Format("2006-01-02"),
			string(g.PlayedAs),
			g.Opponent,
			string(g.Result),
			g.TimeClass,
			g.OpeningName,
			g.AnalysisStatus,
		)
	}
	table.Render()
	fmt.Printf("%d games\n", len(games))
	return nil
}
