package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"chesslens/internal/models"
)

var reportCmd = &cobra.Command{
	Use:   "report <username>",
	Short: "Print the accuracy, weakness, repertoire, and playstyle report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
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

	report, err := a.reports.PlayerReport(ctx, profile.ID)
	if err != nil {
		return err
	}

	fmt.Printf("\nReport for %s (%d analyzed games", profile.Username, len(report.Games))
	if report.Partial {
		fmt.Print(", some games excluded for incomplete evaluations")
	}
	fmt.Println(")")

	printOpenings(report.Openings)
	printWeaknesses(report.Weaknesses)
	printPlaystyle(report.Playstyle)
	return nil
}

func newReportTable() *tablewriter.Table {
	return tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
	}))
}

func printOpenings(openings models.OpeningReport) {
	fmt.Println("\n== Opening repertoire ==")
	if len(openings.Openings) == 0 {
		fmt.Println("No opening data yet.")
		return
	}

	table := newReportTable()
	table.Header("OPENING", "ECO", "GAMES", "W", "D", "L", "WIN%", "AVG DEV MOVE")
	for _, o := range openings.Openings {
		dev := "-"
		if o.AvgDeviationMove != nil {
			dev = fmt.Sprintf("%.1f", *o.AvgDeviationMove)
		}
		table.Append(
			o.Name, o.ECOCode,
			fmt.Sprintf("%d", o.GamesPlayed),
			fmt.Sprintf("%d", o.Wins),
			fmt.Sprintf("%d", o.Draws),
			fmt.Sprintf("%d", o.Losses),
			fmt.Sprintf("%.0f%%", o.WinRate*100),
			dev,
		)
	}
	table.Render()

	fmt.Printf("Most played: %s\n", orNone(openings.MostPlayed))
	fmt.Printf("Best performing: %s\n", orNone(openings.BestPerforming))
	fmt.Printf("Worst performing: %s\n", orNone(openings.WorstPerforming))
	fmt.Printf("Book adherence: %.0f%%\n", openings.BookAdherenceRate*100)
}

func printWeaknesses(weaknesses models.WeaknessReport) {
	fmt.Println("\n== Weaknesses ==")
	if weaknesses.InsufficientData {
		fmt.Printf("Not enough analyzed games yet (%s).\n", weaknesses.Reason)
		return
	}

	fmt.Printf("Overall blunder rate: %.1f%% over %d games\n",
		weaknesses.OverallBlunderRate*100, weaknesses.GamesAnalyzed)

	for _, phase := range models.Phases {
		if rate, ok := weaknesses.PhaseBreakdown[phase]; ok {
			fmt.Printf("  %s: %.1f%%\n", phase, rate*100)
		}
	}
	fmt.Printf("Time pressure: %s\n", weaknesses.Rushing.Verdict)

	if len(weaknesses.TopBlunders) > 0 {
		table := newReportTable()
		table.Header("GAME", "MOVE", "SAN", "LOSS (CP)", "PHASE")
		for _, b := range weaknesses.TopBlunders {
			table.Append(
				fmt.Sprintf("%d", b.GameID),
				fmt.Sprintf("%d", b.Ply/2+1),
				b.SAN,
				fmt.Sprintf("%d", b.CentipawnLoss),
				string(b.Phase),
			)
		}
		table.Render()
	}
}

func printPlaystyle(playstyle models.PlaystyleProfile) {
	fmt.Println("\n== Playstyle ==")
	fmt.Printf("Primary: %s, secondary: %s\n",
		capitalize(string(playstyle.PrimaryArchetype)),
		capitalize(string(playstyle.SecondaryArchetype)))

	table := newReportTable()
	table.Header("ARCHETYPE", "SCORE")
	for _, archetype := range models.Archetypes {
		table.Append(string(archetype), fmt.Sprintf("%.0f", playstyle.Scores[archetype]))
	}
	table.Render()

	if len(playstyle.Radar) > 0 {
		table := newReportTable()
		table.Header("AXIS", "VALUE")
		for _, axis := range playstyle.Radar {
			table.Append(axis.Label, fmt.Sprintf("%.2f", axis.Value))
		}
		table.Render()
	}
}

func orNone(s string) string {
	if s == "" {
		return "(not enough games)"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
