package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matchsight/matchsight/internal/output"
)

var scoreCmd = &cobra.Command{
	Use:   "score <username>",
	Short: "Score one stored profile against the model",
	Long: `Score a stored profile: every answer carrying a nonzero rating,
sorted worst first, followed by the per-category totals.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var bestRatedCmd = &cobra.Command{
	Use:   "best-rated",
	Short: "Rank all stored profiles by score",
	Long: `Score every stored profile and print the ranking in ascending
order: the best-scoring profile is the last row, nearest your prompt.

Examples:
  matchsight best-rated
  matchsight best-rated --category mindset`,
	RunE: runBestRated,
}

var bestRatedCategory string

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(bestRatedCmd)
	bestRatedCmd.Flags().StringVar(&bestRatedCategory, "category", "overall",
		"category label to rank by")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := db.GetProfile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		return fmt.Errorf("no stored profile for %s", args[0])
	}

	vs, err := openValuations(cfg)
	if err != nil {
		return err
	}

	NewTerminal()
	return output.Output(outputFmt, vs.Report(p))
}

func runBestRated(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	profiles, err := loadProfiles(ctx, db)
	if err != nil {
		return err
	}
	vs, err := openValuations(cfg)
	if err != nil {
		return err
	}

	NewTerminal()
	return output.Output(outputFmt, vs.RankProfiles(profiles, bestRatedCategory))
}
