package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matchsight/matchsight/internal/output"
	"github.com/matchsight/matchsight/internal/recommend"
)

var mismatchesCmd = &cobra.Command{
	Use:   "mismatches",
	Short: "Cross-check the two account backups",
	Long: `Compare every question both accounts answered and report the ones
where the answer, importance, or accepted-answer set differ. Useful for
keeping a shadow account's answers honest.`,
	RunE: runMismatches,
}

var unansweredCmd = &cobra.Command{
	Use:   "unanswered",
	Short: "List questions seen on profiles but never answered",
	RunE:  runUnanswered,
}

var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Histogram of per-question response counts",
	RunE:  runDistribution,
}

var bestToAnswerCmd = &cobra.Command{
	Use:   "best-to-answer",
	Short: "Rank answered questions by mismatch performance",
	Long: `Rank your answered questions from best- to worst-performing across
the stored profiles. Low mismatch fractions first; re-examine the tail.`,
	RunE: runBestToAnswer,
}

var reanswerCmd = &cobra.Command{
	Use:   "reanswer <question id>",
	Short: "Show context for reconsidering one answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runReanswer,
}

var checkStatusCmd = &cobra.Command{
	Use:   "check-status <question text>",
	Short: "Look up one answered question by its opening text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheckStatus,
}

var bestToAnswerN int

func init() {
	rootCmd.AddCommand(mismatchesCmd)
	rootCmd.AddCommand(unansweredCmd)
	rootCmd.AddCommand(distributionCmd)
	rootCmd.AddCommand(bestToAnswerCmd)
	rootCmd.AddCommand(reanswerCmd)
	rootCmd.AddCommand(checkStatusCmd)

	bestToAnswerCmd.Flags().IntVar(&bestToAnswerN, "n-cutoff", 0,
		"drop questions with fewer recorded responses than this")
}

func runMismatches(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	return output.Output(outputFmt, eng.AnswerMismatches())
}

func runUnanswered(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	return output.Output(outputFmt, eng.ShadowUnanswered())
}

func runDistribution(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	return output.Output(outputFmt, eng.AnsweredDistribution())
}

func runBestToAnswer(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	return output.Output(outputFmt, eng.BestToAnswer(bestToAnswerN))
}

func runReanswer(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid question id %q", args[0])
	}

	eng, cleanup, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r, ok := eng.HelpReanswer(id)
	if !ok {
		return fmt.Errorf("question %d is not in the answered registry", id)
	}
	return output.Output(outputFmt, r)
}

func runCheckStatus(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	eng, cleanup, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, ok := eng.CheckStatus(text)
	if !ok {
		fmt.Println("No answered question matches that text.")
		return nil
	}
	if outputFmt == "json" {
		return output.Output(outputFmt, []recommend.Summary{s})
	}
	output.SummaryBlock(os.Stdout, s)
	return nil
}

// openEngine builds the recommendation engine over the stored corpus. The
// cleanup closes the database; on error it is a no-op so callers can defer
// it unconditionally.
func openEngine(cmd *cobra.Command) (*recommend.Engine, func(), error) {
	cfg, db, err := openStore()
	if err != nil {
		return nil, func() {}, err
	}
	c, err := buildCorpus(cmd.Context(), cfg, db)
	if err != nil {
		db.Close()
		return nil, func() {}, err
	}
	NewTerminal()
	return recommend.New(c), func() { db.Close() }, nil
}
