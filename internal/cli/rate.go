package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matchsight/matchsight/internal/valuation"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Build the scoring model interactively",
	Long: `Rate questions and profile details into the current valuation slot.

Rating passes are resumable: the model is saved periodically and questions
already fully rated are skipped on the next run.`,
}

var rateQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Rate your answered questions",
	Long: `Walk your question backup in importance order and assign each
question a category and a zero-centered rating per answer option.

Questions that already have a category and a rating for every known option
are skipped, so an interrupted pass resumes where it stopped.`,
	RunE: runRateQuestions,
}

var rateDetailsCmd = &cobra.Command{
	Use:   "details",
	Short: "Rate profile details",
	Long: `Collect the distinct values observed for every profile detail
(bodytype, diet, ...) across stored snapshots and rate them.`,
	RunE: runRateDetails,
}

var reviseCmd = &cobra.Command{
	Use:   "revise <question text>",
	Short: "Re-rate a single question by exact text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRevise,
}

func init() {
	rootCmd.AddCommand(rateCmd)
	rateCmd.AddCommand(rateQuestionsCmd)
	rateCmd.AddCommand(rateDetailsCmd)
	rootCmd.AddCommand(reviseCmd)
}

func runRateQuestions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	backup, err := loadBackup(ctx, db, viewerRole(cfg), true)
	if err != nil {
		return err
	}
	vs, err := openValuations(cfg)
	if err != nil {
		return err
	}

	terminal := NewTerminal()
	progress := func(p valuation.Progress) {
		if p.Saved {
			terminal.Notice("Saving... (%d rated this pass)", p.Rated)
		}
	}

	rated, err := vs.RateQuestions(backup, NewPrompter(vs.Categories), cfg.Rating.SaveInterval, progress)
	if err != nil {
		return fmt.Errorf("rating pass interrupted after %d questions: %w", rated, err)
	}
	fmt.Printf("Rated %d questions into slot %s\n", rated, vs.Slot())
	return nil
}

func runRateDetails(cmd *cobra.Command, args []string) error {
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

	if err := vs.RateDetails(profiles, NewPrompter(vs.Categories)); err != nil {
		return fmt.Errorf("detail rating pass interrupted: %w", err)
	}
	fmt.Printf("Saved detail ratings into slot %s\n", vs.Slot())
	return nil
}

func runRevise(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	text := strings.Join(args, " ")

	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	backup, err := loadBackup(ctx, db, viewerRole(cfg), true)
	if err != nil {
		return err
	}
	vs, err := openValuations(cfg)
	if err != nil {
		return err
	}

	err = vs.ReviseQuestion(backup, text, NewPrompter(vs.Categories))
	if errors.Is(err, valuation.ErrQuestionNotFound) {
		fmt.Println("Question not found!")
		return nil
	}
	return err
}
