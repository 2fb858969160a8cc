package cli

import (
	"github.com/spf13/cobra"

	"github.com/matchsight/matchsight/internal/output"
	"github.com/matchsight/matchsight/internal/recommend"
)

var questionsToAnswerCmd = &cobra.Command{
	Use:   "questions-to-answer",
	Short: "Recommend questions for the primary account to answer",
	Long: `Find questions the primary account has not answered that look safe:
enough recorded responses and a low mismatch fraction. The candidates are
grouped into a visit plan, greedily picking the profile that covers the most
remaining candidates relative to its size; --by-profile=false prints the flat
candidate list only.

Examples:
  matchsight questions-to-answer
  matchsight questions-to-answer --f-cutoff 0.1 --n-cutoff 20 --by-profile=false`,
	RunE: runQuestionsToAnswer,
}

var (
	recommendFCutoff   float64
	recommendNCutoff   int
	recommendByProfile bool
)

func init() {
	rootCmd.AddCommand(questionsToAnswerCmd)

	questionsToAnswerCmd.Flags().Float64Var(&recommendFCutoff, "f-cutoff", -1,
		"maximum mismatch fraction (default from config)")
	questionsToAnswerCmd.Flags().IntVar(&recommendNCutoff, "n-cutoff", -1,
		"minimum recorded responses (default from config)")
	questionsToAnswerCmd.Flags().BoolVar(&recommendByProfile, "by-profile", true,
		"group candidates into a greedy profile visit plan")
}

func runQuestionsToAnswer(cmd *cobra.Command, args []string) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	fCutoff := recommendFCutoff
	if !cmd.Flags().Changed("f-cutoff") {
		fCutoff = cfg.Recommend.FCutoff
	}
	nCutoff := recommendNCutoff
	if !cmd.Flags().Changed("n-cutoff") {
		nCutoff = cfg.Recommend.NCutoff
	}

	c, err := buildCorpus(cmd.Context(), cfg, db)
	if err != nil {
		return err
	}

	NewTerminal()
	eng := recommend.New(c)
	return output.Output(outputFmt, eng.QuestionsToAnswer(fCutoff, nCutoff, recommendByProfile))
}
