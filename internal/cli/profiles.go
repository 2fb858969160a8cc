package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matchsight/matchsight/internal/config"
	"github.com/matchsight/matchsight/internal/output"
	"github.com/matchsight/matchsight/internal/valuation"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List stored profile snapshots",
	RunE:  runProfiles,
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List stored question backups",
	RunE:  runBackups,
}

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List valuation slots",
	RunE:  runSlots,
}

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List past import runs",
	RunE:  runImports,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(slotsCmd)
	rootCmd.AddCommand(importsCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	summaries, err := db.ListProfiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	return output.Output(outputFmt, summaries)
}

func runBackups(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	backups, err := db.ListBackups(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	return output.Output(outputFmt, backups)
}

func runImports(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.ListImports(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list imports: %w", err)
	}
	return output.Output(outputFmt, records)
}

func runSlots(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	slots, err := valuation.ListSlots(cfg.Valuations.Dir)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Println("No valuation slots saved yet.")
		return nil
	}
	for _, slot := range slots {
		marker := ""
		if slot == cfg.Valuations.DefaultSlot {
			marker = " (default)"
		}
		fmt.Printf("%s%s\n", slot, marker)
	}
	return nil
}
