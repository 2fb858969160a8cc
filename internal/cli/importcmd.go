package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matchsight/matchsight/internal/profile"
	"github.com/matchsight/matchsight/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import exported platform records",
	Long: `Import profile snapshots or question backups exported from the
platform into the local snapshot store.

matchsight never talks to the platform itself; fetching and exporting is a
separate concern. These commands only map exported JSON onto the stored
record types.`,
}

var importProfilesCmd = &cobra.Command{
	Use:   "profiles <file.json>...",
	Short: "Import profile snapshot exports",
	Long: `Import one or more profile snapshot export files. Each file may hold
a single profile object or an array of them.

Examples:
  matchsight import profiles export.json
  matchsight import profiles --overwrite --min-match 80 batch1.json batch2.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImportProfiles,
}

var importBackupCmd = &cobra.Command{
	Use:   "backup <file.json>",
	Short: "Import a question backup export",
	Long: `Import an account's question backup: the five importance-tier lists
of answered questions with their answer options.

Examples:
  matchsight import backup --role real real-backup.json
  matchsight import backup --role shadow shadow-backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImportBackup,
}

var (
	importOverwrite bool
	importMinMatch  int
	importRole      string
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importProfilesCmd)
	importCmd.AddCommand(importBackupCmd)

	importProfilesCmd.Flags().BoolVar(&importOverwrite, "overwrite", false,
		"replace snapshots already stored for the same username")
	importProfilesCmd.Flags().IntVar(&importMinMatch, "min-match", 0,
		"skip profiles below this match percentage")
	importBackupCmd.Flags().StringVar(&importRole, "role", string(store.RoleReal),
		"which account the backup belongs to (real, shadow)")
}

func runImportProfiles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	terminal := NewTerminal()
	totalImported, totalSkipped := 0, 0
	for _, path := range args {
		profiles, err := profile.ParseProfilesFile(path)
		if err != nil {
			return err
		}

		imported, skipped := 0, 0
		for i := range profiles {
			p := &profiles[i]
			if importMinMatch > 0 && p.MatchPercent < importMinMatch {
				fmt.Printf("%s does not have a high enough match percentage -- not saving\n", p.Username)
				skipped++
				continue
			}
			saved, err := db.SaveProfile(ctx, p, importOverwrite)
			if err != nil {
				return fmt.Errorf("failed to save profile %s: %w", p.Username, err)
			}
			if !saved {
				skipped++
				continue
			}
			imported++
			if imported%20 == 0 {
				terminal.Notice("... %d profiles imported", imported)
			}
		}

		if err := db.RecordImport(ctx, path, "profiles", imported, skipped); err != nil {
			return err
		}
		totalImported += imported
		totalSkipped += skipped
	}

	fmt.Printf("Imported %d profiles (%d skipped)\n", totalImported, totalSkipped)
	return nil
}

func runImportBackup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	role := store.Role(importRole)
	if !role.Valid() {
		return fmt.Errorf("invalid role %q (use real or shadow)", importRole)
	}

	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	account := cfg.Accounts.Real
	if role == store.RoleShadow {
		if !cfg.Accounts.HasShadow() {
			return fmt.Errorf("no shadow account configured (set accounts.shadow)")
		}
		account = cfg.Accounts.Shadow
	}

	backup, err := profile.ParseBackupFile(args[0])
	if err != nil {
		return err
	}
	if err := db.SaveBackup(ctx, account, role, backup); err != nil {
		return fmt.Errorf("failed to save backup: %w", err)
	}
	if err := db.RecordImport(ctx, args[0], "backup", backup.Len(), 0); err != nil {
		return err
	}

	fmt.Printf("Imported %s backup for %s (%d questions)\n", role, account, backup.Len())
	return nil
}
