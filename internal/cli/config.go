package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "matchsight")
	dataDir := filepath.Join(home, ".local", "share", "matchsight")

	// Create directories
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.toml")

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'matchsight config show' to view current configuration")
		return nil
	}

	// Write default config
	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Set accounts.real (and accounts.shadow if you use one)")
	fmt.Println("  2. Run 'matchsight import profiles <export.json>' to load snapshots")
	fmt.Println("  3. Run 'matchsight import backup --role real <backup.json>'")
	fmt.Println("  4. Run 'matchsight rate questions' to start building your model")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'matchsight config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# matchsight configuration

[accounts]
# The account you interact with others from.
real = ""
# An account used only to retrieve profile information. Leave blank if you
# do not use one; the real account then serves both roles.
shadow = ""

[database]
path = "~/.local/share/matchsight/matchsight.db"

[valuations]
dir = "~/.local/share/matchsight/valuations"
# Slots let you keep several scoring models, e.g. long and short term.
default_slot = "prefs"

[rating]
save_interval = 5  # persist the model every N newly rated questions

[rating.categories]
s = "sex"       # frequency, openness, interests
m = "mindset"   # ethics, religion, politics, science
p = "physical"  # height, bodytype, picture rating
l = "life"      # activities, interests, staying up late

[recommend]
f_cutoff = 0.06  # maximum mismatch fraction for answer candidates
n_cutoff = 15    # minimum recorded responses for answer candidates
`
