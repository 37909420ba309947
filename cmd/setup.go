package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/snowprep/snowprep/internal/wizard"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: keys, Snowflake provisioning, config files",
	Long: `Walks through the full course setup interactively:

  1. Generate the RSA keypair Snowflake requires (rsa_key.p8 / rsa_key.pub)
  2. Provision the Snowflake account and load the sample data
  3. Write profiles.yml and preset-instructions.md

Key files and configuration files are written to the working directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		program := tea.NewProgram(wizard.New())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("setup wizard failed: %w", err)
		}
		return nil
	},
}
