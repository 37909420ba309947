package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "snowprep",
	Short: "snowprep provisions the Snowflake account used in the dbt course.",
	Long: `snowprep walks a student through setting up their Snowflake account for
the dbt course: it generates the access keys, creates the users, roles,
databases and raw tables, loads the sample data from the public course
bucket, and writes the dbt and Preset configuration files.

Run "snowprep setup" for the guided flow, or "snowprep apply" to run the
provisioning headlessly with credentials from the environment.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
