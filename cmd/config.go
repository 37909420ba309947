package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snowprep/snowprep/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configImageCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved snowprep configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if cfg.ConfigFilePath == "" {
			fmt.Println("No snowprep.toml found; using flags and environment only.")
			return nil
		}

		fmt.Printf("Config file: %s\n", cfg.ConfigFilePath)
		if cfg.DefaultEnvironment != "" {
			fmt.Printf("Default environment: %s\n", cfg.DefaultEnvironment)
		}
		if cfg.DefaultVariant != "" {
			fmt.Printf("Default variant: %s\n", cfg.DefaultVariant)
		}
		for name, env := range cfg.Environments {
			fmt.Printf("\n[environments.%s]\n", name)
			if env.Account != "" {
				fmt.Printf("  account = %s\n", env.Account)
			}
			if env.User != "" {
				fmt.Printf("  user = %s\n", env.User)
			}
			if env.Role != "" {
				fmt.Printf("  role = %s\n", env.Role)
			}
			if env.Warehouse != "" {
				fmt.Printf("  warehouse = %s\n", env.Warehouse)
			}
			if env.Variant != "" {
				fmt.Printf("  variant = %s\n", env.Variant)
			}
		}
		return nil
	},
}

// configImageCmd prints the image configuration as shell variable
// assignments, so scripts/build-image.sh can eval it.
var configImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Print the container image configuration for the build script",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		image := cfg.Image
		if image.Registry == "" {
			image.Registry = "ghcr.io/dbt-learn"
		}
		if image.Name == "" {
			image.Name = "snowprep"
		}
		if image.Tag == "" {
			image.Tag = "latest"
		}
		if len(image.Platforms) == 0 {
			image.Platforms = []string{"linux/amd64"}
		}

		fmt.Printf("IMAGE_REGISTRY=%q\n", image.Registry)
		fmt.Printf("IMAGE_NAME=%q\n", image.Name)
		fmt.Printf("IMAGE_TAG=%q\n", image.Tag)
		fmt.Printf("IMAGE_PLATFORMS=%q\n", strings.Join(image.Platforms, ","))
		return nil
	},
}
