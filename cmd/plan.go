package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowprep/snowprep/internal/plan"
)

var (
	planVariant  string
	planOut      string
	planValidate string
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planVariant, "variant", plan.VariantDefault, "Course variant (default or capstone)")
	planCmd.Flags().StringVar(&planOut, "out", "", "Write the plan as JSON to this file")
	planCmd.Flags().StringVar(&planValidate, "validate", "", "Validate an exported plan JSON file and exit")
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the provisioning steps for a course variant",
	Long: `Prints the ordered provisioning steps for a variant without connecting
to Snowflake. The plan can be exported as JSON (--out) and re-checked
against the plan schema later (--validate).`,
	Example: `  # Show the default bootcamp plan
  snowprep plan

  # Export the capstone plan
  snowprep plan --variant capstone --out capstone.json

  # Validate an exported plan
  snowprep plan --validate capstone.json`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	if planValidate != "" {
		p, err := plan.LoadJSON(planValidate)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s is a valid %s plan with %d steps\n", planValidate, p.Variant, len(p.Steps))
		return nil
	}

	// The key placeholder stays in place here; a plan printout should not
	// depend on generated keys.
	p, err := plan.Build(planVariant, "")
	if err != nil {
		return err
	}

	if planOut != "" {
		if err := plan.WriteJSON(p, planOut); err != nil {
			return err
		}
		fmt.Printf("Wrote %s plan (%d steps) to %s\n", p.Variant, len(p.Steps), planOut)
		return nil
	}

	printPlan(p)
	return nil
}
