package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/snowprep/snowprep/internal/account"
	"github.com/snowprep/snowprep/internal/config"
	"github.com/snowprep/snowprep/internal/executor"
	"github.com/snowprep/snowprep/internal/keys"
	"github.com/snowprep/snowprep/internal/plan"
	"github.com/snowprep/snowprep/internal/warehouse"
)

var (
	verifyVariant     string
	verifyEnvironment string
	verifyAccount     string
	verifyUser        string
	verifyPasscode    string
	verifyPrivateKey  string
	verifyPassphrase  string
)

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyVariant, "variant", "", "Course variant (default or capstone)")
	verifyCmd.Flags().StringVar(&verifyEnvironment, "environment", "", "Named environment from snowprep.toml")
	verifyCmd.Flags().StringVar(&verifyAccount, "account", "", "Snowflake account identifier (overrides environment)")
	verifyCmd.Flags().StringVar(&verifyUser, "user", "", "Snowflake username (overrides environment)")
	verifyCmd.Flags().StringVar(&verifyPasscode, "passcode", "", "Six-digit TOTP passcode for authenticator-app MFA")
	verifyCmd.Flags().StringVar(&verifyPrivateKey, "private-key", keys.PrivateKeyFile, "Private key file for the service user logins")
	verifyCmd.Flags().StringVar(&verifyPassphrase, "passphrase", keys.DefaultPassphrase, "Passphrase of the private key file")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check an existing setup without changing anything",
	Long: `Re-runs only the verification of a finished setup: the row-count checks
on the loaded tables, plus the key-pair logins of the dbt and preset users.
Nothing is created or altered.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	env, err := config.ResolveEnvironment(cfg, verifyEnvironment)
	if err != nil {
		return fmt.Errorf("failed to resolve environment: %w", err)
	}

	variant := firstNonEmpty(verifyVariant, env.Variant, plan.VariantDefault)

	acct := account.Extract(firstNonEmpty(verifyAccount, env.Account))
	if !account.IsValid(acct) {
		return fmt.Errorf("account %q doesn't look like a Snowflake account identifier", acct)
	}

	full, err := plan.Build(variant, "")
	if err != nil {
		return err
	}

	// Reduce the plan to its checks: same ordering, no DDL
	checksPlan := &plan.Plan{Variant: full.Variant}
	for _, step := range full.Steps {
		if len(step.Checks) == 0 {
			continue
		}
		checksPlan.Steps = append(checksPlan.Steps, plan.Step{
			Name:   step.Name,
			Title:  "Check " + step.Title,
			SQL:    []string{"SELECT 1"},
			Checks: step.Checks,
		})
	}
	if len(checksPlan.Steps) == 0 {
		return fmt.Errorf("variant %q has no verification checks", variant)
	}

	profile := warehouse.Profile{
		Account:   acct,
		User:      firstNonEmpty(verifyUser, env.User),
		Password:  env.Password,
		Passcode:  verifyPasscode,
		Role:      env.Role,
		Warehouse: env.Warehouse,
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	log.Info("connecting to Snowflake", "account", acct, "user", profile.User)
	db, err := warehouse.Connect(ctx, profile)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	report, err := executor.Run(ctx, db, checksPlan, executor.Options{OnResult: printResult})
	if err != nil {
		return err
	}

	key, err := keys.LoadPrivateKeyFile(verifyPrivateKey, verifyPassphrase)
	if err != nil {
		log.Warn("skipping login verification", "reason", err)
	} else {
		for _, result := range warehouse.VerifyLogins(ctx, acct, key) {
			report.Results = append(report.Results, result)
			if result.Status == plan.StatusFailure {
				report.Success = false
			}
			printResult(result)
		}
	}

	if !report.Success {
		if failed, ok := report.Failed(); ok {
			return fmt.Errorf("verification failed at %q: %s", failed.Title, failed.Message)
		}
		return fmt.Errorf("verification failed")
	}

	fmt.Println("\n✓ Everything checks out")
	return nil
}
