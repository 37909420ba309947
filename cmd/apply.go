package cmd

import (
	"crypto/rsa"
	"fmt"
	"os"
	"strings"

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
	applyVariant     string
	applyEnvironment string
	applyAccount     string
	applyUser        string
	applyPasscode    string
	applyPublicKey   string
	applyPrivateKey  string
	applyPassphrase  string
	applySkipVerify  bool
	applyDryRun      bool
)

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVar(&applyVariant, "variant", "", "Course variant (default or capstone)")
	applyCmd.Flags().StringVar(&applyEnvironment, "environment", "", "Named environment from snowprep.toml")
	applyCmd.Flags().StringVar(&applyAccount, "account", "", "Snowflake account identifier (overrides environment)")
	applyCmd.Flags().StringVar(&applyUser, "user", "", "Snowflake username (overrides environment)")
	applyCmd.Flags().StringVar(&applyPasscode, "passcode", "", "Six-digit TOTP passcode for authenticator-app MFA")
	applyCmd.Flags().StringVar(&applyPublicKey, "public-key", keys.PublicKeyFile, "Public key file substituted into the user setup SQL")
	applyCmd.Flags().StringVar(&applyPrivateKey, "private-key", keys.PrivateKeyFile, "Private key file used to verify the service user logins")
	applyCmd.Flags().StringVar(&applyPassphrase, "passphrase", keys.DefaultPassphrase, "Passphrase of the private key file")
	applyCmd.Flags().BoolVar(&applySkipVerify, "skip-login-verify", false, "Skip the service user login verification")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Print the steps without connecting")
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run the provisioning plan headlessly",
	Long: `Runs the provisioning plan without the interactive wizard. Credentials
come from flags, the environment (SNOWFLAKE_ACCOUNT, SNOWFLAKE_USERNAME,
SNOWFLAKE_PASSWORD), a .env.<name> file, or snowprep.toml. The password is
only ever read from the environment or .env file, never from a flag.

The public key must already exist (run "snowprep keys" first); it is grafted
onto the dbt and preset users during the run.`,
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	env, err := config.ResolveEnvironment(cfg, applyEnvironment)
	if err != nil {
		return fmt.Errorf("failed to resolve environment: %w", err)
	}

	variant := firstNonEmpty(applyVariant, env.Variant, plan.VariantDefault)

	acct := account.Extract(firstNonEmpty(applyAccount, env.Account))
	if !applyDryRun && !account.IsValid(acct) {
		return fmt.Errorf("account %q doesn't look like a Snowflake account identifier", acct)
	}

	publicKey, err := loadPublicKeyBody(applyPublicKey)
	if err != nil && !applyDryRun {
		return fmt.Errorf("%w (run \"snowprep keys\" first)", err)
	}

	p, err := plan.Build(variant, publicKey)
	if err != nil {
		return err
	}

	if applyDryRun {
		printPlan(p)
		return nil
	}

	profile := warehouse.Profile{
		Account:   acct,
		User:      firstNonEmpty(applyUser, env.User),
		Password:  env.Password,
		Passcode:  applyPasscode,
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

	report, err := executor.Run(ctx, db, p, executor.Options{
		OnStart: func(step plan.Step) {
			fmt.Printf("▸ %s...\n", step.Title)
		},
		OnResult: printResult,
	})
	if err != nil {
		return err
	}

	if report.Success && !applySkipVerify {
		key, err := loadPrivateKey(applyPrivateKey, applyPassphrase)
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
	}

	if !report.Success {
		if failed, ok := report.Failed(); ok {
			return fmt.Errorf("setup failed at %q: %s", failed.Title, failed.Message)
		}
		return fmt.Errorf("setup failed")
	}

	fmt.Printf("\n🎉 Setup complete! %d steps succeeded (run %s)\n", len(report.Results), report.RunID)
	return nil
}

func printResult(result plan.StepResult) {
	switch result.Status {
	case plan.StatusSuccess:
		if result.Rows >= 0 {
			fmt.Printf("✓ %s (%d rows)\n", result.Title, result.Rows)
		} else {
			fmt.Printf("✓ %s\n", result.Title)
		}
	case plan.StatusFailure:
		fmt.Printf("✗ %s: %s\n", result.Title, result.Message)
	case plan.StatusSkipped:
		fmt.Printf("· %s (skipped)\n", result.Title)
	}
}

func printPlan(p *plan.Plan) {
	fmt.Printf("Variant: %s (%d steps)\n\n", p.Variant, len(p.Steps))
	for i, step := range p.Steps {
		fmt.Printf("%d. %s\n", i+1, step.Title)
		for _, stmt := range step.SQL {
			first := strings.SplitN(stmt, "\n", 2)[0]
			fmt.Printf("     %s\n", first)
		}
		for _, check := range step.Checks {
			fmt.Printf("     check: %s has at least %d row(s)\n", check.Table, check.MinRows)
		}
	}
}

// loadPublicKeyBody reads a PEM public key file and strips it down to the
// base64 body ALTER USER expects.
func loadPublicKeyBody(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read public key %s: %w", path, err)
	}
	body := string(data)
	body = strings.ReplaceAll(body, "-----BEGIN PUBLIC KEY-----", "")
	body = strings.ReplaceAll(body, "-----END PUBLIC KEY-----", "")
	return strings.ReplaceAll(body, "\n", ""), nil
}

func loadPrivateKey(path, passphrase string) (*rsa.PrivateKey, error) {
	return keys.LoadPrivateKeyFile(path, passphrase)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
