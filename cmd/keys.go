package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowprep/snowprep/internal/keys"
)

var (
	keysPassphrase string
	keysDir        string
)

func init() {
	rootCmd.AddCommand(keysCmd)

	keysCmd.Flags().StringVar(&keysPassphrase, "passphrase", keys.DefaultPassphrase, "Passphrase protecting the private key")
	keysCmd.Flags().StringVar(&keysDir, "dir", ".", "Directory to write the key files into")
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate the RSA keypair for Snowflake key-pair authentication",
	Long: `Generates a 2048-bit RSA keypair and writes rsa_key.p8 (encrypted
PKCS#8 private key) and rsa_key.pub (public key) into the target directory.
The public key is grafted onto the dbt and preset users during setup; the
private key goes into your dbt profile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := keys.Generate(keysPassphrase)
		if err != nil {
			return err
		}

		privatePath, publicPath, err := kp.WriteFiles(keysDir)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Private key written to %s\n", privatePath)
		fmt.Printf("✓ Public key written to %s\n", publicPath)
		fmt.Println("\nKeep both files somewhere safe; the course setup and your dbt profile need them.")
		return nil
	},
}
