// Package warehouse builds and opens Snowflake connections for the setup
// run: a password-authenticated admin connection that executes the plan, and
// key-pair-authenticated connections used to verify the service user logins.
package warehouse

import (
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/snowflakedb/gosnowflake"
)

// Defaults applied when a profile field is left empty.
const (
	DefaultRole      = "ACCOUNTADMIN"
	DefaultWarehouse = "COMPUTE_WH"
	DefaultDatabase  = "AIRBNB"
	DefaultSchema    = "DEV"

	application = "snowprep"
)

// Profile is the admin connection profile for a setup run. It is supplied
// once per run and never persisted or logged.
type Profile struct {
	Account  string
	User     string
	Password string
	// Passcode is the six-digit TOTP code for accounts enrolled in
	// authenticator-app MFA. Empty for push-based or no MFA.
	Passcode string

	Role      string
	Warehouse string
	Database  string
	Schema    string
}

// Validate checks the fields required before a connection attempt.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Account) == "" {
		return fmt.Errorf("account must not be empty")
	}
	if strings.TrimSpace(p.User) == "" {
		return fmt.Errorf("username must not be empty")
	}
	if p.Password == "" {
		return fmt.Errorf("password must not be empty")
	}
	return nil
}

// DSN builds the gosnowflake connection string for the admin connection.
func (p Profile) DSN() (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	cfg := gosnowflake.Config{
		Account:     p.Account,
		User:        p.User,
		Password:    p.Password,
		Passcode:    p.Passcode,
		Role:        orDefault(p.Role, DefaultRole),
		Warehouse:   orDefault(p.Warehouse, DefaultWarehouse),
		Database:    orDefault(p.Database, DefaultDatabase),
		Schema:      orDefault(p.Schema, DefaultSchema),
		Application: application,
	}

	dsn, err := gosnowflake.DSN(&cfg)
	if err != nil {
		return "", fmt.Errorf("failed to build connection string: %w", err)
	}
	return dsn, nil
}

// keyPairDSN builds a connection string authenticated with an RSA private
// key instead of a password.
func keyPairDSN(acct, user, role, database, schema string, key *rsa.PrivateKey) (string, error) {
	cfg := gosnowflake.Config{
		Account:       acct,
		User:          user,
		Role:          role,
		Warehouse:     DefaultWarehouse,
		Database:      database,
		Schema:        schema,
		Authenticator: gosnowflake.AuthTypeJwt,
		PrivateKey:    key,
		Application:   application,
	}

	dsn, err := gosnowflake.DSN(&cfg)
	if err != nil {
		return "", fmt.Errorf("failed to build key-pair connection string: %w", err)
	}
	return dsn, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
