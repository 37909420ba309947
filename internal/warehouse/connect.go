package warehouse

import (
	"context"
	"crypto/rsa"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snowflakedb/gosnowflake"
)

// connectTimeout bounds the initial ping. Snowflake cold starts are slow but
// a hung login should not block the UI forever.
const connectTimeout = 60 * time.Second

// Sentinel errors used by the UI to pick an error message.
var (
	// ErrAuthFailed means Snowflake rejected the username or password.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrTOTPRequired means the account is enrolled in TOTP-based MFA and
	// the student needs to supply the six-digit passcode.
	ErrTOTPRequired = errors.New("TOTP passcode required")
)

// Connect opens the admin connection and verifies it with a ping. It returns
// before any plan step runs, so a credential problem produces zero step
// results.
func Connect(ctx context.Context, profile Profile) (*sql.DB, error) {
	dsn, err := profile.DSN()
	if err != nil {
		return nil, err
	}
	return open(ctx, dsn)
}

// ConnectKeyPair opens a connection as a service user authenticated with the
// generated RSA private key.
func ConnectKeyPair(ctx context.Context, acct, user, role, database, schema string, key *rsa.PrivateKey) (*sql.DB, error) {
	dsn, err := keyPairDSN(acct, user, role, database, schema, key)
	if err != nil {
		return nil, err
	}
	return open(ctx, dsn)
}

func open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	// One session per run; the pool must not open a second one behind our
	// back or USE ROLE/DATABASE state would not stick.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, classifyConnectError(err)
	}
	return db, nil
}

// classifyConnectError wraps driver errors with sentinels the UI understands.
func classifyConnectError(err error) error {
	msg := err.Error()

	if strings.Contains(msg, "TOTP is required") || strings.Contains(msg, "MFA with TOTP") {
		return fmt.Errorf("%w: %v", ErrTOTPRequired, err)
	}

	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) {
		// 390xxx are login/authentication errors
		if sfErr.Number >= 390000 && sfErr.Number < 391000 {
			return fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
	}

	return fmt.Errorf("failed to connect to Snowflake: %w", err)
}
