package warehouse

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/snowprep/snowprep/internal/plan"
)

// serviceLogin describes one service user whose key-pair login is verified
// after the plan has run.
type serviceLogin struct {
	name   string
	user   string
	role   string
	schema string
	// probe is an optional query that must return at least one row.
	probe string
}

var serviceLogins = []serviceLogin{
	{
		name:   "verify_dbt_login",
		user:   "dbt",
		role:   "TRANSFORM",
		schema: "RAW",
		probe:  "SELECT * FROM AIRBNB.RAW.RAW_LISTINGS LIMIT 1",
	},
	{
		name:   "verify_preset_login",
		user:   "preset",
		role:   "REPORTER",
		schema: "DEV",
	},
}

// VerifyLogins connects as each service user with the generated private key
// and checks that the role, database and schema from the setup are usable.
// A failed login does not stop the remaining verifications; these are soft
// failures the student can investigate after the run.
func VerifyLogins(ctx context.Context, acct string, key *rsa.PrivateKey) []plan.StepResult {
	results := make([]plan.StepResult, 0, len(serviceLogins))
	for _, login := range serviceLogins {
		results = append(results, verifyLogin(ctx, acct, key, login))
	}
	return results
}

func verifyLogin(ctx context.Context, acct string, key *rsa.PrivateKey, login serviceLogin) plan.StepResult {
	started := time.Now()
	result := plan.StepResult{
		Name:   login.name,
		Title:  fmt.Sprintf("Verify connection with the %s user", login.user),
		Status: plan.StatusSuccess,
		Rows:   -1,
	}

	fail := func(err error) plan.StepResult {
		result.Status = plan.StatusFailure
		result.Message = err.Error()
		result.Duration = time.Since(started)
		return result
	}

	db, err := ConnectKeyPair(ctx, acct, login.user, login.role, DefaultDatabase, login.schema, key)
	if err != nil {
		return fail(fmt.Errorf("login as %s failed: %w", login.user, err))
	}
	defer func() { _ = db.Close() }()

	for _, stmt := range []string{
		fmt.Sprintf("USE ROLE %s", login.role),
		fmt.Sprintf("USE DATABASE %s", DefaultDatabase),
		fmt.Sprintf("USE SCHEMA %s", login.schema),
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fail(fmt.Errorf("%s as %s failed: %w", stmt, login.user, err))
		}
	}

	if login.probe != "" {
		rows, err := db.QueryContext(ctx, login.probe)
		if err != nil {
			return fail(fmt.Errorf("probe query as %s failed: %w", login.user, err))
		}
		defer func() { _ = rows.Close() }()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return fail(fmt.Errorf("probe query as %s failed: %w", login.user, err))
			}
			return fail(fmt.Errorf("probe query as %s returned no rows", login.user))
		}
	}

	result.Duration = time.Since(started)
	return result
}
