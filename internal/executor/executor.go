// Package executor runs a provisioning plan against a live warehouse
// connection: steps execute strictly in declared order, each statement in a
// step runs before its row-count checks, and the first hard failure halts the
// run with the remaining steps recorded as skipped.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/snowprep/snowprep/internal/plan"
)

// Options tunes a run. The zero value is a sensible default.
type Options struct {
	// OnStart is called just before a step executes.
	OnStart func(step plan.Step)
	// OnResult is called after each step with its result, including skipped
	// steps at the tail of a failed run.
	OnResult func(result plan.StepResult)
}

// Run executes every step of the plan on db, which must already be open and
// pinged. It never retries: statements are idempotent by contract, so the
// caller re-runs the whole plan instead.
//
// The returned error is non-nil only for context cancellation or a nil plan;
// step failures are reported through the RunReport.
func Run(ctx context.Context, db *sql.DB, p *plan.Plan, opts Options) (*plan.RunReport, error) {
	if p == nil || len(p.Steps) == 0 {
		return nil, fmt.Errorf("empty plan")
	}

	report := &plan.RunReport{
		RunID:   uuid.New(),
		Variant: p.Variant,
		Success: true,
		Started: time.Now(),
	}

	halted := false
	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if halted {
			record(report, opts, plan.StepResult{
				Name:    step.Name,
				Title:   step.Title,
				Status:  plan.StatusSkipped,
				Message: "skipped: a previous step failed",
				Rows:    -1,
			})
			continue
		}

		if opts.OnStart != nil {
			opts.OnStart(step)
		}

		result := runStep(ctx, db, step)
		record(report, opts, result)

		if result.Status == plan.StatusFailure {
			report.Success = false
			if !step.ContinueOnError {
				halted = true
			}
		}
	}

	report.Finished = time.Now()
	return report, nil
}

// runStep executes one step: all statements in order, then all checks.
func runStep(ctx context.Context, db *sql.DB, step plan.Step) plan.StepResult {
	started := time.Now()
	result := plan.StepResult{
		Name:   step.Name,
		Title:  step.Title,
		Status: plan.StatusSuccess,
		Rows:   -1,
	}

	for _, stmt := range step.SQL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			result.Status = plan.StatusFailure
			result.Message = fmt.Sprintf("statement failed: %v", err)
			result.Duration = time.Since(started)
			return result
		}
	}

	if len(step.Checks) > 0 {
		total, err := runChecks(ctx, db, step.Checks)
		result.Rows = total
		if err != nil {
			result.Status = plan.StatusFailure
			result.Message = err.Error()
		}
	}

	result.Duration = time.Since(started)
	return result
}

// runChecks counts rows for each check and returns the total across all of
// them. The first check below its minimum fails the step.
func runChecks(ctx context.Context, db *sql.DB, checks []plan.RowCountCheck) (int64, error) {
	var total int64
	for _, check := range checks {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", check.Table)
		if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return total, fmt.Errorf("row count check on %s failed: %w", check.Table, err)
		}
		total += count
		if count < check.MinRows {
			return total, fmt.Errorf("table %s has %d rows, expected at least %d", check.Table, count, check.MinRows)
		}
	}
	return total, nil
}

func record(report *plan.RunReport, opts Options, result plan.StepResult) {
	report.Results = append(report.Results, result)
	if opts.OnResult != nil {
		opts.OnResult(result)
	}
}
