package plan

import (
	"time"

	"github.com/google/uuid"
)

// StepStatus is the outcome of executing a single step.
type StepStatus string

const (
	StatusSuccess StepStatus = "success"
	StatusFailure StepStatus = "failure"
	StatusSkipped StepStatus = "skipped"
)

// RowCountCheck is a post-condition on a loaded table. The check passes when
// the table holds at least MinRows rows.
type RowCountCheck struct {
	Table   string `json:"table"`
	MinRows int64  `json:"min_rows"`
}

// Step is a single unit of provisioning work: a batch of SQL statements plus
// optional row-count checks that run after the statements succeed.
type Step struct {
	// Name is the stable section identifier (matches the resource file).
	Name string `json:"name"`
	// Title is the human-readable label shown while the step runs.
	Title string   `json:"title"`
	SQL   []string `json:"sql"`
	// Checks run after the statements; each one counts rows in a table.
	Checks []RowCountCheck `json:"checks,omitempty"`
	// ContinueOnError marks steps whose failure should not halt the run
	// (the run still finishes unsuccessful).
	ContinueOnError bool `json:"continue_on_error,omitempty"`
}

// Plan is the ordered list of steps for one course variant.
type Plan struct {
	Variant string `json:"variant"`
	Steps   []Step `json:"steps"`
}

// StepResult records the outcome of one step.
type StepResult struct {
	Name    string     `json:"name"`
	Title   string     `json:"title"`
	Status  StepStatus `json:"status"`
	Message string     `json:"message,omitempty"`
	// Rows is the total row count observed by the step's checks, or -1 when
	// the step has no checks.
	Rows     int64         `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// RunReport is the full outcome of executing a plan.
type RunReport struct {
	RunID    uuid.UUID    `json:"run_id"`
	Variant  string       `json:"variant"`
	Results  []StepResult `json:"results"`
	Success  bool         `json:"success"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
}

// Failed returns the first failed result, if any.
func (r *RunReport) Failed() (StepResult, bool) {
	for _, res := range r.Results {
		if res.Status == StatusFailure {
			return res, true
		}
	}
	return StepResult{}, false
}
