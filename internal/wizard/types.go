package wizard

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/snowprep/snowprep/internal/keys"
	"github.com/snowprep/snowprep/internal/plan"
)

// State represents the current step in the setup flow
type State int

const (
	StateWelcome State = iota
	StateVariant
	StateKeys
	StateCredentials
	StateConnecting
	StateRunning
	StateArtifacts
	StateDone
	StateFailed
	StateError
)

// Model holds the state for the Bubble Tea setup wizard
type Model struct {
	state State

	// Variant selection
	variantIndex int

	// Generated keypair
	keypair        *keys.KeyPair
	privateKeyPath string
	publicKeyPath  string

	// Credential inputs (account, username, password, passcode)
	inputs     []textinput.Model
	focusIndex int

	// Account extracted from the raw input, shown when it differs
	// from what was typed
	extractedAccount string
	accountValid     bool

	// Connection outcome
	connectError error

	// Run progress. setup defaults to the real pipeline; tests swap in a
	// stub so no connection is attempted.
	setup       setupFunc
	progress    chan progressMsg
	currentStep string
	results     []plan.StepResult
	report      *plan.RunReport

	// Generated artifacts
	artifactPaths []string

	// Output directories (default: working directory)
	keyDir      string
	artifactDir string

	err error

	width  int
	height int
}

// Variant describes a selectable course variant
type Variant struct {
	ID          string
	DisplayName string
	Description string
	Icon        string
}

// Available course variants
var CourseVariants = []Variant{
	{
		ID:          plan.VariantDefault,
		DisplayName: "dbt Bootcamp",
		Description: "AirBnB raw tables, dbt and preset users",
		Icon:        "🚀",
	},
	{
		ID:          plan.VariantCapstone,
		DisplayName: "Capstone",
		Description: "bootcamp plus the AIRSTATS capstone database",
		Icon:        "🎓",
	},
}
