// Package wizard implements the interactive setup flow: welcome, course
// variant selection, keypair generation, admin credentials, the provisioning
// run with live per-step progress, and the generated configuration files.
package wizard

import (
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/snowprep/snowprep/internal/account"
	"github.com/snowprep/snowprep/internal/plan"
	"github.com/snowprep/snowprep/internal/warehouse"
)

// Credential input indexes
const (
	inputAccount = iota
	inputUsername
	inputPassword
	inputPasscode
	inputCount
)

// New creates a new wizard model. Key files and artifacts are written to the
// working directory.
func New() Model {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return Model{
		state:       StateWelcome,
		keyDir:      dir,
		artifactDir: dir,
	}
}

// Init initializes the wizard (Bubble Tea Init)
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles state transitions (Bubble Tea Update)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			// q quits everywhere except free-text entry
			if m.state != StateCredentials {
				return m, tea.Quit
			}
			return m.handleTextInput(msg)

		case "enter":
			return m.handleEnter()

		case "up", "down", "tab", "shift+tab", "k", "j":
			return m.handleNavigation(msg.String())

		default:
			return m.handleTextInput(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case keypairGeneratedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = StateError
			return m, nil
		}
		m.keypair = msg.keypair
		m.privateKeyPath = msg.privatePath
		m.publicKeyPath = msg.publicPath
		return m, nil

	case progressMsg:
		return m.handleProgress(msg)

	case artifactsWrittenMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = StateError
			return m, nil
		}
		m.artifactPaths = msg.paths
		m.state = StateDone
		return m, nil
	}

	return m, nil
}

// View renders the wizard UI (Bubble Tea View)
func (m Model) View() string {
	switch m.state {
	case StateWelcome:
		return m.renderWelcome()
	case StateVariant:
		return m.renderVariant()
	case StateKeys:
		return m.renderKeys()
	case StateCredentials:
		return m.renderCredentials()
	case StateConnecting:
		return m.renderConnecting()
	case StateRunning:
		return m.renderRunning()
	case StateArtifacts:
		return m.renderArtifacts()
	case StateDone:
		return m.renderDone()
	case StateFailed:
		return m.renderFailed()
	case StateError:
		return m.renderError()
	default:
		return "Unknown state"
	}
}

// State transition handlers

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateWelcome:
		m.state = StateVariant
		return m, nil

	case StateVariant:
		m.state = StateKeys
		return m, m.generateKeypair()

	case StateKeys:
		if m.keypair == nil {
			// Still generating
			return m, nil
		}
		m.state = StateCredentials
		m.initializeInputs()
		return m, nil

	case StateCredentials:
		if !m.collectCredentials() {
			return m, nil
		}
		m.state = StateConnecting
		m.connectError = nil
		return m, m.startSetup()

	case StateArtifacts:
		m.state = StateDone
		return m, nil

	case StateDone, StateFailed, StateError:
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleNavigation(key string) (tea.Model, tea.Cmd) {
	up := key == "up" || key == "k" || key == "shift+tab"

	switch m.state {
	case StateVariant:
		if up && m.variantIndex > 0 {
			m.variantIndex--
		}
		if !up && m.variantIndex < len(CourseVariants)-1 {
			m.variantIndex++
		}
		return m, nil

	case StateCredentials:
		// j/k are text in input fields
		if key == "j" || key == "k" {
			return m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		}
		if key == "tab" {
			m.focusIndex = (m.focusIndex + 1) % len(m.inputs)
		} else if up {
			if m.focusIndex > 0 {
				m.focusIndex--
			}
		} else if m.focusIndex < len(m.inputs)-1 {
			m.focusIndex++
		}
		m.updateInputFocus()
		return m, nil
	}

	return m, nil
}

func (m Model) handleTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state != StateCredentials || len(m.inputs) == 0 {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)

	if m.focusIndex == inputAccount {
		m.extractedAccount = account.Extract(m.inputs[inputAccount].Value())
		m.accountValid = account.IsValid(m.extractedAccount)
	}

	return m, cmd
}

func (m Model) handleProgress(msg progressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.connectErr != nil:
		// Back to the credential form with the error displayed
		m.connectError = msg.connectErr
		m.state = StateCredentials
		m.results = nil
		m.currentStep = ""
		return m, nil

	case msg.stepStart != nil:
		m.state = StateRunning
		m.currentStep = msg.stepStart.Title
		return m, waitForProgress(m.progress)

	case msg.stepResult != nil:
		m.state = StateRunning
		m.currentStep = ""
		m.results = append(m.results, *msg.stepResult)
		return m, waitForProgress(m.progress)

	case msg.report != nil:
		m.report = msg.report
		if !m.report.Success {
			m.state = StateFailed
			return m, nil
		}
		m.state = StateArtifacts
		return m, m.writeArtifacts()
	}

	return m, waitForProgress(m.progress)
}

// Input management

func (m *Model) initializeInputs() {
	if len(m.inputs) > 0 {
		return
	}

	m.inputs = []textinput.Model{
		m.makeInput("Snowflake account (e.g. frgcsyo-ie17820)", os.Getenv("SNOWFLAKE_ACCOUNT"), false),
		m.makeInput("Username", usernameDefault(), false),
		m.makeInput("Password", os.Getenv("SNOWFLAKE_PASSWORD"), true),
		m.makeInput("TOTP passcode (leave empty unless you use an authenticator app)", "", false),
	}
	m.focusIndex = 0
	m.inputs[0].Focus()
}

func usernameDefault() string {
	if user := os.Getenv("SNOWFLAKE_USERNAME"); user != "" {
		return user
	}
	return "admin"
}

func (m *Model) makeInput(placeholder, value string, isPassword bool) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.SetValue(value)
	if isPassword {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '*'
	}
	return input
}

func (m *Model) updateInputFocus() {
	for i := range m.inputs {
		if i == m.focusIndex {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// collectCredentials validates the form; it returns false when the form is
// not ready to submit. The keypair check guards against the credential state
// being reached before key generation finished.
func (m *Model) collectCredentials() bool {
	if m.keypair == nil {
		return false
	}
	if len(m.inputs) < inputCount {
		return false
	}

	m.extractedAccount = account.Extract(m.inputs[inputAccount].Value())
	m.accountValid = account.IsValid(m.extractedAccount)
	if !m.accountValid {
		return false
	}
	if m.inputs[inputUsername].Value() == "" || m.inputs[inputPassword].Value() == "" {
		return false
	}
	return true
}

// profile builds the connection profile from the form.
func (m Model) profile() warehouse.Profile {
	return warehouse.Profile{
		Account:  m.extractedAccount,
		User:     m.inputs[inputUsername].Value(),
		Password: m.inputs[inputPassword].Value(),
		Passcode: m.inputs[inputPasscode].Value(),
	}
}

// Results returns the collected step results (used by tests).
func (m Model) Results() []plan.StepResult {
	return m.results
}
