package wizard

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/snowprep/snowprep/internal/artifacts"
	"github.com/snowprep/snowprep/internal/executor"
	"github.com/snowprep/snowprep/internal/keys"
	"github.com/snowprep/snowprep/internal/plan"
	"github.com/snowprep/snowprep/internal/warehouse"
)

// Message types for async operations

type keypairGeneratedMsg struct {
	keypair     *keys.KeyPair
	privatePath string
	publicPath  string
	err         error
}

// progressMsg is one event from the setup pipeline goroutine.
type progressMsg struct {
	// Exactly one of the following is set
	connectErr error
	stepStart  *plan.Step
	stepResult *plan.StepResult
	report     *plan.RunReport
}

type artifactsWrittenMsg struct {
	paths []string
	err   error
}

func (m Model) generateKeypair() tea.Cmd {
	keyDir := m.keyDir
	return func() tea.Msg {
		kp, err := keys.Generate(keys.DefaultPassphrase)
		if err != nil {
			return keypairGeneratedMsg{err: err}
		}
		privatePath, publicPath, err := kp.WriteFiles(keyDir)
		if err != nil {
			return keypairGeneratedMsg{err: err}
		}
		return keypairGeneratedMsg{keypair: kp, privatePath: privatePath, publicPath: publicPath}
	}
}

// setupFunc is the pipeline signature; runSetup is the real one.
type setupFunc func(profile warehouse.Profile, variant string, keypair *keys.KeyPair, ch chan<- progressMsg)

// startSetup launches the setup pipeline in a goroutine and returns the
// command that waits for its first progress event. The pipeline pushes one
// progressMsg per event; waitForProgress re-arms after each one.
func (m *Model) startSetup() tea.Cmd {
	ch := make(chan progressMsg, 16)
	m.progress = ch

	profile := m.profile()
	variant := CourseVariants[m.variantIndex].ID
	keypair := m.keypair

	setup := m.setup
	if setup == nil {
		setup = runSetup
	}
	go setup(profile, variant, keypair, ch)

	return tea.Batch(waitForProgress(ch))
}

func waitForProgress(ch chan progressMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// runSetup is the pipeline: connect, execute the plan, verify the service
// logins. It owns the admin connection for the whole run.
func runSetup(profile warehouse.Profile, variant string, keypair *keys.KeyPair, ch chan<- progressMsg) {
	defer close(ch)
	ctx := context.Background()

	if keypair == nil {
		ch <- progressMsg{connectErr: fmt.Errorf("no keypair was generated; restart the setup")}
		return
	}

	p, err := plan.Build(variant, keypair.PublicKeyBody())
	if err != nil {
		ch <- progressMsg{connectErr: err}
		return
	}

	db, err := warehouse.Connect(ctx, profile)
	if err != nil {
		ch <- progressMsg{connectErr: err}
		return
	}
	defer func() { _ = db.Close() }()

	report, err := executor.Run(ctx, db, p, executor.Options{
		OnStart: func(step plan.Step) {
			s := step
			ch <- progressMsg{stepStart: &s}
		},
		OnResult: func(result plan.StepResult) {
			r := result
			ch <- progressMsg{stepResult: &r}
		},
	})
	if err != nil {
		ch <- progressMsg{connectErr: err}
		return
	}

	if report.Success {
		for _, result := range warehouse.VerifyLogins(ctx, profile.Account, keypair.Private()) {
			r := result
			report.Results = append(report.Results, result)
			if result.Status == plan.StatusFailure {
				report.Success = false
			}
			ch <- progressMsg{stepResult: &r}
		}
	}

	ch <- progressMsg{report: report}
}

func (m Model) writeArtifacts() tea.Cmd {
	in := artifacts.NewInput(m.extractedAccount, m.keypair)
	dir := m.artifactDir
	return func() tea.Msg {
		paths, err := artifacts.WriteAll(dir, in)
		return artifactsWrittenMsg{paths: paths, err: err}
	}
}
