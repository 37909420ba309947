package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/snowprep/snowprep/internal/plan"
	"github.com/snowprep/snowprep/internal/warehouse"
)

// View renderers

func (m Model) renderWelcome() string {
	var b strings.Builder

	b.WriteString(renderHeader("Snowflake Setup Helper"))
	b.WriteString("\n\n")
	b.WriteString("Hi there! 👋 This tool helps you get started with dbt,\nSnowflake and Preset for the course.\n\n")
	b.WriteString(renderInfo("We'll do the following:\n" +
		"  1. Generate the Snowflake access keys\n" +
		"  2. Set up your Snowflake account and import the raw tables\n" +
		"  3. Write the configuration files for dbt and Preset"))
	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("Press Enter to continue, q to quit"))

	return borderStyle.Render(b.String())
}

func (m Model) renderVariant() string {
	var b strings.Builder

	b.WriteString(renderHeader("Snowflake Setup Helper"))
	b.WriteString("\n\n")
	b.WriteString(renderSectionHeader("Course Variant"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Which course are you taking?"))
	b.WriteString("\n\n")

	for i, variant := range CourseVariants {
		line := fmt.Sprintf("%d. %s %s (%s)",
			i+1, variant.Icon, variant.DisplayName, variant.Description)
		b.WriteString(renderOption(i == m.variantIndex, line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderStatusBar("↑/↓: navigate  Enter: select  q: quit"))

	return borderStyle.Render(b.String())
}

func (m Model) renderKeys() string {
	var b strings.Builder

	b.WriteString(renderHeader("Snowflake Setup Helper"))
	b.WriteString("\n\n")
	b.WriteString(renderSectionHeader(iconKey + " Step 1: Generate Snowflake Access Keys"))
	b.WriteString("\n\n")

	if m.keypair == nil {
		b.WriteString(iconSpinner + " Generating keypair...\n")
		return borderStyle.Render(b.String())
	}

	b.WriteString(renderSuccess("Private key written to " + m.privateKeyPath))
	b.WriteString("\n")
	b.WriteString(renderSuccess("Public key written to " + m.publicKeyPath))
	b.WriteString("\n\n")
	b.WriteString(renderInfo("Save these two files somewhere safe; you'll need\nthem later in the course."))
	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("Press Enter to continue to the Snowflake setup, q to quit"))

	return borderStyle.Render(b.String())
}

func (m Model) renderCredentials() string {
	var b strings.Builder

	b.WriteString(renderHeader("Snowflake Setup Helper"))
	b.WriteString("\n\n")
	b.WriteString(renderSectionHeader("Step 2: Snowflake Admin Credentials"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("The account is the first part of the URL from your\nregistration email, not your username. Pasting the full\nURL works too."))
	b.WriteString("\n\n")

	labels := []string{"Account", "Username", "Password", "TOTP passcode (optional)"}
	for i, input := range m.inputs {
		if i == m.focusIndex {
			b.WriteString(selectedStyle.Render("► " + labels[i] + ":"))
		} else {
			b.WriteString(labelStyle.Render("  " + labels[i] + ":"))
		}
		b.WriteString("\n  ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	if raw := m.inputs[inputAccount].Value(); raw != "" {
		if !m.accountValid {
			b.WriteString(renderError("This doesn't look like a valid Snowflake account format"))
			b.WriteString("\n")
		} else if m.extractedAccount != raw {
			b.WriteString(labelStyle.Render(fmt.Sprintf("Using account identifier: %s", m.extractedAccount)))
			b.WriteString("\n")
		}
	}

	if m.connectError != nil {
		b.WriteString("\n")
		b.WriteString(renderError(connectErrorMessage(m.connectError)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderStatusBar("↑/↓ or Tab: navigate  Enter: start setup  Ctrl+C: quit"))

	return borderStyle.Render(b.String())
}

// connectErrorMessage maps connection errors to the guidance the student
// needs, mirroring the error taxonomy of the setup flow.
func connectErrorMessage(err error) string {
	switch {
	case errors.Is(err, warehouse.ErrTOTPRequired):
		return "Your account requires TOTP-based MFA. Enter the six-digit\ncode from your authenticator app and press Enter again.\n\n" + err.Error()
	case errors.Is(err, warehouse.ErrAuthFailed):
		return "Error connecting to Snowflake. This usually means the\nusername or password is not valid. Please correct them\nand press Enter to retry.\n\n" + err.Error()
	default:
		return "Error connecting to Snowflake. This usually means the\naccount name is not valid. Please verify it and retry.\n\n" + err.Error()
	}
}

func (m Model) renderConnecting() string {
	var b strings.Builder

	b.WriteString(renderHeader("Snowflake Setup Helper"))
	b.WriteString("\n\n")
	b.WriteString(iconSpinner + " Connecting to Snowflake...\n")
	b.WriteString(labelStyle.Render("If you're enrolled in push-based MFA, approve the request\non your phone and the setup continues automatically."))
	b.WriteString("\n")

	return borderStyle.Render(b.String())
}

func (m Model) renderRunning() string {
	var b strings.Builder

	b.WriteString(renderHeader("Snowflake Setup Helper"))
	b.WriteString("\n\n")
	b.WriteString(renderSectionHeader("Setting up your Snowflake account"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("This can take up to two minutes."))
	b.WriteString("\n\n")

	b.WriteString(renderResults(m.results))

	if m.currentStep != "" {
		b.WriteString(iconSpinner + " " + m.currentStep + "...\n")
	}

	return borderStyle.Render(b.String())
}

func renderResults(results []plan.StepResult) string {
	var b strings.Builder
	for _, result := range results {
		switch result.Status {
		case plan.StatusSuccess:
			line := result.Title
			if result.Rows >= 0 {
				line += fmt.Sprintf(" (%d rows)", result.Rows)
			}
			b.WriteString(renderSuccess(line))
		case plan.StatusFailure:
			b.WriteString(renderError(result.Title + ": " + result.Message))
		case plan.StatusSkipped:
			b.WriteString(unselectedStyle.Render(iconSkipped + " " + result.Title + " (skipped)"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderArtifacts() string {
	var b strings.Builder

	b.WriteString(renderHeader("Snowflake Setup Helper"))
	b.WriteString("\n\n")
	b.WriteString(renderSuccess("Snowflake setup complete!"))
	b.WriteString("\n\n")
	b.WriteString(iconSpinner + " Writing the configuration files...\n")

	return borderStyle.Render(b.String())
}

func (m Model) renderDone() string {
	var b strings.Builder

	b.WriteString(renderHeader("Snowflake Setup Helper"))
	b.WriteString("\n\n")
	b.WriteString(renderSuccess(iconCelebrate + " Setup complete!"))
	b.WriteString("\n\n")
	b.WriteString(renderResults(m.results))
	b.WriteString("\n")
	b.WriteString(renderSectionHeader("Configuration files"))
	b.WriteString("\n")
	for _, path := range m.artifactPaths {
		b.WriteString(fmt.Sprintf("  • %s\n", path))
	}
	b.WriteString("\n")
	b.WriteString(renderInfo("Copy profiles.yml into your dbt project folder and keep\npreset-instructions.md for the BI part of the course."))
	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("Press Enter or q to exit"))

	return borderStyle.Render(b.String())
}

func (m Model) renderFailed() string {
	var b strings.Builder

	b.WriteString(renderHeader("Snowflake Setup Helper"))
	b.WriteString("\n\n")
	b.WriteString(renderError("Setup did not complete"))
	b.WriteString("\n\n")
	b.WriteString(renderResults(m.results))

	if m.report != nil {
		if failed, ok := m.report.Failed(); ok {
			b.WriteString("\n")
			b.WriteString(labelStyle.Render("First failure: " + failed.Title))
			b.WriteString("\n")
			b.WriteString(labelStyle.Render(failed.Message))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(renderInfo("Every statement is idempotent, so it is safe to fix the\nproblem and run the setup again."))
	b.WriteString("\n\n")
	b.WriteString(renderStatusBar("Press Enter or q to exit"))

	return borderStyle.Render(b.String())
}

func (m Model) renderError() string {
	var b strings.Builder

	b.WriteString(renderHeader("Snowflake Setup Helper"))
	b.WriteString("\n\n")
	b.WriteString(renderError("Something went wrong"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(m.err.Error())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderStatusBar("Press Enter or q to exit"))

	return borderStyle.Render(b.String())
}
