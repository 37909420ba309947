// Package artifacts renders the configuration files the student downloads at
// the end of the setup: the dbt profiles.yml and the Preset connection
// instructions, both filled in with the account and the generated private
// key.
package artifacts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/snowprep/snowprep/internal/keys"
)

//go:embed templates/*.tmpl
var templates embed.FS

// File names of the generated artifacts.
const (
	ProfilesFile = "profiles.yml"
	PresetFile   = "preset-instructions.md"
)

// Input is everything the templates need.
type Input struct {
	Account              string
	PrivateKeySingleLine string
	Passphrase           string
}

// NewInput builds template input from the account and a generated keypair.
func NewInput(acct string, kp *keys.KeyPair) Input {
	return Input{
		Account:              acct,
		PrivateKeySingleLine: kp.PrivateKeySingleLine(),
		Passphrase:           kp.Passphrase,
	}
}

// RenderProfiles renders the dbt profiles.yml content.
func RenderProfiles(in Input) (string, error) {
	return render("templates/profiles.yml.tmpl", in)
}

// RenderPresetInstructions renders the Preset connection instructions.
func RenderPresetInstructions(in Input) (string, error) {
	return render("templates/preset-instructions.md.tmpl", in)
}

func render(name string, in Input) (string, error) {
	data, err := templates.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", name, err)
	}

	tmpl, err := template.New(filepath.Base(name)).Parse(string(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, in); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return b.String(), nil
}

// WriteAll renders both artifacts into dir and returns their paths.
func WriteAll(dir string, in Input) ([]string, error) {
	profiles, err := RenderProfiles(in)
	if err != nil {
		return nil, err
	}
	preset, err := RenderPresetInstructions(in)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, 2)
	for _, file := range []struct {
		name    string
		content string
	}{
		{ProfilesFile, profiles},
		{PresetFile, preset},
	} {
		path := filepath.Join(dir, file.name)
		// profiles.yml embeds the private key
		if err := os.WriteFile(path, []byte(file.content), 0o600); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", file.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}
