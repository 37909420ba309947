package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig_ParsesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "snowprep.toml"), `
default_environment = "course"
default_variant = "capstone"

[environments.course]
account = "jdehewj-vmb00970"
user = "admin"
role = "ACCOUNTADMIN"
warehouse = "COMPUTE_WH"
variant = "default"

[image]
registry = "ghcr.io/example"
name = "snowprep"
tag = "latest"
platforms = ["linux/amd64", "linux/arm64"]
`)

	config, err := loadConfigFrom(dir)
	if err != nil {
		t.Fatalf("loadConfigFrom failed: %v", err)
	}

	if config.DefaultEnvironment != "course" {
		t.Errorf("default_environment = %q", config.DefaultEnvironment)
	}
	if config.DefaultVariant != "capstone" {
		t.Errorf("default_variant = %q", config.DefaultVariant)
	}
	env, ok := config.Environments["course"]
	if !ok {
		t.Fatal("environments.course missing")
	}
	if env.Account != "jdehewj-vmb00970" || env.User != "admin" {
		t.Errorf("unexpected environment: %+v", env)
	}
	if config.Image.Registry != "ghcr.io/example" || len(config.Image.Platforms) != 2 {
		t.Errorf("unexpected image config: %+v", config.Image)
	}
	if config.ConfigDir() != dir {
		t.Errorf("ConfigDir() = %q, want %q", config.ConfigDir(), dir)
	}
}

func TestLoadConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "snowprep.toml"), `default_variant = "default"`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	config, err := loadConfigFrom(nested)
	if err != nil {
		t.Fatalf("loadConfigFrom failed: %v", err)
	}
	if config.ConfigFilePath != filepath.Join(root, "snowprep.toml") {
		t.Errorf("expected the config at the root, got %q", config.ConfigFilePath)
	}
}

func TestLoadConfig_StopsAtProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "snowprep.toml"), `default_variant = "default"`)

	// The nested project boundary hides the outer config
	project := filepath.Join(root, "project")
	writeFile(t, filepath.Join(project, "go.mod"), "module example.com/p\n")

	config, err := loadConfigFrom(project)
	if err != nil {
		t.Fatalf("loadConfigFrom failed: %v", err)
	}
	if config.ConfigFilePath != "" {
		t.Errorf("expected no config past the project boundary, got %q", config.ConfigFilePath)
	}
}

func TestLoadConfig_MissingIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/main\n")

	config, err := loadConfigFrom(dir)
	if err != nil {
		t.Fatalf("loadConfigFrom failed: %v", err)
	}
	if config == nil {
		t.Fatal("expected an empty config, got nil")
	}
	if config.ConfigFilePath != "" {
		t.Errorf("expected empty ConfigFilePath, got %q", config.ConfigFilePath)
	}
}
