package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteLoadJSON_RoundTrip(t *testing.T) {
	p, err := Build(VariantDefault, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "plan.json")
	if err := WriteJSON(p, path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	loaded, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}

	if loaded.Variant != p.Variant {
		t.Errorf("variant mismatch: %q vs %q", loaded.Variant, p.Variant)
	}
	if len(loaded.Steps) != len(p.Steps) {
		t.Fatalf("step count mismatch: %d vs %d", len(loaded.Steps), len(p.Steps))
	}
	for i := range p.Steps {
		if loaded.Steps[i].Name != p.Steps[i].Name {
			t.Errorf("step %d name mismatch: %q vs %q", i, loaded.Steps[i].Name, p.Steps[i].Name)
		}
		if len(loaded.Steps[i].SQL) != len(p.Steps[i].SQL) {
			t.Errorf("step %d SQL count mismatch", i)
		}
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name        string
		jsonContent string
		wantErr     bool
		errContains string
	}{
		{
			name: "valid plan",
			jsonContent: `{
				"variant": "default",
				"steps": [{
					"name": "create_roles",
					"title": "Create the roles",
					"sql": ["CREATE ROLE IF NOT EXISTS TRANSFORM"]
				}]
			}`,
			wantErr: false,
		},
		{
			name: "missing variant",
			jsonContent: `{
				"steps": [{
					"name": "create_roles",
					"title": "Create the roles",
					"sql": ["CREATE ROLE IF NOT EXISTS TRANSFORM"]
				}]
			}`,
			wantErr:     true,
			errContains: "variant",
		},
		{
			name: "step without sql",
			jsonContent: `{
				"variant": "default",
				"steps": [{
					"name": "create_roles",
					"title": "Create the roles"
				}]
			}`,
			wantErr:     true,
			errContains: "sql",
		},
		{
			name: "bad step name",
			jsonContent: `{
				"variant": "default",
				"steps": [{
					"name": "Create Roles!",
					"title": "Create the roles",
					"sql": ["CREATE ROLE IF NOT EXISTS TRANSFORM"]
				}]
			}`,
			wantErr: true,
		},
		{
			name: "extra field rejected",
			jsonContent: `{
				"variant": "default",
				"retries": 3,
				"steps": [{
					"name": "create_roles",
					"title": "Create the roles",
					"sql": ["CREATE ROLE IF NOT EXISTS TRANSFORM"]
				}]
			}`,
			wantErr:     true,
			errContains: "retries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tt.jsonContent))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got none")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not mention %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadJSON_ContinueOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	doc := `{
		"variant": "default",
		"steps": [{
			"name": "verify_logins",
			"title": "Check the service user logins",
			"sql": ["SELECT 1"],
			"continue_on_error": true
		}]
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if !p.Steps[0].ContinueOnError {
		t.Error("continue_on_error not carried into the loaded step")
	}
}

func TestLoadJSON_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte(`{"steps": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadJSON(path); err == nil {
		t.Fatal("expected error loading plan without variant")
	}
}
