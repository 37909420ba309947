package plan

import (
	"strings"
	"testing"
)

func TestBuild_DefaultVariant(t *testing.T) {
	p, err := Build(VariantDefault, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if p.Variant != VariantDefault {
		t.Errorf("expected variant %q, got %q", VariantDefault, p.Variant)
	}

	wantOrder := []string{
		"create_roles",
		"create_users",
		"create_database",
		"create_tables",
		"load_data",
	}
	if len(p.Steps) != len(wantOrder) {
		t.Fatalf("expected %d steps, got %d", len(wantOrder), len(p.Steps))
	}
	for i, name := range wantOrder {
		if p.Steps[i].Name != name {
			t.Errorf("step %d: expected %q, got %q", i, name, p.Steps[i].Name)
		}
		if len(p.Steps[i].SQL) == 0 {
			t.Errorf("step %q has no SQL", name)
		}
		if p.Steps[i].Title == "" {
			t.Errorf("step %q has no title", name)
		}
	}

	// Only the data load has row-count checks in the default variant
	last := p.Steps[len(p.Steps)-1]
	if len(last.Checks) != 3 {
		t.Errorf("expected 3 checks on load_data, got %d", len(last.Checks))
	}
	for _, check := range last.Checks {
		if !strings.HasPrefix(check.Table, "AIRBNB.RAW.") {
			t.Errorf("unexpected check table %q", check.Table)
		}
		if check.MinRows != 1 {
			t.Errorf("check %q: expected MinRows 1, got %d", check.Table, check.MinRows)
		}
	}
}

func TestBuild_CapstoneVariant(t *testing.T) {
	p, err := Build(VariantCapstone, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Capstone extends the default plan with the AIRSTATS import
	if len(p.Steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(p.Steps))
	}
	last := p.Steps[len(p.Steps)-1]
	if last.Name != "capstone_airstats" {
		t.Errorf("expected final step capstone_airstats, got %q", last.Name)
	}
	if len(last.Checks) != 3 {
		t.Errorf("expected 3 checks on capstone_airstats, got %d", len(last.Checks))
	}
}

func TestBuild_SubstitutesPublicKey(t *testing.T) {
	const key = "MIIBIjANBgTESTKEY"

	p, err := Build(VariantDefault, key)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	found := false
	for _, step := range p.Steps {
		for _, stmt := range step.SQL {
			if strings.Contains(stmt, PublicKeyPlaceholder) {
				t.Errorf("placeholder left in step %q: %q", step.Name, stmt)
			}
			if strings.Contains(stmt, key) {
				found = true
			}
		}
	}
	if !found {
		t.Error("public key was not substituted anywhere in the plan")
	}
}

func TestBuild_UnknownVariant(t *testing.T) {
	if _, err := Build("advanced", ""); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}
