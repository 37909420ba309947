package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snowprep/snowprep/internal/keys"
)

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		values []string
		want   string
	}{
		{[]string{"a", "b"}, "a"},
		{[]string{"", "b"}, "b"},
		{[]string{"", "", "c"}, "c"},
		{[]string{"", ""}, ""},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := firstNonEmpty(tt.values...); got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.values, got, tt.want)
		}
	}
}

func TestLoadPublicKeyBody(t *testing.T) {
	kp, err := keys.Generate("")
	if err != nil {
		t.Fatalf("failed to generate keypair: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, keys.PublicKeyFile)
	if err := os.WriteFile(path, []byte(kp.PublicPEM), 0o644); err != nil {
		t.Fatal(err)
	}

	body, err := loadPublicKeyBody(path)
	if err != nil {
		t.Fatalf("loadPublicKeyBody failed: %v", err)
	}
	if body != kp.PublicKeyBody() {
		t.Error("stripped body does not match the keypair's own form")
	}
	if strings.Contains(body, "-----") || strings.Contains(body, "\n") {
		t.Errorf("body still carries PEM armor: %q", body)
	}

	if _, err := loadPublicKeyBody(filepath.Join(dir, "missing.pub")); err == nil {
		t.Error("expected error for a missing file")
	}
}
