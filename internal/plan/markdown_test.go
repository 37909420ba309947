package plan

import (
	"strings"
	"testing"
)

func TestExtractSections_Basic(t *testing.T) {
	md := "# Setup\n" +
		"Some prose.\n" +
		"```sql {#create_roles}\n" +
		"CREATE ROLE IF NOT EXISTS TRANSFORM;\n" +
		"GRANT ROLE TRANSFORM TO ROLE ACCOUNTADMIN;\n" +
		"```\n" +
		"More prose.\n" +
		"```sql {#create_database}\n" +
		"CREATE DATABASE IF NOT EXISTS AIRBNB\n" +
		"```\n"

	sections := ExtractSections(md, "")
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}

	if sections[0].Name != "create_roles" {
		t.Errorf("expected first section create_roles, got %q", sections[0].Name)
	}
	if len(sections[0].Statements) != 2 {
		t.Fatalf("expected 2 statements in create_roles, got %d: %v",
			len(sections[0].Statements), sections[0].Statements)
	}
	if sections[0].Statements[0] != "CREATE ROLE IF NOT EXISTS TRANSFORM" {
		t.Errorf("unexpected first statement: %q", sections[0].Statements[0])
	}

	// No trailing semicolon still yields the statement
	if len(sections[1].Statements) != 1 {
		t.Fatalf("expected 1 statement in create_database, got %d", len(sections[1].Statements))
	}
}

func TestExtractSections_MultiLineStatements(t *testing.T) {
	md := "```sql {#create_tables}\n" +
		"CREATE TABLE AIRBNB.RAW.RAW_HOSTS (\n" +
		"  ID INTEGER,\n" +
		"  NAME STRING\n" +
		");\n" +
		"```\n"

	sections := ExtractSections(md, "")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if len(sections[0].Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d: %v",
			len(sections[0].Statements), sections[0].Statements)
	}
	stmt := sections[0].Statements[0]
	if !strings.Contains(stmt, "NAME STRING") {
		t.Errorf("multi-line statement was not kept together: %q", stmt)
	}
}

func TestExtractSections_DropsCommentsAndBlanks(t *testing.T) {
	md := "```sql {#create_users}\n" +
		"-- the transform service user\n" +
		"\n" +
		"CREATE USER IF NOT EXISTS dbt;\n" +
		"   -- indented comment\n" +
		"```\n"

	sections := ExtractSections(md, "")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if len(sections[0].Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d: %v",
			len(sections[0].Statements), sections[0].Statements)
	}
}

func TestExtractSections_PublicKeySubstitution(t *testing.T) {
	md := "```sql {#create_users}\n" +
		"ALTER USER dbt SET RSA_PUBLIC_KEY='" + PublicKeyPlaceholder + "';\n" +
		"```\n"

	sections := ExtractSections(md, "MIIBIjANBg")
	stmt := sections[0].Statements[0]
	if strings.Contains(stmt, PublicKeyPlaceholder) {
		t.Errorf("placeholder was not substituted: %q", stmt)
	}
	if !strings.Contains(stmt, "RSA_PUBLIC_KEY='MIIBIjANBg'") {
		t.Errorf("public key not inserted: %q", stmt)
	}

	// Empty key leaves the placeholder untouched
	sections = ExtractSections(md, "")
	if !strings.Contains(sections[0].Statements[0], PublicKeyPlaceholder) {
		t.Errorf("placeholder should survive when no key is given")
	}
}

func TestExtractSections_IgnoresUnnamedFences(t *testing.T) {
	md := "```sql\n" +
		"SELECT 1;\n" +
		"```\n" +
		"```bash\n" +
		"echo hi\n" +
		"```\n"

	sections := ExtractSections(md, "")
	if len(sections) != 0 {
		t.Fatalf("expected no sections, got %d", len(sections))
	}
}

func TestExtractSections_UnterminatedBlock(t *testing.T) {
	md := "```sql {#load_data}\n" +
		"COPY INTO AIRBNB.RAW.RAW_HOSTS FROM 's3://dbtlearn/hosts.csv'"

	sections := ExtractSections(md, "")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section from unterminated block, got %d", len(sections))
	}
	if len(sections[0].Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(sections[0].Statements))
	}
}

func TestSectionName(t *testing.T) {
	tests := []struct {
		line     string
		wantName string
		wantOK   bool
	}{
		{"```sql {#create_roles}", "create_roles", true},
		{"```sql {#load_data}", "load_data", true},
		{"```sql", "", false},
		{"```python {#script}", "", false},
		{"```sql {#broken", "", false},
		{"plain text", "", false},
	}

	for _, tt := range tests {
		name, ok := sectionName(tt.line)
		if ok != tt.wantOK || name != tt.wantName {
			t.Errorf("sectionName(%q) = %q, %v; want %q, %v",
				tt.line, name, ok, tt.wantName, tt.wantOK)
		}
	}
}
