package plan

import (
	"bufio"
	"strings"
)

// PublicKeyPlaceholder is the literal token in the resource files that gets
// replaced with the student's RSA public key.
const PublicKeyPlaceholder = "<<Add Your Public Key File's content here>>"

// Section is a named block of SQL statements extracted from a resource file.
type Section struct {
	Name       string
	Statements []string
}

// ExtractSections pulls named SQL sections out of a markdown document.
//
// Sections are fenced code blocks of the form:
//
//	```sql {#section_name}
//	CREATE DATABASE IF NOT EXISTS AIRBNB;
//	```
//
// Blank lines and `--` comment lines are dropped, statements are split on
// semicolons, and the public key placeholder is substituted when publicKey is
// non-empty. Sections are returned in document order.
func ExtractSections(md string, publicKey string) []Section {
	var (
		sections   []Section
		current    *Section
		inSQLBlock bool
		buf        strings.Builder
	)

	flush := func() {
		if current == nil {
			return
		}
		for _, stmt := range strings.Split(buf.String(), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			current.Statements = append(current.Statements, stmt)
		}
		sections = append(sections, *current)
		current = nil
		buf.Reset()
	}

	scanner := bufio.NewScanner(strings.NewReader(md))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if inSQLBlock {
			if strings.HasPrefix(line, "```") {
				inSQLBlock = false
				flush()
				continue
			}
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			if publicKey != "" && strings.Contains(line, PublicKeyPlaceholder) {
				line = strings.ReplaceAll(line, PublicKeyPlaceholder, publicKey)
			}
			buf.WriteString(line)
			buf.WriteString("\n")
			continue
		}

		if name, ok := sectionName(line); ok {
			inSQLBlock = true
			current = &Section{Name: name}
		}
	}

	// Unterminated block at EOF still yields its statements
	if inSQLBlock {
		flush()
	}

	return sections
}

// sectionName parses the opening fence of a named SQL block.
func sectionName(line string) (string, bool) {
	if !strings.HasPrefix(line, "```sql {#") {
		return "", false
	}
	rest := strings.TrimPrefix(line, "```sql {#")
	end := strings.Index(rest, "}")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
