package plan

import (
	"embed"
	"fmt"
)

//go:embed resources/*.md
var resources embed.FS

// Variant names
const (
	VariantDefault  = "default"
	VariantCapstone = "capstone"
)

// Variants lists the known course variants in display order.
var Variants = []string{VariantDefault, VariantCapstone}

// stepMeta carries everything about a step that is not SQL: the display
// title, post-condition checks, and the failure policy.
type stepMeta struct {
	title           string
	checks          []RowCountCheck
	continueOnError bool
}

var stepMetas = map[string]stepMeta{
	"create_roles": {
		title: "Create the TRANSFORM and REPORTER roles",
	},
	"create_users": {
		title: "Create the dbt and preset users",
	},
	"create_database": {
		title: "Create the AIRBNB database and schemas",
	},
	"create_tables": {
		title: "Create the raw AirBnB tables",
	},
	"load_data": {
		title: "Load the sample AirBnB data",
		checks: []RowCountCheck{
			{Table: "AIRBNB.RAW.RAW_LISTINGS", MinRows: 1},
			{Table: "AIRBNB.RAW.RAW_HOSTS", MinRows: 1},
			{Table: "AIRBNB.RAW.RAW_REVIEWS", MinRows: 1},
		},
	},
	"capstone_airstats": {
		title: "Import the AIRSTATS capstone tables",
		checks: []RowCountCheck{
			{Table: "AIRSTATS.RAW.AIRPORTS", MinRows: 1},
			{Table: "AIRSTATS.RAW.AIRPORT_COMMENTS", MinRows: 1},
			{Table: "AIRSTATS.RAW.RUNWAYS", MinRows: 1},
		},
	},
}

// variantFiles maps a variant to the resource files whose sections make up
// its plan, in execution order.
var variantFiles = map[string][]string{
	VariantDefault:  {"resources/course-resources.md"},
	VariantCapstone: {"resources/course-resources.md", "resources/capstone-resources.md"},
}

// Build assembles the plan for a course variant. publicKey, when non-empty,
// is substituted for the key placeholder in the SQL (the stripped base64 body
// of the PEM, which is what ALTER USER ... SET RSA_PUBLIC_KEY expects).
func Build(variant string, publicKey string) (*Plan, error) {
	files, ok := variantFiles[variant]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q (known: %v)", variant, Variants)
	}

	p := &Plan{Variant: variant}
	for _, file := range files {
		data, err := resources.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read resource %s: %w", file, err)
		}

		for _, section := range ExtractSections(string(data), publicKey) {
			meta, ok := stepMetas[section.Name]
			if !ok {
				return nil, fmt.Errorf("resource %s has unknown section %q", file, section.Name)
			}
			p.Steps = append(p.Steps, Step{
				Name:            section.Name,
				Title:           meta.title,
				SQL:             section.Statements,
				Checks:          meta.checks,
				ContinueOnError: meta.continueOnError,
			})
		}
	}

	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("variant %q produced an empty plan", variant)
	}
	return p, nil
}
