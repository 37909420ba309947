package account

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare identifier", "jdehewj-vmb00970", "jdehewj-vmb00970"},
		{"hostname", "jhkfheg-qb43765.snowflakecomputing.com", "jhkfheg-qb43765"},
		{"https url", "https://jhkfheg-qb43765.snowflakecomputing.com", "jhkfheg-qb43765"},
		{"https url with path", "https://jhkfheg-qb43765.snowflakecomputing.com/console/login", "jhkfheg-qb43765"},
		{"http url", "http://frgcsyo-ie17820.snowflakecomputing.com", "frgcsyo-ie17820"},
		{"snowflake scheme", "snowflake://frgcsyo-ie17820.snowflakecomputing.com", "frgcsyo-ie17820"},
		{"aws form", "jdehewj-vmb00970.aws", "jdehewj-vmb00970.aws"},
		{"aws hostname", "jdehewj-vmb00970.aws.snowflakecomputing.com", "jdehewj-vmb00970.aws"},
		{"surrounding whitespace", "  jdehewj-vmb00970  ", "jdehewj-vmb00970"},
		{"single segment", "xy12345", "xy12345"},
		{"empty", "", ""},
		{"garbage unchanged", "not a valid account!!", "not a valid account!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.in); got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		acct string
		want bool
	}{
		{"jdehewj-vmb00970", true},
		{"frgcsyo-ie17820.aws", true},
		{"xy12345", true},
		{"", false},
		{"   ", false},
		{"not a valid account!!", false},
		{"acme.snowflakecomputing.com", false},
		{"a-b-c", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.acct); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.acct, got, tt.want)
		}
	}
}
