package versions

import (
	"testing"
	"time"
)

var jan2 = time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)

func TestGenerateNameNoCollision(t *testing.T) {
	if got := GenerateName(nil, jan2); got != "2024-01-02" {
		t.Errorf("expected 2024-01-02, got %q", got)
	}
	if got := GenerateName([]string{"Setup", "Library"}, jan2); got != "2024-01-02" {
		t.Errorf("expected 2024-01-02, got %q", got)
	}
}

func TestGenerateNameSuffixes(t *testing.T) {
	cases := []struct {
		existing []string
		want     string
	}{
		{[]string{"2024-01-02"}, "2024-01-02-v2"},
		{[]string{"2024-01-02", "2024-01-02-v2"}, "2024-01-02-v3"},
		{[]string{"2024-01-02", "2024-01-02-v2", "2024-01-02-v3"}, "2024-01-02-v4"},
		// A gap in the suffix sequence is filled by the first free one.
		{[]string{"2024-01-02", "2024-01-02-v3"}, "2024-01-02-v2"},
	}
	for _, c := range cases {
		if got := GenerateName(c.existing, jan2); got != c.want {
			t.Errorf("GenerateName(%v): expected %q, got %q", c.existing, c.want, got)
		}
	}
}

func TestGenerateNameDeterministic(t *testing.T) {
	existing := []string{"2024-01-02", "2024-01-02-v2"}
	first := GenerateName(existing, jan2)
	second := GenerateName(existing, jan2)
	if first != second {
		t.Errorf("expected deterministic output, got %q then %q", first, second)
	}
}
