package sheets

import "testing"

func TestColName(t *testing.T) {
	cases := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{8, "H"},
		{14, "N"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
	}
	for _, c := range cases {
		if got := ColName(c.col); got != c.want {
			t.Errorf("ColName(%d): expected %q, got %q", c.col, c.want, got)
		}
	}
}

func TestRangeRefQuotesTabNames(t *testing.T) {
	got := RangeRef("2024-01-02", 5, 2, 45, 17)
	want := "'2024-01-02'!B5:Q45"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCellRef(t *testing.T) {
	got := CellRef("Setup", 3, 19)
	if got != "'Setup'!S3" {
		t.Errorf("expected 'Setup'!S3, got %q", got)
	}
}

func TestParseRangeRoundTrip(t *testing.T) {
	tab, r1, c1, r2, c2, err := ParseRange(RangeRef("2024-01-02", 5, 2, 45, 17))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tab != "2024-01-02" || r1 != 5 || c1 != 2 || r2 != 45 || c2 != 17 {
		t.Errorf("round trip mismatch: %q %d %d %d %d", tab, r1, c1, r2, c2)
	}
}

func TestParseRangeSingleCell(t *testing.T) {
	tab, r1, c1, r2, c2, err := ParseRange("'Setup'!S3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tab != "Setup" || r1 != 3 || c1 != 19 || r2 != 3 || c2 != 19 {
		t.Errorf("single cell mismatch: %q %d %d %d %d", tab, r1, c1, r2, c2)
	}
}

func TestParseRangeRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"B5:Q45", "'Setup'!5B", "'Setup'!"} {
		if _, _, _, _, _, err := ParseRange(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
