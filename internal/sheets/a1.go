package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// ColName converts a 1-based column number to its letter form (1 -> A,
// 27 -> AA).
func ColName(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

// colNumber is the inverse of ColName.
func colNumber(name string) int {
	n := 0
	for _, c := range name {
		n = n*26 + int(c-'A') + 1
	}
	return n
}

// quoteTab wraps a tab name in single quotes for A1 notation. Version tabs
// are named after dates ("2024-01-02"), which Sheets parses as arithmetic
// unless quoted.
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

// CellRef builds an A1 reference to a single cell, row and col 1-based.
func CellRef(tab string, row, col int) string {
	return fmt.Sprintf("%s!%s%d", quoteTab(tab), ColName(col), row)
}

// RangeRef builds an A1 reference to a rectangular range, bounds 1-based
// and inclusive.
func RangeRef(tab string, row1, col1, row2, col2 int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", quoteTab(tab), ColName(col1), row1, ColName(col2), row2)
}

// ParseRange splits an A1 range into its tab name and 1-based inclusive
// bounds. Single-cell references come back with equal corners.
func ParseRange(a1 string) (tab string, row1, col1, row2, col2 int, err error) {
	bang := strings.LastIndex(a1, "!")
	if bang < 0 {
		return "", 0, 0, 0, 0, fmt.Errorf("range %q has no tab component", a1)
	}
	tab = strings.Trim(a1[:bang], "'")
	tab = strings.ReplaceAll(tab, "''", "'")

	cells := strings.SplitN(a1[bang+1:], ":", 2)
	row1, col1, err = parseCell(cells[0])
	if err != nil {
		return "", 0, 0, 0, 0, fmt.Errorf("range %q: %w", a1, err)
	}
	if len(cells) == 1 {
		return tab, row1, col1, row1, col1, nil
	}
	row2, col2, err = parseCell(cells[1])
	if err != nil {
		return "", 0, 0, 0, 0, fmt.Errorf("range %q: %w", a1, err)
	}
	return tab, row1, col1, row2, col2, nil
}

func parseCell(ref string) (row, col int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("malformed cell reference %q", ref)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed cell reference %q", ref)
	}
	return row, colNumber(ref[:i]), nil
}
