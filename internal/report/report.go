// Package report renders a version summary for dashboard embedding.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/bcarsten/takeoffvc/internal/setup"
	"github.com/bcarsten/takeoffvc/internal/versions"
)

// Markdown builds a human-readable summary of one version from its ledger
// entry and the current configuration snapshot.
func Markdown(entry versions.Entry, snap *setup.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Takeoff version %s\n\n", entry.SheetName)

	fmt.Fprintf(&b, "- **Status:** %s\n", entry.Status)
	fmt.Fprintf(&b, "- **Active:** %t\n", entry.Active)
	fmt.Fprintf(&b, "- **Created:** %s\n", entry.Created)
	fmt.Fprintf(&b, "- **Items:** %d\n", entry.ItemsCount)
	fmt.Fprintf(&b, "- **Locations:** %d\n\n", entry.LocationsCount)

	for _, section := range []setup.Section{
		setup.SectionRoofing, setup.SectionWaterproofing,
		setup.SectionBalconies, setup.SectionExterior,
	} {
		active := 0
		for _, row := range snap.Rows {
			if row.Section == section && row.HasAnyToggle() {
				active++
			}
		}
		if active == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", section)
		fmt.Fprintf(&b, "%d active item(s)", active)
		if names := snap.SectionLocations[section]; len(names) > 0 {
			fmt.Fprintf(&b, " across %s", strings.Join(names, ", "))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

// HTML renders a markdown summary to HTML.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}
