package versions

import (
	"fmt"
	"time"
)

// nameLayout is the calendar form version tabs are named after.
const nameLayout = "2006-01-02"

// GenerateName returns today's date as the version name, or the first
// "-v2", "-v3", ... suffixed variant not present in existing. Pure and
// deterministic; callers must re-check against the live tab list right
// before use, since the tab list can change between read and write.
func GenerateName(existing []string, today time.Time) string {
	taken := make(map[string]bool, len(existing))
	for _, n := range existing {
		taken[n] = true
	}
	base := today.Format(nameLayout)
	if !taken[base] {
		return base
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s-v%d", base, i)
		if !taken[name] {
			return name
		}
	}
}
