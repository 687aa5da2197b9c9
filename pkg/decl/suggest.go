package decl

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// suggest returns the candidate closest to want, or "" when nothing is
// close enough to be worth proposing. Ties resolve alphabetically.
func suggest(want string, candidates []string) string {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	best, bestDist := "", 4
	for _, c := range sorted {
		if c == want {
			continue
		}
		if d := levenshtein.ComputeDistance(want, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// didYouMean renders the standard suggestion suffix for an unknown name.
func didYouMean(want string, candidates []string) string {
	if s := suggest(want, candidates); s != "" {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}
