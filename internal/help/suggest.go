package help

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxDistance is the largest edit distance still considered a typo.
const maxDistance = 2

// Suggest returns the candidates that look like what the user meant by
// name, closest first. A candidate qualifies when it is within a small edit
// distance of name or fuzzily contains it.
func Suggest(name string, candidates []string) []string {
	name = strings.ToLower(name)
	if name == "" {
		return nil
	}

	type scored struct {
		name     string
		distance int
	}
	var matches []scored
	seen := make(map[string]bool)

	for _, c := range candidates {
		lc := strings.ToLower(c)
		if seen[lc] || lc == name {
			continue
		}
		d := fuzzy.LevenshteinDistance(name, lc)
		if d <= maxDistance || (len(name) > 1 && fuzzy.MatchFold(name, lc)) {
			seen[lc] = true
			matches = append(matches, scored{name: c, distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.name)
	}
	return out
}
