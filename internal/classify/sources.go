package classify

import (
	"sort"
	"strings"
)

// OtherSource is the catch-all group for observed sources that match no
// configured canonical name.
const OtherSource = "Other"

// SourceGroup is one canonical lead-source umbrella and the concrete
// sub-source strings assigned to it, deduplicated and sorted.
type SourceGroup struct {
	Name string
	Subs []string
}

// GroupSources assigns every observed lead-source string to exactly one
// canonical group by case-insensitive substring containment. The first
// matching canonical name wins, in configured order; unmatched sources go
// to "Other". The returned groups follow the configured order with "Other"
// last, and include empty groups (the report layer omits them).
func GroupSources(observed []string, canonical []string) []SourceGroup {
	grouped := make(map[string][]string, len(canonical)+1)

	for _, src := range observed {
		if src == "" {
			continue
		}
		target := OtherSource
		for _, name := range canonical {
			if name != "" && strings.Contains(strings.ToLower(src), strings.ToLower(name)) {
				target = name
				break
			}
		}
		grouped[target] = append(grouped[target], src)
	}

	groups := make([]SourceGroup, 0, len(canonical)+1)
	for _, name := range append(append([]string{}, canonical...), OtherSource) {
		subs := dedupeSorted(grouped[name])
		groups = append(groups, SourceGroup{Name: name, Subs: subs})
	}
	return groups
}

func dedupeSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
