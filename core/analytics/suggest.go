package analytics

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// CloseMatches returns at most `n` of `candidates` whose similarity ratio with `word`
// is >= cutoff, best first. Comparison ignores case and surrounding spaces.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		name  string
		ratio float64
	}

	if n <= 0 {
		return nil
	}
	m := difflib.NewMatcher(nil, nil)
	m.SetSeq2(chars(word))

	var matches []scored
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		m.SetSeq1(chars(c))
		if m.RealQuickRatio() >= cutoff && m.QuickRatio() >= cutoff {
			if r := m.Ratio(); r >= cutoff {
				matches = append(matches, scored{name: c, ratio: r})
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	if len(matches) > n {
		matches = matches[:n]
	}
	names := make([]string, len(matches))
	for i, s := range matches {
		names[i] = s.name
	}
	return names
}

func chars(s string) []string {
	return strings.Split(strings.ToLower(strings.TrimSpace(s)), "")
}
