package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/sdejongh/downsort/pkg/duplicate"
)

// Match is a search hit
type Match struct {
	Entry
	// Distance is 0 for substring matches, otherwise the edit distance
	// between the term and the file stem
	Distance int
}

// Search finds root files whose name contains term, case-insensitive.
// With maxDistance > 0, names whose stem is within maxDistance edits of
// the term also match. Hidden files are searched too.
func (inv *Inventory) Search(ctx context.Context, term string, maxDistance int) ([]Match, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, nil
	}

	entries, err := inv.List(ctx, true)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, e := range entries {
		name := strings.ToLower(e.Name)
		if strings.Contains(name, term) {
			matches = append(matches, Match{Entry: e})
			continue
		}
		if maxDistance <= 0 {
			continue
		}

		stem, _ := duplicate.SplitName(name)
		if d := levenshtein.ComputeDistance(stem, term); d <= maxDistance {
			matches = append(matches, Match{Entry: e, Distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Name < matches[j].Name
	})
	return matches, nil
}
