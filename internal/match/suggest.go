package match

import (
	"sort"
	"strings"
)

// DefaultMinScore is the similarity below which a name is not worth suggesting.
const DefaultMinScore = 0.5

// Suggestion is a declared name ranked against an unknown one.
type Suggestion struct {
	Name  string
	Score float64
}

// SuggestionList is sorted by score descending, then by name.
type SuggestionList []Suggestion

// Rank scores every candidate against name.
// A candidate that only differs in case scores 1.
func Rank(name string, candidates []string) SuggestionList {
	list := make(SuggestionList, 0, len(candidates))

	for _, c := range candidates {
		score := NameSimilarity(name, c)
		if strings.EqualFold(name, c) {
			score = 1
		}

		list = append(list, Suggestion{Name: c, Score: score})
	}

	sort.Sort(list)

	return list
}

// Suggest returns up to limit candidate names similar to name.
func Suggest(name string, candidates []string, limit int) []string {
	return Rank(name, candidates).AboveThreshold(DefaultMinScore).Top(limit).Names()
}

func (l SuggestionList) Len() int      { return len(l) }
func (l SuggestionList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

func (l SuggestionList) Less(i, j int) bool {
	if l[i].Score != l[j].Score {
		return l[i].Score > l[j].Score
	}

	return l[i].Name < l[j].Name
}

// Top returns the first n suggestions.
func (l SuggestionList) Top(n int) SuggestionList {
	if n < 0 || n >= len(l) {
		return l
	}

	return l[:n]
}

// AboveThreshold keeps suggestions scoring at least threshold.
func (l SuggestionList) AboveThreshold(threshold float64) SuggestionList {
	var result SuggestionList

	for _, s := range l {
		if s.Score >= threshold {
			result = append(result, s)
		}
	}

	return result
}

// Names returns the suggested names in rank order.
func (l SuggestionList) Names() []string {
	if len(l) == 0 {
		return nil
	}

	names := make([]string, len(l))
	for i, s := range l {
		names[i] = s.Name
	}

	return names
}
