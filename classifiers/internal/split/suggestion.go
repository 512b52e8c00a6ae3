// Package split implements the information-gain split criterion and the
// per-feature Gaussian attribute observer that together decide, at each
// active leaf, whether and where a Hoeffding tree should grow a new binary
// branch.
package split

// Suggestion is one candidate binary split: "feature <= threshold",
// together with the merit (information gain) splitting on it would yield.
// A Suggestion with Feature -1 marks the absence of a usable split
// (GaussianObserver.BestSplit returns one with Merit -Inf) — the tree reads
// Feature < 0 as "deactivate this leaf instead of splitting it".
type Suggestion struct {
	Feature   int
	Threshold float64
	Merit     float64
}

// Suggestions is a sortable list of candidate splits, ascending by merit.
type Suggestions []Suggestion

func (s Suggestions) Len() int           { return len(s) }
func (s Suggestions) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s Suggestions) Less(i, j int) bool { return s[i].Merit < s[j].Merit }
