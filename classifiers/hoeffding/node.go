package hoeffding

import (
	"math"
	"sort"

	"github.com/Apolynoid/riverstream/classifiers/internal/split"
	"github.com/Apolynoid/riverstream/core"
)

// node is a tagged variant over {branch, leaf}: traversal is a pattern
// match on kind rather than a virtual dispatch through an interface, per
// the "tree as a tagged variant" design note. A branch owns its two
// children exclusively; a leaf owns its attribute observers.
type node struct {
	kind nodeKind

	// branch fields
	feature       int
	threshold     float64
	left, right   *node
	preSplitStats core.ClassDistribution

	// leaf fields
	depth              int
	active             bool
	observers          map[int]*split.GaussianObserver
	featureIndices     []int
	stats              core.ClassDistribution
	lastSplitAttemptAt float64
	mcCorrectWeight    float64
	nbCorrectWeight    float64
}

type nodeKind int

const (
	kindLeaf nodeKind = iota
	kindBranch
)

// newLeaf returns a fresh active leaf at depth, observing every feature in
// featureIndices (identity 0..numFeatures-1 for a plain NBA leaf, or a
// sampled subset for the random-subspace variant, Component F).
func newLeaf(depth int, featureIndices []int) *node {
	return &node{
		kind:           kindLeaf,
		depth:          depth,
		active:         true,
		observers:      make(map[int]*split.GaussianObserver),
		featureIndices: featureIndices,
		stats:          core.ClassDistribution{},
	}
}

// identityFeatures returns [0, 1, ..., numFeatures-1].
func identityFeatures(numFeatures int) []int {
	idx := make([]int, numFeatures)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// branchNo returns which child x routes to: 0 (left) if x[feature] <=
// threshold, else 1 (right).
func (n *node) branchNo(x []float64) int {
	if x[n.feature] <= n.threshold {
		return 0
	}
	return 1
}

func (n *node) next(x []float64) *node {
	if n.branchNo(x) == 0 {
		return n.left
	}
	return n.right
}

// leafFor descends from n to the unique leaf that x routes to, recording
// the last branch visited and the index x took at it.
func (n *node) leafFor(x []float64) (leaf, parent *node, parentBranch int) {
	cur := n
	var prev *node
	branch := 0
	for cur.kind == kindBranch {
		prev = cur
		branch = cur.branchNo(x)
		cur = cur.next(x)
	}
	return cur, prev, branch
}

// totalWeight returns the node's total observed weight: the sum of a
// leaf's class stats, or the sum of a branch's children (invariant 2).
func (n *node) totalWeight() float64 {
	if n.kind == kindLeaf {
		return n.stats.TotalWeight()
	}
	return n.left.totalWeight() + n.right.totalWeight()
}

// countLeaves appends every leaf reachable from n, in traversal order.
func (n *node) countLeaves(out *[]*node) {
	if n.kind == kindLeaf {
		*out = append(*out, n)
		return
	}
	n.left.countLeaves(out)
	n.right.countLeaves(out)
}

// updateSplitters folds one observation into every observer this leaf
// tracks. It sources each observer's value by *position* within
// featureIndices rather than by the observer's own feature index — this
// reproduces a source oddity (spec §9, open question 3) that only has an
// observable effect on the random-subspace variant, where featureIndices is
// a proper subset and positions no longer line up with feature indices; for
// the plain NBA leaf featureIndices is the identity permutation and the two
// indexing schemes coincide.
func (n *node) updateSplitters(x []float64, y int, w float64) {
	for pos, featIdx := range n.featureIndices {
		o, ok := n.observers[featIdx]
		if !ok {
			o = split.NewGaussianObserver()
			n.observers[featIdx] = o
		}
		o.Update(x[pos], y, w)
	}
}

// naiveBayesProba computes the naive-Bayes class posterior at this leaf for
// x, using the log-sum-exp trick to avoid underflow from summing many
// per-feature log-likelihoods (spec §9, "Numerical concerns").
func (n *node) naiveBayesProba(x []float64, numClasses int) []float64 {
	votes := make([]float64, numClasses)
	total := n.stats.TotalWeight()
	if total == 0 {
		return votes
	}
	for i := range votes {
		votes[i] = math.Inf(-1)
	}
	for class, w := range n.stats {
		if w <= 0 {
			continue
		}
		ll := math.Log(w / total)
		for featIdx, o := range n.observers {
			p := o.CondProba(x[featIdx], class)
			if p > 0 {
				ll += math.Log(p)
			} else {
				ll = math.Inf(-1)
				break
			}
		}
		votes[class] = ll
	}
	maxLL := math.Inf(-1)
	for _, v := range votes {
		if v > maxLL {
			maxLL = v
		}
	}
	if math.IsInf(maxLL, -1) {
		// Every class's likelihood underflowed to zero (e.g. a
		// zero-variance observer with no data on x's side): fall back to
		// the zero vector rather than propagating -Inf.
		for i := range votes {
			votes[i] = 0
		}
		return votes
	}
	lse := 0.0
	for _, v := range votes {
		lse += math.Exp(v - maxLL)
	}
	lse = maxLL + math.Log(lse)
	for i, v := range votes {
		votes[i] = math.Exp(v - lse)
	}
	return votes
}

// predict fills proba (length numClasses) with this leaf's prediction: the
// naive-Bayes posterior if it has empirically outperformed (or tied) the
// majority-class rule, else the normalized majority-class distribution.
func (n *node) predict(proba []float64, x []float64) {
	if n.active && n.nbCorrectWeight >= n.mcCorrectWeight {
		nb := n.naiveBayesProba(x, len(proba))
		copy(proba, nb)
		return
	}
	_ = core.NormalizeInto(proba, n.stats, false)
}

// learnOne folds (x, y, w) into the leaf: first scores the pre-update
// majority-class and naive-Bayes predictions against y (the empirical
// correctness counters that arbitrate future predictions), then updates the
// class stats and, if active, the per-feature splitters.
func (n *node) learnOne(x []float64, y int, w float64, numClasses int) {
	mcPred := n.stats.MajorityClass()
	if mcPred == y {
		n.mcCorrectWeight += w
	}
	if n.active {
		nb := n.naiveBayesProba(x, numClasses)
		nbPred := -1
		best := -1.0
		for class, v := range nb {
			if nbPred == -1 || v > best {
				nbPred, best = class, v
			}
		}
		if nbPred == y {
			n.nbCorrectWeight += w
		}
	}
	n.stats.Add(y, w)
	if n.active {
		n.updateSplitters(x, y, w)
	}
}

// isPure reports whether this leaf has observed at most one class.
func (n *node) isPure() bool { return n.stats.IsPure() }

// bestSplitSuggestions collects the best candidate split from every
// initialized observer, ascending by merit. When includeNullSplit is set, a
// zero-merit "don't split" placeholder (Feature -1) is added to the list so
// it can outrank every real candidate and win the attempt.
func (n *node) bestSplitSuggestions(minBranchFraction float64, includeNullSplit bool) split.Suggestions {
	out := make(split.Suggestions, 0, len(n.observers)+1)
	if includeNullSplit {
		out = append(out, split.Suggestion{Feature: -1, Merit: 0.0})
	}
	for featIdx, o := range n.observers {
		s := o.BestSplit(n.stats, featIdx, minBranchFraction)
		if s.Feature >= 0 {
			out = append(out, s)
		}
	}
	sort.Sort(out)
	return out
}

// promise is the memory-management ranking key: leaves with the smallest
// promise (i.e. the least weight concentrated outside their majority class)
// are deactivated first under memory pressure.
func (n *node) promise() float64 {
	return n.stats.TotalWeight() - n.stats.MaxWeight()
}

// deactivate marks the leaf inactive and releases its splitters: a
// deactivated leaf never splits again (invariant 5).
func (n *node) deactivate() {
	n.active = false
	n.observers = make(map[int]*split.GaussianObserver)
}

// reactivate marks a previously deactivated leaf active again. Its
// splitters start empty; they repopulate from the next observation routed
// through it.
func (n *node) reactivate() {
	n.active = true
}

// newBranch replaces a leaf with a branch on (feature, threshold), giving
// it two fresh child leaves and preserving the leaf's stats as the branch's
// cached pre-split distribution.
func newBranch(feature int, threshold float64, preSplitStats core.ClassDistribution, left, right *node) *node {
	return &node{
		kind:          kindBranch,
		feature:       feature,
		threshold:     threshold,
		left:          left,
		right:         right,
		preSplitStats: preSplitStats,
	}
}
