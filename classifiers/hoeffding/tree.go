// Package hoeffding implements an incremental (Hoeffding) decision tree
// classifier: a Naive-Bayes-Adaptive leaf grows into a numeric binary
// branch once the information-gain advantage of its best candidate split is
// statistically significant, or the Hoeffding bound guaranteeing that
// significance has itself grown tight enough to not be worth waiting on.
package hoeffding

import (
	"math"
	"math/rand"
	"sync"

	"github.com/Apolynoid/riverstream/classifiers/internal/split"
	"github.com/Apolynoid/riverstream/core"
)

// leafByteBase and friends are the fixed per-node memory-accounting
// constants the size estimator uses to decide when to start deactivating
// leaves. They are not exact allocator sizes, only a stable ranking signal.
const (
	leafByteBase     = 96
	branchByteBase   = 48
	observerByteBase = 56
	statsEntryBytes  = 24
)

// Info summarizes a Tree's current shape.
type Info struct {
	NumNodes          int
	NumActiveLeaves   int
	NumInactiveLeaves int
	MaxDepth          int
}

// Tree is an incremental Hoeffding tree classifier. It implements
// core.Classifier.
type Tree struct {
	conf *Config

	root *node

	nActiveLeaves        int
	nInactiveLeaves      int
	trainWeightSeen      int
	growthAllowed        bool
	activeLeafByteSize   float64
	inactiveLeafByteSize float64

	mu sync.Mutex
}

// New returns a fresh, empty Tree with conf. conf is copied by reference;
// mutating it after construction is undefined.
func New(conf *Config) *Tree {
	t := &Tree{conf: conf, growthAllowed: true}
	return t
}

// Info reports the current shape of the tree.
func (t *Tree) Info() Info {
	t.mu.Lock()
	defer t.mu.Unlock()
	info := Info{NumActiveLeaves: t.nActiveLeaves, NumInactiveLeaves: t.nInactiveLeaves}
	if t.root != nil {
		var leaves []*node
		t.root.countLeaves(&leaves)
		info.NumNodes = t.countNodes(t.root)
		for _, l := range leaves {
			if l.depth > info.MaxDepth {
				info.MaxDepth = l.depth
			}
		}
	}
	return info
}

func (t *Tree) countNodes(n *node) int {
	if n.kind == kindLeaf {
		return 1
	}
	return 1 + t.countNodes(n.left) + t.countNodes(n.right)
}

// newLeafFeatures returns the feature-index set a fresh leaf observes: every
// feature, or — when the tree is configured as a random-subspace tree
// (Component F) — MaxFeatures distinct indices freshly sampled from RNG.
func (t *Tree) newLeafFeatures() []int {
	if t.conf.MaxFeatures <= 0 || t.conf.MaxFeatures >= t.conf.NumFeatures || t.conf.RNG == nil {
		return identityFeatures(t.conf.NumFeatures)
	}
	return sampleFeatures(t.conf.RNG, t.conf.NumFeatures, t.conf.MaxFeatures)
}

// sampleFeatures draws k distinct indices from [0, n) without replacement,
// via a partial Fisher-Yates shuffle so it makes exactly k rng.Intn calls
// regardless of n.
func sampleFeatures(rng *rand.Rand, n, k int) []int {
	pool := identityFeatures(n)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// LearnOne folds one labeled observation into the tree. It implements
// core.Classifier.
func (t *Tree) LearnOne(x []float64, y int, w float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.trainWeightSeen = int(float64(t.trainWeightSeen) + w)
	if t.root == nil {
		t.root = newLeaf(0, t.newLeafFeatures())
		t.nActiveLeaves = 1
	}

	leaf, parent, parentBranch := t.root.leafFor(x)
	leaf.learnOne(x, y, w, t.conf.NumClasses)

	if t.growthAllowed && leaf.active {
		if leaf.depth >= t.conf.MaxDepth {
			t.deactivateLeaf(leaf)
		} else {
			weightSeen := leaf.totalWeight()
			if weightSeen-leaf.lastSplitAttemptAt >= float64(t.conf.GracePeriod) {
				t.attemptSplit(leaf, parent, parentBranch)
				leaf.lastSplitAttemptAt = weightSeen
			}
		}
	}

	if t.conf.MemoryEstimatePeriod > 0 && t.trainWeightSeen%t.conf.MemoryEstimatePeriod == 0 {
		t.estimateModelSize()
	}
}

// attemptSplit evaluates leaf's best candidate splits against the
// Hoeffding bound and, if warranted, replaces it with a new branch in its
// parent's slot (or the tree root).
func (t *Tree) attemptSplit(leaf *node, parent *node, parentBranch int) {
	if leaf.isPure() {
		return
	}
	suggestions := leaf.bestSplitSuggestions(t.conf.MinBranchFraction, t.conf.MeritPreprune)

	var shouldSplit bool
	var chosen split.Suggestion
	switch {
	case len(suggestions) == 0:
		return
	case len(suggestions) == 1:
		shouldSplit = true
		chosen = suggestions[0]
	default:
		best := suggestions[len(suggestions)-1]
		secondBest := suggestions[len(suggestions)-2]
		hbound := hoeffdingBound(split.RangeOfMerit(leaf.stats), t.conf.Delta, leaf.totalWeight())
		if best.Merit-secondBest.Merit > hbound || hbound < t.conf.Tau {
			shouldSplit = true
		}
		chosen = best
	}
	if !shouldSplit {
		return
	}
	if chosen.Feature < 0 {
		t.deactivateLeaf(leaf)
	} else {
		left := newLeaf(leaf.depth+1, t.newLeafFeatures())
		right := newLeaf(leaf.depth+1, t.newLeafFeatures())
		branch := newBranch(chosen.Feature, chosen.Threshold, leaf.stats, left, right)
		t.nActiveLeaves++
		if parent == nil {
			t.root = branch
		} else if parentBranch == 0 {
			parent.left = branch
		} else {
			parent.right = branch
		}
	}
	t.enforceSizeLimit()
}

// hoeffdingBound returns the statistical confidence bound R*sqrt(-ln(delta)
// / (2n)) used to decide whether the best split's merit advantage over the
// runner-up is unlikely to reverse under more data.
func hoeffdingBound(rangeVal, delta, n float64) float64 {
	return rangeVal * math.Sqrt(-math.Log(delta)/(2.0*n))
}

func (t *Tree) deactivateLeaf(l *node) {
	if !l.active {
		return
	}
	l.deactivate()
	t.nActiveLeaves--
	t.nInactiveLeaves++
}

func (t *Tree) reactivateLeaf(l *node) {
	if l.active {
		return
	}
	l.reactivate()
	t.nInactiveLeaves--
	t.nActiveLeaves++
}

// PredictProbaOne returns the tree's class posterior for x. It implements
// core.Classifier; an empty tree returns the zero vector.
func (t *Tree) PredictProbaOne(x []float64) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	proba := make([]float64, t.conf.NumClasses)
	if t.root == nil {
		return proba
	}
	leaf, _, _ := t.root.leafFor(x)
	leaf.predict(proba, x)
	return proba
}

// PredictOne returns the argmax of PredictProbaOne. It implements
// core.Classifier.
func (t *Tree) PredictOne(x []float64) int {
	return core.PredictOneFromProba(t.PredictProbaOne(x))
}

// leafByteSize and branchByteSize are the fixed per-node costs the size
// estimator charges, scaled by how many features and classes the tree was
// configured with.
func (t *Tree) leafByteSize(active bool) float64 {
	if !active {
		return leafByteBase + statsEntryBytes*float64(t.conf.NumClasses)
	}
	return t.activeLeafByteSize
}

func (t *Tree) branchByteSize() float64 {
	return branchByteBase + statsEntryBytes*float64(t.conf.NumClasses)
}

// estimateModelSize recomputes the tree's estimated footprint and enforces
// the configured memory budget if it's been exceeded.
func (t *Tree) estimateModelSize() {
	t.activeLeafByteSize = leafByteBase +
		observerByteBase*float64(t.conf.NumFeatures) +
		statsEntryBytes*float64(t.conf.NumClasses)
	t.inactiveLeafByteSize = leafByteBase + statsEntryBytes*float64(t.conf.NumClasses)

	if t.estimatedTotalBytes() > t.conf.MaxSizeMB*(1<<20) {
		t.enforceSizeLimit()
	}
}

func (t *Tree) estimatedTotalBytes() float64 {
	if t.root == nil {
		return 0
	}
	var leaves []*node
	t.root.countLeaves(&leaves)
	branches := t.countNodes(t.root) - len(leaves)
	return float64(t.nActiveLeaves)*t.leafByteSize(true) +
		float64(t.nInactiveLeaves)*t.leafByteSize(false) +
		float64(branches)*t.branchByteSize()
}

// enforceSizeLimit implements the memory-management policy of 4.E: sort all
// leaves ascending by promise, deactivate the least-promising active leaves
// until the estimate fits the budget, then reactivate the most-promising
// inactive leaves that still fit and are shallow enough to keep growing.
func (t *Tree) enforceSizeLimit() {
	if t.root == nil {
		return
	}
	budget := t.conf.MaxSizeMB * (1 << 20)
	if t.estimatedTotalBytes() <= budget {
		return
	}

	var leaves []*node
	t.root.countLeaves(&leaves)
	sortByPromiseAscending(leaves)

	for _, l := range leaves {
		if t.estimatedTotalBytes() <= budget {
			break
		}
		if l.active {
			t.deactivateLeaf(l)
		}
	}

	for i := len(leaves) - 1; i >= 0; i-- {
		l := leaves[i]
		if l.active || l.depth >= t.conf.MaxDepth {
			continue
		}
		if t.estimatedTotalBytes()+t.leafByteSize(true)-t.leafByteSize(false) > budget {
			break
		}
		t.reactivateLeaf(l)
	}

	if t.estimatedTotalBytes() > budget {
		t.growthAllowed = false
	}
}

func sortByPromiseAscending(leaves []*node) {
	for i := 1; i < len(leaves); i++ {
		for j := i; j > 0 && leaves[j].promise() < leaves[j-1].promise(); j-- {
			leaves[j], leaves[j-1] = leaves[j-1], leaves[j]
		}
	}
}
