// Package ensemble implements the Adaptive Random Forest (Gomes et al.
// 2017): a pool of random-subspace Hoeffding trees trained with online
// (Poisson) bagging, each watched by an independent pair of warning and
// drift detectors that trigger background-tree training and promotion.
package ensemble

import (
	"math/rand"

	"github.com/Apolynoid/riverstream/classifiers/hoeffding"
	"github.com/Apolynoid/riverstream/core"
	"github.com/Apolynoid/riverstream/drift"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Forest is an Adaptive Random Forest classifier, generic over the drift
// detector type D it uses for both warning and drift detection (the source
// allows these to be distinct factories; this module's driver wires the
// same detector type to both, parameterized independently by confidence).
// Forest implements core.Classifier.
type Forest[D drift.Detector] struct {
	conf *Config[D]
	rng  *rand.Rand

	trees      []*hoeffding.Tree
	background []*hoeffding.Tree
	warning    []D
	driftDet   []D
	metrics    []*accuracy

	WarningTracker []int
	DriftTracker   []int

	initialized bool
}

// New returns an uninitialized Forest; its trees are created lazily on the
// first LearnOne, matching the source's lazy-initialization discipline.
func New[D drift.Detector](conf *Config[D]) *Forest[D] {
	return &Forest[D]{conf: conf, rng: newRand(conf.Seed)}
}

func (f *Forest[D]) init() {
	n := f.conf.NumModels
	f.trees = make([]*hoeffding.Tree, n)
	f.background = make([]*hoeffding.Tree, n)
	f.warning = make([]D, n)
	f.driftDet = make([]D, n)
	f.metrics = make([]*accuracy, n)
	f.WarningTracker = make([]int, n)
	f.DriftTracker = make([]int, n)
	for i := 0; i < n; i++ {
		f.trees[i] = f.newBaseTree()
		f.warning[i] = f.conf.WarningFactory()
		f.driftDet[i] = f.conf.DriftFactory()
		f.metrics[i] = &accuracy{}
	}
	f.initialized = true
}

func (f *Forest[D]) newBaseTree() *hoeffding.Tree {
	return hoeffding.New(&hoeffding.Config{
		GracePeriod:          f.conf.GracePeriod,
		Delta:                f.conf.Delta,
		Tau:                  f.conf.Tau,
		MaxShareToSplit:      f.conf.MaxShareToSplit,
		MinBranchFraction:    f.conf.MinBranchFraction,
		MaxDepth:             f.conf.MaxDepth,
		MaxSizeMB:            f.conf.MaxSizeMB,
		MeritPreprune:        f.conf.MeritPreprune,
		MemoryEstimatePeriod: 1_000_000,
		NumFeatures:          f.conf.NumFeatures,
		NumClasses:           f.conf.NumClasses,
		MaxFeatures:          f.conf.MaxFeatures,
		RNG:                  f.rng,
	})
}

// LearnOne folds one labeled observation into every tree in the forest. w
// is accepted to satisfy core.Classifier but, matching the source, is not
// itself used as a training weight — online bagging's per-tree Poisson draw
// supplies the weight instead.
func (f *Forest[D]) LearnOne(x []float64, y int, w float64) {
	if !f.initialized {
		f.init()
	}
	for i := range f.trees {
		yPred := f.trees[i].PredictOne(x)
		f.metrics[i].update(y, yPred, 1.0)

		k := distuv.Poisson{Lambda: f.conf.LambdaValue, Src: f.rng}.Rand()
		if k <= 0 {
			continue
		}

		if f.background[i] != nil {
			f.background[i].LearnOne(x, y, k)
		}
		f.trees[i].LearnOne(x, y, k)

		driftInput := 0.0
		if y != yPred {
			driftInput = 1.0
		}

		f.warning[i].Update(driftInput)
		if f.warning[i].DriftDetected() {
			f.background[i] = f.newBaseTree()
			f.warning[i] = f.conf.WarningFactory()
			f.WarningTracker[i]++
		}

		f.driftDet[i].Update(driftInput)
		if f.driftDet[i].DriftDetected() {
			if f.background[i] != nil {
				f.trees[i] = f.background[i]
				f.background[i] = nil
			} else {
				f.trees[i] = f.newBaseTree()
			}
			f.warning[i] = f.conf.WarningFactory()
			f.driftDet[i] = f.conf.DriftFactory()
			f.metrics[i] = &accuracy{}
			f.DriftTracker[i]++
		}
	}
}

// PredictProbaOne returns the forest's class posterior for x: each tree's
// probability vector weighted by its running accuracy (or, per the
// preserved source behavior, an implicit weight of 1.0 for a tree whose
// accuracy is still exactly zero), summed and L1-normalized.
func (f *Forest[D]) PredictProbaOne(x []float64) []float64 {
	if !f.initialized {
		f.init()
	}
	proba := make([]float64, f.conf.NumClasses)
	for i, tree := range f.trees {
		treeProba := tree.PredictProbaOne(x)
		weight := f.metrics[i].get()
		for j, v := range treeProba {
			if weight > 0 {
				proba[j] += v * weight
			} else {
				proba[j] += v
			}
		}
	}
	total := floats.Sum(proba)
	if total > 0 {
		floats.Scale(1/total, proba)
	} else {
		for i := range proba {
			proba[i] = 0
		}
	}
	return proba
}

// PredictOne returns the argmax of PredictProbaOne, ties broken toward the
// smallest label. It implements core.Classifier.
func (f *Forest[D]) PredictOne(x []float64) int {
	return core.PredictOneFromProba(f.PredictProbaOne(x))
}

// NumModels returns the configured forest size.
func (f *Forest[D]) NumModels() int { return f.conf.NumModels }

// Tree returns the current foreground tree at index i, initializing the
// forest first if needed.
func (f *Forest[D]) Tree(i int) *hoeffding.Tree {
	if !f.initialized {
		f.init()
	}
	return f.trees[i]
}

// BackgroundTree returns the background tree being trained behind index i,
// or nil if no warning has fired since the last promotion or reset.
func (f *Forest[D]) BackgroundTree(i int) *hoeffding.Tree {
	if !f.initialized {
		f.init()
	}
	return f.background[i]
}
