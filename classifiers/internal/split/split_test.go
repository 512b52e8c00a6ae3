package split_test

import (
	"math"
	"testing"

	"github.com/Apolynoid/riverstream/classifiers/internal/split"
	"github.com/Apolynoid/riverstream/core"
	"github.com/stretchr/testify/assert"
)

func TestRangeOfMeritFloorsAtTwoClasses(t *testing.T) {
	assert.InDelta(t, 1.0, split.RangeOfMerit(core.ClassDistribution{0: 5}), 1e-12)
	assert.InDelta(t, 1.0, split.RangeOfMerit(core.ClassDistribution{0: 5, 1: 5}), 1e-12)
	assert.InDelta(t, 2.0, split.RangeOfMerit(core.ClassDistribution{0: 5, 1: 5, 2: 5, 3: 5}), 1e-12)
}

func TestMeritOfSplitPerfectSeparationMaximizesGain(t *testing.T) {
	pre := core.ClassDistribution{0: 50, 1: 50}
	perfect := split.MeritOfSplit(pre, []float64{50, 0}, []float64{0, 50}, 0.01)
	balanced := split.MeritOfSplit(pre, []float64{25, 25}, []float64{25, 25}, 0.01)
	assert.Greater(t, perfect, balanced)
	assert.InDelta(t, 1.0, perfect, 1e-9)
	assert.InDelta(t, 0.0, balanced, 1e-9)
}

func TestMeritOfSplitRejectsStarvedBranch(t *testing.T) {
	pre := core.ClassDistribution{0: 50, 1: 50}
	merit := split.MeritOfSplit(pre, []float64{99, 99}, []float64{1, 1}, 0.1)
	assert.True(t, math.IsInf(merit, -1))
}

func TestGaussianObserverBestSplitSeparatesWellClusteredClasses(t *testing.T) {
	o := split.NewGaussianObserver()
	for _, x := range []float64{1, 1.1, 0.9, 1.2, 0.8} {
		o.Update(x, 0, 1)
	}
	for _, x := range []float64{10, 10.1, 9.9, 10.2, 9.8} {
		o.Update(x, 1, 1)
	}
	pre := core.ClassDistribution{0: 5, 1: 5}
	best := o.BestSplit(pre, 3, 0.01)
	assert.Equal(t, 3, best.Feature)
	assert.Greater(t, best.Threshold, 1.2)
	assert.Less(t, best.Threshold, 9.8)
	assert.Greater(t, best.Merit, 0.0)
}

func TestGaussianObserverBestSplitEmptyIsInvalid(t *testing.T) {
	o := split.NewGaussianObserver()
	best := o.BestSplit(core.ClassDistribution{}, 0, 0.01)
	assert.Equal(t, -1, best.Feature)
}

func TestGaussianObserverCondProbaUnseenClassIsZero(t *testing.T) {
	o := split.NewGaussianObserver()
	o.Update(1.0, 0, 1)
	assert.Equal(t, 0.0, o.CondProba(1.0, 99))
}
