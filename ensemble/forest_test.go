package ensemble_test

import (
	"testing"

	"github.com/Apolynoid/riverstream/drift"
	"github.com/Apolynoid/riverstream/ensemble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fireAt is a test-only drift.Detector that deterministically flags a drift
// on its nth Update call, then stays quiet until reset. It exists to make
// the warning/background-promotion sequence of Forest.LearnOne exercisable
// without depending on a real detector's statistical timing.
type fireAt struct {
	n       int
	count   int
	flagged bool
}

func newFireAt(n int) *fireAt { return &fireAt{n: n} }

func (f *fireAt) Update(x float64) {
	if f.flagged {
		f.count = 0
		f.flagged = false
	}
	f.count++
	if f.count >= f.n {
		f.flagged = true
	}
}

func (f *fireAt) DriftDetected() bool { return f.flagged }

func syntheticStream(n int) ([][]float64, []int) {
	xs := make([][]float64, n)
	ys := make([]int, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			xs[i] = []float64{0, 0}
			ys[i] = 0
		} else {
			xs[i] = []float64{9, 9}
			ys[i] = 1
		}
	}
	return xs, ys
}

func TestForestPromotesBackgroundTreeOnDrift(t *testing.T) {
	// The warning factory fires immediately the first time it is minted (so a
	// background tree is created on step one) and never again after that,
	// standing in for a warning detector that quiets back down once the
	// background tree starts training.
	warningMints := 0
	warningFactory := drift.Factory[*fireAt](func() *fireAt {
		warningMints++
		if warningMints == 1 {
			return newFireAt(1)
		}
		return newFireAt(1_000_000)
	})
	driftFactory := drift.Factory[*fireAt](func() *fireAt { return newFireAt(100) })

	conf := ensemble.DefaultConfig[*fireAt](2, 2, warningFactory, driftFactory)
	conf.NumModels = 1
	conf.Seed = 42
	conf.LambdaValue = 50 // P(k=0) = e^-50, negligible: every tree trains every step

	f := ensemble.New[*fireAt](conf)

	xs, ys := syntheticStream(5)
	f.LearnOne(xs[0], ys[0], 1.0)
	require.NotNil(t, f.BackgroundTree(0), "warning detector fires on its first update, so a background tree must exist after one step")

	foregroundBefore := f.Tree(0)
	backgroundBefore := f.BackgroundTree(0)

	for i := 1; i < 100; i++ {
		x, y := xs[i%len(xs)], ys[i%len(xs)]
		f.LearnOne(x, y, 1.0)
	}

	assert.Same(t, backgroundBefore, f.Tree(0), "once the drift detector trips, the background tree must be promoted to foreground")
	assert.NotSame(t, foregroundBefore, f.Tree(0))
	assert.Nil(t, f.BackgroundTree(0), "promotion clears the background slot")
	assert.Equal(t, 1, f.DriftTracker[0])
}

func TestForestIsDeterministicGivenTheSameSeed(t *testing.T) {
	newForest := func() *ensemble.Forest[*drift.DDM] {
		warningFactory := drift.Factory[*drift.DDM](func() *drift.DDM { return drift.NewDDM(2.0, 30) })
		driftFactory := drift.Factory[*drift.DDM](func() *drift.DDM { return drift.NewDDM(3.0, 30) })
		conf := ensemble.DefaultConfig[*drift.DDM](2, 2, warningFactory, driftFactory)
		conf.NumModels = 5
		conf.Seed = 7
		return ensemble.New[*drift.DDM](conf)
	}

	a := newForest()
	b := newForest()

	xs, ys := syntheticStream(500)
	var predsA, predsB []int
	for i := range xs {
		predsA = append(predsA, a.PredictOne(xs[i]))
		a.LearnOne(xs[i], ys[i], 1.0)
		predsB = append(predsB, b.PredictOne(xs[i]))
		b.LearnOne(xs[i], ys[i], 1.0)
	}
	assert.Equal(t, predsA, predsB, "two forests built from the same seed and fed the same stream must make identical predictions")
}

func TestUntrainedForestPredictsZeroVector(t *testing.T) {
	warningFactory := drift.Factory[*drift.DDM](func() *drift.DDM { return drift.NewDDM(2.0, 30) })
	driftFactory := drift.Factory[*drift.DDM](func() *drift.DDM { return drift.NewDDM(3.0, 30) })
	conf := ensemble.DefaultConfig[*drift.DDM](3, 2, warningFactory, driftFactory)
	f := ensemble.New[*drift.DDM](conf)

	proba := f.PredictProbaOne([]float64{1, 2, 3})
	assert.Equal(t, []float64{0, 0}, proba)
	assert.Equal(t, 2, conf.NumClasses)
}
