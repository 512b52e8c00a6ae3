package stats_test

import (
	"testing"

	"github.com/Apolynoid/riverstream/stats"
	"github.com/stretchr/testify/assert"
)

func TestMeanUnweighted(t *testing.T) {
	var m stats.Mean
	for _, x := range []float64{2, 4, 6, 8} {
		m.Update(x, 1)
	}
	assert.InDelta(t, 5.0, m.Get(), 1e-9)
	assert.Equal(t, 4.0, m.N())
}

func TestMeanWeighted(t *testing.T) {
	var m stats.Mean
	m.Update(0, 1)
	m.Update(10, 3)
	assert.InDelta(t, 7.5, m.Get(), 1e-9)
}

func TestEWMeanFirstUpdateSeeds(t *testing.T) {
	m := stats.NewEWMean(0.05)
	m.Update(3.0)
	assert.Equal(t, 3.0, m.Get())
}

func TestEWMeanBlendsSubsequentUpdates(t *testing.T) {
	m := stats.NewEWMean(0.5)
	m.Update(2.0)
	m.Update(4.0)
	assert.InDelta(t, 3.0, m.Get(), 1e-9)
}

func TestEWMeanUnseededZeroStaysUninitialized(t *testing.T) {
	// A first observation of exactly 0.0 is indistinguishable from the
	// "uninitialized" sentinel, so the next update seeds the mean outright
	// rather than blending against the (apparent) zero mean. This mirrors
	// the source behavior rather than correcting it.
	m := stats.NewEWMean(0.5)
	m.Update(0.0)
	m.Update(6.0)
	assert.Equal(t, 6.0, m.Get())
}
