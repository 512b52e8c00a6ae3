package drift_test

import (
	"testing"

	"github.com/Apolynoid/riverstream/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stationaryErrors are a run of i.i.d. 0/1 error observations from a fixed
// Bernoulli(p) source, generated with a fixed seed so the test is
// deterministic without depending on math/rand's global state.
func stationaryErrors(n int, p float64, seed uint64) []float64 {
	out := make([]float64, n)
	state := seed
	for i := range out {
		state = state*6364136223846793005 + 1442695040888963407
		u := float64(state>>11) / float64(1<<53)
		if u < p {
			out[i] = 1
		}
	}
	return out
}

func TestDDMFlagsAbruptErrorIncrease(t *testing.T) {
	d := drift.NewDDM(3.0, 30)
	for _, x := range stationaryErrors(300, 0.05, 1) {
		d.Update(x)
	}
	require.False(t, d.DriftDetected())

	tripped := false
	for _, x := range stationaryErrors(2000, 0.6, 2) {
		d.Update(x)
		if d.DriftDetected() {
			tripped = true
			break
		}
	}
	assert.True(t, tripped, "DDM should flag a drift under a sustained error-rate jump")
}

func TestDDMResetsOnNextUpdateAfterDrift(t *testing.T) {
	d := drift.NewDDM(3.0, 30)
	for _, x := range stationaryErrors(300, 0.05, 3) {
		d.Update(x)
	}
	for _, x := range stationaryErrors(2000, 0.6, 4) {
		d.Update(x)
		if d.DriftDetected() {
			break
		}
	}
	require.True(t, d.DriftDetected())
	d.Update(0)
	assert.False(t, d.DriftDetected())
}

func TestHDDMWFlagsErrorIncrease(t *testing.T) {
	h := drift.NewHDDMW(0.001, 0.05)
	for _, x := range stationaryErrors(300, 0.05, 5) {
		h.Update(x)
	}
	require.False(t, h.DriftDetected())

	tripped := false
	for _, x := range stationaryErrors(2000, 0.6, 6) {
		h.Update(x)
		if h.DriftDetected() {
			tripped = true
			break
		}
	}
	assert.True(t, tripped, "HDDM-W should flag a drift under a sustained error-rate jump")
}

func TestPageHinckleyFlagsSustainedIncrease(t *testing.T) {
	p := drift.NewPageHinckley(10.0, 0.005, 0.9999, 30)
	for i := 0; i < 50; i++ {
		p.Update(0.0)
	}
	require.False(t, p.DriftDetected())

	tripped := false
	for i := 0; i < 2000; i++ {
		p.Update(5.0)
		if p.DriftDetected() {
			tripped = true
			break
		}
	}
	assert.True(t, tripped)
}

func TestADWINHasLowFalsePositiveRateOnStationaryStream(t *testing.T) {
	a := drift.NewADWIN(0.002, 32, 5, 10)
	detections := 0
	for _, x := range stationaryErrors(20000, 0.3, 7) {
		a.Update(x)
		if a.DriftDetected() {
			detections++
		}
	}
	assert.LessOrEqual(t, detections, 3, "ADWIN should rarely flag a drift on a stationary stream at delta=0.002")
}

func TestADWINFlagsMeanShift(t *testing.T) {
	a := drift.NewADWIN(0.002, 32, 5, 10)
	for _, x := range stationaryErrors(2000, 0.1, 8) {
		a.Update(x)
	}
	tripped := false
	for _, x := range stationaryErrors(4000, 0.8, 9) {
		a.Update(x)
		if a.DriftDetected() {
			tripped = true
			break
		}
	}
	assert.True(t, tripped, "ADWIN should flag a drift when the error rate jumps from 0.1 to 0.8")
}

func TestDetectorFactoryMintsIndependentInstances(t *testing.T) {
	var factory drift.Factory[*drift.DDM] = func() *drift.DDM { return drift.NewDDM(3.0, 30) }
	a := factory()
	b := factory()
	assert.NotSame(t, a, b)

	for _, x := range stationaryErrors(300, 0.6, 10) {
		a.Update(x)
	}
	assert.False(t, b.DriftDetected(), "a fresh detector minted from the same factory must not share a's state")
}
