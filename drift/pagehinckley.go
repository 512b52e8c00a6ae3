package drift

import (
	"math"

	"github.com/Apolynoid/riverstream/stats"
)

// PageHinckley detects a one-sided (increase only) shift in the mean of a
// stream by accumulating deviations from the running mean into a sum faded by
// Alpha and comparing the sum's rise since its own minimum against a
// threshold.
type PageHinckley struct {
	Threshold    float64
	Delta        float64
	Alpha        float64
	MinInstances int

	xMean       stats.Mean
	sumIncrease float64
	minIncrease float64
	detected    bool
}

// NewPageHinckley returns a PageHinckley detector with the given parameters,
// matching the source defaults (threshold=50.0, delta=0.005, alpha=0.9999,
// min instances=30).
func NewPageHinckley(threshold, delta, alpha float64, minInstances int) *PageHinckley {
	p := &PageHinckley{Threshold: threshold, Delta: delta, Alpha: alpha, MinInstances: minInstances}
	p.reset()
	return p
}

func (p *PageHinckley) reset() {
	p.detected = false
	p.xMean = stats.Mean{}
	p.sumIncrease = 0.0
	p.minIncrease = math.MaxFloat64
}

// Update folds x into the detector.
func (p *PageHinckley) Update(x float64) {
	if p.detected {
		p.reset()
	}
	p.xMean.Update(x, 1.0)
	dev := x - p.xMean.Get()

	p.sumIncrease = p.Alpha*p.sumIncrease + dev - p.Delta

	if p.sumIncrease < p.minIncrease {
		p.minIncrease = p.sumIncrease
	}

	if p.xMean.N() >= float64(p.MinInstances) {
		testIncrease := p.sumIncrease - p.minIncrease
		p.detected = testIncrease > p.Threshold
	}
}

// DriftDetected reports whether the most recent Update flagged a drift.
func (p *PageHinckley) DriftDetected() bool { return p.detected }
