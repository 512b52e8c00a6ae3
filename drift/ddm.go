package drift

import (
	"math"

	"github.com/Apolynoid/riverstream/stats"
)

// DDM (Drift Detection Method, Gama et al. 2004) tracks the running error
// rate of a classifier and flags a drift when the error rate plus its
// standard deviation rises more than DriftThreshold standard deviations
// above the best (lowest) level seen since the last reset.
type DDM struct {
	DriftThreshold float64
	WarmStart      int

	p        stats.Mean
	psMin    float64
	pMin     float64
	sMin     float64
	detected bool
}

// NewDDM returns a DDM with the given threshold and warm-start length,
// matching the defaults of the source it was ported from (threshold=3.0,
// warm start=30 observations).
func NewDDM(driftThreshold float64, warmStart int) *DDM {
	d := &DDM{DriftThreshold: driftThreshold, WarmStart: warmStart}
	d.reset()
	return d
}

func (d *DDM) reset() {
	d.detected = false
	d.p = stats.Mean{}
	d.psMin = math.MaxFloat64
	d.pMin = 0.0
	d.sMin = 0.0
}

// Update folds one 0/1 error observation into the detector.
func (d *DDM) Update(x float64) {
	if d.detected {
		d.reset()
	}
	d.p.Update(x, 1.0)

	pi := d.p.Get()
	n := d.p.N()
	si := math.Sqrt(pi * (1.0 - pi) / n)

	if n > float64(d.WarmStart) {
		if pi+si < d.psMin {
			d.pMin = pi
			d.sMin = si
			d.psMin = d.pMin + d.sMin
		}
		if pi+si > d.pMin+d.sMin*d.DriftThreshold {
			d.detected = true
		}
	}
}

// DriftDetected reports whether the most recent Update flagged a drift.
func (d *DDM) DriftDetected() bool { return d.detected }
