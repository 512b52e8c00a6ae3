package drift

import (
	"math"

	"github.com/Apolynoid/riverstream/stats"
)

// sampleInfo tracks one side of the HDDM-W cut-point comparison: an
// exponentially-weighted mean plus the "independent bounded coefficient"
// used in the McDiarmid concentration bound.
type sampleInfo struct {
	ewma      stats.EWMean
	lambdaSq  float64
	cLambdaSq float64
	isInit    bool
	ibc       float64
}

func newSampleInfo(lambda float64) sampleInfo {
	return sampleInfo{
		ewma:      stats.NewEWMean(lambda),
		lambdaSq:  lambda * lambda,
		cLambdaSq: (1 - lambda) * (1 - lambda),
		ibc:       1.0,
	}
}

func (s *sampleInfo) update(x float64) {
	s.ewma.Update(x)
	s.isInit = true
	s.ibc = s.lambdaSq + s.cLambdaSq*s.ibc
}

// HDDM-W (Hoeffding's bound Drift Detection Method with EWMA, Frias-Blanco
// et al. 2014) watches for a one-sided increase in the mean of a stream using
// two exponentially-weighted sub-samples cut from a running total and a
// McDiarmid bound on their separation. Like DDM it is only sensitive to
// increases, matching its use here as an error-rate monitor.
type HDDMW struct {
	DriftConfidence float64
	Lambda          float64

	total        sampleInfo
	s1Incr       sampleInfo
	s2Incr       sampleInfo
	incrCutpoint float64
	detected     bool
}

// NewHDDMW returns an HDDM-W detector with the given drift confidence and
// EWMA fading factor, matching the source defaults (confidence=0.001,
// lambda=0.05).
func NewHDDMW(driftConfidence, lambda float64) *HDDMW {
	h := &HDDMW{DriftConfidence: driftConfidence, Lambda: lambda}
	h.reset()
	return h
}

func (h *HDDMW) reset() {
	h.detected = false
	h.total = newSampleInfo(h.Lambda)
	h.s1Incr = newSampleInfo(h.Lambda)
	h.s2Incr = newSampleInfo(h.Lambda)
	h.incrCutpoint = math.MaxFloat64
}

func mcdiarmidBound(ibc, confidence float64) float64 {
	return math.Sqrt(ibc * math.Log(1.0/confidence) / 2.0)
}

func hasMeanChanged(sample1, sample2 sampleInfo, confidence float64) bool {
	if !(sample1.isInit && sample2.isInit) {
		return false
	}
	bound := mcdiarmidBound(sample1.ibc+sample2.ibc, confidence)
	return sample2.ewma.Get()-sample1.ewma.Get() > bound
}

func (h *HDDMW) updateIncrStats(x float64) {
	eps := mcdiarmidBound(h.total.ibc, h.DriftConfidence)

	if h.total.ewma.Get()+eps < h.incrCutpoint {
		h.incrCutpoint = h.total.ewma.Get() + eps
		h.s1Incr = h.total
		h.s2Incr = newSampleInfo(h.Lambda)
	} else {
		h.s2Incr.update(x)
	}
}

// Update folds x into the detector.
func (h *HDDMW) Update(x float64) {
	if h.detected {
		h.reset()
	}
	h.total.update(x)
	h.updateIncrStats(x)
	h.detected = hasMeanChanged(h.s1Incr, h.s2Incr, h.DriftConfidence)
}

// DriftDetected reports whether the most recent Update flagged a drift.
func (h *HDDMW) DriftDetected() bool { return h.detected }
