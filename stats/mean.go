// Package stats holds the small running-statistics primitives shared by the
// Hoeffding tree's Gaussian attribute observer and the drift detectors: a
// weighted incremental mean, a Welford variance tracker, and an
// exponentially-weighted mean used by HDDM-W.
package stats

// Mean is a weighted incremental mean (Welford's running mean, West 1979).
type Mean struct {
	mean float64
	n    float64
}

// Update folds x, weighted by w, into the running mean.
func (m *Mean) Update(x, w float64) {
	m.n += w
	m.mean += (w / m.n) * (x - m.mean)
}

// Get returns the current mean.
func (m *Mean) Get() float64 { return m.mean }

// N returns the total weight observed so far.
func (m *Mean) N() float64 { return m.n }

// EWMean is an exponentially-weighted mean with fading factor lambda: each
// update replaces the mean with lambda*x + (1-lambda)*mean. Used by HDDM-W to
// track both the long-run and short-run sample means.
//
// The zero mean is treated as "uninitialized" rather than as a legitimate
// first observation of exactly zero: the first Update seeds the mean with x
// outright instead of blending it. This matches the source the detector was
// ported from and is preserved rather than fixed, since HDDM-W's drift
// threshold was tuned against this exact behavior.
type EWMean struct {
	lambda float64
	mean   float64
}

// NewEWMean returns an EWMean with the given fading factor.
func NewEWMean(lambda float64) EWMean {
	return EWMean{lambda: lambda}
}

// Update folds x into the exponentially-weighted mean.
func (m *EWMean) Update(x float64) {
	if m.mean == 0.0 {
		m.mean = x
		return
	}
	m.mean = m.lambda*x + (1-m.lambda)*m.mean
}

// Get returns the current exponentially-weighted mean.
func (m *EWMean) Get() float64 { return m.mean }
