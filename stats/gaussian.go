package stats

import "math"

// Gaussian is a Welford-style online moment tracker that doubles as a normal
// distribution fitted to the observations seen so far. It backs the
// per-class, per-feature attribute observers in the Hoeffding tree's split
// criterion.
type Gaussian struct {
	mean float64
	s    float64
	n    float64
	ddof float64
}

// NewGaussian returns a Gaussian with the conventional sample-variance
// correction (ddof=1).
func NewGaussian() Gaussian {
	return Gaussian{ddof: 1}
}

// NewPopulationGaussian returns a Gaussian with no bias correction (ddof=0),
// the running-variance convention StandardScaler uses.
func NewPopulationGaussian() Gaussian {
	return Gaussian{ddof: 0}
}

// Update folds one observation of weight w into the running moments.
func (g *Gaussian) Update(x, w float64) {
	meanOld := g.mean
	g.n += w
	g.mean += (w / g.n) * (x - meanOld)
	g.s += w * (x - meanOld) * (x - g.mean)
}

// N returns the total weight observed so far.
func (g *Gaussian) N() float64 { return g.n }

// Mean returns the running mean.
func (g *Gaussian) Mean() float64 { return g.mean }

// Variance returns the sum of squared deviations divided by (n - ddof): the
// sample variance for NewGaussian, the population variance for
// NewPopulationGaussian. It returns 0 while the total weight n is at most ddof.
func (g *Gaussian) Variance() float64 {
	if g.n > g.ddof {
		return g.s / (g.n - g.ddof)
	}
	return 0.0
}

// PDF returns the Gaussian probability density at x. It returns 0 for a
// degenerate (zero-variance) distribution rather than dividing by zero.
func (g *Gaussian) PDF(x float64) float64 {
	variance := g.Variance()
	if variance == 0.0 {
		return 0.0
	}
	d := x - g.mean
	return math.Exp(-0.5*d*d/variance) / math.Sqrt(2*math.Pi*variance)
}

// CDF returns P(X <= x) under the fitted Gaussian. It returns 0 for a
// degenerate (zero-variance) distribution.
func (g *Gaussian) CDF(x float64) float64 {
	variance := g.Variance()
	if variance == 0.0 {
		return 0.0
	}
	return 0.5 * (1.0 + math.Erf((x-g.mean)/math.Sqrt(variance*2.0)))
}
