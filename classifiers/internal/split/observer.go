package split

import (
	"math"

	"github.com/Apolynoid/riverstream/core"
	"github.com/Apolynoid/riverstream/stats"
)

// numSplitPoints is the number of candidate thresholds evaluated across the
// observed value range of a feature, matching the source default (10 evenly
// spaced interior points between the global min and max).
const numSplitPoints = 10

// GaussianObserver is a per-feature attribute observer: it fits one Gaussian
// per class to the values a numeric feature has taken for instances of that
// class, and from those fitted Gaussians proposes a single best binary
// split point "feature <= threshold" for the feature it watches.
type GaussianObserver struct {
	perClass map[int]*stats.Gaussian
	minVal   map[int]float64
	maxVal   map[int]float64
}

// NewGaussianObserver returns an empty observer.
func NewGaussianObserver() *GaussianObserver {
	return &GaussianObserver{
		perClass: make(map[int]*stats.Gaussian),
		minVal:   make(map[int]float64),
		maxVal:   make(map[int]float64),
	}
}

// Update folds one (feature value, class, weight) observation into the
// observer.
func (o *GaussianObserver) Update(attVal float64, class int, w float64) {
	g, ok := o.perClass[class]
	if !ok {
		ng := stats.NewGaussian()
		g = &ng
		o.perClass[class] = g
		o.minVal[class] = attVal
		o.maxVal[class] = attVal
	}
	if attVal < o.minVal[class] {
		o.minVal[class] = attVal
	}
	if attVal > o.maxVal[class] {
		o.maxVal[class] = attVal
	}
	g.Update(attVal, w)
}

// CondProba returns the density of the fitted per-class Gaussian for class
// at attVal, used by naive-Bayes leaf prediction. A class never observed
// returns 0.
func (o *GaussianObserver) CondProba(attVal float64, class int) float64 {
	g, ok := o.perClass[class]
	if !ok {
		return 0
	}
	return g.PDF(attVal)
}

// splitPointSuggestions returns numSplitPoints evenly spaced interior
// thresholds between the smallest and largest value observed across all
// classes, or none if fewer than one value has been observed.
func (o *GaussianObserver) splitPointSuggestions() []float64 {
	if len(o.minVal) == 0 {
		return nil
	}
	minValue, maxValue := math.MaxFloat64, -math.MaxFloat64
	for class := range o.minVal {
		if o.minVal[class] < minValue {
			minValue = o.minVal[class]
		}
		if o.maxVal[class] > maxValue {
			maxValue = o.maxVal[class]
		}
	}
	var res []float64
	binSize := (maxValue - minValue) / float64(numSplitPoints+1)
	for i := 1; i <= numSplitPoints; i++ {
		splitValue := minValue + binSize*float64(i)
		if splitValue > minValue && splitValue < maxValue {
			res = append(res, splitValue)
		}
	}
	return res
}

// classDistsFromBinarySplit splits each class's weight across a binary test
// at splitValue, using the fitted Gaussian's CDF for classes whose observed
// range straddles the split point and exact routing for classes entirely on
// one side of it.
func (o *GaussianObserver) classDistsFromBinarySplit(splitValue float64) (left, right []float64) {
	classes := make([]int, 0, len(o.perClass))
	for class := range o.perClass {
		classes = append(classes, class)
	}
	left = make([]float64, len(classes))
	right = make([]float64, len(classes))
	for i, class := range classes {
		n := o.perClass[class].N()
		switch {
		case splitValue < o.minVal[class]:
			right[i] = n
		case splitValue >= o.maxVal[class]:
			left[i] = n
		default:
			left[i] = o.perClass[class].CDF(splitValue) * n
			right[i] = n - left[i]
		}
	}
	return left, right
}

// BestSplit returns the highest-merit binary split this observer can
// propose for its feature, or a Suggestion with Feature -1 and Merit -Inf
// if no candidate threshold yields a finite merit (e.g. no data yet).
func (o *GaussianObserver) BestSplit(preDist core.ClassDistribution, feature int, minBranchFraction float64) Suggestion {
	best := Suggestion{Feature: -1, Merit: math.Inf(-1)}
	for _, splitValue := range o.splitPointSuggestions() {
		left, right := o.classDistsFromBinarySplit(splitValue)
		merit := MeritOfSplit(preDist, left, right, minBranchFraction)
		if merit > best.Merit {
			best = Suggestion{Feature: feature, Threshold: splitValue, Merit: merit}
		}
	}
	return best
}
