package split

import (
	"math"

	"github.com/Apolynoid/riverstream/core"
)

// MeritOfSplit returns the information gain of splitting preDist into
// (postLeft, postRight), or math.Inf(-1) when fewer than two of the
// resulting branches hold more than minBranchFraction of the total weight —
// a split that starves a branch isn't worth making regardless of its
// entropy reduction.
func MeritOfSplit(preDist core.ClassDistribution, postLeft, postRight []float64, minBranchFraction float64) float64 {
	if numSubsetsGreaterThanFrac(postLeft, postRight, minBranchFraction) < 2 {
		return math.Inf(-1)
	}
	return entropyOfDistribution(preDist) - entropyOfSplit(postLeft, postRight)
}

// RangeOfMerit returns the maximum possible value of the information-gain
// criterion for a distribution with len(preDist) classes (at least 2),
// i.e. log2(numClasses). It is the "range" term of the Hoeffding bound.
func RangeOfMerit(preDist core.ClassDistribution) float64 {
	numClasses := len(preDist)
	if numClasses < 2 {
		numClasses = 2
	}
	return math.Log2(float64(numClasses))
}

func entropyOfDistribution(dist core.ClassDistribution) float64 {
	var entropy, total float64
	for _, w := range dist {
		if w > 0 {
			entropy -= w * math.Log2(w)
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	return (entropy + total*math.Log2(total)) / total
}

func entropyOfVector(dist []float64) float64 {
	var entropy, total float64
	for _, w := range dist {
		if w > 0 {
			entropy -= w * math.Log2(w)
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	return (entropy + total*math.Log2(total)) / total
}

func entropyOfSplit(left, right []float64) float64 {
	leftWeight := sumPositive(left)
	rightWeight := sumPositive(right)
	total := leftWeight + rightWeight
	if total <= 0 {
		return 0
	}
	return (leftWeight*entropyOfVector(left) + rightWeight*entropyOfVector(right)) / total
}

func sumPositive(dist []float64) float64 {
	var total float64
	for _, w := range dist {
		if w > 0 {
			total += w
		}
	}
	return total
}

func numSubsetsGreaterThanFrac(left, right []float64, minFrac float64) int {
	leftWeight := sumPositive(left)
	rightWeight := sumPositive(right)
	total := leftWeight + rightWeight
	if total <= 0 {
		return 0
	}
	numGreater := 0
	if leftWeight/total > minFrac {
		numGreater++
	}
	if rightWeight/total > minFrac {
		numGreater++
	}
	return numGreater
}
