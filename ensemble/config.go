package ensemble

import (
	"math/rand"
	"time"

	"github.com/Apolynoid/riverstream/drift"
)

// Config holds the Adaptive Random Forest's hyperparameters. WarningFactory
// and DriftFactory mint the per-tree warning and drift detectors; the
// ensemble keeps its own factory-typed detector per tree so each can be
// reset to a fresh instance independently.
type Config[D drift.Detector] struct {
	NumModels   int
	MaxFeatures int
	// Seed seeds the ensemble's single shared PRNG. -1 requests a
	// nondeterministic seed, matching the source's std::random_device
	// fallback.
	Seed        int64
	LambdaValue float64

	NumFeatures int
	NumClasses  int

	GracePeriod       int
	Delta             float64
	Tau               float64
	MaxShareToSplit   float64
	MinBranchFraction float64
	MaxDepth          int
	MaxSizeMB         float64
	MeritPreprune     bool

	WarningFactory drift.Factory[D]
	DriftFactory   drift.Factory[D]
}

// DefaultConfig returns an ARF configuration matching the source's tuned
// defaults (n_models=10, lambda=6, grace_period=50, delta=0.01), with
// max_features set to floor(sqrt(numFeatures)) per spec §4.G.
func DefaultConfig[D drift.Detector](numFeatures, numClasses int, warningFactory, driftFactory drift.Factory[D]) *Config[D] {
	return &Config[D]{
		NumModels:         10,
		MaxFeatures:       isqrt(numFeatures),
		Seed:              -1,
		LambdaValue:       6,
		NumFeatures:       numFeatures,
		NumClasses:        numClasses,
		GracePeriod:       50,
		Delta:             0.01,
		Tau:               0.05,
		MaxShareToSplit:   0.99,
		MinBranchFraction: 0.01,
		MaxDepth:          980,
		MaxSizeMB:         100,
		WarningFactory:    warningFactory,
		DriftFactory:      driftFactory,
	}
}

func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	if r < 1 {
		r = 1
	}
	return r
}

func newRand(seed int64) *rand.Rand {
	if seed == -1 {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(seed))
}
