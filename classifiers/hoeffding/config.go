package hoeffding

import "math/rand"

// Config holds the hyperparameters of a Tree. The zero value is not usable;
// use DefaultConfig or populate every field (e.g. when unmarshaling from
// YAML at the driver boundary).
type Config struct {
	// GracePeriod is the number of weighted instances a leaf must observe
	// since its last split attempt before it is evaluated again.
	GracePeriod int
	// Delta (the split confidence) is the probability the Hoeffding bound is
	// allowed to be wrong; smaller values demand more evidence before a
	// split is made.
	Delta float64
	// Tau is the tie threshold: a split is also made if the Hoeffding bound
	// itself shrinks below Tau, even without a clear merit gap between the
	// best and second-best candidate.
	Tau float64
	// MaxShareToSplit is the maximum fraction of a leaf's pre-split weight
	// that the best candidate is allowed to consume on one branch alone.
	// Carried from the source; unused directly by the Gaussian observer
	// (which always proposes binary splits) but kept for parity with the
	// original tree's signature.
	MaxShareToSplit float64
	// MinBranchFraction is the minimum fraction of a split's total weight
	// that both branches must receive for the split to be considered.
	MinBranchFraction float64
	// MeritPreprune, when true, adds a zero-merit null-split candidate
	// (representing "don't split") to every split attempt, so the best real
	// candidate must clear the Hoeffding bound against not splitting; if the
	// null candidate itself ranks best and the bound is cleared, the leaf is
	// deactivated instead of branched. When false (the default) only real
	// candidates compete, and a leaf with exactly one candidate always splits
	// on it.
	MeritPreprune bool
	// MaxDepth deactivates a leaf outright once reached, regardless of
	// grace period.
	MaxDepth int
	// MaxSizeMB bounds the tree's estimated in-memory footprint. Once
	// exceeded, the least-promising active leaves are deactivated.
	MaxSizeMB float64
	// MemoryEstimatePeriod is how many weighted training instances pass
	// between size re-estimates.
	MemoryEstimatePeriod int
	// NumFeatures is the number of numeric input features the tree expects.
	NumFeatures int
	// NumClasses is the number of class labels the tree expects.
	NumClasses int

	// MaxFeatures, when positive and less than NumFeatures, makes every new
	// leaf a random-subspace leaf (Component F): on creation it samples
	// MaxFeatures distinct feature indices from RNG and only ever observes
	// those. Zero (or >= NumFeatures) means every leaf observes every
	// feature, matching the plain NBA leaf.
	MaxFeatures int
	// RNG is consumed for random-subspace feature sampling. Required when
	// MaxFeatures is set; an ensemble shares one RNG across every tree it
	// owns so that, given a fixed seed, the whole sequence of sampling
	// decisions is reproducible (spec §5).
	RNG *rand.Rand
}

// DefaultConfig returns the hyperparameters the tree was tuned with.
func DefaultConfig(numFeatures, numClasses int) *Config {
	return &Config{
		GracePeriod:          200,
		Delta:                1e-7,
		Tau:                  0.05,
		MaxShareToSplit:      0.99,
		MinBranchFraction:    0.01,
		MaxDepth:             980,
		MaxSizeMB:            100,
		MemoryEstimatePeriod: 1_000_000,
		NumFeatures:          numFeatures,
		NumClasses:           numClasses,
	}
}
