// Package transform implements the streaming feature transforms composed in
// front of a classifier by pipeline.Pipeline.
package transform

import (
	"math"

	"github.com/Apolynoid/riverstream/stats"
)

// StandardScaler online-normalizes each feature to zero mean and unit
// variance, tracking a separate running Gaussian per feature index. It
// implements core.Transformer.
type StandardScaler struct {
	perFeature []stats.Gaussian
}

// NewStandardScaler returns a scaler sized for numFeatures input features.
func NewStandardScaler(numFeatures int) *StandardScaler {
	s := &StandardScaler{perFeature: make([]stats.Gaussian, numFeatures)}
	for i := range s.perFeature {
		s.perFeature[i] = stats.NewPopulationGaussian()
	}
	return s
}

// LearnOne folds x into the running per-feature moments. y is accepted to
// satisfy core.Transformer but unused: the scaler is unsupervised.
func (s *StandardScaler) LearnOne(x []float64, y int) {
	for i, v := range x {
		s.perFeature[i].Update(v, 1.0)
	}
}

// TransformOne returns x with each feature centered and scaled by its
// running standard deviation. A feature with zero variance so far (fewer
// than two distinct observations) maps to 0 rather than dividing by zero.
func (s *StandardScaler) TransformOne(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		variance := s.perFeature[i].Variance()
		if variance > 0.0 {
			out[i] = (v - s.perFeature[i].Mean()) / math.Sqrt(variance)
		}
	}
	return out
}
