package transform_test

import (
	"math"
	"testing"

	"github.com/Apolynoid/riverstream/transform"
	"github.com/stretchr/testify/assert"
)

func TestStandardScalerBeforeTwoObservationsIsZero(t *testing.T) {
	s := transform.NewStandardScaler(1)
	s.LearnOne([]float64{5.0}, 0)
	out := s.TransformOne([]float64{5.0})
	assert.Equal(t, []float64{0.0}, out)
}

func TestStandardScalerCentersAndScalesKnownDistribution(t *testing.T) {
	s := transform.NewStandardScaler(1)
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	for _, x := range xs {
		s.LearnOne([]float64{x}, 0)
	}
	out := s.TransformOne([]float64{5.0})
	// mean=5, population variance=4, std=2 -> (5-5)/2 = 0
	assert.InDelta(t, 0.0, out[0], 1e-9)

	out = s.TransformOne([]float64{9.0})
	assert.InDelta(t, 2.0, out[0], 1e-9)
}

func TestStandardScalerTransformDoesNotMutateLearningState(t *testing.T) {
	s := transform.NewStandardScaler(2)
	s.LearnOne([]float64{1, 2}, 0)
	s.LearnOne([]float64{3, 4}, 0)
	first := s.TransformOne([]float64{3, 4})
	second := s.TransformOne([]float64{3, 4})
	assert.Equal(t, first, second)
	assert.False(t, math.IsNaN(first[0]))
}
