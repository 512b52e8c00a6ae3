package core_test

import (
	"testing"

	"github.com/Apolynoid/riverstream/core"
	"github.com/stretchr/testify/assert"
)

func TestPredictionTopBreaksTiesTowardSmallestLabel(t *testing.T) {
	p := core.Prediction{
		{Label: 0, Votes: 0.5},
		{Label: 1, Votes: 0.5},
		{Label: 2, Votes: 0.1},
	}
	assert.Equal(t, 0, p.Top().Label)
	assert.Equal(t, 0, p.Index())
}

func TestPredictionTopOnEmptyPrediction(t *testing.T) {
	var p core.Prediction
	assert.Equal(t, -1, p.Top().Label)
}

func TestPredictionRankSortsHighestFirst(t *testing.T) {
	p := core.Prediction{
		{Label: 0, Votes: 0.2},
		{Label: 1, Votes: 0.7},
		{Label: 2, Votes: 0.1},
	}
	p.Rank()
	assert.Equal(t, core.ClassVote{Label: 1, Votes: 0.7}, p[0])
	assert.Equal(t, core.ClassVote{Label: 0, Votes: 0.2}, p[1])
	assert.Equal(t, core.ClassVote{Label: 2, Votes: 0.1}, p[2])
}

func TestPredictOneFromProbaBreaksTiesTowardSmallestLabel(t *testing.T) {
	assert.Equal(t, 0, core.PredictOneFromProba([]float64{0.5, 0.5, 0.1}))
	assert.Equal(t, 2, core.PredictOneFromProba([]float64{0.1, 0.2, 0.7}))
}

func TestPredictOneFromProbaOnUntrainedZeroVector(t *testing.T) {
	assert.Equal(t, 0, core.PredictOneFromProba([]float64{0, 0}))
}
