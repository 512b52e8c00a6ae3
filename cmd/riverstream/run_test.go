package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordLabelLast(t *testing.T) {
	x, y, err := parseRecord("1.5,2.0,3.25,1", ",", false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.0, 3.25}, x)
	assert.Equal(t, 1, y)
}

func TestParseRecordLabelFirst(t *testing.T) {
	x, y, err := parseRecord("0,1.5,2.0,3.25", ",", true)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.0, 3.25}, x)
	assert.Equal(t, 0, y)
}

func TestParseRecordRejectsNonNumericField(t *testing.T) {
	_, _, err := parseRecord("1.5,NaNish,1", ",", false)
	assert.Error(t, err)
}

func TestParseRecordRejectsTooFewFields(t *testing.T) {
	_, _, err := parseRecord("1.0", ",", false)
	assert.Error(t, err)
}

func TestPrequentialAccuracyTracksRunningRate(t *testing.T) {
	a := &prequentialAccuracy{}
	a.update(true)
	a.update(true)
	a.update(false)
	assert.InDelta(t, 2.0/3.0, a.get(), 1e-9)
	assert.Len(t, a.history, 3)
}
