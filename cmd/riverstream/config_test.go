package main

import (
	"testing"

	"github.com/Apolynoid/riverstream/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectorSpecBuildsADWINWithDefaultsInTheRightSlots(t *testing.T) {
	spec := detectorSpec{Kind: detectorADWIN}
	d, err := spec.build()
	require.NoError(t, err)

	a, ok := d.(*drift.ADWIN)
	require.True(t, ok)
	assert.Equal(t, 0.002, a.Delta)
	assert.Equal(t, 32, a.Clock)
	assert.Equal(t, 5, a.MinWindowLength)
	assert.Equal(t, 10, a.GracePeriod)
}

func TestDetectorSpecBuildsADWINWithConfiguredFields(t *testing.T) {
	spec := detectorSpec{
		Kind:        detectorADWIN,
		Delta:       0.01,
		Clock:       16,
		MinWindow:   8,
		GracePeriod: 20,
	}
	d, err := spec.build()
	require.NoError(t, err)

	a, ok := d.(*drift.ADWIN)
	require.True(t, ok)
	assert.Equal(t, 0.01, a.Delta)
	assert.Equal(t, 16, a.Clock)
	assert.Equal(t, 8, a.MinWindowLength)
	assert.Equal(t, 20, a.GracePeriod)
}

func TestDetectorSpecRejectsUnknownKind(t *testing.T) {
	spec := detectorSpec{Kind: "unknown"}
	_, err := spec.build()
	assert.Error(t, err)
}
