package colorutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(Landmark, 0x80)
	assert.Equal(t, uint8(0x80), c.A)
	assert.Equal(t, Landmark.R, c.R)
	assert.Equal(t, uint8(0xFF), Landmark.A)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(0, 0, 0))
	assert.Equal(t, 255.0, Mean(255, 255, 255))
	assert.Equal(t, 100.0, Mean(0, 100, 200))
}
