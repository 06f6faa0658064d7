package tracktools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackColorsDistinct(t *testing.T) {
	const n = 12
	seen := make(map[[3]uint8]bool, n)
	for i := 0; i < n; i++ {
		seen[trackColor(i, n)] = true
	}
	assert.Len(t, seen, n, "N individuals must get N distinct colors")
}

func TestTrackColorDeterministic(t *testing.T) {
	assert.Equal(t, trackColor(3, 8), trackColor(3, 8))
}

func TestHSLToRGBKnownValues(t *testing.T) {
	// Hue 0 at s=0.8, l=0.6 is the first assigned track color.
	assert.Equal(t, [3]uint8{234, 71, 71}, hslToRGB(0, 0.8, 0.6))
	// Zero saturation collapses to gray.
	assert.Equal(t, [3]uint8{127, 127, 127}, hslToRGB(0.5, 0, 0.5))
	// One third around the wheel swaps red for green.
	assert.Equal(t, [3]uint8{71, 234, 71}, hslToRGB(1.0/3, 0.8, 0.6))
}
