// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"fmt"
	"math"
)

// ValidateSamples checks that every sample is a real number in [-1, 1].
// channel is only used to label the error.
func ValidateSamples(channel int, samples []float64) error {
	for i, v := range samples {
		if math.IsNaN(v) || v < -1 || v > 1 {
			return &RangeError{Channel: channel, Position: i, Value: v}
		}
	}

	return nil
}

func validMarkerBits(bits int) bool { return bits >= 0 && bits <= MaxMarkerBits }

func validateMarkers(markers []uint16, bits int) error {
	if !validMarkerBits(bits) {
		return fmt.Errorf("%w: %d marker bits", ErrLayout, bits)
	}
	limit := uint16(1)<<bits - 1
	for _, m := range markers {
		if m > limit {
			return ErrMarkerBits
		}
	}

	return nil
}
