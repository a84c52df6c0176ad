// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FullScale is the int16 code that represents an analog value of +1.0.
// The same factor is used for -1.0 so the mapping stays symmetric.
const FullScale = math.MaxInt16

// Quantize scales x from [-1, 1] into the signed 16-bit device range,
// rounding to the nearest code. Values outside the range (and NaN) are
// clamped, in which case clamped is true.
func Quantize(x float64) (q int16, clamped bool) {
	switch {
	case x > 1:
		x, clamped = 1, true
	case x < -1:
		x, clamped = -1, true
	case math.IsNaN(x):
		return 0, true
	}

	return int16(math.Round(x * FullScale)), clamped
}

// Dequantize maps a device code back into [-1, 1].
func Dequantize(q int16) float64 {
	v := float64(q) / FullScale
	// -32768 is one code below -FullScale
	if v < -1 {
		v = -1
	}

	return v
}
