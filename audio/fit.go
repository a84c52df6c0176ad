// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/awgkit/utils"

// Fit stretches or squeezes samples to exactly n values with cubic
// interpolation over the whole span. The first and last samples are kept.
func Fit(samples []float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, ErrLength
	}
	if len(samples) == 0 {
		return nil, ErrEmptyClip
	}

	out := make([]float64, n)
	if len(samples) == 1 || n == 1 {
		for i := range out {
			out[i] = samples[0]
		}
		return out, nil
	}
	if len(samples) == n {
		copy(out, samples)
		return out, nil
	}

	last := len(samples) - 1
	// Neighbours past either end are extrapolated linearly.
	at := func(i int) float64 {
		switch {
		case i < 0:
			return 2*samples[0] - samples[1]
		case i > last:
			return 2*samples[last] - samples[last-1]
		}
		return samples[i]
	}
	step := float64(last) / float64(n-1)
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= last {
			out[i] = samples[last]
			continue
		}
		out[i] = utils.CubicInterpolate(at(j-1), at(j), at(j+1), at(j+2), pos-float64(j))
	}

	return out, nil
}

// Clamp limits every value to [-1, 1] in place and reports how many
// were changed. Cubic interpolation can overshoot full-scale input.
func Clamp(samples []float64) int {
	n := 0
	for i, v := range samples {
		switch {
		case v > 1:
			samples[i] = 1
			n++
		case v < -1:
			samples[i] = -1
			n++
		}
	}

	return n
}
