// SPDX-License-Identifier: EPL-2.0

package wavegen

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Params tunes the built-in shapes. Position and Width are in samples;
// zero picks the slot centre and an eighth of the length.
type Params struct {
	Amplitude float64
	Position  float64
	Width     float64
	Beta      float64
	Cycles    float64
	Phase     float64
}

// Shapes lists the names accepted by Generate.
func Shapes() []string {
	return slices.Sorted(maps.Keys(builtins))
}

type builder func(n int, p Params) (ch1, ch2 []float64, err error)

var builtins = map[string]builder{
	"ones":   func(n int, p Params) ([]float64, []float64, error) { return Ones(n, p.Amplitude), nil, nil },
	"zeros":  func(n int, _ Params) ([]float64, []float64, error) { return Zeros(n), nil, nil },
	"sine":   func(n int, p Params) ([]float64, []float64, error) { return Sine(n, p.Amplitude, p.Cycles, p.Phase), nil, nil },
	"cosine": func(n int, p Params) ([]float64, []float64, error) { return Cosine(n, p.Amplitude, p.Cycles, p.Phase), nil, nil },
	"gauss": func(n int, p Params) ([]float64, []float64, error) {
		g, err := Gauss(n, p.Amplitude, p.Position, p.Width)
		return g, nil, err
	},
	"drag": func(n int, p Params) ([]float64, []float64, error) {
		return Drag(n, p.Amplitude, p.Position, p.Width, p.Beta)
	},
}

// Generate builds the named shape. ch2 is nil for single-channel shapes.
func Generate(shape string, n int, p Params) (ch1, ch2 []float64, err error) {
	if n <= 0 {
		return nil, nil, ErrLength
	}
	b, ok := builtins[strings.ToLower(shape)]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}

	return b(n, p)
}

func Ones(n int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp
	}

	return out
}

func Zeros(n int) []float64 { return make([]float64, n) }

// Sine spans cycles periods over n samples.
func Sine(n int, amp, cycles, phase float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*cycles*float64(i)/float64(n)+phase)
	}

	return out
}

func Cosine(n int, amp, cycles, phase float64) []float64 {
	return Sine(n, amp, cycles, phase+math.Pi/2)
}

func gaussParams(n int, pos, width float64) (float64, float64, error) {
	if width < 0 {
		return 0, 0, ErrWidth
	}
	if pos == 0 {
		pos = float64(n) / 2
	}
	if width == 0 {
		width = float64(n) / 8
	}

	return pos, width, nil
}

// Gauss is amp * exp(-(i-pos)^2 / 2 width^2).
func Gauss(n int, amp, pos, width float64) ([]float64, error) {
	pos, width, err := gaussParams(n, pos, width)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		x := float64(i) - pos
		out[i] = amp * math.Exp(-x*x/(2*width*width))
	}

	return out, nil
}

// Drag returns a Gaussian and its derivative scaled by beta, the in-phase
// and quadrature parts of a DRAG pulse.
func Drag(n int, amp, pos, width, beta float64) (i, q []float64, err error) {
	pos, width, err = gaussParams(n, pos, width)
	if err != nil {
		return nil, nil, err
	}

	i, _ = Gauss(n, amp, pos, width)
	q = make([]float64, n)
	for k, g := range i {
		q[k] = -beta * (float64(k) - pos) / (width * width) * g
	}

	return i, q, nil
}

// Marker sets value on samples [start, start+length) and clips the range
// to the slot.
func Marker(n, start, length int, value uint16) []uint16 {
	out := make([]uint16, n)
	lo := max(start, 0)
	hi := min(start+length, n)
	for k := lo; k < hi; k++ {
		out[k] = value
	}

	return out
}
