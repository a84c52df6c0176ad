// SPDX-License-Identifier: EPL-2.0

package waveform

import "strings"

// Output is one physical output channel a wave can be routed to.
type Output uint8

const (
	Out1 Output = iota + 1
	Out2
)

func (o Output) String() string {
	switch o {
	case Out1:
		return "1"
	case Out2:
		return "2"
	default:
		return "?"
	}
}

// OutputSet is a set of Output tags. The zero value is the empty set.
type OutputSet struct {
	bits uint8
}

// Outputs builds a set holding the given tags.
func Outputs(tags ...Output) OutputSet {
	var s OutputSet
	for _, t := range tags {
		s = s.With(t)
	}

	return s
}

func (s OutputSet) With(o Output) OutputSet {
	if o == 0 || o > Out2 {
		return s
	}

	return OutputSet{bits: s.bits | 1<<(o-1)}
}

func (s OutputSet) Union(other OutputSet) OutputSet {
	return OutputSet{bits: s.bits | other.bits}
}

func (s OutputSet) Contains(o Output) bool {
	if o == 0 || o > Out2 {
		return false
	}

	return s.bits&(1<<(o-1)) != 0
}

func (s OutputSet) Empty() bool { return s.bits == 0 }

// Tags lists the members in ascending order.
func (s OutputSet) Tags() []Output {
	var out []Output
	for _, o := range []Output{Out1, Out2} {
		if s.Contains(o) {
			out = append(out, o)
		}
	}

	return out
}

// String renders the set the way the sequencer expects it, e.g. "1+2".
func (s OutputSet) String() string {
	tags := s.Tags()
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.String()
	}

	return strings.Join(parts, "+")
}
