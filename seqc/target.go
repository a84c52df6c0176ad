// SPDX-License-Identifier: EPL-2.0

package seqc

import (
	"fmt"
	"math"
	"strings"
)

// Target selects the waveform length rules of a device family.
type Target int

const (
	Generic Target = iota
	HDAWG
	UHF
)

// ParseTarget accepts "", "generic", "hdawg", "uhf", "uhfqa" and "uhfli".
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "generic":
		return Generic, nil
	case "hdawg":
		return HDAWG, nil
	case "uhf", "uhfqa", "uhfli":
		return UHF, nil
	default:
		return Generic, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
	}
}

func (t Target) String() string {
	switch t {
	case HDAWG:
		return "hdawg"
	case UHF:
		return "uhf"
	default:
		return "generic"
	}
}

func (t Target) MinLength() int {
	switch t {
	case HDAWG:
		return 32
	case UHF:
		return 16
	default:
		return 0
	}
}

func (t Target) Granularity() int {
	switch t {
	case HDAWG:
		return 16
	case UHF:
		return 8
	default:
		return 1
	}
}

// CheckLength validates a placeholder length.
func (t Target) CheckLength(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegative, n)
	}
	if n < t.MinLength() {
		return fmt.Errorf("%w: %d < %d (%s)", ErrTooShort, n, t.MinLength(), t)
	}
	if n%t.Granularity() != 0 {
		return fmt.Errorf("%w: %d %% %d (%s)", ErrGranularity, n, t.Granularity(), t)
	}

	return nil
}

// round snaps n to the closest multiple of the granularity.
func (t Target) round(n int) int {
	g := float64(t.Granularity())
	return int(math.Round(float64(n)/g) * g)
}
