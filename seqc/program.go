// SPDX-License-Identifier: EPL-2.0

package seqc

import (
	"fmt"
	"strings"
	"time"
)

// Program accumulates sequencer statements. The first failing call is
// remembered and turns every later call into a no-op; check Err before
// using the source.
type Program struct {
	target Target
	b      strings.Builder
	depth  int
	err    error
}

func NewProgram(target Target) *Program {
	return &Program{target: target}
}

func (p *Program) line(format string, args ...any) *Program {
	if p.err != nil {
		return p
	}
	p.b.WriteString(strings.Repeat("  ", p.depth))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')

	return p
}

func (p *Program) fail(err error) *Program {
	if p.err == nil {
		p.err = err
	}

	return p
}

// Header writes the informational comment block at the top of a program.
func (p *Program) Header(sequenceType string, at time.Time) *Program {
	p.line("// sequencer program")
	p.line("// sequence type:              %s", sequenceType)
	p.line("// automatically generated:    %s", at.Format("02/01/2006 @15:04"))

	return p.line("")
}

func (p *Program) Comment(text string) *Program {
	return p.line("// %s", text)
}

// Declare inlines a generated snippet.
func (p *Program) Declare(s *Snippet) *Program {
	for _, d := range s.Declarations {
		for l := range strings.Lines(d.String()) {
			p.line("%s", strings.TrimSuffix(l, "\n"))
		}
	}

	return p
}

func (p *Program) Wait(cycles int) *Program {
	if cycles < 0 {
		return p.fail(fmt.Errorf("wait: %w: %d", ErrNegative, cycles))
	}
	if cycles == 0 {
		return p
	}

	return p.line("wait(%d);", cycles)
}

// PlayZero plays silence, snapped to the target granularity.
func (p *Program) PlayZero(samples int) *Program {
	if samples < 0 {
		return p.fail(fmt.Errorf("playZero: %w: %d", ErrNegative, samples))
	}
	if samples < p.target.MinLength() {
		return p.fail(fmt.Errorf("playZero: %w: %d", ErrTooShort, samples))
	}

	return p.line("playZero(%d);", p.target.round(samples))
}

// PlayWave plays the slot at index using the identifiers of s.
func (p *Program) PlayWave(s *Snippet, index int) *Program {
	names := s.Names(index)
	if names == nil {
		return p.fail(fmt.Errorf("playWave: %w: index %d", ErrUnknownName, index))
	}

	return p.line("playWave(%s);", strings.Join(names, ", "))
}

// ExecuteTableEntry plays a command table entry.
func (p *Program) ExecuteTableEntry(index int) *Program {
	if index < 0 {
		return p.fail(fmt.Errorf("executeTableEntry: %w: %d", ErrNegative, index))
	}

	return p.line("executeTableEntry(%d);", index)
}

func (p *Program) WaitWave() *Program {
	return p.line("waitWave();")
}

// Repeat wraps body in a repeat block. n < 0 repeats forever.
func (p *Program) Repeat(n int, body func(*Program)) *Program {
	if n < 0 {
		p.line("while(true) {")
	} else {
		p.line("repeat(%d) {", n)
	}

	p.depth++
	body(p)
	p.depth--

	return p.line("}")
}

func (p *Program) Err() error { return p.err }

// Source returns the accumulated program text.
func (p *Program) Source() (string, error) {
	if p.err != nil {
		return "", p.err
	}

	return p.b.String(), nil
}
