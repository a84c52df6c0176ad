// SPDX-License-Identifier: EPL-2.0

package seqc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ik5/awgkit/waveform"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Declaration reserves the memory of one waveform slot.
type Declaration struct {
	Index   int
	Length  int
	Markers bool
	// Names holds one identifier per channel.
	Names []string
	// Outputs holds the output routing per channel, as rendered.
	Outputs []string
}

// String renders the placeholders of the slot followed by its
// assignWaveIndex statement.
func (d Declaration) String() string {
	var b strings.Builder
	args := make([]string, 0, 2*len(d.Names)+1)

	for ch, name := range d.Names {
		b.WriteString("wave ")
		b.WriteString(name)
		b.WriteString(" = placeholder(")
		b.WriteString(strconv.Itoa(d.Length))
		if d.Markers && ch == len(d.Names)-1 {
			b.WriteString(", true")
		}
		b.WriteString(");\n")

		args = append(args, d.Outputs[ch], name)
	}
	args = append(args, strconv.Itoa(d.Index))

	fmt.Fprintf(&b, "assignWaveIndex(%s);\n", strings.Join(args, ", "))

	return b.String()
}

// Snippet is the generated declaration block of a table.
type Snippet struct {
	Declarations []Declaration
	names        map[string]int
}

// Index resolves an identifier to the waveform index it was declared for.
func (s *Snippet) Index(name string) (int, bool) {
	idx, ok := s.names[name]
	return idx, ok
}

// Names returns the identifiers of the slot at index.
func (s *Snippet) Names(index int) []string {
	for _, d := range s.Declarations {
		if d.Index == index {
			return d.Names
		}
	}

	return nil
}

func (s *Snippet) String() string {
	var b strings.Builder
	for _, d := range s.Declarations {
		fmt.Fprintf(&b, "// waveform %d\n", d.Index)
		b.WriteString(d.String())
	}

	return b.String()
}

// Generator derives placeholder declarations from a waveform table.
type Generator struct {
	Target Target
	// Prefix starts generated identifiers. Defaults to "w".
	Prefix string
}

// Generate is Generator{}.Generate.
func Generate(t *waveform.Table) (*Snippet, error) {
	return Generator{}.Generate(t)
}

// Generate emits one declaration per entry in ascending index order. The
// table is not modified. Explicit names must be unique across the table.
func (g Generator) Generate(t *waveform.Table) (*Snippet, error) {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "w"
	}

	explicit := make(map[string]int)
	for idx, e := range t.All() {
		for _, w := range waves(e) {
			name := w.Name()
			if name == "" {
				continue
			}
			if !identifier.MatchString(name) {
				return nil, fmt.Errorf("index %d: %w: %q", idx, ErrInvalidName, name)
			}
			if first, ok := explicit[name]; ok {
				return nil, &NameCollisionError{Name: name, First: first, Second: idx}
			}
			explicit[name] = idx
		}
	}

	s := &Snippet{names: make(map[string]int)}
	for idx, e := range t.All() {
		if err := g.Target.CheckLength(e.Len()); err != nil {
			return nil, fmt.Errorf("index %d: %w", idx, err)
		}

		d := Declaration{Index: idx, Length: e.Len(), Markers: e.HasMarkers()}
		for ch, w := range waves(e) {
			name := w.Name()
			if name == "" {
				name = uniqueName(fmt.Sprintf("%s%d_%d", prefix, idx, ch+1), explicit, s.names)
			}
			s.names[name] = idx

			out := strconv.Itoa(ch + 1)
			if !w.Outputs().Empty() {
				out = w.Outputs().String()
			}

			d.Names = append(d.Names, name)
			d.Outputs = append(d.Outputs, out)
		}
		s.Declarations = append(s.Declarations, d)
	}

	return s, nil
}

func waves(e *waveform.Entry) []*waveform.Wave {
	if e.Channel2() == nil {
		return []*waveform.Wave{e.Channel1()}
	}

	return []*waveform.Wave{e.Channel1(), e.Channel2()}
}

func uniqueName(base string, taken ...map[string]int) string {
	name := base
	for {
		clash := false
		for _, m := range taken {
			if _, ok := m[name]; ok {
				clash = true
				break
			}
		}
		if !clash {
			return name
		}
		name += "_"
	}
}
