// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/rs/zerolog/log"
)

// DefaultMarkerBits is the number of marker lines a table accepts unless
// configured otherwise.
const DefaultMarkerBits = 4

// MaxMarkerBits is the widest marker field a 16-bit word can hold next to
// a sample.
const MaxMarkerBits = 15

// Table maps firmware waveform indices to entries. Indices may be sparse and
// iteration is always in ascending index order.
//
// A Table is not safe for concurrent mutation.
type Table struct {
	entries    map[int]*Entry
	declared   map[int]int
	markerBits int
}

// TableOption customises a Table.
type TableOption func(*Table)

// WithMarkerBits limits marker values to the lowest bits bits. Widths
// outside [0, MaxMarkerBits] fall back to DefaultMarkerBits.
func WithMarkerBits(bits int) TableOption {
	return func(t *Table) { t.markerBits = bits }
}

func NewTable(opts ...TableOption) *Table {
	t := &Table{
		entries:    make(map[int]*Entry),
		declared:   make(map[int]int),
		markerBits: DefaultMarkerBits,
	}
	for _, opt := range opts {
		opt(t)
	}
	if !validMarkerBits(t.markerBits) {
		log.Warn().Int("marker_bits", t.markerBits).Int("default", DefaultMarkerBits).
			Msg("marker width out of range, using default")
		t.markerBits = DefaultMarkerBits
	}

	return t
}

func (t *Table) MarkerBits() int { return t.markerBits }

// Set stores e at index, replacing any previous entry. On error the table is
// left untouched.
func (t *Table) Set(index int, e *Entry) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIndex, index)
	}
	if e == nil {
		return ErrEmpty
	}
	if e.HasMarkers() {
		if err := validateMarkers(e.markers, t.markerBits); err != nil {
			return fmt.Errorf("index %d: %w (%d bits)", index, err, t.markerBits)
		}
	}
	if want, ok := t.declared[index]; ok && want != e.Len() {
		return fmt.Errorf("index %d: %w: got %d, declared %d", index, ErrDeclaredLength, e.Len(), want)
	}

	t.entries[index] = e

	return nil
}

// SetArrays validates and stores raw sample arrays. ch2 and markers may be
// nil.
func (t *Table) SetArrays(index int, ch1, ch2 []float64, markers []uint16) error {
	e, err := NewEntry(ch1, ch2, markers)
	if err != nil {
		return fmt.Errorf("index %d: %w", index, err)
	}

	return t.Set(index, e)
}

// SetWaves stores explicit descriptors. w2 and markers may be nil.
func (t *Table) SetWaves(index int, w1, w2 *Wave, markers []uint16) error {
	e, err := NewEntryFromWaves(w1, w2, markers)
	if err != nil {
		return fmt.Errorf("index %d: %w", index, err)
	}

	return t.Set(index, e)
}

// SetComplex splits a complex array into both channels.
func (t *Table) SetComplex(index int, samples []complex128, markers []uint16) error {
	e, err := NewComplexEntry(samples, markers)
	if err != nil {
		return fmt.Errorf("index %d: %w", index, err)
	}

	return t.Set(index, e)
}

func (t *Table) Get(index int) (*Entry, bool) {
	e, ok := t.entries[index]
	return e, ok
}

// RawVector encodes the entry at index with the table's marker bits and
// zero pads it to target sample positions.
func (t *Table) RawVector(index, target int) (Native, error) {
	e, ok := t.entries[index]
	if !ok {
		return Native{}, fmt.Errorf("%w %d", ErrNoEntry, index)
	}

	n, err := Encoder{MarkerBits: t.markerBits}.EncodeTarget(e, target)
	if err != nil {
		return Native{}, fmt.Errorf("index %d: %w", index, err)
	}

	return n, nil
}

// Delete removes the entry at index. Its declared length, if any, stays.
func (t *Table) Delete(index int) {
	delete(t.entries, index)
}

func (t *Table) Len() int { return len(t.entries) }

// Indexes returns the occupied indices in ascending order.
func (t *Table) Indexes() []int {
	return slices.Sorted(maps.Keys(t.entries))
}

// All yields (index, entry) pairs in ascending index order. Each call
// starts a fresh pass.
func (t *Table) All() iter.Seq2[int, *Entry] {
	return func(yield func(int, *Entry) bool) {
		for _, idx := range t.Indexes() {
			e, ok := t.entries[idx]
			if !ok {
				continue
			}
			if !yield(idx, e) {
				return
			}
		}
	}
}

// Declare pins the current length of every entry. Once a placeholder of
// that size exists on the device, later assignments must keep the length.
func (t *Table) Declare() {
	for idx, e := range t.entries {
		t.declared[idx] = e.Len()
	}
}

// Declared reports the pinned length of index.
func (t *Table) Declared(index int) (int, bool) {
	n, ok := t.declared[index]
	return n, ok
}

// Clear drops every entry and every declared length.
func (t *Table) Clear() {
	clear(t.entries)
	clear(t.declared)
}
