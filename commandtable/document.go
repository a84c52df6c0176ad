// SPDX-License-Identifier: EPL-2.0

package commandtable

import (
	"encoding/json"
	"fmt"
)

// Document is a command table that passed whole-schema validation.
type Document struct {
	header map[string]any
	table  []any
}

// Version is the header version of the document.
func (d *Document) Version() string {
	v, _ := d.header["version"].(string)
	return v
}

// UserString is the free text header field.
func (d *Document) UserString() string {
	v, _ := d.header["userString"].(string)
	return v
}

// Partial reports whether the table overwrites only the entries it lists.
func (d *Document) Partial() bool {
	v, _ := d.header["partial"].(bool)
	return v
}

// Len is the number of entries in the table.
func (d *Document) Len() int { return len(d.table) }

// Indexes lists the entry indices in document order.
func (d *Document) Indexes() []int {
	out := make([]int, len(d.table))
	for i, rec := range d.table {
		out[i] = Record(rec.(map[string]any)).Index()
	}
	return out
}

// Entry returns the record for the table entry at index.
func (d *Document) Entry(index int) (Record, bool) {
	for _, rec := range d.table {
		r := Record(rec.(map[string]any))
		if r.Index() == index {
			return r, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the document in the device wire format.
func (d *Document) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(map[string]any{"header": d.header, "table": d.table})
	if err != nil {
		return nil, fmt.Errorf("encoding command table: %w", err)
	}
	return b, nil
}

// Record is one encoded table entry.
type Record map[string]any

// Index is the table index of the record.
func (r Record) Index() int {
	f, _ := r["index"].(float64)
	return int(f)
}

// Get reads a dotted path such as "waveform.index" or "amplitude0.value".
// Numbers are float64.
func (r Record) Get(path string) (any, bool) {
	return lookup(r, path)
}
