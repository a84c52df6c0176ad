// SPDX-License-Identifier: EPL-2.0

package commandtable

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Entry is one row of the command table. It owns a node for every path
// the schema declares.
type Entry struct {
	index  int
	schema *Schema
	nodes  map[string]*Node
}

func newEntry(s *Schema, index int) *Entry {
	e := &Entry{index: index, schema: s, nodes: make(map[string]*Node, len(s.fields))}
	for path, f := range s.fields {
		e.nodes[path] = &Node{field: f, entry: index}
	}
	return e
}

// Index is the table index of the entry.
func (e *Entry) Index() int { return e.index }

// Node returns the node at path, for example "amplitude0" or
// "waveform.index".
func (e *Entry) Node(path string) (*Node, bool) {
	n, ok := e.nodes[path]
	return n, ok
}

// Set writes v to the node addressed by path. Paths may name a member
// explicitly, as in "amplitude0.value" or "amplitude0.increment".
func (e *Entry) Set(path string, v any) error {
	f, member, err := e.schema.resolve(path)
	if err != nil {
		return err
	}
	return e.nodes[f.Path].set(member, v)
}

// Get reads the member addressed by path.
func (e *Entry) Get(path string) (any, bool) {
	f, member, err := e.schema.resolve(path)
	if err != nil {
		return nil, false
	}
	n := e.nodes[f.Path]
	if member == "increment" {
		inc, ok := n.Increment()
		return inc, ok
	}
	return n.Value()
}

// IsSet reports whether any node of the entry holds a value. Only such
// entries are written to a document.
func (e *Entry) IsSet() bool {
	for _, n := range e.nodes {
		if n.IsSet() {
			return true
		}
	}
	return false
}

// Reset clears every node of the entry.
func (e *Entry) Reset() {
	for _, n := range e.nodes {
		n.Reset()
	}
}

func (e *Entry) record() map[string]any {
	rec := map[string]any{"index": float64(e.index)}
	for _, path := range e.schema.paths {
		n := e.nodes[path]
		if !n.IsSet() {
			continue
		}
		parent := rec
		parts := strings.Split(path, ".")
		for _, p := range parts[:len(parts)-1] {
			child, ok := parent[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				parent[p] = child
			}
			parent = child
		}
		parent[parts[len(parts)-1]] = n.encode()
	}
	return rec
}

// Builder assembles a command table against a schema. Writes are checked
// node by node as they happen; Document checks the whole table.
type Builder struct {
	schema  *Schema
	entries map[int]*Entry
	header  map[string]any
}

// NewBuilder returns an empty builder for s.
func NewBuilder(s *Schema) *Builder {
	return &Builder{schema: s, entries: map[int]*Entry{}, header: map[string]any{}}
}

// Schema returns the schema the builder validates against.
func (b *Builder) Schema() *Schema { return b.schema }

// Entry returns the entry at index, creating it on first use.
func (b *Builder) Entry(index int) (*Entry, error) {
	if e, ok := b.entries[index]; ok {
		return e, nil
	}
	if err := b.schema.checkIndex(index); err != nil {
		return nil, err
	}
	e := newEntry(b.schema, index)
	b.entries[index] = e
	return e, nil
}

// Set writes v to path in the entry at index.
func (b *Builder) Set(index int, path string, v any) error {
	e, err := b.Entry(index)
	if err != nil {
		return err
	}
	return e.Set(path, v)
}

// Get reads path from the entry at index.
func (b *Builder) Get(index int, path string) (any, bool) {
	e, ok := b.entries[index]
	if !ok {
		return nil, false
	}
	return e.Get(path)
}

// SetUserString sets the free text header field.
func (b *Builder) SetUserString(s string) error { return b.setHeader("userString", s) }

// SetPartial marks the table as overwriting only the entries it lists.
func (b *Builder) SetPartial(partial bool) error { return b.setHeader("partial", partial) }

func (b *Builder) setHeader(name string, v any) error {
	if b.schema.header == nil {
		return fmt.Errorf("%w: header.%s", ErrUnknownPath, name)
	}
	n, ok := b.schema.header.properties[name]
	if !ok {
		return fmt.Errorf("%w: header.%s", ErrUnknownPath, name)
	}
	if c, reason := n.check(v); c != nil {
		return &Violation{Path: "header." + name, Constraint: c.Keyword(), Reason: reason}
	}
	b.header[name] = v
	return nil
}

// Indexes lists the entries that hold at least one value, ascending.
func (b *Builder) Indexes() []int {
	out := make([]int, 0, len(b.entries))
	for _, i := range slices.Sorted(maps.Keys(b.entries)) {
		if b.entries[i].IsSet() {
			out = append(out, i)
		}
	}
	return out
}

// Clear resets every node. Entry slots and the header survive.
func (b *Builder) Clear() {
	for _, e := range b.entries {
		e.Reset()
	}
}

// Document validates the whole table against the schema. It returns a
// *DocumentError listing every violation when the table is invalid, even
// if each node passed its own checks.
func (b *Builder) Document() (*Document, error) {
	header := make(map[string]any, len(b.header)+1)
	if b.schema.version != "" {
		header["version"] = b.schema.version
	}
	maps.Copy(header, b.header)

	idx := b.Indexes()
	table := make([]any, len(idx))
	for i, index := range idx {
		table[i] = b.entries[index].record()
	}

	doc := map[string]any{"header": header, "table": table}
	if v := b.schema.Validate(doc); len(v) > 0 {
		return nil, &DocumentError{Violations: v}
	}
	return &Document{header: header, table: table}, nil
}

// Update applies an encoded command table on top of the builder. The
// document is validated first and nothing is applied when it fails.
func (b *Builder) Update(raw []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if v := b.schema.Validate(doc); len(v) > 0 {
		return &DocumentError{Violations: v}
	}

	var errs []Violation
	staged := map[int]*Entry{}
	table, _ := doc["table"].([]any)
	for i, item := range table {
		rec, index, viol := b.record(i, item)
		if viol != nil {
			errs = append(errs, *viol)
			continue
		}
		e, ok := staged[index]
		if !ok {
			e = newEntry(b.schema, index)
			staged[index] = e
		}
		for _, path := range b.schema.paths {
			v, ok := lookup(rec, path)
			if !ok {
				continue
			}
			if err := e.nodes[path].decode(v); err != nil {
				var viol *Violation
				if errors.As(err, &viol) {
					errs = append(errs, *viol)
					continue
				}
				return err
			}
		}
	}
	if len(errs) > 0 {
		return &DocumentError{Violations: errs}
	}

	if h, ok := doc["header"].(map[string]any); ok {
		for _, name := range []string{"userString", "partial"} {
			if v, ok := h[name]; ok {
				b.header[name] = v
			}
		}
	}
	for index, src := range staged {
		dst, err := b.Entry(index)
		if err != nil {
			return err
		}
		for path, n := range src.nodes {
			d := dst.nodes[path]
			if n.hasValue {
				d.value, d.hasValue = n.value, true
			}
			if n.hasIncrement {
				d.increment, d.hasIncrement = n.increment, true
			}
		}
	}
	return nil
}

// record checks that the table item at position pos is an object with a
// usable index. Schemas that leave either open still pass validation.
func (b *Builder) record(pos int, item any) (map[string]any, int, *Violation) {
	at := fmt.Sprintf("table[%d]", pos)
	rec, ok := item.(map[string]any)
	if !ok {
		return nil, 0, &Violation{Path: at, Constraint: "type", Reason: describe(item) + " is not of type object"}
	}
	v, ok := rec["index"]
	if !ok {
		return nil, 0, &Violation{Path: at, Constraint: "required", Reason: "index is required"}
	}
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil, 0, &Violation{Path: at + ".index", Constraint: "type", Reason: describe(v) + " is not of type integer"}
	}
	if err := b.schema.checkIndex(int(f)); err != nil {
		return nil, 0, &Violation{Path: at + ".index", Constraint: "range", Reason: err.Error()}
	}
	return rec, int(f), nil
}

func lookup(m map[string]any, path string) (any, bool) {
	var cur any = m
	for p := range strings.SplitSeq(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}
