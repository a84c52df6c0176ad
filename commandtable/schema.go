// SPDX-License-Identifier: EPL-2.0

package commandtable

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// rawSchema is the subset of JSON Schema that device command table
// schemas use.
type rawSchema struct {
	Ref                  string                `json:"$ref"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	Type                 typeList              `json:"type"`
	Properties           map[string]*rawSchema `json:"properties"`
	Required             []string              `json:"required"`
	AdditionalProperties *bool                 `json:"additionalProperties"`
	Dependencies         map[string][]string   `json:"dependencies"`
	Minimum              *float64              `json:"minimum"`
	Maximum              *float64              `json:"maximum"`
	MaxLength            *int                  `json:"maxLength"`
	Enum                 []any                 `json:"enum"`
	Items                *rawSchema            `json:"items"`
	MinItems             *int                  `json:"minItems"`
	MaxItems             *int                  `json:"maxItems"`
	Default              any                   `json:"default"`
	Definitions          map[string]*rawSchema `json:"definitions"`
}

// typeList accepts both "type": "x" and "type": ["x", "y"].
type typeList []string

func (t *typeList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*t = typeList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("type must be a string or a list of strings: %w", err)
	}
	*t = many
	return nil
}

// schemaNode is a compiled schema with every $ref resolved.
type schemaNode struct {
	description string
	types       []string
	values      []valueConstraint
	properties  map[string]*schemaNode
	order       []string
	required    []RequiredConstraint
	pairings    []PairingConstraint
	closed      bool
	items       *schemaNode
	minItems    int
	maxItems    int
	def         any
}

func (n *schemaNode) isObject() bool {
	return slices.Contains(n.types, "object") || (len(n.types) == 0 && len(n.properties) > 0)
}

// check runs the value constraints and returns the first one that fails.
func (n *schemaNode) check(v any) (Constraint, string) {
	for _, c := range n.values {
		if r := c.check(v); r != "" {
			return c, r
		}
	}
	return nil, ""
}

type compiler struct {
	defs     map[string]*rawSchema
	done     map[string]*schemaNode
	visiting map[string]bool
}

func (c *compiler) compile(r *rawSchema) (*schemaNode, error) {
	if r.Ref != "" {
		name, ok := strings.CutPrefix(r.Ref, "#/definitions/")
		if !ok {
			return nil, fmt.Errorf("%w: unsupported reference %q", ErrInvalidSchema, r.Ref)
		}
		if n, ok := c.done[name]; ok {
			return n, nil
		}
		def, ok := c.defs[name]
		if !ok {
			return nil, fmt.Errorf("%w: undefined reference %q", ErrInvalidSchema, r.Ref)
		}
		if c.visiting[name] {
			return nil, fmt.Errorf("%w: recursive reference %q", ErrInvalidSchema, r.Ref)
		}
		c.visiting[name] = true
		n, err := c.compile(def)
		delete(c.visiting, name)
		if err != nil {
			return nil, err
		}
		c.done[name] = n
		return n, nil
	}

	n := &schemaNode{
		description: r.Description,
		types:       r.Type,
		minItems:    -1,
		maxItems:    -1,
		def:         r.Default,
	}
	if len(r.Type) > 0 {
		n.values = append(n.values, TypeConstraint{Types: r.Type})
	}
	if r.Minimum != nil || r.Maximum != nil {
		n.values = append(n.values, RangeConstraint{Min: r.Minimum, Max: r.Maximum})
	}
	if r.MaxLength != nil {
		n.values = append(n.values, LengthConstraint{Max: *r.MaxLength})
	}
	if len(r.Enum) > 0 {
		n.values = append(n.values, EnumConstraint{Values: r.Enum})
	}

	if len(r.Properties) > 0 {
		n.properties = make(map[string]*schemaNode, len(r.Properties))
		n.order = slices.Sorted(maps.Keys(r.Properties))
		for _, name := range n.order {
			child, err := c.compile(r.Properties[name])
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", name, err)
			}
			n.properties[name] = child
		}
	}
	for _, p := range r.Required {
		n.required = append(n.required, RequiredConstraint{Property: p})
	}
	for _, trigger := range slices.Sorted(maps.Keys(r.Dependencies)) {
		n.pairings = append(n.pairings, PairingConstraint{
			Trigger:  trigger,
			Requires: slices.Clone(r.Dependencies[trigger]),
		})
	}
	n.closed = r.AdditionalProperties != nil && !*r.AdditionalProperties

	if r.Items != nil {
		items, err := c.compile(r.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		n.items = items
	}
	if r.MinItems != nil {
		n.minItems = *r.MinItems
	}
	if r.MaxItems != nil {
		n.maxItems = *r.MaxItems
	}
	return n, nil
}

// Field describes one settable node of a table entry.
type Field struct {
	// Path addresses the node inside an entry, for example "amplitude0"
	// or "waveform.index".
	Path        string
	Description string
	// Incremental is true when the node also takes an increment flag.
	Incremental bool

	grouped bool
	value   *schemaNode
}

// Constraints lists the rules a value written to the node must satisfy.
func (f *Field) Constraints() []Constraint {
	out := make([]Constraint, len(f.value.values))
	for i, c := range f.value.values {
		out[i] = c
	}
	return out
}

// Default returns the schema default of the node, if any.
func (f *Field) Default() (any, bool) {
	return f.value.def, f.value.def != nil
}

// Schema is a compiled command table schema. The set of node paths an
// entry accepts is fixed once the schema is loaded. A Schema is immutable
// and safe to share.
type Schema struct {
	title      string
	version    string
	root       *schemaNode
	header     *schemaNode
	index      *schemaNode
	maxEntries int
	fields     map[string]*Field
	paths      []string
}

// LoadSchema compiles a JSON schema document describing a command table.
func LoadSchema(raw []byte) (*Schema, error) {
	var r rawSchema
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	c := &compiler{
		defs:     r.Definitions,
		done:     map[string]*schemaNode{},
		visiting: map[string]bool{},
	}
	root, err := c.compile(&r)
	if err != nil {
		return nil, err
	}

	table, ok := root.properties["table"]
	if !ok || table.items == nil || !table.items.isObject() {
		return nil, fmt.Errorf("%w: no table of entry objects", ErrInvalidSchema)
	}
	entry := table.items

	s := &Schema{
		title:      r.Title,
		root:       root,
		header:     root.properties["header"],
		index:      entry.properties["index"],
		maxEntries: table.maxItems,
		fields:     map[string]*Field{},
	}
	if s.index == nil {
		return nil, fmt.Errorf("%w: entries have no index", ErrInvalidSchema)
	}
	if s.header != nil {
		s.version = defaultVersion(s.header.properties["version"])
	}

	collectFields("", entry, s.fields)
	if len(s.fields) == 0 {
		return nil, fmt.Errorf("%w: entries have no settable nodes", ErrInvalidSchema)
	}
	s.paths = slices.Sorted(maps.Keys(s.fields))
	return s, nil
}

func defaultVersion(n *schemaNode) string {
	if n == nil {
		return ""
	}
	if v, ok := n.def.(string); ok {
		return v
	}
	for _, c := range n.values {
		if e, ok := c.(EnumConstraint); ok && len(e.Values) > 0 {
			if v, ok := e.Values[0].(string); ok {
				return v
			}
		}
	}
	return ""
}

// collectFields enumerates the settable nodes below an entry. An object
// with a "value" property is a single node, other objects are descended
// into and scalars are nodes of their own.
func collectFields(prefix string, n *schemaNode, out map[string]*Field) {
	for _, name := range n.order {
		if prefix == "" && name == "index" {
			continue
		}
		child := n.properties[name]
		path := joinPath(prefix, name)
		if value, ok := child.properties["value"]; ok && child.isObject() {
			_, inc := child.properties["increment"]
			out[path] = &Field{
				Path:        path,
				Description: child.description,
				Incremental: inc,
				grouped:     true,
				value:       value,
			}
			continue
		}
		if child.isObject() {
			collectFields(path, child, out)
			continue
		}
		out[path] = &Field{Path: path, Description: child.description, value: child}
	}
}

// Title is the schema title.
func (s *Schema) Title() string { return s.title }

// Version is the header version written into generated documents.
func (s *Schema) Version() string { return s.version }

// MaxEntries is the table capacity, or -1 when the schema sets none.
func (s *Schema) MaxEntries() int { return s.maxEntries }

// Paths lists every node path an entry accepts, sorted.
func (s *Schema) Paths() []string { return slices.Clone(s.paths) }

// Field looks up a node by its path.
func (s *Schema) Field(path string) (*Field, bool) {
	f, ok := s.fields[path]
	return f, ok
}

// resolve maps a write path onto a node and the member written: "value"
// or "increment". "amplitude0", "amplitude0.value" and
// "amplitude0.increment" all address the amplitude0 node.
func (s *Schema) resolve(path string) (*Field, string, error) {
	if f, ok := s.fields[path]; ok {
		return f, "value", nil
	}
	if i := strings.LastIndexByte(path, '.'); i > 0 {
		member := path[i+1:]
		if f, ok := s.fields[path[:i]]; ok && f.grouped && (member == "value" || member == "increment") {
			return f, member, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknownPath, path)
}

func (s *Schema) checkIndex(index int) error {
	if c, reason := s.index.check(float64(index)); c != nil {
		return fmt.Errorf("%w: %d: %s", ErrEntryIndex, index, reason)
	}
	if s.maxEntries >= 0 && index >= s.maxEntries {
		return fmt.Errorf("%w: %d: table holds %d entries", ErrEntryIndex, index, s.maxEntries)
	}
	return nil
}

// Validate checks a decoded JSON document against the whole schema and
// returns every violation found.
func (s *Schema) Validate(doc any) []Violation {
	var out []Violation
	s.root.validate(doc, "", &out)
	return out
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
