// SPDX-License-Identifier: EPL-2.0

package commandtable

import (
	"fmt"
	"maps"
	"slices"
)

func (n *schemaNode) validate(v any, path string, out *[]Violation) {
	for _, c := range n.values {
		r := c.check(v)
		if r == "" {
			continue
		}
		*out = append(*out, Violation{Path: locate(path), Constraint: c.Keyword(), Reason: r})
		if _, ok := c.(TypeConstraint); ok {
			return
		}
	}

	switch x := v.(type) {
	case map[string]any:
		n.validateObject(x, path, out)
	case []any:
		n.validateArray(x, path, out)
	}
}

func (n *schemaNode) validateObject(obj map[string]any, path string, out *[]Violation) {
	for _, r := range n.required {
		if _, ok := obj[r.Property]; !ok {
			*out = append(*out, Violation{
				Path:       joinPath(path, r.Property),
				Constraint: r.Keyword(),
				Reason:     "missing",
			})
		}
	}
	for _, p := range n.pairings {
		if _, ok := obj[p.Trigger]; !ok {
			continue
		}
		for _, need := range p.Requires {
			if _, ok := obj[need]; !ok {
				*out = append(*out, Violation{
					Path:       joinPath(path, need),
					Constraint: p.Keyword(),
					Reason:     "required by " + p.Trigger,
				})
			}
		}
	}
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		child, ok := n.properties[k]
		if !ok {
			if n.closed {
				*out = append(*out, Violation{
					Path:       joinPath(path, k),
					Constraint: "additionalProperties",
					Reason:     "property not allowed",
				})
			}
			continue
		}
		child.validate(obj[k], joinPath(path, k), out)
	}
}

func (n *schemaNode) validateArray(arr []any, path string, out *[]Violation) {
	if n.minItems >= 0 && len(arr) < n.minItems {
		*out = append(*out, Violation{
			Path:       locate(path),
			Constraint: "minItems",
			Reason:     fmt.Sprintf("%d items, want at least %d", len(arr), n.minItems),
		})
	}
	if n.maxItems >= 0 && len(arr) > n.maxItems {
		*out = append(*out, Violation{
			Path:       locate(path),
			Constraint: "maxItems",
			Reason:     fmt.Sprintf("%d items, want at most %d", len(arr), n.maxItems),
		})
	}
	if n.items == nil {
		return
	}
	for i, item := range arr {
		n.items.validate(item, fmt.Sprintf("%s[%d]", path, itemLabel(item, i)), out)
	}
}

// itemLabel addresses table entries by their own index so that document
// violations and node violations name the same location.
func itemLabel(item any, pos int) int {
	obj, ok := item.(map[string]any)
	if !ok {
		return pos
	}
	if f, ok := obj["index"].(float64); ok && f >= 0 && f == float64(int(f)) {
		return int(f)
	}
	return pos
}

func locate(path string) string {
	if path == "" {
		return "$"
	}
	return path
}
