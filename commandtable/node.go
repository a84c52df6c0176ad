// SPDX-License-Identifier: EPL-2.0

package commandtable

import "fmt"

// Node is one settable field of a table entry. It starts unset. A write
// that passes the field's constraints stores the value; a rejected write
// leaves the node as it was.
type Node struct {
	field *Field
	entry int

	value        any
	hasValue     bool
	increment    bool
	hasIncrement bool
}

// Field returns the schema description of the node.
func (n *Node) Field() *Field { return n.field }

// Path is the node path inside its entry.
func (n *Node) Path() string { return n.field.Path }

// IsSet reports whether any member of the node holds a value.
func (n *Node) IsSet() bool { return n.hasValue || n.hasIncrement }

// Value is the stored value in JSON form: float64, bool or string.
func (n *Node) Value() (any, bool) { return n.value, n.hasValue }

// Increment is the stored increment flag.
func (n *Node) Increment() (bool, bool) { return n.increment, n.hasIncrement }

// SetValue checks v against the node's value constraints and stores it.
func (n *Node) SetValue(v any) error {
	nv, ok := normalize(v)
	if !ok {
		return &Violation{
			Path:       n.location("value"),
			Constraint: "type",
			Reason:     fmt.Sprintf("unsupported value %v (%T)", v, v),
		}
	}
	if c, reason := n.field.value.check(nv); c != nil {
		return &Violation{Path: n.location("value"), Constraint: c.Keyword(), Reason: reason}
	}
	n.value, n.hasValue = nv, true
	return nil
}

// SetIncrement stores the increment flag of a node that takes one.
func (n *Node) SetIncrement(inc bool) error {
	if !n.field.Incremental {
		return &Violation{
			Path:       n.location("increment"),
			Constraint: "additionalProperties",
			Reason:     "node takes no increment",
		}
	}
	n.increment, n.hasIncrement = inc, true
	return nil
}

// Reset returns the node to the unset state.
func (n *Node) Reset() {
	n.value, n.hasValue = nil, false
	n.increment, n.hasIncrement = false, false
}

func (n *Node) set(member string, v any) error {
	if member == "value" {
		return n.SetValue(v)
	}
	inc, ok := v.(bool)
	if !ok {
		return &Violation{
			Path:       n.location("increment"),
			Constraint: "type",
			Reason:     fmt.Sprintf("%s is not of type boolean", describe(v)),
		}
	}
	return n.SetIncrement(inc)
}

func (n *Node) location(member string) string {
	path := n.field.Path
	if n.field.grouped {
		path += "." + member
	}
	return fmt.Sprintf("table[%d].%s", n.entry, path)
}

// encode returns the JSON form of the node.
func (n *Node) encode() any {
	if !n.field.grouped {
		return n.value
	}
	m := make(map[string]any, 2)
	if n.hasValue {
		m["value"] = n.value
	}
	if n.hasIncrement {
		m["increment"] = n.increment
	}
	return m
}

// decode stores the JSON form of a node. It runs the same checks as
// SetValue and SetIncrement.
func (n *Node) decode(v any) error {
	if !n.field.grouped {
		return n.SetValue(v)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return &Violation{
			Path:       fmt.Sprintf("table[%d].%s", n.entry, n.field.Path),
			Constraint: "type",
			Reason:     fmt.Sprintf("%s is not of type object", describe(v)),
		}
	}
	if val, ok := m["value"]; ok {
		if err := n.SetValue(val); err != nil {
			return err
		}
	}
	if inc, ok := m["increment"]; ok {
		if err := n.set("increment", inc); err != nil {
			return err
		}
	}
	return nil
}
