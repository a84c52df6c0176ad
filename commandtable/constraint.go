// SPDX-License-Identifier: EPL-2.0

package commandtable

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Constraint is one rule taken from a schema. The set of implementations
// is closed: TypeConstraint, RangeConstraint, LengthConstraint,
// EnumConstraint, RequiredConstraint and PairingConstraint.
type Constraint interface {
	// Keyword is the schema keyword the rule came from.
	Keyword() string
	String() string
	constraint()
}

// valueConstraint is a rule that applies to a single value.
type valueConstraint interface {
	Constraint
	// check returns an empty string when v satisfies the rule.
	check(v any) string
}

// TypeConstraint restricts a value to one of the listed JSON types.
type TypeConstraint struct {
	Types []string
}

func (TypeConstraint) Keyword() string { return "type" }
func (TypeConstraint) constraint()     {}

func (c TypeConstraint) String() string {
	return "type " + strings.Join(c.Types, "|")
}

func (c TypeConstraint) check(v any) string {
	for _, t := range c.Types {
		if hasType(v, t) {
			return ""
		}
	}
	return fmt.Sprintf("%s is not of type %s", describe(v), strings.Join(c.Types, "|"))
}

// RangeConstraint bounds a number. A nil bound is open.
type RangeConstraint struct {
	Min *float64
	Max *float64
}

func (c RangeConstraint) Keyword() string {
	switch {
	case c.Min != nil && c.Max == nil:
		return "minimum"
	case c.Min == nil && c.Max != nil:
		return "maximum"
	}
	return "range"
}

func (RangeConstraint) constraint() {}

func (c RangeConstraint) String() string {
	lo, hi := "-inf", "+inf"
	if c.Min != nil {
		lo = formatNumber(*c.Min)
	}
	if c.Max != nil {
		hi = formatNumber(*c.Max)
	}
	return "range [" + lo + ", " + hi + "]"
}

func (c RangeConstraint) check(v any) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	if c.Min != nil && f < *c.Min {
		return fmt.Sprintf("%s is below minimum %s", formatNumber(f), formatNumber(*c.Min))
	}
	if c.Max != nil && f > *c.Max {
		return fmt.Sprintf("%s exceeds maximum %s", formatNumber(f), formatNumber(*c.Max))
	}
	return ""
}

// LengthConstraint limits the number of characters in a string.
type LengthConstraint struct {
	Max int
}

func (LengthConstraint) Keyword() string { return "maxLength" }
func (LengthConstraint) constraint()     {}

func (c LengthConstraint) String() string { return "maxLength " + strconv.Itoa(c.Max) }

func (c LengthConstraint) check(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	if n := utf8.RuneCountInString(s); n > c.Max {
		return fmt.Sprintf("%d characters exceed maxLength %d", n, c.Max)
	}
	return ""
}

// EnumConstraint restricts a value to a fixed set.
type EnumConstraint struct {
	Values []any
}

func (EnumConstraint) Keyword() string { return "enum" }
func (EnumConstraint) constraint()     {}

func (c EnumConstraint) String() string { return "enum " + c.list() }

func (c EnumConstraint) list() string {
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = describe(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (c EnumConstraint) check(v any) string {
	if slices.Contains(c.Values, v) {
		return ""
	}
	return fmt.Sprintf("%s is not one of %s", describe(v), c.list())
}

// RequiredConstraint demands that an object carries Property.
type RequiredConstraint struct {
	Property string
}

func (RequiredConstraint) Keyword() string  { return "required" }
func (RequiredConstraint) constraint()      {}
func (c RequiredConstraint) String() string { return "required " + c.Property }

// PairingConstraint demands that the Requires properties are present
// whenever Trigger is, as in an increment flag that needs a value.
type PairingConstraint struct {
	Trigger  string
	Requires []string
}

func (PairingConstraint) Keyword() string { return "dependencies" }
func (PairingConstraint) constraint()     {}

func (c PairingConstraint) String() string {
	return c.Trigger + " requires " + strings.Join(c.Requires, ", ")
}

func hasType(v any, t string) bool {
	switch t {
	case "number":
		_, ok := v.(float64)
		return ok
	case "integer":
		f, ok := v.(float64)
		return ok && f == math.Trunc(f)
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "null":
		return v == nil
	}
	return false
}

// normalize maps Go scalars onto the JSON value model used by the
// validator: float64, bool and string.
func normalize(v any) (any, bool) {
	var f float64
	switch x := v.(type) {
	case bool, string:
		return x, true
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return nil, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

func describe(v any) string {
	switch x := v.(type) {
	case float64:
		return formatNumber(x)
	case string:
		return strconv.Quote(x)
	case nil:
		return "null"
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
