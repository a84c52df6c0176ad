// SPDX-License-Identifier: EPL-2.0

package commandtable

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSchema   = errors.New("invalid command table schema")
	ErrUnknownDevice   = errors.New("no command table schema for device")
	ErrUnknownPath     = errors.New("unknown command table node")
	ErrViolation       = errors.New("command table constraint violated")
	ErrInvalidDocument = errors.New("invalid command table document")
	ErrEntryIndex      = errors.New("command table index out of range")
)

// Violation names the node that broke a constraint and the constraint itself.
type Violation struct {
	Path       string
	Constraint string
	Reason     string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s: %s", v.Path, v.Constraint, v.Reason)
}

func (v *Violation) Is(target error) bool { return target == ErrViolation }

// DocumentError collects every violation found while validating a whole
// document.
type DocumentError struct {
	Violations []Violation
}

func (e *DocumentError) Error() string {
	var b strings.Builder
	b.WriteString(ErrInvalidDocument.Error())
	for i := range e.Violations {
		b.WriteString("\n\t")
		b.WriteString(e.Violations[i].Error())
	}
	return b.String()
}

func (e *DocumentError) Is(target error) bool {
	return target == ErrInvalidDocument || target == ErrViolation
}
