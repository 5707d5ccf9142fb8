// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package typeutil

import (
	"fmt"
	"strings"

	"github.com/wdamron/rowinfer/types"
)

// MismatchKind classifies a failed unification.
type MismatchKind uint8

const (
	// Incompatible type-constructors, such as a function and a record.
	ShapeMismatch MismatchKind = iota
	// Functions, type applications or tag payloads with differing numbers of arguments.
	ArityMismatch
	// A closed record or tag union would gain or lose labels.
	RowMismatch
	// A rigid type-variable would be bound to a type other than itself.
	RigidMismatch
	// A type-variable would occur within its own (non-recursive) structure.
	OccursMismatch
)

func (k MismatchKind) String() string {
	switch k {
	case ShapeMismatch:
		return "shape"
	case ArityMismatch:
		return "arity"
	case RowMismatch:
		return "row"
	case RigidMismatch:
		return "rigid"
	case OccursMismatch:
		return "occurs"
	}
	return "unknown"
}

// Mismatch is returned when two types cannot be unified. Expected and Found are the innermost
// type-variables which failed to unify; Path lists the labels, arguments and tags leading to them.
//
// For row mismatches, Missing lists the labels expected but not found, which the found row cannot
// gain, and Extra lists the labels found but not expected, which the expected row cannot gain.
type Mismatch struct {
	Kind     MismatchKind
	Expected types.Variable
	Found    types.Variable
	Path     []string
	Missing  []string
	Extra    []string
	Detail   string
}

func (m *Mismatch) Error() string {
	var sb strings.Builder
	sb.WriteString(m.Kind.String())
	sb.WriteString(" mismatch")
	if len(m.Path) > 0 {
		sb.WriteString(" at ")
		sb.WriteString(strings.Join(m.Path, "."))
	}
	if m.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(m.Detail)
	}
	if len(m.Missing) > 0 {
		sb.WriteString("; missing ")
		sb.WriteString(strings.Join(m.Missing, ", "))
	}
	if len(m.Extra) > 0 {
		sb.WriteString("; unexpected ")
		sb.WriteString(strings.Join(m.Extra, ", "))
	}
	return sb.String()
}

// within prepends a path element to a mismatch.
func within(err error, elem string) error {
	if m, ok := err.(*Mismatch); ok {
		m.Path = append([]string{elem}, m.Path...)
	}
	return err
}

// LimitError is returned when unification or instantiation exceeds a configured limit.
type LimitError struct {
	Limit string
	Max   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("type too complex: %s exceeded (%d)", e.Limit, e.Max)
}

// InternalError signals a corrupted arena or solver state. It indicates a defect in the checker,
// not an error in the program being checked.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return "internal error: " + e.Message }

func internalf(format string, args ...interface{}) error {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}
