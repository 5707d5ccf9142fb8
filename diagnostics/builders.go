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

package diagnostics

import (
	"strings"

	"github.com/samber/lo"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/constraint"
	"github.com/wdamron/rowinfer/types"
)

// Failure is the raw record of an error found by the solver. Types are snapshots exported from
// the module's arena before the failed unification was applied.
type Failure struct {
	Kind    Kind
	Region  ast.Region
	Context constraint.Context
	// The unbound name, or the definition whose type could not be computed.
	Name string
	// Outer types of the failed constraint.
	Expected types.Type
	Found    types.Type
	// Innermost types which failed to unify, and the path leading to them.
	InnerExpected types.Type
	InnerFound    types.Type
	Path          []string
	Missing       []string
	Extra         []string
	Detail        string
}

// Build converts a failure within module into a diagnostic.
func Build(module string, f Failure) *Diagnostic {
	where := f.Context.String()
	var d *Diagnostic
	switch f.Kind {
	case UnboundName:
		d = UnboundNameError(f.Name)
	case RecursionLimitExceeded:
		d = NewDiagnostic(RecursionLimitExceeded, "type too complex in "+where).
			WithHelp("add a type annotation or split the definition")
		if f.Detail != "" {
			d.WithNote(f.Detail)
		}
		if f.Name != "" {
			d.WithNote("the type of `" + f.Name + "` is unknown")
		}
	case RowMismatch:
		d = NewDiagnostic(RowMismatch, rowMessage(f, where))
	case OccursCheckFailure:
		d = NewDiagnostic(OccursCheckFailure, "infinite type in "+where).
			WithHelp("recursive types must be tag unions")
	default:
		d = NewDiagnostic(TypeMismatch, "type mismatch in "+where)
	}
	d.WithLocation(module, f.Region).WithContext(where).WithLabels(f.Missing, f.Extra)
	if f.Expected == nil || f.Found == nil {
		return d
	}

	snapshots := []types.Type{f.Expected, f.Found}
	hasInner := f.InnerExpected != nil && f.InnerFound != nil
	if hasInner {
		snapshots = append(snapshots, f.InnerExpected, f.InnerFound)
	}
	texts := types.TypeStrings(snapshots...)
	d.Expected, d.Found = f.Expected, f.Found
	d.ExpectedText, d.FoundText = texts[0], texts[1]
	if f.Kind == TypeMismatch || f.Kind == OccursCheckFailure {
		d.Message += ": expected " + texts[0] + ", found " + texts[1]
	}
	if hasInner && (texts[2] != texts[0] || texts[3] != texts[1]) {
		note := texts[2] + " does not unify with " + texts[3]
		if len(f.Path) > 0 {
			note += " at " + strings.Join(f.Path, ".")
		}
		d.WithNote(note)
	}
	if f.Detail != "" && f.Kind != RecursionLimitExceeded {
		d.WithNote(f.Detail)
	}
	return d
}

// UnboundNameError creates a diagnostic for a name which is not in scope.
func UnboundNameError(name string) *Diagnostic {
	return NewDiagnostic(UnboundName, "unbound name `"+name+"`").
		WithHelp("check that the name is defined or imported")
}

func rowMessage(f Failure, where string) string {
	noun, what := "field", "record"
	if isUnion(lo.Ternary(f.InnerExpected != nil, f.InnerExpected, f.Expected)) {
		noun, what = "tag", "tag union"
	}
	var parts []string
	if len(f.Extra) > 0 {
		parts = append(parts, "unexpected "+plural(noun, len(f.Extra))+" "+strings.Join(f.Extra, ", "))
	}
	if len(f.Missing) > 0 {
		parts = append(parts, "missing "+plural(noun, len(f.Missing))+" "+strings.Join(f.Missing, ", "))
	}
	msg := what + " mismatch in " + where
	if len(parts) > 0 {
		msg += ": " + strings.Join(parts, "; ")
	}
	return msg
}

func isUnion(t types.Type) bool {
	switch t := t.(type) {
	case *types.Variant:
		return true
	case *types.Recursive:
		return isUnion(t.Body)
	case *types.Alias:
		return isUnion(t.Real)
	}
	return false
}

func plural(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
