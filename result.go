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

package rowinfer

import (
	"errors"

	"github.com/google/uuid"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/diagnostics"
	"github.com/wdamron/rowinfer/internal/solve"
	"github.com/wdamron/rowinfer/types"
)

// ErrInternal wraps defects of the checker itself, such as a corrupted arena. Type errors in the
// checked program are never reported as Go errors; see Result.Diagnostics.
var ErrInternal = errors.New("internal type checker error")

// Result of checking a module.
type Result struct {
	Module string
	// Identity of the arena the module was solved in. Types within the result are trees which no
	// longer refer to the arena.
	ArenaID uuid.UUID
	// Generalized types of top-level identifiers.
	Exports map[string]types.Type
	// Top-level identifiers in definition order.
	ExportNames []string
	// Diagnostics in the order they were found.
	Diagnostics []*diagnostics.Diagnostic

	nodes *solve.SolvedEnv
}

// TypeOf returns the solved type of an expression, pattern or definition.
func (r *Result) TypeOf(id ast.NodeID) (types.Type, bool) { return r.nodes.Lookup(id) }

// Nodes returns the sorted ids of every node with a solved type.
func (r *Result) Nodes() []ast.NodeID { return r.nodes.Nodes() }

// OK reports whether the module type-checked without errors.
func (r *Result) OK() bool { return len(r.Diagnostics) == 0 }

// ExportString returns the printed type of a top-level identifier, or "" if it is not exported.
func (r *Result) ExportString(name string) string {
	t, ok := r.Exports[name]
	if !ok {
		return ""
	}
	return types.TypeString(t)
}
