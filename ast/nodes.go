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

package ast

import (
	"strconv"

	"github.com/wdamron/rowinfer/types"
)

// NodeID uniquely identifies an expression, pattern or definition within a module.
// The zero NodeID is unassigned.
type NodeID uint32

// Position within a source file. Lines and columns start at 1.
type Position struct {
	Line   int
	Column int
}

// Region spans a range of source text.
type Region struct {
	File  string
	Start Position
	End   Position
}

func (r Region) IsZero() bool { return r.Start.Line == 0 && r.End.Line == 0 }

// String returns `file:line:column`, or `file:?` when the region is unknown.
func (r Region) String() string {
	file := r.File
	if file == "" {
		file = "<unknown>"
	}
	if r.IsZero() {
		return file + ":?"
	}
	return file + ":" + strconv.Itoa(r.Start.Line) + ":" + strconv.Itoa(r.Start.Column)
}

// Less orders regions by file and start position.
func (r Region) Less(other Region) bool {
	if r.File != other.File {
		return r.File < other.File
	}
	if r.Start.Line != other.Start.Line {
		return r.Start.Line < other.Start.Line
	}
	return r.Start.Column < other.Start.Column
}

// Meta is embedded in every node.
type Meta struct {
	ID     NodeID
	Region Region
}

func (m *Meta) Node() *Meta { return m }

// Node is the base for expressions, patterns and definitions.
type Node interface {
	Node() *Meta
}

// Module is a canonicalized module: its imports and top-level definitions. Groups lists the
// definitions in dependency order, each group containing mutually-recursive definitions. When
// Groups is empty, the checker computes the groups from the definitions.
type Module struct {
	Name    string
	Imports []Import
	Defs    []*Def
	Groups  []DefGroup
}

// Import of another module. Exposed names may be referenced without qualification; every
// exported name may be referenced as `Module.name`.
type Import struct {
	Module  string
	Exposed []string
	Region  Region
}

// DefGroup is a group of definitions solved together.
type DefGroup struct {
	Defs      []*Def
	Recursive bool
}

// Definition: `x = e` or, with an annotation, `x : T` followed by `x = e`
type Def struct {
	Meta
	Pattern Pattern
	Value   Expr
	// Annotation is optional. Named type-variables within the annotation are rigid.
	Annotation     types.Type
	AnnotationSpan Region
}

// Name returns the identifier bound by a definition, or "" if the definition binds a
// destructuring pattern.
func (d *Def) Name() string {
	if pv, ok := d.Pattern.(*PVar); ok {
		return pv.Name
	}
	return ""
}
