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

// Package constraint defines the constraint tree produced by constraint generation and consumed
// by the solver. Types within constraints are trees whose type-variables refer to the arena of the
// module being checked.
package constraint

import (
	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/types"
)

// Constraint is the base for all constraints.
type Constraint interface {
	ConstraintName() string
}

var (
	_ Constraint = True{}
	_ Constraint = (*And)(nil)
	_ Constraint = (*Equal)(nil)
	_ Constraint = (*Pattern)(nil)
	_ Constraint = (*Lookup)(nil)
	_ Constraint = (*IncludesTag)(nil)
	_ Constraint = (*CloseUnion)(nil)
	_ Constraint = (*Let)(nil)
)

// Trivially satisfied constraint.
type True struct{}

// Conjunction, solved in order.
type And struct {
	Constraints []Constraint
}

// Equal requires the type found at a node to unify with the type expected by its context.
type Equal struct {
	Found    types.Type
	Expected types.Type
	Region   ast.Region
	Context  Context
}

// Pattern requires the type of a pattern to unify with the type of the value it matches.
type Pattern struct {
	Found    types.Type
	Expected types.Type
	Region   ast.Region
	Context  Context
}

// Lookup requires an instance of the scheme bound to Name to unify with Type.
type Lookup struct {
	Name   string
	Type   types.Type
	Region ast.Region
}

// IncludesTag requires the tag union Type to include Tag with the given payloads: Type is unified
// with `[Tag payloads... | r]` for a fresh extension r.
type IncludesTag struct {
	Type     types.Type
	Tag      string
	Payloads []types.Type
	Region   ast.Region
	Context  Context
}

// CloseUnion closes the tag union Type: an unbound extension is bound to the empty union. It is
// raised for `when` expressions without a catch-all branch.
type CloseUnion struct {
	Type   types.Type
	Region ast.Region
}

// Binding of a name within a Let.
type Binding struct {
	Name   string
	Type   types.Type
	Region ast.Region
}

// Let introduces Bindings for the scope of Body.
//
// A generalizing Let registers its Rigid and Flex type-variables one rank deeper than the
// enclosing scope, solves Defs at that rank, and generalizes the Bindings before solving Body.
// Within a recursive Let, the Bindings are visible (monomorphically) while solving Defs.
//
// A non-generalizing Let (lambda arguments, pattern branches) solves Defs and Body at the rank of
// the enclosing scope; its type-variables were registered by an enclosing generalizing Let.
//
// Node types listed in Finalize are recorded once the Bindings have been generalized.
type Let struct {
	Rigid      []types.Variable
	Flex       []types.Variable
	Bindings   []Binding
	Defs       Constraint
	Body       Constraint
	Generalize bool
	Recursive  bool
	Finalize   []ast.NodeID
}

func (True) ConstraintName() string           { return "True" }
func (c *And) ConstraintName() string         { return "And" }
func (c *Equal) ConstraintName() string       { return "Equal" }
func (c *Pattern) ConstraintName() string     { return "Pattern" }
func (c *Lookup) ConstraintName() string      { return "Lookup" }
func (c *IncludesTag) ConstraintName() string { return "IncludesTag" }
func (c *CloseUnion) ConstraintName() string  { return "CloseUnion" }
func (c *Let) ConstraintName() string         { return "Let" }

// All returns the conjunction of cs, dropping trivial constraints.
func All(cs ...Constraint) Constraint {
	var out []Constraint
	for _, c := range cs {
		switch c := c.(type) {
		case nil, True:
		case *And:
			out = append(out, c.Constraints...)
		default:
			out = append(out, c)
		}
	}
	switch len(out) {
	case 0:
		return True{}
	case 1:
		return out[0]
	}
	return &And{Constraints: out}
}

// Count returns the number of constraints within c, including c.
func Count(c Constraint) int {
	n := 1
	switch c := c.(type) {
	case *And:
		for _, inner := range c.Constraints {
			n += Count(inner)
		}
	case *Let:
		n += Count(c.Defs) + Count(c.Body)
	}
	return n
}
