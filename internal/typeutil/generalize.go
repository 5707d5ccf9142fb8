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
	set "github.com/hashicorp/go-set/v3"

	"github.com/wdamron/rowinfer/types"
)

// Generalize quantifies every type-variable reachable from vs whose rank is greater than rank,
// by moving it to GenericRank. The quantified unbound and rigid type-variables are returned.
//
// See "Efficient Generalization with Levels" (Oleg Kiselyov) -- http://okmij.org/ftp/ML/generalization.html#levels
//
// Ranks of nested type-variables never exceed the rank of their parent, so the traversal stops at
// any type-variable at or below the given rank. Structures which contain no quantified
// type-variables are lowered to the given rank instead, so that instantiation can share them.
func (ctx *Context) Generalize(rank types.Rank, vs ...types.Variable) *set.Set[types.Variable] {
	quantified := set.New[types.Variable](0)
	for _, v := range vs {
		ctx.visitTypeVars(rank, v, quantified)
	}
	return quantified
}

// visitTypeVars reports whether v is generic after generalization.
func (ctx *Context) visitTypeVars(rank types.Rank, v types.Variable, quantified *set.Set[types.Variable]) bool {
	a := ctx.Arena
	root, c := a.Resolve(v)
	r := a.Rank(root)
	if r == types.GenericRank {
		// generalized earlier, or on the current path through a recursive tag union
		return true
	}
	if r <= rank {
		return false
	}
	switch c.Kind {
	case types.UnboundContent, types.RigidContent:
		a.SetRank(root, types.GenericRank)
		quantified.Insert(root)
		return true
	case types.StructureContent:
		a.SetRank(root, types.GenericRank)
		generic := false
		c.Shape.Children(func(child types.Variable, _ bool) {
			if ctx.visitTypeVars(rank, child, quantified) {
				generic = true
			}
		})
		if !generic {
			a.SetRank(root, rank)
		}
		return generic
	}
	a.SetRank(root, rank)
	return false
}

// IsGeneric reports whether v was generalized.
func (ctx *Context) IsGeneric(v types.Variable) bool {
	return ctx.Arena.Rank(v) == types.GenericRank
}
