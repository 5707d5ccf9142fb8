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
	"github.com/wdamron/rowinfer/types"
)

const (
	visitedUnguarded uint8 = 1 << iota
	visitedGuarded
)

type occursState struct {
	v       types.Variable
	visited map[types.Variable]uint8
	// outermost tag unions guarding an occurrence of v within one of their payloads
	guards []types.Variable
	// set when v occurs outside of any tag union payload
	unguarded bool
}

// checkOccurs determines whether the unbound type-variable v occurs within the structure t.
//
// Occurrences guarded by a tag union payload form legal recursive types: when every occurrence
// is guarded, the outermost guarding tag unions are marked recursive. Otherwise, a cyclic type
// would be formed and an occurs mismatch is returned.
func (ctx *Context) checkOccurs(v, t types.Variable) error {
	st := &ctx.occurs
	st.v, st.guards, st.unguarded = v, st.guards[:0], false
	for k := range st.visited {
		delete(st.visited, k)
	}
	ctx.walkOccurs(t, types.NoVariable)
	if st.unguarded {
		return &Mismatch{Kind: OccursMismatch, Expected: v, Found: t, Detail: "infinite type"}
	}
	for _, union := range st.guards {
		ctx.markRecursive(union)
	}
	return nil
}

func (ctx *Context) walkOccurs(t, guard types.Variable) {
	st := &ctx.occurs
	a := ctx.Arena
	root, c := a.Resolve(t)
	if root == st.v {
		if guard == types.NoVariable {
			st.unguarded = true
		} else {
			for _, g := range st.guards {
				if g == guard {
					return
				}
			}
			st.guards = append(st.guards, guard)
		}
		return
	}
	if c.Kind != types.StructureContent {
		return
	}
	flags := st.visited[root]
	if guard != types.NoVariable {
		if flags != 0 {
			return
		}
		st.visited[root] = flags | visitedGuarded
	} else {
		if flags&visitedUnguarded != 0 {
			return
		}
		st.visited[root] = flags | visitedUnguarded
	}
	_, isUnion := c.Shape.(*types.FlatTagUnion)
	c.Shape.Children(func(child types.Variable, payload bool) {
		childGuard := guard
		if guard == types.NoVariable && payload && isUnion {
			childGuard = root
		}
		ctx.walkOccurs(child, childGuard)
	})
}

func (ctx *Context) markRecursive(union types.Variable) {
	c := ctx.Arena.Content(union)
	shape, ok := c.Shape.(*types.FlatTagUnion)
	if !ok || shape.Recursive {
		return
	}
	marked := *shape
	marked.Recursive = true
	ctx.Arena.SetContent(union, types.StructureOf(&marked))
}

// See "Efficient Generalization with Levels" (Oleg Kiselyov)
// http://okmij.org/ftp/ML/generalization.html#levels
//
// This implementation follows the sound_eager algorithm: when a type-variable is bound, every
// type-variable within the bound structure is lowered to the rank of the bound type-variable.
// Ranks of nested type-variables never exceed the rank of their parent, so lowering stops at any
// type-variable which is already at or below the given rank.
func (ctx *Context) lowerRanks(t types.Variable, rank types.Rank) {
	a := ctx.Arena
	root, c := a.Resolve(t)
	if a.Rank(root) <= rank {
		return
	}
	a.SetRank(root, rank)
	if c.Kind == types.StructureContent {
		c.Shape.Children(func(child types.Variable, _ bool) {
			ctx.lowerRanks(child, rank)
		})
	}
}

// lowerChildRanks lowers the ranks of the type-variables nested within t to the rank of t.
func (ctx *Context) lowerChildRanks(t types.Variable) {
	a := ctx.Arena
	root, c := a.Resolve(t)
	if c.Kind != types.StructureContent {
		return
	}
	rank := a.Rank(root)
	c.Shape.Children(func(child types.Variable, _ bool) {
		ctx.lowerRanks(child, rank)
	})
}
