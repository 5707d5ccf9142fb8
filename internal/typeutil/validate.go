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

// Validate checks the structure reachable from vs: every cycle must pass through the payload of a
// tag union marked recursive, and every type-variable must have been registered. Violations are
// returned as *InternalError.
func (ctx *Context) Validate(vs ...types.Variable) error {
	val := validator{a: ctx.Arena, onStack: make(map[types.Variable]int), done: ctx.Arena.NewMark()}
	for _, v := range vs {
		if err := val.visit(v, 0); err != nil {
			return err
		}
	}
	return nil
}

type validator struct {
	a *types.Arena
	// stack position of each type-variable on the current path
	onStack map[types.Variable]int
	// number of recursive payload edges taken on the path, up to each stack position
	guards []int
	done   types.Mark
}

func (val *validator) visit(v types.Variable, guards int) error {
	root, c := val.a.Resolve(v)
	if pos, ok := val.onStack[root]; ok {
		if guards-val.guards[pos] == 0 {
			return internalf("type-variable %d occurs within its own structure outside of a recursive tag union", root)
		}
		return nil
	}
	if val.a.Marked(root, val.done) {
		return nil
	}
	if val.a.Rank(root) == types.NoRank {
		return internalf("type-variable %d was never registered", root)
	}
	if c.Kind == types.LinkContent {
		return internalf("type-variable %d resolved to a link", root)
	}
	if c.Kind != types.StructureContent {
		val.a.SetMark(root, val.done)
		return nil
	}

	val.onStack[root] = len(val.guards)
	val.guards = append(val.guards, guards)
	union, _ := c.Shape.(*types.FlatTagUnion)
	var err error
	c.Shape.Children(func(child types.Variable, payload bool) {
		if err != nil {
			return
		}
		g := guards
		if payload && union != nil && union.Recursive {
			g++
		}
		err = val.visit(child, g)
	})
	val.guards = val.guards[:len(val.guards)-1]
	delete(val.onStack, root)
	val.a.SetMark(root, val.done)
	return err
}
