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

// Default limits:
const (
	DefaultMaxUnifyDepth        = 2000
	DefaultMaxInstantiationSize = 100000
)

type varPair struct {
	a, b types.Variable
}

func orderedPair(a, b types.Variable) varPair {
	if a > b {
		a, b = b, a
	}
	return varPair{a, b}
}

// Context holds the state shared by unification, generalization and instantiation over one arena.
type Context struct {
	Arena *types.Arena
	// Maximum nesting of unification steps. Zero disables the limit.
	MaxUnifyDepth int
	// Maximum tree size of a single instance, counting shared type-variables once per occurrence.
	// Zero disables the limit.
	MaxInstantiationSize int

	depth  int
	active map[varPair]struct{}
	// instantiation lookup for generic type-variables
	instLookup map[types.Variable]types.Variable
	// tree size of each copied type-variable
	instSize   map[types.Variable]int
	occurs     occursState
}

// Create a context for the given arena with default limits.
func NewContext(arena *types.Arena) *Context {
	ctx := &Context{
		Arena:                arena,
		MaxUnifyDepth:        DefaultMaxUnifyDepth,
		MaxInstantiationSize: DefaultMaxInstantiationSize,
	}
	ctx.Init()
	return ctx
}

func (ctx *Context) Init() {
	ctx.active = make(map[varPair]struct{}, 16)
	ctx.instLookup = make(map[types.Variable]types.Variable, 16)
	ctx.instSize = make(map[types.Variable]int, 16)
	ctx.occurs.visited = make(map[types.Variable]uint8, 16)
}

// Reset transient state after a failed unification or instantiation.
func (ctx *Context) Reset() {
	ctx.depth = 0
	for k := range ctx.active {
		delete(ctx.active, k)
	}
	ctx.ClearInstantiationLookup()
}

func (ctx *Context) ClearInstantiationLookup() {
	for k := range ctx.instLookup {
		delete(ctx.instLookup, k)
	}
	for k := range ctx.instSize {
		delete(ctx.instSize, k)
	}
}
