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

package solve

import (
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/internal/typeutil"
	"github.com/wdamron/rowinfer/types"
)

// SolvedEnv maps node ids to their solved types. A node is finalized once, after the definition
// group containing it is generalized; finalized types are never revisited.
type SolvedEnv struct {
	types map[ast.NodeID]types.Type
}

func newSolvedEnv(size int) *SolvedEnv {
	return &SolvedEnv{types: make(map[ast.NodeID]types.Type, size)}
}

// Finalize records the type of a node. Finalizing a node twice is an internal error.
func (e *SolvedEnv) Finalize(id ast.NodeID, t types.Type) error {
	if _, exists := e.types[id]; exists {
		return &typeutil.InternalError{Message: "node " + strconv.Itoa(int(id)) + " was finalized twice"}
	}
	e.types[id] = t
	return nil
}

// Lookup the solved type of a node.
func (e *SolvedEnv) Lookup(id ast.NodeID) (types.Type, bool) {
	t, ok := e.types[id]
	return t, ok
}

// Len returns the number of finalized nodes.
func (e *SolvedEnv) Len() int { return len(e.types) }

// Nodes returns the sorted ids of finalized nodes.
func (e *SolvedEnv) Nodes() []ast.NodeID {
	ids := maps.Keys(e.types)
	slices.Sort(ids)
	return ids
}
