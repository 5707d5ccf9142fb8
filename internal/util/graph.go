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

// Package util contains graph algorithms used to order definitions and modules.
package util

import (
	"golang.org/x/exp/slices"
)

// Graph is an adjacency list. An edge from a to b means b depends on a.
type Graph [][]int

func NewGraph(numVerts int) Graph { return Graph(make([][]int, numVerts)) }

func (g Graph) AddEdge(from, to int) {
	if !g.HasEdge(from, to) {
		g[from] = append(g[from], to)
	}
}

func (g Graph) HasEdge(from, to int) bool { return slices.Contains(g[from], to) }

// Transpose returns the graph with every edge reversed.
func (g Graph) Transpose() Graph {
	t := make(Graph, len(g))
	for pred, succs := range g {
		for _, succ := range succs {
			t[succ] = append(t[succ], pred)
		}
	}
	return t
}

// SCC returns the strongly-connected components of the graph in topological order: every
// component appears after the components with edges into it. Components which do not depend on
// each other are ordered by their smallest vertex.
func (g Graph) SCC() [][]int {
	state := sccState{
		indexTable: make([]int, len(g)),
		lowLink:    make([]int, len(g)),
		onStack:    make([]bool, len(g)),
	}
	// Tarjan's algorithm emits a component after every component reachable from it; within the
	// transposed graph, those are the components it depends on.
	preds := g.Transpose()
	for v := range preds {
		if state.indexTable[v] == 0 {
			preds.tarjanSCC(&state, v)
		}
	}
	return state.sccs
}

type sccState struct {
	index      int
	indexTable []int
	lowLink    []int
	onStack    []bool

	stack []int
	sccs  [][]int
}

// Tarjan's SCC algorithm, based on https://github.com/gonum/gonum/blob/master/graph/topo/tarjan.go
//
// Components are output in reversed topological order of g.
func (g Graph) tarjanSCC(state *sccState, v int) {
	state.index++
	state.indexTable[v] = state.index
	state.lowLink[v] = state.index
	state.stack = append(state.stack, v)
	state.onStack[v] = true

	for _, succ := range g[v] {
		if state.indexTable[succ] == 0 {
			g.tarjanSCC(state, succ)
			state.lowLink[v] = min(state.lowLink[v], state.lowLink[succ])
		} else if state.onStack[succ] {
			state.lowLink[v] = min(state.lowLink[v], state.indexTable[succ])
		}
	}

	if state.lowLink[v] != state.indexTable[v] {
		return
	}
	// v is the root of a component; pop it from the stack:
	var c []int
	for {
		top := state.stack[len(state.stack)-1]
		state.stack = state.stack[:len(state.stack)-1]
		state.onStack[top] = false
		c = append(c, top)
		if top == v {
			break
		}
	}
	slices.Sort(c)
	state.sccs = append(state.sccs, c)
}

// Cycle returns the vertices of a cycle within the graph, or nil if the graph is acyclic.
func (g Graph) Cycle() []int {
	for _, c := range g.SCC() {
		if len(c) > 1 || g.HasEdge(c[0], c[0]) {
			return c
		}
	}
	return nil
}

// Levels partitions an acyclic graph into topological levels. Vertices within a level do not
// depend on each other, and depend only on vertices of earlier levels. If the graph contains a
// cycle, the vertices of the cycle are returned instead.
func (g Graph) Levels() (levels [][]int, cycle []int) {
	if cycle = g.Cycle(); cycle != nil {
		return nil, cycle
	}
	preds := g.Transpose()
	remaining := make([]int, len(g))
	var ready []int
	for v := range g {
		remaining[v] = len(preds[v])
		if remaining[v] == 0 {
			ready = append(ready, v)
		}
	}
	for len(ready) > 0 {
		levels = append(levels, ready)
		var next []int
		for _, v := range ready {
			for _, succ := range g[v] {
				remaining[succ]--
				if remaining[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		slices.Sort(next)
		ready = next
	}
	return levels, nil
}
