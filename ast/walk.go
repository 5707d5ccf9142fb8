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

// Walk visits n and every definition, expression and pattern nested within n, in depth-first
// order. If f returns false, the nodes nested within the current node will not be visited.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Def:
		Walk(n.Pattern, f)
		Walk(n.Value, f)

	case *Int, *Float, *Str, *Var, *RecordAccessor:

	case *Lambda:
		for _, arg := range n.Args {
			Walk(arg, f)
		}
		Walk(n.Body, f)

	case *Call:
		Walk(n.Func, f)
		for _, arg := range n.Args {
			Walk(arg, f)
		}

	case *Let:
		Walk(n.Def, f)
		Walk(n.Body, f)

	case *LetGroup:
		for _, def := range n.Defs {
			Walk(def, f)
		}
		Walk(n.Body, f)

	case *If:
		Walk(n.Cond, f)
		Walk(n.Then, f)
		Walk(n.Else, f)

	case *When:
		Walk(n.Value, f)
		for _, b := range n.Branches {
			Walk(b, f)
		}

	case *Branch:
		Walk(n.Pattern, f)
		if n.Guard != nil {
			Walk(n.Guard, f)
		}
		Walk(n.Body, f)

	case *Record:
		for _, field := range n.Fields {
			Walk(field.Value, f)
		}

	case *RecordSelect:
		Walk(n.Record, f)

	case *RecordUpdate:
		Walk(n.Record, f)
		for _, field := range n.Fields {
			Walk(field.Value, f)
		}

	case *Tag:
		for _, arg := range n.Args {
			Walk(arg, f)
		}

	case *List:
		for _, elem := range n.Elems {
			Walk(elem, f)
		}

	case *PVar, *PWildcard, *PInt, *PStr:

	case *PTag:
		for _, arg := range n.Args {
			Walk(arg, f)
		}

	case *PRecord:
		for _, field := range n.Fields {
			Walk(field.Pattern, f)
		}

	default:
		panic("unknown node type")
	}
}

// WalkPattern calls f for p and each pattern nested within p.
func WalkPattern(p Pattern, f func(Pattern)) {
	Walk(p, func(n Node) bool {
		if p, ok := n.(Pattern); ok {
			f(p)
		}
		return true
	})
}

// Number assigns fresh node ids to every node of the module without one, starting after the
// largest assigned id. The number of assigned ids is returned.
func Number(m *Module) int {
	var last NodeID
	visit := func(f func(*Meta)) {
		for _, def := range m.Defs {
			Walk(def, func(n Node) bool {
				f(n.Node())
				return true
			})
		}
	}
	visit(func(meta *Meta) {
		if meta.ID > last {
			last = meta.ID
		}
	})
	assigned := 0
	visit(func(meta *Meta) {
		if meta.ID == 0 {
			last++
			meta.ID = last
			assigned++
		}
	})
	return assigned
}
