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

package constrain

import (
	"errors"
	"testing"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/constraint"
	. "github.com/wdamron/rowinfer/construct"
	"github.com/wdamron/rowinfer/internal/astutil"
	"github.com/wdamron/rowinfer/types"
)

func generate(t *testing.T, defs ...*ast.Def) (*Generator, constraint.Constraint, error) {
	t.Helper()
	m := Module("Test", defs...)
	ast.Number(m)
	groups, err := astutil.Groups(m.Defs)
	if err != nil {
		t.Fatal(err)
	}
	g := New(types.NewArena())
	c, err := g.Module(groups)
	return g, c, err
}

// collect returns every constraint within c, in solving order.
func collect(c constraint.Constraint) []constraint.Constraint {
	out := []constraint.Constraint{c}
	switch c := c.(type) {
	case *constraint.And:
		for _, inner := range c.Constraints {
			out = append(out, collect(inner)...)
		}
	case *constraint.Let:
		out = append(out, collect(c.Defs)...)
		out = append(out, collect(c.Body)...)
	}
	return out
}

func TestModuleLets(t *testing.T) {
	g, c, err := generate(t,
		Def("id", Func1("x", Var("x"))),
		Def("one", Call(Var("id"), Int(1))),
	)
	if err != nil {
		t.Fatal(err)
	}
	outer, ok := c.(*constraint.Let)
	if !ok || !outer.Generalize || len(outer.Bindings) != 1 || outer.Bindings[0].Name != "id" {
		t.Fatalf("expected a generalizing let for id:\n%s", constraint.String(c))
	}
	inner, ok := outer.Body.(*constraint.Let)
	if !ok || len(inner.Bindings) != 1 || inner.Bindings[0].Name != "one" {
		t.Fatalf("expected a nested let for one:\n%s", constraint.String(c))
	}
	if _, ok := inner.Body.(constraint.True); !ok {
		t.Fatalf("expected the innermost body to be trivial")
	}
	if len(outer.Finalize)+len(inner.Finalize) != len(g.Nodes()) {
		t.Fatalf("expected every node to be finalized once: %d + %d != %d", len(outer.Finalize), len(inner.Finalize), len(g.Nodes()))
	}
	// type-variables are registered by the solver:
	a := g.arena
	for _, v := range append(outer.Flex, inner.Flex...) {
		if a.Rank(v) != types.NoRank {
			t.Fatalf("type-variable %d was registered at rank %d", v, a.Rank(v))
		}
	}
	t.Logf("constraints:\n%s", constraint.String(c))
}

func TestCallContexts(t *testing.T) {
	_, c, err := generate(t, Def("x", Call(Var("add"), Int(1), Str("s"))))
	if err != nil {
		t.Fatal(err)
	}
	var contexts []string
	for _, c := range collect(c) {
		if eq, ok := c.(*constraint.Equal); ok && eq.Context.Kind != constraint.NoContext {
			contexts = append(contexts, eq.Context.String())
		}
	}
	expected := []string{"call to `add`", "1st argument of call to `add`", "2nd argument of call to `add`"}
	if len(contexts) != len(expected) {
		t.Fatalf("contexts: %v", contexts)
	}
	for i := range expected {
		if contexts[i] != expected[i] {
			t.Fatalf("contexts: %v", contexts)
		}
	}
}

func TestWhenCloseUnion(t *testing.T) {
	count := func(c constraint.Constraint) (closes, tags int) {
		for _, c := range collect(c) {
			switch c.(type) {
			case *constraint.CloseUnion:
				closes++
			case *constraint.IncludesTag:
				tags++
			}
		}
		return
	}

	_, c, err := generate(t, Def("f", Func1("x", When(Var("x"),
		Branch(PTag("A", PVar("n")), Var("n")),
		Branch(PTag("B"), Int(0)),
	))))
	if err != nil {
		t.Fatal(err)
	}
	if closes, tags := count(c); closes != 1 || tags != 2 {
		t.Fatalf("expected a closed union with 2 tags, found %d closes and %d tags", closes, tags)
	}

	_, c, err = generate(t, Def("f", Func1("x", When(Var("x"),
		Branch(PTag("A"), Int(1)),
		Branch(PVar("other"), Int(0)),
	))))
	if err != nil {
		t.Fatal(err)
	}
	if closes, _ := count(c); closes != 0 {
		t.Fatalf("expected an open union with a catch-all branch")
	}

	_, c, err = generate(t, Def("f", Func1("x", When(Var("x"),
		Branch(PTag("A"), Int(1)),
		GuardedBranch(PWildcard(), Var("cond"), Int(0)),
	))))
	if err != nil {
		t.Fatal(err)
	}
	if closes, _ := count(c); closes != 1 {
		t.Fatalf("expected a guarded wildcard not to count as a catch-all")
	}
}

func TestAnnotationRigidVariables(t *testing.T) {
	_, c, err := generate(t, AnnotatedDef("f", TArrow1(TVar("a"), TVar("a")), Func1("x", Var("x"))))
	if err != nil {
		t.Fatal(err)
	}
	let := c.(*constraint.Let)
	if len(let.Rigid) != 1 {
		t.Fatalf("expected one rigid type-variable, found %d", len(let.Rigid))
	}
}

func TestMalformed(t *testing.T) {
	shared := Var("x")
	_, _, err := generate(t, Def("f", Func1("x", Call(Var("g"), shared, shared))))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected a malformed tree for a shared node, found %v", err)
	}

	_, _, err = generate(t, Def("f", When(Int(1))))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected a malformed tree for a when without branches, found %v", err)
	}
}
