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
	"errors"
	"testing"

	"github.com/kr/pretty"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/constraint"
	. "github.com/wdamron/rowinfer/construct"
	"github.com/wdamron/rowinfer/diagnostics"
	"github.com/wdamron/rowinfer/internal/astutil"
	"github.com/wdamron/rowinfer/internal/constrain"
	"github.com/wdamron/rowinfer/internal/typeutil"
	"github.com/wdamron/rowinfer/types"
)

type solved struct {
	solver *Solver
	arena  *types.Arena
	module *ast.Module
}

func (s solved) exports() map[string]string {
	out := make(map[string]string)
	for _, e := range s.solver.Exports() {
		out[e.Name] = types.TypeString(s.arena.Export(e.Var))
	}
	return out
}

func (s solved) expectExports(t *testing.T, expected map[string]string) {
	t.Helper()
	found := s.exports()
	for name, typeString := range expected {
		if found[name] != typeString {
			t.Fatalf("%s: expected %s, found %s", name, typeString, found[name])
		}
		t.Logf("%s : %s", name, found[name])
	}
}

func (s solved) expectNoFailures(t *testing.T) {
	t.Helper()
	if failures := s.solver.Failures(); len(failures) != 0 {
		t.Fatalf("unexpected failures: %# v", pretty.Formatter(failures))
	}
}

func solveDefs(t *testing.T, prelude map[string]string, configure func(*typeutil.Context), defs ...*ast.Def) solved {
	t.Helper()
	m := Module("Test", defs...)
	ast.Number(m)
	groups, err := astutil.Groups(m.Defs)
	if err != nil {
		t.Fatal(err)
	}
	arena := types.NewArena()
	ctx := typeutil.NewContext(arena)
	if configure != nil {
		configure(ctx)
	}
	scope := NewScope()
	for name, sig := range prelude {
		v, err := arena.Import(types.MustParse(sig))
		if err != nil {
			t.Fatal(err)
		}
		scope.Declare(name, v)
	}
	g := constrain.New(arena)
	c, err := g.Module(groups)
	if err != nil {
		t.Fatal(err)
	}
	s := New(ctx, scope, g.Nodes(), Options{Validate: true})
	if err := s.Solve(c); err != nil {
		t.Fatal(err)
	}
	return solved{solver: s, arena: arena, module: m}
}

var arithmetic = map[string]string{
	"add":  "(Int, Int) -> Int",
	"true": "Bool",
}

func TestPolymorphicIdentity(t *testing.T) {
	s := solveDefs(t, nil, nil,
		Def("id", Func1("x", Var("x"))),
		Def("a", Call(Var("id"), Int(1))),
		Def("b", Call(Var("id"), Str("s"))),
	)
	s.expectNoFailures(t)
	s.expectExports(t, map[string]string{"id": "'a -> 'a", "a": "Int", "b": "Str"})
}

func TestLetPolymorphism(t *testing.T) {
	s := solveDefs(t, nil, nil,
		Def("pair", Let("id", Func1("y", Var("y")),
			Record(Field("a", Call(Var("id"), Int(1))), Field("b", Call(Var("id"), Str("s")))))),
	)
	s.expectNoFailures(t)
	s.expectExports(t, map[string]string{"pair": "{a : Int, b : Str}"})
}

func TestRecordAccessorPolymorphism(t *testing.T) {
	s := solveDefs(t, nil, nil,
		Def("getName", Func1("r", RecordSelect(Var("r"), "name"))),
		Def("a", Call(Var("getName"), Record(Field("name", Int(1)), Field("age", Int(2))))),
		Def("b", Call(Var("getName"), Record(Field("name", Str("x"))))),
		Def("c", Call(RecordAccessor("name"), Record(Field("name", Str("y"))))),
	)
	s.expectNoFailures(t)
	s.expectExports(t, map[string]string{
		"getName": "{name : 'a | 'b} -> 'a",
		"a":       "Int",
		"b":       "Str",
		"c":       "Str",
	})
}

func TestRecordUpdate(t *testing.T) {
	s := solveDefs(t, nil, nil,
		Def("r", Record(Field("a", Int(1)), Field("b", Str("x")))),
		Def("s", RecordUpdate(Var("r"), Field("a", Int(2)))),
		Def("setA", Func1("q", RecordUpdate(Var("q"), Field("a", Int(0))))),
	)
	s.expectNoFailures(t)
	s.expectExports(t, map[string]string{
		"s":    "{a : Int, b : Str}",
		"setA": "{a : Int | 'a} -> {a : Int | 'a}",
	})
}

func TestRecursiveLength(t *testing.T) {
	s := solveDefs(t, arithmetic, nil,
		Def("len", Func1("l", When(Var("l"),
			Branch(PTag("Nil"), Int(0)),
			Branch(PTag("Cons", PWildcard(), PVar("t")), Call(Var("add"), Int(1), Call(Var("len"), Var("t")))),
		))),
	)
	s.expectNoFailures(t)
	s.expectExports(t, map[string]string{"len": "([Cons 'b 'a, Nil] as 'a) -> Int"})
}

func TestWhenClosesTagUnion(t *testing.T) {
	s := solveDefs(t, nil, nil,
		Def("f", Func1("x", When(Var("x"),
			Branch(PTag("A", PVar("n")), Var("n")),
			Branch(PTag("B", PVar("m")), Var("m")),
			Branch(PTag("C"), Int(0)),
		))),
		Def("g", Func1("x", When(Var("x"),
			Branch(PTag("A"), Int(1)),
			Branch(PWildcard(), Int(0)),
		))),
	)
	s.expectNoFailures(t)
	s.expectExports(t, map[string]string{
		"f": "[A Int, B Int, C] -> Int",
		"g": "[A | 'a] -> Int",
	})
}

func TestMutualRecursion(t *testing.T) {
	s := solveDefs(t, nil, nil,
		Def("isEven", Func1("n", Call(Var("isOdd"), Var("n")))),
		Def("isOdd", Func1("n", Call(Var("isEven"), Var("n")))),
	)
	s.expectNoFailures(t)
	s.expectExports(t, map[string]string{"isEven": "'a -> 'b", "isOdd": "'a -> 'b"})
}

func TestCallArgumentContext(t *testing.T) {
	s := solveDefs(t, arithmetic, nil,
		Def("x", Call(Var("add"), Int(1), Str("s"))),
	)
	failures := s.solver.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, found %# v", pretty.Formatter(failures))
	}
	f := failures[0]
	if f.Kind != diagnostics.TypeMismatch || f.Context.Kind != constraint.CallArgument {
		t.Fatalf("failure: %# v", pretty.Formatter(f))
	}
	if where := f.Context.String(); where != "2nd argument of call to `add`" {
		t.Fatalf("context: %s", where)
	}
	if types.TypeString(f.Expected) != "Int" || types.TypeString(f.Found) != "Str" {
		t.Fatalf("expected Int and found Str: %s, %s", types.TypeString(f.Expected), types.TypeString(f.Found))
	}
	// the call keeps the return type of add:
	s.expectExports(t, map[string]string{"x": "Int"})
}

func TestIfBranchRowMismatch(t *testing.T) {
	s := solveDefs(t, arithmetic, nil,
		Def("r", If(Var("true"),
			Record(Field("a", Int(1))),
			Record(Field("a", Int(1)), Field("b", Int(2))))),
	)
	failures := s.solver.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, found %# v", pretty.Formatter(failures))
	}
	f := failures[0]
	if f.Kind != diagnostics.RowMismatch || f.Context.Kind != constraint.IfBranch {
		t.Fatalf("failure: %# v", pretty.Formatter(f))
	}
	if len(f.Extra) != 1 || f.Extra[0] != "b" || len(f.Missing) != 0 {
		t.Fatalf("expected b to be unexpected: %# v", pretty.Formatter(f))
	}
}

func TestFunctionRecordMismatch(t *testing.T) {
	for _, swap := range []bool{false, true} {
		var then, els ast.Expr = Func1("y", Var("y")), Record(Field("a", Int(1)))
		if swap {
			then, els = els, then
		}
		s := solveDefs(t, arithmetic, nil, Def("x", If(Var("true"), then, els)))
		failures := s.solver.Failures()
		if len(failures) != 1 || failures[0].Kind != diagnostics.TypeMismatch {
			t.Fatalf("expected a type mismatch, found %# v", pretty.Formatter(failures))
		}
	}
}

func TestRigidAnnotation(t *testing.T) {
	s := solveDefs(t, nil, nil,
		AnnotatedDef("f", TArrow1(TVar("a"), TVar("a")), Func1("x", Int(1))),
		AnnotatedDef("g", TArrow1(TVar("a"), TVar("a")), Func1("x", Var("x"))),
	)
	failures := s.solver.Failures()
	if len(failures) != 1 || failures[0].Kind != diagnostics.TypeMismatch {
		t.Fatalf("expected a type mismatch, found %# v", pretty.Formatter(failures))
	}
	s.expectExports(t, map[string]string{"g": "a -> a"})
}

func TestUnboundName(t *testing.T) {
	s := solveDefs(t, nil, nil,
		Def("x", Var("y")),
		Def("z", Call(Var("x"), Int(1))),
	)
	failures := s.solver.Failures()
	if len(failures) != 1 || failures[0].Kind != diagnostics.UnboundName || failures[0].Name != "y" {
		t.Fatalf("expected y to be unbound, found %# v", pretty.Formatter(failures))
	}
	// broken types do not cascade:
	s.expectExports(t, map[string]string{"x": "?"})
}

func TestOccursCheck(t *testing.T) {
	s := solveDefs(t, nil, nil,
		Def("f", Func1("x", Call(Var("x"), Var("x")))),
	)
	failures := s.solver.Failures()
	if len(failures) != 1 || failures[0].Kind != diagnostics.OccursCheckFailure {
		t.Fatalf("expected an occurs check failure, found %# v", pretty.Formatter(failures))
	}
}

func TestInstantiationLimit(t *testing.T) {
	limit := func(ctx *typeutil.Context) { ctx.MaxInstantiationSize = 3 }
	s := solveDefs(t, nil, limit,
		Def("pair", Func1("x", Record(Field("a", Var("x")), Field("b", Var("x"))))),
		Def("use", Call(Var("pair"), Int(1))),
	)
	failures := s.solver.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, found %# v", pretty.Formatter(failures))
	}
	f := failures[0]
	if f.Kind != diagnostics.RecursionLimitExceeded || f.Name != "use" {
		t.Fatalf("failure: %# v", pretty.Formatter(f))
	}
	s.expectExports(t, map[string]string{"pair": "'a -> {a : 'a, b : 'a}", "use": "?"})
}

func TestUnifyDepthLimit(t *testing.T) {
	limit := func(ctx *typeutil.Context) { ctx.MaxUnifyDepth = 2 }
	s := solveDefs(t, nil, limit,
		Def("xs", List(List(List(Int(1))), List(List(Str("s"))))),
	)
	failures := s.solver.Failures()
	if len(failures) == 0 || failures[0].Kind != diagnostics.RecursionLimitExceeded || failures[0].Name != "xs" {
		t.Fatalf("expected the depth limit to be exceeded, found %# v", pretty.Formatter(failures))
	}
	s.expectExports(t, map[string]string{"xs": "?"})
}

func TestNodeTypesFinalized(t *testing.T) {
	s := solveDefs(t, nil, nil,
		Def("id", Func1("x", Var("x"))),
		Def("n", Call(Var("id"), Int(1))),
	)
	env := s.solver.Env()
	nodes := env.Nodes()
	if len(nodes) != env.Len() || len(nodes) == 0 {
		t.Fatalf("expected finalized nodes")
	}
	for _, def := range s.module.Defs {
		id := def.Node().ID
		ty, ok := env.Lookup(id)
		if !ok {
			t.Fatalf("definition %s was not finalized", def.Name())
		}
		t.Logf("%d %s : %s", id, def.Name(), types.TypeString(ty))
	}
	var internal *typeutil.InternalError
	if err := env.Finalize(nodes[0], types.Int); !errors.As(err, &internal) {
		t.Fatalf("expected an internal error when finalizing a node twice, found %v", err)
	}
}

func TestGroundTypesShared(t *testing.T) {
	uses := []ast.Expr{Var("x"), Var("x"), Var("x")}
	s := solveDefs(t, nil, nil,
		Def("x", Record(Field("f0", Int(1)), Field("f1", Int(2)))),
		Def("xs", List(uses...)),
	)
	s.expectNoFailures(t)
	s.expectExports(t, map[string]string{"xs": "List[{f0 : Int, f1 : Int}]"})
	for _, e := range s.solver.Exports() {
		if e.Name == "x" && s.arena.Rank(e.Var) == types.GenericRank {
			t.Fatalf("expected a type without type-variables not to be generalized")
		}
	}

	// every use of x shares one instance, exported once:
	env := s.solver.Env()
	first, ok := env.Lookup(uses[0].Node().ID)
	if !ok {
		t.Fatalf("use of x was not finalized")
	}
	for _, use := range uses[1:] {
		if ty, _ := env.Lookup(use.Node().ID); ty != first {
			t.Fatalf("expected shared node types, found %s and %s", types.TypeString(first), types.TypeString(ty))
		}
	}
}

func TestScopeShadowing(t *testing.T) {
	s := NewScope()
	s.Declare("x", 1)
	mark := s.mark()
	s.push("x", 2)
	s.push("y", 3)
	if v, _ := s.Lookup("x"); v != 2 {
		t.Fatalf("expected x to be shadowed")
	}
	s.restore(mark)
	if v, _ := s.Lookup("x"); v != 1 {
		t.Fatalf("expected x to be restored")
	}
	if _, ok := s.Lookup("y"); ok {
		t.Fatalf("expected y to be removed")
	}
	if names := s.Names(); len(names) != 1 || names[0] != "x" {
		t.Fatalf("names: %v", names)
	}
}
