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

package rowinfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"golang.org/x/exp/slices"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/config"
	. "github.com/wdamron/rowinfer/construct"
	"github.com/wdamron/rowinfer/diagnostics"
	"github.com/wdamron/rowinfer/types"
)

const testConfig = `
prelude:
  add: (Int, Int) -> Int
  true: Bool
  map: (List[a], a -> b) -> List[b]
`

func newTestChecker(t testing.TB, yaml string) *Checker {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewChecker(cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func expectExport(t *testing.T, res *Result, name, expected string) {
	t.Helper()
	typeString := res.ExportString(name)
	if typeString != expected {
		t.Fatalf("%s: type: %s", name, typeString)
	}
	t.Logf("%s : %s", name, typeString)
}

func TestCheckRecursiveLength(t *testing.T) {
	c := newTestChecker(t, testConfig)
	m := Module("List",
		Def("len", Func1("l", When(Var("l"),
			Branch(PTag("Nil"), Int(0)),
			Branch(PTag("Cons", PWildcard(), PVar("t")), Call(Var("add"), Int(1), Call(Var("len"), Var("t")))),
		))),
		Def("three", Call(Var("len"), Tag("Cons", Int(1), Tag("Cons", Int(2), Tag("Cons", Int(3), Tag("Nil")))))),
	)

	// Check twice to ensure no state is kept between checks:
	var numbered []ast.NodeID
	for i := 0; i < 2; i++ {
		res, err := c.Check(m, nil)
		if err != nil {
			t.Fatal(err)
		}
		// the module is numbered in place, once:
		var ids []ast.NodeID
		for _, def := range m.Defs {
			ast.Walk(def, func(n ast.Node) bool {
				ids = append(ids, n.Node().ID)
				return true
			})
		}
		if numbered != nil && len(pretty.Diff(numbered, ids)) > 0 {
			t.Fatalf("node ids changed between checks: %v", pretty.Diff(numbered, ids))
		}
		numbered = ids
		if !res.OK() {
			t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(res.Diagnostics))
		}
		expectExport(t, res, "len", "([Cons 'b 'a, Nil] as 'a) -> Int")
		expectExport(t, res, "three", "Int")
		if len(res.ExportNames) != 2 || res.ExportNames[0] != "len" {
			t.Fatalf("export names: %v", res.ExportNames)
		}

		def := m.Defs[1]
		ty, ok := res.TypeOf(def.Node().ID)
		if !ok || types.TypeString(ty) != "Int" {
			t.Fatalf("expected the definition of three to be typed Int")
		}
		if len(res.Nodes()) == 0 {
			t.Fatalf("expected solved node types")
		}
	}
}

func TestCheckDiagnostics(t *testing.T) {
	c := newTestChecker(t, testConfig)
	res, err := c.Check(Module("Main",
		Def("x", Call(Var("add"), Int(1), Str("s"))),
		Def("r", If(Var("true"), Record(Field("a", Int(1))), Record(Field("a", Int(1)), Field("b", Int(2))))),
		Def("y", Var("missing")),
	), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) != 3 {
		t.Fatalf("expected 3 diagnostics, found %# v", pretty.Formatter(res.Diagnostics))
	}

	mismatch := res.Diagnostics[0]
	if mismatch.Kind != diagnostics.TypeMismatch || mismatch.Code != "T0001" {
		t.Fatalf("diagnostic: %# v", pretty.Formatter(mismatch))
	}
	if mismatch.Message != "type mismatch in 2nd argument of call to `add`: expected Int, found Str" {
		t.Fatalf("message: %s", mismatch.Message)
	}

	rows := res.Diagnostics[1]
	if rows.Kind != diagnostics.RowMismatch || rows.Message != "record mismatch in else branch of if: unexpected field b" {
		t.Fatalf("diagnostic: %# v", pretty.Formatter(rows))
	}
	if len(rows.Extra) != 1 || rows.Extra[0] != "b" {
		t.Fatalf("extra labels: %v", rows.Extra)
	}

	unbound := res.Diagnostics[2]
	if unbound.Kind != diagnostics.UnboundName || unbound.Message != "unbound name `missing`" {
		t.Fatalf("diagnostic: %# v", pretty.Formatter(unbound))
	}

	// the types of other definitions are still inferred:
	expectExport(t, res, "x", "Int")
	expectExport(t, res, "y", "?")
}

func TestCheckInstantiationLimit(t *testing.T) {
	c := newTestChecker(t, "limits: {max_instantiation_size: 3}")
	res, err := c.Check(Module("Main",
		Def("pair", Func1("x", Record(Field("a", Var("x")), Field("b", Var("x"))))),
		Def("use", Call(Var("pair"), Int(1))),
	), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, found %# v", pretty.Formatter(res.Diagnostics))
	}
	d := res.Diagnostics[0]
	if d.Kind != diagnostics.RecursionLimitExceeded || !strings.HasPrefix(d.Message, "type too complex") {
		t.Fatalf("diagnostic: %# v", pretty.Formatter(d))
	}
	found := false
	for _, note := range d.Notes {
		found = found || note == "the type of `use` is unknown"
	}
	if !found {
		t.Fatalf("expected a note naming use: %v", d.Notes)
	}
	expectExport(t, res, "pair", "'a -> {a : 'a, b : 'a}")
	expectExport(t, res, "use", "?")
}

// selfApplications returns definitions p0 ... pn, where the type of each definition applies the
// type of the previous definition twice: the tree size of pi is 3*2^(2^i).
func selfApplications(n int) []*ast.Def {
	defs := []*ast.Def{Def("p0", Func1("x", Record(Field("a", Var("x")), Field("b", Var("x")))))}
	for i := 1; i <= n; i++ {
		prev := fmt.Sprintf("p%d", i-1)
		defs = append(defs, Def(fmt.Sprintf("p%d", i), Func1("x", Call(Var(prev), Call(Var(prev), Var("x"))))))
	}
	return defs
}

func TestCheckSharedTypeLimit(t *testing.T) {
	c := newTestChecker(t, testConfig)
	defs := append(selfApplications(6), Def("bad", Call(Var("add"), Call(Var("p6"), Int(1)), Int(1))))
	res, err := c.Check(Module("Main", defs...), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) == 0 {
		t.Fatalf("expected p5 to be too complex")
	}
	for _, d := range res.Diagnostics {
		if d.Kind != diagnostics.RecursionLimitExceeded || !slices.Contains(d.Notes, "the type of `p5` is unknown") {
			t.Fatalf("diagnostic: %# v", pretty.Formatter(d))
		}
	}
	expectExport(t, res, "p1", "'a -> {a : {a : 'a, b : 'a}, b : {a : 'a, b : 'a}}")
	expectExport(t, res, "p5", "?")
	if p4 := res.ExportString("p4"); !strings.Contains(p4, "…") || len(p4) > 64*types.MaxPrintSize {
		t.Fatalf("expected an elided type for p4, found %d bytes", len(p4))
	}
}

func TestCheckLargeTypeMismatch(t *testing.T) {
	c := newTestChecker(t, testConfig+"limits: {max_instantiation_size: 1000000}\n")
	defs := append(selfApplications(4), Def("bad", Call(Var("add"), Call(Var("p4"), Int(1)), Int(1))))
	res, err := c.Check(Module("Main", defs...), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, found %d", len(res.Diagnostics))
	}
	d := res.Diagnostics[0]
	if d.Kind != diagnostics.TypeMismatch || !strings.HasPrefix(d.Message, "type mismatch in 1st argument of call to `add`: expected Int, found {a : {a : ") {
		t.Fatalf("diagnostic: %.300s", d.Message)
	}
	if !strings.Contains(d.FoundText, "…") || len(d.Message) > 64*types.MaxPrintSize {
		t.Fatalf("expected the found type to be elided, found %d bytes", len(d.Message))
	}
}

func TestCheckOpenRowMismatch(t *testing.T) {
	c := newTestChecker(t, testConfig)
	res, err := c.Check(Module("List",
		Def("len", Func1("l", When(Var("l"),
			Branch(PTag("Nil"), Int(0)),
			Branch(PTag("Cons", PWildcard(), PVar("t")), Call(Var("add"), Int(1), Call(Var("len"), Var("t")))),
		))),
		Def("bad", Call(Var("len"), Tag("Cons", Int(1), Tag("Foo")))),
	), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, found %# v", pretty.Formatter(res.Diagnostics))
	}
	d := res.Diagnostics[0]
	if d.Kind != diagnostics.RowMismatch || d.Message != "tag union mismatch in 1st argument of call to `len`: unexpected tag Foo" {
		t.Fatalf("diagnostic: %s", d.Message)
	}
	if len(d.Missing) != 0 || len(d.Extra) != 1 || d.Extra[0] != "Foo" {
		t.Fatalf("labels: missing %v, extra %v", d.Missing, d.Extra)
	}
}

func TestCheckAnnotations(t *testing.T) {
	c := newTestChecker(t, testConfig)
	res, err := c.Check(Module("Main",
		AnnotatedDef("apply", TArrow2(TArrow1(TVar("a"), TVar("b")), TVar("a"), TVar("b")),
			Func2("f", "x", Call(Var("f"), Var("x")))),
		AnnotatedDef("name", TArrow1(TRecord(map[string]types.Type{"name": TApp("Str")}, TVar("r")), TApp("Str")),
			Func1("p", RecordSelect(Var("p"), "name"))),
		Def("n", Call(Var("name"), Record(Field("name", Str("x")), Field("age", Int(3))))),
	), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(res.Diagnostics))
	}
	expectExport(t, res, "apply", "(a -> b, a) -> b")
	expectExport(t, res, "name", "{name : Str | r} -> Str")
	expectExport(t, res, "n", "Str")
}

func TestCheckDebugLogging(t *testing.T) {
	cfg, err := config.Parse([]byte("log_level: debug"), "test.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	c, err := NewChecker(cfg, nil, cfg.NewLogger(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Check(Module("Main", Def("id", Func1("x", Var("x")))), nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, event := range []string{"checking module", "generated constraints", "generalized", "checked module"} {
		if !strings.Contains(out, event) {
			t.Fatalf("expected a %q event in:\n%s", event, out)
		}
	}
}

func TestCheckModules(t *testing.T) {
	c := newTestChecker(t, testConfig+"workers: 2\n")
	base := Module("Base",
		Def("id", Func1("x", Var("x"))),
		Def("origin", Record(Field("x", Int(0)), Field("y", Int(0)))),
	)
	main := Module("Main",
		Def("n", Call(Var("id"), Int(1))),
		Def("s", Call(QVar("Base", "id"), Str("s"))),
		Def("o", QVar("Base", "origin")),
	)
	main.Imports = []ast.Import{Import("Base", "id")}
	broken := Module("Broken", Def("z", Var("nope")))
	broken.Imports = []ast.Import{Import("Base", "unknown")}

	modules := []*ast.Module{main, broken, base}
	for i := 0; i < 8; i++ {
		modules = append(modules, Module(fmt.Sprintf("M%d", i), Def("v", Call(Var("add"), Int(int64(i)), Int(1)))))
	}

	prog, err := c.CheckModules(context.Background(), modules)
	if err != nil {
		t.Fatal(err)
	}
	res := prog.Results["Main"]
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %# v", pretty.Formatter(res.Diagnostics))
	}
	expectExport(t, res, "n", "Int")
	expectExport(t, res, "s", "Str")
	expectExport(t, res, "o", "{x : Int, y : Int}")

	// every module is solved in its own arena:
	arenas := make(map[string]bool)
	for name, res := range prog.Results {
		if arenas[res.ArenaID.String()] {
			t.Fatalf("module %s shares an arena", name)
		}
		arenas[res.ArenaID.String()] = true
	}

	if len(prog.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, found %# v", pretty.Formatter(prog.Diagnostics))
	}
	for _, d := range prog.Diagnostics {
		if d.Module != "Broken" || d.Kind != diagnostics.UnboundName {
			t.Fatalf("diagnostic: %# v", pretty.Formatter(d))
		}
	}
}

func TestCheckModulesImportCycle(t *testing.T) {
	c := newTestChecker(t, testConfig)
	a := Module("A", Def("x", Int(1)))
	b := Module("B", Def("y", Int(2)))
	a.Imports = []ast.Import{Import("B")}
	b.Imports = []ast.Import{Import("A")}
	_, err := c.CheckModules(context.Background(), []*ast.Module{a, b})
	if !errors.Is(err, ErrImportCycle) {
		t.Fatalf("expected an import cycle, found %v", err)
	}
	t.Logf("error: %v", err)

	c2 := Module("C", Def("z", Int(3)))
	c2.Imports = []ast.Import{Import("Missing")}
	if _, err := c.CheckModules(context.Background(), []*ast.Module{c2}); err == nil {
		t.Fatalf("expected an error for an unknown module")
	}
}

func TestEnv(t *testing.T) {
	parent := NewEnv(nil)
	if err := parent.DeclareSignature("add", "(Int, Int) -> Int"); err != nil {
		t.Fatal(err)
	}
	env := NewEnv(parent)
	env.Declare("one", types.Int)
	if _, ok := env.Lookup("add"); !ok {
		t.Fatalf("expected add to be inherited")
	}
	if names := env.Names(); len(names) != 2 || names[0] != "add" || names[1] != "one" {
		t.Fatalf("names: %v", names)
	}
	env.Remove("one")
	if _, ok := env.Lookup("one"); ok {
		t.Fatalf("expected one to be removed")
	}
	if err := env.DeclareSignature("bad", "(Int"); err == nil {
		t.Fatalf("expected a syntax error")
	}

	// declarations of the environment take precedence over the prelude:
	cfg, err := config.Parse([]byte(testConfig), "test.yaml")
	if err != nil {
		t.Fatal(err)
	}
	override := NewEnv(nil)
	override.Declare("true", types.Int)
	c, err := NewChecker(cfg, override, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := c.Check(Module("Main", Def("t", Var("true"))), nil)
	if err != nil {
		t.Fatal(err)
	}
	expectExport(t, res, "t", "Int")
}
