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

package diagnostics

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/kr/pretty"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/constraint"
	"github.com/wdamron/rowinfer/types"
)

func region(line, column int) ast.Region {
	return ast.Region{File: "main.rf", Start: ast.Position{Line: line, Column: column}, End: ast.Position{Line: line, Column: column + 1}}
}

func TestBuildTypeMismatch(t *testing.T) {
	d := Build("Main", Failure{
		Kind:          TypeMismatch,
		Region:        region(3, 9),
		Context:       constraint.Context{Kind: constraint.CallArgument, Index: 1, Name: "add"},
		Expected:      types.MustParse("{a : Int} -> Int"),
		Found:         types.MustParse("{a : Str} -> Int"),
		InnerExpected: types.Int,
		InnerFound:    types.Str,
		Path:          []string{"arg0", "a"},
	})
	if d.Code != ErrTypeMismatch || d.Kind != TypeMismatch {
		t.Fatalf("diagnostic: %# v", pretty.Formatter(d))
	}
	expected := "type mismatch in 2nd argument of call to `add`: expected {a : Int} -> Int, found {a : Str} -> Int"
	if d.Message != expected {
		t.Fatalf("message: %s", d.Message)
	}
	if len(d.Notes) != 1 || d.Notes[0] != "Int does not unify with Str at arg0.a" {
		t.Fatalf("notes: %v", d.Notes)
	}
	if d.Error() != "Main: main.rf:3:9: "+expected {
		t.Fatalf("error: %s", d.Error())
	}
}

func TestBuildSharesVariableNames(t *testing.T) {
	a := &types.Var{Id: 7, Kind: types.FlexVar}
	b := &types.Var{Id: 9, Kind: types.FlexVar}
	d := Build("Main", Failure{
		Kind:     TypeMismatch,
		Expected: &types.Arrow{Args: []types.Type{a}, Return: a},
		Found:    &types.Arrow{Args: []types.Type{b}, Return: &types.Record{Fields: types.EmptyTypeMap, Ext: a}},
	})
	if d.ExpectedText != "'_0 -> '_0" || d.FoundText != "'_1 -> {| '_0}" {
		t.Fatalf("expected %s, found %s", d.ExpectedText, d.FoundText)
	}
}

func TestBuildRowMismatch(t *testing.T) {
	d := Build("Main", Failure{
		Kind:     RowMismatch,
		Context:  constraint.Context{Kind: constraint.IfBranch},
		Expected: types.MustParse("{a : Int}"),
		Found:    types.MustParse("{a : Int, b : Int}"),
		Extra:    []string{"b"},
	})
	if d.Message != "record mismatch in else branch of if: unexpected field b" {
		t.Fatalf("message: %s", d.Message)
	}

	d = Build("Main", Failure{
		Kind:     RowMismatch,
		Context:  constraint.Context{Kind: constraint.WhenBranch, Index: 1},
		Expected: types.MustParse("[A, B]"),
		Found:    types.MustParse("[C, D]"),
		Missing:  []string{"A", "B"},
		Extra:    []string{"C", "D"},
	})
	if d.Message != "tag union mismatch in 2nd branch of when: unexpected tags C, D; missing tags A, B" {
		t.Fatalf("message: %s", d.Message)
	}
}

func TestBuildOtherKinds(t *testing.T) {
	d := Build("Main", Failure{Kind: UnboundName, Name: "foo", Region: region(1, 1)})
	if d.Code != ErrUnboundName || d.Message != "unbound name `foo`" || d.Help == "" {
		t.Fatalf("diagnostic: %# v", pretty.Formatter(d))
	}

	d = Build("Main", Failure{Kind: RecursionLimitExceeded, Name: "use", Detail: "type too complex: instantiation size exceeded (3)"})
	if d.Code != ErrRecursionLimitExceeded || d.Message != "type too complex in expression" {
		t.Fatalf("diagnostic: %# v", pretty.Formatter(d))
	}
	if diff := pretty.Diff([]string{"type too complex: instantiation size exceeded (3)", "the type of `use` is unknown"}, d.Notes); len(diff) != 0 {
		t.Fatalf("notes: %v", diff)
	}

	d = Build("Main", Failure{
		Kind:     OccursCheckFailure,
		Context:  constraint.Context{Kind: constraint.CallArgument, Name: "x"},
		Expected: &types.Var{Id: 1},
		Found:    &types.Arrow{Args: []types.Type{&types.Var{Id: 1}}, Return: &types.Var{Id: 2}},
	})
	if d.Code != ErrOccursCheckFailure || d.Message != "infinite type in 1st argument of call to `x`: expected '_0, found '_0 -> '_1" {
		t.Fatalf("message: %s", d.Message)
	}
}

func TestBag(t *testing.T) {
	bag := NewBag()
	var wg sync.WaitGroup
	for i, module := range []string{"B", "A", "C", "A"} {
		wg.Add(1)
		go func(i int, module string) {
			defer wg.Done()
			bag.Add(NewDiagnostic(TypeMismatch, "m").WithLocation(module, region(10-i, 1)))
		}(i, module)
	}
	wg.Wait()
	bag.Add(UnboundNameError("x").WithLocation("A", region(1, 1)))
	if bag.Len() != 5 || bag.Count(TypeMismatch) != 4 || bag.Count(UnboundName) != 1 {
		t.Fatalf("expected 5 diagnostics, found %d", bag.Len())
	}
	var order []string
	for _, d := range bag.Sorted() {
		order = append(order, d.Module+":"+d.Region.String())
	}
	expected := []string{"A:main.rf:1:1", "A:main.rf:7:1", "A:main.rf:9:1", "B:main.rf:10:1", "C:main.rf:8:1"}
	if diff := pretty.Diff(expected, order); len(diff) != 0 {
		t.Fatalf("order: %v", diff)
	}
}

func TestEmitter(t *testing.T) {
	d := NewDiagnostic(TypeMismatch, "type mismatch in condition of if: expected Bool, found Int").
		WithLocation("Main", region(2, 4)).
		WithTypes(types.Bool, types.Int).
		WithNote("a note").
		WithHelp("some help")

	var buf bytes.Buffer
	e := NewEmitter(&buf, ColorAuto)
	if err := e.EmitAll([]*Diagnostic{d}); err != nil {
		t.Fatal(err)
	}
	expected := strings.Join([]string{
		"error[T0001]: type mismatch in condition of if: expected Bool, found Int",
		"  --> main.rf:2:4",
		"   = expected: Bool",
		"   =    found: Int",
		"   = note: a note",
		"   help: some help",
		"",
		"Type checking failed with 1 error(s)",
		"",
	}, "\n")
	if buf.String() != expected {
		t.Fatalf("output: %s", pretty.Diff(expected, buf.String()))
	}

	buf.Reset()
	if err := NewEmitter(&buf, ColorAlways).Emit(d); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), ansiRed) {
		t.Fatalf("expected colored output: %q", buf.String())
	}

	buf.Reset()
	if err := NewEmitter(&buf, ColorNever).EmitAll(nil); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output for no diagnostics")
	}
	if _, err := ParseColorMode("sometimes"); err == nil {
		t.Fatalf("expected an invalid color mode")
	}
}
