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
	"errors"
	"testing"

	"github.com/kr/pretty"

	"github.com/wdamron/rowinfer/types"
)

func live(t *testing.T, ctx *Context, rank types.Rank, sig string) types.Variable {
	t.Helper()
	scheme, err := ctx.Arena.Import(types.MustParse(sig))
	if err != nil {
		t.Fatal(err)
	}
	v, err := ctx.Instantiate(rank, scheme)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func show(ctx *Context, v types.Variable) string { return types.TypeString(ctx.Arena.Export(v)) }

func TestUnifyCommutative(t *testing.T) {
	pairs := [][2]string{
		{"{a : Int | r}", "{b : Str | s}"},
		{"{a : Int, b : x | r}", "{b : Str, c : Float | s}"},
		{"[A Int | r]", "[B Str | s]"},
		{"[A Int | r]", "[A x, C]"},
		{"(a, Int) -> a", "(Str, b) -> Str"},
		{"List[a]", "List[{x : Int | r}]"},
	}
	for _, pair := range pairs {
		var results [2]string
		for i, order := range [2][2]string{{pair[0], pair[1]}, {pair[1], pair[0]}} {
			ctx := NewContext(types.NewArena())
			a, b := live(t, ctx, 1, order[0]), live(t, ctx, 1, order[1])
			if err := ctx.Unify(a, b); err != nil {
				t.Fatalf("%s ~ %s: %v", order[0], order[1], err)
			}
			if show(ctx, a) != show(ctx, b) {
				t.Fatalf("expected equal types after unification: %s and %s", show(ctx, a), show(ctx, b))
			}
			results[i] = show(ctx, a)
		}
		if results[0] != results[1] {
			t.Fatalf("unification is not commutative: %s", pretty.Diff(results[0], results[1]))
		}
		t.Logf("type: %s", results[0])
	}
}

func TestUnifyIdempotent(t *testing.T) {
	ctx := NewContext(types.NewArena())
	a, b := live(t, ctx, 1, "{a : Int | r} -> x"), live(t, ctx, 1, "{b : Str | s} -> Bool")
	if err := ctx.Unify(a, b); err != nil {
		t.Fatal(err)
	}
	before, size := show(ctx, a), ctx.Arena.Len()
	txn := ctx.Arena.Begin()
	if err := ctx.Unify(a, b); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Unify(b, a); err != nil {
		t.Fatal(err)
	}
	ctx.Arena.Commit(txn)
	if ctx.Arena.Len() != size || show(ctx, a) != before {
		t.Fatalf("expected no changes after unifying linked type-variables")
	}
}

func TestOpenRecordsKeepLabels(t *testing.T) {
	ctx := NewContext(types.NewArena())
	a, b := live(t, ctx, 1, "{a : Int | r}"), live(t, ctx, 1, "{b : Str | s}")
	_, extA := ctx.Arena.GatherFields(a)
	_, extB := ctx.Arena.GatherFields(b)
	if err := ctx.Unify(a, b); err != nil {
		t.Fatal(err)
	}
	typeString := show(ctx, a)
	if typeString != "{a : Int, b : Str | '_0}" {
		t.Fatalf("type: %s", typeString)
	}
	t.Logf("type: %s", typeString)

	// both original extensions share the fresh extension:
	_, restA := ctx.Arena.GatherFields(extA)
	_, restB := ctx.Arena.GatherFields(extB)
	if restA != restB || !ctx.Arena.Content(restA).IsUnbound() {
		t.Fatalf("expected a shared open extension")
	}
	if show(ctx, extA) != "{b : Str | '_0}" || show(ctx, extB) != "{a : Int | '_0}" {
		t.Fatalf("extensions: %s, %s", show(ctx, extA), show(ctx, extB))
	}
}

func TestClosedRowMismatch(t *testing.T) {
	ctx := NewContext(types.NewArena())
	a, b := live(t, ctx, 1, "{a : Int}"), live(t, ctx, 1, "{a : Int, b : Str}")
	err := ctx.Unify(a, b)
	var m *Mismatch
	if !errors.As(err, &m) || m.Kind != RowMismatch {
		t.Fatalf("expected a row mismatch, found %v", err)
	}
	if len(m.Extra) != 1 || m.Extra[0] != "b" || len(m.Missing) != 0 {
		t.Fatalf("mismatch: %# v", pretty.Formatter(m))
	}

	ctx = NewContext(types.NewArena())
	a, b = live(t, ctx, 1, "{a : Int}"), live(t, ctx, 1, "{a : Int, b : Str}")
	err = ctx.Unify(b, a)
	if !errors.As(err, &m) || m.Kind != RowMismatch || len(m.Missing) != 1 || m.Missing[0] != "b" {
		t.Fatalf("expected b to be missing, found %v", err)
	}
}

func TestRecursiveTagUnion(t *testing.T) {
	ctx := NewContext(types.NewArena())
	a := ctx.Arena
	self := a.Fresh(1)
	list := live(t, ctx, 1, "[Cons Int x, Nil]")
	tags, _, _ := a.GatherTags(list)
	cons, _ := tags.Get("Cons")
	if err := ctx.Unify(cons.Get(1), self); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Unify(self, list); err != nil {
		t.Fatalf("expected a recursive type, found %v", err)
	}
	if union, ok := a.Content(list).Shape.(*types.FlatTagUnion); !ok || !union.Recursive {
		t.Fatalf("expected the tag union to be marked recursive")
	}
	typeString := show(ctx, list)
	if typeString != "[Cons Int 'a, Nil] as 'a" {
		t.Fatalf("type: %s", typeString)
	}
	t.Logf("type: %s", typeString)

	// Recursive types unify coinductively:
	other := a.Fresh(1)
	list2 := live(t, ctx, 1, "[Cons x y, Nil]")
	tags2, _, _ := a.GatherTags(list2)
	cons2, _ := tags2.Get("Cons")
	if err := ctx.Unify(cons2.Get(1), other); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Unify(other, list2); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Unify(list, list2); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Validate(list); err != nil {
		t.Fatal(err)
	}
}

func TestOccursCheck(t *testing.T) {
	for _, sig := range []string{"x -> Int", "{a : x}", "List[x]", "[A | x]"} {
		ctx := NewContext(types.NewArena())
		x := ctx.Arena.Fresh(1)
		s := live(t, ctx, 1, sig)
		var inner types.Variable
		// locate the type-variable named x within s:
		for v := types.Variable(1); int(v) <= ctx.Arena.Len(); v++ {
			if c := ctx.Arena.Content(v); c.IsUnbound() && c.Name == "x" {
				inner = v
			}
		}
		if err := ctx.Unify(x, inner); err != nil {
			t.Fatal(err)
		}
		err := ctx.Unify(x, s)
		var m *Mismatch
		if !errors.As(err, &m) || m.Kind != OccursMismatch {
			t.Fatalf("%s: expected an occurs mismatch, found %v", sig, err)
		}
	}
}

func TestFunctionRecordMismatch(t *testing.T) {
	for _, swap := range []bool{false, true} {
		ctx := NewContext(types.NewArena())
		fn, rec := live(t, ctx, 1, "Int -> Int"), live(t, ctx, 1, "{a : Int}")
		var err error
		if swap {
			err = ctx.Unify(rec, fn)
		} else {
			err = ctx.Unify(fn, rec)
		}
		var m *Mismatch
		if !errors.As(err, &m) || m.Kind != ShapeMismatch {
			t.Fatalf("expected a shape mismatch, found %v", err)
		}
		expected, found := show(ctx, m.Expected), show(ctx, m.Found)
		if swap {
			expected, found = found, expected
		}
		if expected != "Int -> Int" || found != "{a : Int}" {
			t.Fatalf("mismatch: %s, %s", expected, found)
		}
	}
}

func TestRigidVariables(t *testing.T) {
	ctx := NewContext(types.NewArena())
	a := ctx.Arena
	rigid, flex := a.FreshRigid(1, "a"), a.Fresh(1)
	if err := ctx.Unify(flex, rigid); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Unify(rigid, flex); err != nil {
		t.Fatal(err)
	}
	err := ctx.Unify(rigid, live(t, ctx, 1, "Int"))
	var m *Mismatch
	if !errors.As(err, &m) || m.Kind != RigidMismatch {
		t.Fatalf("expected a rigid mismatch, found %v", err)
	}
	if err := ctx.Unify(rigid, a.FreshRigid(1, "b")); err == nil {
		t.Fatalf("expected distinct rigid type-variables to mismatch")
	}
}

func TestGeneralizeInstantiate(t *testing.T) {
	ctx := NewContext(types.NewArena())
	a := ctx.Arena
	f := live(t, ctx, 2, "(a, {x : b | r}) -> a")
	quantified := ctx.Generalize(1, f)
	if quantified.Size() != 3 {
		t.Fatalf("expected 3 quantified type-variables, found %v", quantified.Slice())
	}
	typeString := show(ctx, f)
	if typeString != "('a, {x : 'b | 'c}) -> 'a" {
		t.Fatalf("type: %s", typeString)
	}

	i1, err := ctx.Instantiate(1, f)
	if err != nil {
		t.Fatal(err)
	}
	i2, err := ctx.Instantiate(1, f)
	if err != nil {
		t.Fatal(err)
	}
	if show(ctx, i1) != show(ctx, i2) || a.Equivalent(i1, i2) {
		t.Fatalf("expected structurally equal, disjoint instances")
	}
	if err := ctx.Unify(i1, live(t, ctx, 1, "(Int, {x : Str}) -> Int")); err != nil {
		t.Fatal(err)
	}
	if show(ctx, i1) != "(Int, {x : Str}) -> Int" || show(ctx, i2) != "('_0, {x : '_1 | '_2}) -> '_0" {
		t.Fatalf("instances: %s, %s", show(ctx, i1), show(ctx, i2))
	}
	if show(ctx, f) != typeString {
		t.Fatalf("scheme was modified: %s", show(ctx, f))
	}
}

func TestRankLowering(t *testing.T) {
	ctx := NewContext(types.NewArena())
	a := ctx.Arena
	v := a.Fresh(1)
	deep := live(t, ctx, 3, "{a : x, b : List[y]}")
	if err := ctx.Unify(v, deep); err != nil {
		t.Fatal(err)
	}
	fields, _ := a.GatherFields(deep)
	fields.Range(func(label string, vs types.VarList) bool {
		if r := a.Rank(vs.Get(0)); r != 1 {
			t.Fatalf("field %s: expected rank 1, found %d", label, r)
		}
		return true
	})
	if q := ctx.Generalize(1, deep); q.Size() != 0 {
		t.Fatalf("expected no quantified type-variables")
	}
}

func TestLimits(t *testing.T) {
	ctx := NewContext(types.NewArena())
	ctx.MaxInstantiationSize = 3
	scheme, err := ctx.Arena.Import(types.MustParse("(a, b) -> {x : a, y : b}"))
	if err != nil {
		t.Fatal(err)
	}
	var limit *LimitError
	if _, err := ctx.Instantiate(1, scheme); !errors.As(err, &limit) {
		t.Fatalf("expected a limit error, found %v", err)
	}

	ctx = NewContext(types.NewArena())
	ctx.MaxUnifyDepth = 4
	a := live(t, ctx, 1, "List[List[List[List[List[a]]]]]")
	b := live(t, ctx, 1, "List[List[List[List[List[Int]]]]]")
	if err := ctx.Unify(a, b); !errors.As(err, &limit) {
		t.Fatalf("expected a limit error, found %v", err)
	}
}

func TestInternalErrors(t *testing.T) {
	ctx := NewContext(types.NewArena())
	unregistered := ctx.Arena.Fresh(types.NoRank)
	var internal *InternalError
	if err := ctx.Unify(unregistered, ctx.Arena.Fresh(1)); !errors.As(err, &internal) {
		t.Fatalf("expected an internal error, found %v", err)
	}

	// a record which extends itself:
	a := ctx.Arena
	ext := a.Fresh(1)
	rec := a.FreshShape(1, &types.FlatRecord{Fields: types.SingletonLabelMap("a", a.Fresh(1)), Ext: ext})
	a.Link(ext, rec)
	if err := ctx.Validate(rec); !errors.As(err, &internal) {
		t.Fatalf("expected an internal error, found %v", err)
	}
}

func TestOpenRowMismatchLabels(t *testing.T) {
	tests := []struct {
		expected, found string
		missing, extra  []string
	}{
		// the found union may still gain Cons and Nil:
		{"[Cons Int, Nil]", "[Foo | r]", nil, []string{"Foo"}},
		// the expected record may still gain b and c:
		{"{a : Int | r}", "{b : Int, c : Int}", []string{"a"}, nil},
		{"{a : Int}", "{b : Int}", []string{"a"}, []string{"b"}},
	}
	for _, tt := range tests {
		ctx := NewContext(types.NewArena())
		a, b := live(t, ctx, 1, tt.expected), live(t, ctx, 1, tt.found)
		err := ctx.Unify(a, b)
		var m *Mismatch
		if !errors.As(err, &m) || m.Kind != RowMismatch {
			t.Fatalf("%s ~ %s: expected a row mismatch, found %v", tt.expected, tt.found, err)
		}
		if diff := pretty.Diff([][]string{tt.missing, tt.extra}, [][]string{m.Missing, m.Extra}); len(diff) > 0 {
			t.Fatalf("%s ~ %s: labels: %v", tt.expected, tt.found, diff)
		}
	}
}

func TestGeneralizeSharesGroundTypes(t *testing.T) {
	ctx := NewContext(types.NewArena())
	a := ctx.Arena
	f := live(t, ctx, 2, "(a, {x : Int, y : List[Str]}) -> a")
	ctx.Generalize(1, f)
	if !ctx.IsGeneric(f) {
		t.Fatalf("expected the function to be generic")
	}
	arg := a.Content(f).Shape.(*types.FlatFunc).Args[1]
	if ctx.IsGeneric(arg) || a.Rank(arg) != 1 {
		t.Fatalf("expected the record to be lowered to rank 1, found rank %d", a.Rank(arg))
	}

	i1, err := ctx.Instantiate(1, f)
	if err != nil {
		t.Fatal(err)
	}
	i2, err := ctx.Instantiate(1, f)
	if err != nil {
		t.Fatal(err)
	}
	args1 := a.Content(i1).Shape.(*types.FlatFunc).Args
	args2 := a.Content(i2).Shape.(*types.FlatFunc).Args
	if !a.Equivalent(args1[1], arg) || !a.Equivalent(args2[1], arg) {
		t.Fatalf("expected instances to share the record")
	}
	if a.Equivalent(args1[0], args2[0]) {
		t.Fatalf("expected instances to have distinct type-variables")
	}
}

func TestInstantiationTreeSize(t *testing.T) {
	ctx := NewContext(types.NewArena())
	a := ctx.Arena
	shared := func(levels int) types.Variable {
		v := a.Fresh(2)
		for i := 0; i < levels; i++ {
			fields := types.EmptyLabelMap.Set("a", types.NewVarList(v)).Set("b", types.NewVarList(v))
			v = a.FreshShape(2, &types.FlatRecord{Fields: fields, Ext: a.FreshShape(2, types.FlatEmptyRecord{})})
		}
		ctx.Generalize(1, v)
		return v
	}

	// 8 levels: 3*2^8 - 2 nodes
	if _, err := ctx.Instantiate(1, shared(8)); err != nil {
		t.Fatal(err)
	}
	// 20 levels share 41 type-variables, but the instance has millions of nodes:
	var limit *LimitError
	if _, err := ctx.Instantiate(1, shared(20)); !errors.As(err, &limit) {
		t.Fatalf("expected a limit error, found %v", err)
	}
}
