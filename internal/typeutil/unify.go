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
	"strconv"

	set "github.com/hashicorp/go-set/v3"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/wdamron/rowinfer/types"
)

// Unify merges the types of expected and found, or returns a *Mismatch, *LimitError or
// *InternalError. Unification is not atomic: callers should unify within an arena transaction
// and roll back when an error is returned.
//
// On success, expected and found belong to the same equivalence class. The content of expected is
// kept when both are structures; aliases are kept when unified with their underlying types.
func (ctx *Context) Unify(expected, found types.Variable) error {
	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.MaxUnifyDepth > 0 && ctx.depth > ctx.MaxUnifyDepth {
		return &LimitError{Limit: "unification depth", Max: ctx.MaxUnifyDepth}
	}

	a := ctx.Arena
	if !a.Valid(expected) || !a.Valid(found) {
		return internalf("unification of unallocated type-variables %d and %d", expected, found)
	}
	ra, ca := a.Resolve(expected)
	rb, cb := a.Resolve(found)
	if ra == rb {
		return nil
	}
	if err := ctx.checkRank(ra); err != nil {
		return err
	}
	if err := ctx.checkRank(rb); err != nil {
		return err
	}

	// broken types absorb everything:

	if ca.Kind == types.ErrorContent {
		a.Link(rb, ra)
		return nil
	}
	if cb.Kind == types.ErrorContent {
		a.Link(ra, rb)
		return nil
	}

	// unify type variables:

	switch {
	case ca.Kind == types.UnboundContent && cb.Kind == types.UnboundContent:
		if ca.Name != "" && cb.Name == "" {
			a.Link(rb, ra)
		} else {
			a.Link(ra, rb)
		}
		return nil
	case ca.Kind == types.UnboundContent:
		return ctx.bind(ra, rb)
	case cb.Kind == types.UnboundContent:
		return ctx.bind(rb, ra)
	case ca.Kind == types.RigidContent || cb.Kind == types.RigidContent:
		detail := "rigid type-variable " + rigidName(ca, cb) + " cannot be bound to another type"
		return &Mismatch{Kind: RigidMismatch, Expected: ra, Found: rb, Detail: detail}
	}

	// unify recursive types coinductively:

	pair := orderedPair(ra, rb)
	if _, ok := ctx.active[pair]; ok {
		return nil
	}
	ctx.active[pair] = struct{}{}
	defer delete(ctx.active, pair)

	return ctx.unifyStructures(ra, rb, ca.Shape, cb.Shape)
}

func rigidName(ca, cb types.Content) string {
	if ca.Kind == types.RigidContent {
		return ca.Name
	}
	return cb.Name
}

func (ctx *Context) checkRank(v types.Variable) error {
	switch ctx.Arena.Rank(v) {
	case types.NoRank:
		return internalf("type-variable %d was not registered before unification", v)
	case types.GenericRank:
		return internalf("generic type-variable %d was not instantiated before unification", v)
	}
	return nil
}

// bind the unbound type-variable v to the structure or rigid type-variable t.
func (ctx *Context) bind(v, t types.Variable) error {
	a := ctx.Arena
	if a.Content(t).Kind == types.StructureContent {
		// prevent cyclical types:
		if err := ctx.checkOccurs(v, t); err != nil {
			return err
		}
	}
	a.Link(v, t)
	ctx.lowerChildRanks(t)
	return nil
}

// merge the equivalence class of found into expected, after their structures have been unified.
func (ctx *Context) merge(expected, found types.Variable) {
	a := ctx.Arena
	lower := a.Rank(found) < a.Rank(expected)
	a.Link(found, expected)
	if lower {
		ctx.lowerChildRanks(expected)
	}
}

func (ctx *Context) unifyStructures(ra, rb types.Variable, sa, sb types.FlatShape) error {
	// unify aliased types:

	aliasA, _ := sa.(*types.FlatAlias)
	aliasB, _ := sb.(*types.FlatAlias)
	switch {
	case aliasA != nil && aliasB != nil && aliasA.Name == aliasB.Name && len(aliasA.Args) == len(aliasB.Args):
		for i := range aliasA.Args {
			if err := ctx.Unify(aliasA.Args[i], aliasB.Args[i]); err != nil {
				return within(err, aliasA.Name+"["+strconv.Itoa(i)+"]")
			}
		}
		if err := ctx.Unify(aliasA.Real, aliasB.Real); err != nil {
			return err
		}
		ctx.merge(ra, rb)
		return nil
	case aliasA != nil:
		// unify b with a's underlying type; the alias is kept for a
		return ctx.Unify(aliasA.Real, rb)
	case aliasB != nil:
		return ctx.Unify(ra, aliasB.Real)
	}

	// unify types:

	switch a := sa.(type) {
	case *types.FlatApply:
		b, ok := sb.(*types.FlatApply)
		if !ok || a.Name != b.Name {
			break
		}
		if len(a.Args) != len(b.Args) {
			return &Mismatch{Kind: ArityMismatch, Expected: ra, Found: rb,
				Detail: "type " + a.Name + " applied to differing numbers of arguments"}
		}
		for i := range a.Args {
			if err := ctx.Unify(a.Args[i], b.Args[i]); err != nil {
				return within(err, a.Name+"["+strconv.Itoa(i)+"]")
			}
		}
		ctx.merge(ra, rb)
		return nil

	case *types.FlatFunc:
		b, ok := sb.(*types.FlatFunc)
		if !ok {
			break
		}
		if len(a.Args) != len(b.Args) {
			return &Mismatch{Kind: ArityMismatch, Expected: ra, Found: rb,
				Detail: "functions take " + strconv.Itoa(len(a.Args)) + " and " + strconv.Itoa(len(b.Args)) + " arguments"}
		}
		for i := range a.Args {
			if err := ctx.Unify(a.Args[i], b.Args[i]); err != nil {
				return within(err, "arg"+strconv.Itoa(i+1))
			}
		}
		if err := ctx.Unify(a.Ret, b.Ret); err != nil {
			return within(err, "return")
		}
		ctx.merge(ra, rb)
		return nil

	case *types.FlatRecord, types.FlatEmptyRecord:
		if !types.IsRecordRow(sb) {
			break
		}
		if sa == sb {
			// both closed
			ctx.merge(ra, rb)
			return nil
		}
		return ctx.unifyRecords(ra, rb)

	case *types.FlatTagUnion, types.FlatEmptyTagUnion:
		if !types.IsTagUnionRow(sb) {
			break
		}
		if sa == sb {
			ctx.merge(ra, rb)
			return nil
		}
		return ctx.unifyTagUnions(ra, rb)
	}

	return &Mismatch{Kind: ShapeMismatch, Expected: ra, Found: rb}
}

// labelDiff splits the labels of two rows into shared labels and labels present in only one row.
func labelDiff(a, b types.LabelMap) (shared, onlyA, onlyB []string) {
	la, lb := set.From(a.Labels()), set.From(b.Labels())
	shared = la.Intersect(lb).Slice()
	onlyA = la.Difference(lb).Slice()
	onlyB = lb.Difference(la).Slice()
	slices.Sort(shared)
	slices.Sort(onlyA)
	slices.Sort(onlyB)
	return
}

func subset(m types.LabelMap, labels []string) types.LabelMap {
	out := types.EmptyLabelMap
	for _, label := range labels {
		vs, _ := m.Get(label)
		out = out.Set(label, vs)
	}
	return out
}

func (ctx *Context) unifyRecords(ra, rb types.Variable) error {
	a := ctx.Arena
	fieldsA, extA := a.GatherFields(ra)
	fieldsB, extB := a.GatherFields(rb)
	shared, onlyA, onlyB := labelDiff(fieldsA, fieldsB)

	for _, label := range shared {
		fa, _ := fieldsA.Field(label)
		fb, _ := fieldsB.Field(label)
		if err := ctx.Unify(fa, fb); err != nil {
			return within(err, label)
		}
	}

	newRecord := func(labels []string, fields types.LabelMap, ext types.Variable) types.Variable {
		return a.FreshShape(a.Rank(ext), &types.FlatRecord{Fields: subset(fields, labels), Ext: ext})
	}
	if err := ctx.unifyRowExtensions(ra, rb, extA, extB, onlyA, onlyB, func(labels []string, fromA bool, ext types.Variable) types.Variable {
		if fromA {
			return newRecord(labels, fieldsA, ext)
		}
		return newRecord(labels, fieldsB, ext)
	}, func(rank types.Rank) types.Variable {
		return a.Fresh(rank)
	}); err != nil {
		return err
	}
	ctx.merge(ra, rb)
	return nil
}

func (ctx *Context) unifyTagUnions(ra, rb types.Variable) error {
	a := ctx.Arena
	tagsA, extA, recA := a.GatherTags(ra)
	tagsB, extB, recB := a.GatherTags(rb)
	shared, onlyA, onlyB := labelDiff(tagsA, tagsB)

	for _, tag := range shared {
		pa, _ := tagsA.Get(tag)
		pb, _ := tagsB.Get(tag)
		if pa.Len() != pb.Len() {
			return &Mismatch{Kind: ArityMismatch, Expected: ra, Found: rb, Path: []string{tag},
				Detail: "tag " + tag + " has " + strconv.Itoa(pa.Len()) + " and " + strconv.Itoa(pb.Len()) + " payloads"}
		}
		for i := 0; i < pa.Len(); i++ {
			if err := ctx.Unify(pa.Get(i), pb.Get(i)); err != nil {
				return within(err, tag+"["+strconv.Itoa(i)+"]")
			}
		}
	}

	newUnion := func(labels []string, tags types.LabelMap, ext types.Variable) types.Variable {
		return a.FreshShape(a.Rank(ext), &types.FlatTagUnion{Tags: subset(tags, labels), Ext: ext})
	}
	if err := ctx.unifyRowExtensions(ra, rb, extA, extB, onlyA, onlyB, func(labels []string, fromA bool, ext types.Variable) types.Variable {
		if fromA {
			return newUnion(labels, tagsA, ext)
		}
		return newUnion(labels, tagsB, ext)
	}, func(rank types.Rank) types.Variable {
		return a.Fresh(rank)
	}); err != nil {
		return err
	}
	ctx.merge(ra, rb)
	if recA || recB {
		ctx.markRecursive(ra)
	}
	return nil
}

// unifyRowExtensions moves the labels present in only one row into the other row's extension.
//
// If only b has extra labels, a's extension gains them; if only a has extra labels, b's extension
// gains them. If both rows have extra labels, a fresh extension F is created at the minimum rank of
// both extensions, and a's extension becomes {onlyB | F} while b's extension becomes {onlyA | F}.
// A closed extension cannot gain labels.
func (ctx *Context) unifyRowExtensions(
	ra, rb, extA, extB types.Variable,
	onlyA, onlyB []string,
	extend func(labels []string, fromA bool, ext types.Variable) types.Variable,
	fresh func(types.Rank) types.Variable,
) error {
	a := ctx.Arena
	rowMismatch := func() error {
		return ctx.rowMismatch(ra, rb, extA, extB, onlyA, onlyB, "")
	}
	za, zb := len(onlyA) == 0, len(onlyB) == 0
	if !(za && zb) && a.Equivalent(extA, extB) {
		return rowMismatch()
	}
	switch {
	case za && zb: // all labels match
		return ctx.Unify(extA, extB)

	case za: // labels missing in a
		if a.IsEmptyRow(extA) {
			return rowMismatch()
		}
		if err := ctx.Unify(extA, extend(onlyB, false, extB)); err != nil {
			return ctx.rowExtensionError(err, ra, rb, extA, extB, onlyA, onlyB)
		}
		return nil

	case zb: // labels missing in b
		if a.IsEmptyRow(extB) {
			return rowMismatch()
		}
		if err := ctx.Unify(extend(onlyA, true, extA), extB); err != nil {
			return ctx.rowExtensionError(err, ra, rb, extA, extB, onlyA, onlyB)
		}
		return nil

	default: // labels missing in both a and b
		if a.IsEmptyRow(extA) || a.IsEmptyRow(extB) {
			return rowMismatch()
		}
		shared := fresh(min(a.Rank(extA), a.Rank(extB)))
		if err := ctx.Unify(extA, extend(onlyB, false, shared)); err != nil {
			return ctx.rowExtensionError(err, ra, rb, extA, extB, onlyA, onlyB)
		}
		if err := ctx.Unify(extend(onlyA, true, shared), extB); err != nil {
			return ctx.rowExtensionError(err, ra, rb, extA, extB, onlyA, onlyB)
		}
		return nil
	}
}

// Failures to extend a row (e.g. a rigid row variable) are reported as row mismatches.
func (ctx *Context) rowExtensionError(err error, ra, rb, extA, extB types.Variable, onlyA, onlyB []string) error {
	m, ok := err.(*Mismatch)
	if !ok || len(m.Path) > 0 {
		return err
	}
	return ctx.rowMismatch(ra, rb, extA, extB, onlyA, onlyB, lo.Ternary(m.Kind == RigidMismatch, m.Detail, ""))
}

// rowMismatch reports the labels which cannot be added to either row: labels only in a are
// missing when b's extension cannot gain them, and labels only in b are extra when a's extension
// cannot gain them. When both extensions are open, every differing label is reported.
func (ctx *Context) rowMismatch(ra, rb, extA, extB types.Variable, onlyA, onlyB []string, detail string) error {
	missing, extra := onlyA, onlyB
	if !ctx.fixedRow(extB) {
		missing = nil
	}
	if !ctx.fixedRow(extA) {
		extra = nil
	}
	if len(missing) == 0 && len(extra) == 0 {
		missing, extra = onlyA, onlyB
	}
	return &Mismatch{Kind: RowMismatch, Expected: ra, Found: rb, Missing: missing, Extra: extra, Detail: detail}
}

// fixedRow reports whether the row extension ext cannot gain labels.
func (ctx *Context) fixedRow(ext types.Variable) bool {
	return ctx.Arena.IsEmptyRow(ext) || ctx.Arena.Content(ext).IsRigid()
}
