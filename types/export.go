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

package types

import (
	"errors"
	"fmt"
	"math"
)

// Export converts the type-variable v into a tree. Shared type-variables are exported once and
// shared within the tree; a cycle through a recursive tag union is exported as a Recursive type
// with a RecursiveLink at each back-edge.
//
// Unbound type-variables at GenericRank are exported as generic; other unbound type-variables are
// exported as flexible. Broken type-variables are exported as Error.
func (a *Arena) Export(v Variable) Type {
	e := exporter{a: a, memo: make(map[Variable]Type), active: make(map[Variable]int)}
	t, _ := e.export(v)
	return t
}

// ExportAll converts type-variables into trees which share variable identities.
func (a *Arena) ExportAll(vs ...Variable) []Type {
	e := exporter{a: a, memo: make(map[Variable]Type), active: make(map[Variable]int)}
	ts := make([]Type, len(vs))
	for i, v := range vs {
		ts[i], _ = e.export(v)
	}
	return ts
}

type exporter struct {
	a    *Arena
	memo map[Variable]Type
	// depth of each structure on the current path
	active map[Variable]int
	linked map[Variable]bool
}

const noLink = math.MaxInt

// export returns the tree for v and the shallowest path depth referenced by a back-edge within it.
func (e *exporter) export(v Variable) (Type, int) {
	root, c := e.a.Resolve(v)
	if t, ok := e.memo[root]; ok {
		return t, noLink
	}
	if depth, ok := e.active[root]; ok {
		if e.linked == nil {
			e.linked = make(map[Variable]bool)
		}
		e.linked[root] = true
		return &RecursiveLink{Id: root}, depth
	}

	var t Type
	low := noLink
	switch c.Kind {
	case UnboundContent:
		kind := FlexVar
		if e.a.Rank(root) == GenericRank {
			kind = GenericVar
		}
		t = &Var{Id: root, Name: c.Name, Kind: kind}
	case RigidContent:
		t = &Var{Id: root, Name: c.Name, Kind: RigidVar}
	case StructureContent:
		depth := len(e.active)
		e.active[root] = depth
		t, low = e.shape(root, c.Shape)
		delete(e.active, root)
		if e.linked[root] {
			delete(e.linked, root)
			t = &Recursive{Id: root, Body: t}
		}
		if low < depth {
			// The tree links to an enclosing type; it cannot be shared outside of it.
			return t, low
		}
		low = noLink
	default:
		t = Error{}
	}
	e.memo[root] = t
	return t, low
}

func (e *exporter) list(vs []Variable) ([]Type, int) {
	ts, low := make([]Type, len(vs)), noLink
	for i, v := range vs {
		var l int
		ts[i], l = e.export(v)
		low = min(low, l)
	}
	return ts, low
}

func (e *exporter) labels(m LabelMap) (TypeMap, int) {
	out, low := EmptyTypeMap, noLink
	m.Range(func(label string, vs VarList) bool {
		ts, l := e.list(vs.Slice())
		out = out.Set(label, NewTypeList(ts...))
		low = min(low, l)
		return true
	})
	return out, low
}

func (e *exporter) ext(v Variable) (Type, int) {
	if e.a.IsEmptyRow(v) {
		return nil, noLink
	}
	return e.export(v)
}

func (e *exporter) shape(root Variable, shape FlatShape) (Type, int) {
	switch shape := shape.(type) {
	case *FlatApply:
		args, low := e.list(shape.Args)
		if len(args) == 0 {
			args = nil
		}
		return &App{Name: shape.Name, Args: args}, low
	case *FlatFunc:
		args, low := e.list(shape.Args)
		ret, l := e.export(shape.Ret)
		return &Arrow{Args: args, Return: ret}, min(low, l)
	case *FlatRecord:
		fields, ext := e.a.GatherFields(root)
		fm, low := e.labels(fields)
		et, l := e.ext(ext)
		return &Record{Fields: fm, Ext: et}, min(low, l)
	case FlatEmptyRecord:
		return &Record{Fields: EmptyTypeMap}, noLink
	case *FlatTagUnion:
		tags, ext, _ := e.a.GatherTags(root)
		tm, low := e.labels(tags)
		et, l := e.ext(ext)
		return &Variant{Tags: tm, Ext: et}, min(low, l)
	case FlatEmptyTagUnion:
		return &Variant{Tags: EmptyTypeMap}, noLink
	case *FlatAlias:
		args, low := e.list(shape.Args)
		real, l := e.export(shape.Real)
		return &Alias{Name: shape.Name, Args: args, Real: real}, min(low, l)
	}
	return Error{}, noLink
}

// ErrMalformedType is returned for trees which cannot be converted into type-variables.
var ErrMalformedType = errors.New("malformed type")

// FromType converts a constraint type into type-variables at the given rank. Each Var must refer
// to a type-variable of the arena by Id.
func (a *Arena) FromType(t Type, rank Rank) (Variable, error) {
	im := importer{a: a, rank: rank, local: true}
	return im.convert(t)
}

// Import copies a tree from another arena (or a parsed signature) into the arena at GenericRank.
// Type-variables are identified by Id and Name within the tree and mapped to fresh type-variables;
// live type-variables are never shared between arenas.
func (a *Arena) Import(t Type) (Variable, error) {
	im := importer{a: a, rank: GenericRank, vars: make(map[varKey]Variable)}
	return im.convert(t)
}

type varKey struct {
	id   Variable
	name string
}

type importer struct {
	a     *Arena
	rank  Rank
	local bool
	vars  map[varKey]Variable
	links map[Variable]Variable
	// number of back-edges converted so far
	backEdges int
	// converted subtrees without back-edges, so that shared subtrees are converted once
	memo map[Type]Variable
}

func (im *importer) convert(t Type) (Variable, error) {
	switch t.(type) {
	case *App, *Arrow, *Record, *Variant, *Alias:
	default:
		return im.convertType(t)
	}
	if v, ok := im.memo[t]; ok {
		return v, nil
	}
	before := im.backEdges
	v, err := im.convertType(t)
	if err == nil && im.backEdges == before {
		if im.memo == nil {
			im.memo = make(map[Type]Variable)
		}
		im.memo[t] = v
	}
	return v, err
}

func (im *importer) convertType(t Type) (Variable, error) {
	a := im.a
	switch t := t.(type) {
	case *Var:
		if im.local {
			if !a.Valid(t.Id) {
				return NoVariable, fmt.Errorf("%w: type-variable %d is not allocated", ErrMalformedType, t.Id)
			}
			return t.Id, nil
		}
		key := varKey{t.Id, t.Name}
		if v, ok := im.vars[key]; ok {
			return v, nil
		}
		var v Variable
		if t.Kind == RigidVar {
			v = a.FreshRigid(im.rank, t.Name)
		} else {
			v = a.FreshNamed(im.rank, t.Name)
		}
		im.vars[key] = v
		return v, nil

	case *App:
		args, err := im.list(t.Args)
		if err != nil {
			return NoVariable, err
		}
		return a.FreshShape(im.rank, &FlatApply{Name: t.Name, Args: args}), nil

	case *Arrow:
		args, err := im.list(t.Args)
		if err != nil {
			return NoVariable, err
		}
		ret, err := im.convert(t.Return)
		if err != nil {
			return NoVariable, err
		}
		return a.FreshShape(im.rank, &FlatFunc{Args: args, Ret: ret}), nil

	case *Record:
		fields, err := im.labels(t.Fields)
		if err != nil {
			return NoVariable, err
		}
		ext, err := im.ext(t.Ext, true)
		if err != nil {
			return NoVariable, err
		}
		if fields.Len() == 0 {
			return ext, nil
		}
		return a.FreshShape(im.rank, &FlatRecord{Fields: fields, Ext: ext}), nil

	case *Variant:
		before := im.backEdges
		tags, err := im.labels(t.Tags)
		if err != nil {
			return NoVariable, err
		}
		recursive := im.backEdges > before
		ext, err := im.ext(t.Ext, false)
		if err != nil {
			return NoVariable, err
		}
		if tags.Len() == 0 {
			return ext, nil
		}
		return a.FreshShape(im.rank, &FlatTagUnion{Tags: tags, Ext: ext, Recursive: recursive}), nil

	case RowEmpty:
		return NoVariable, fmt.Errorf("%w: empty row outside of a record or tag union", ErrMalformedType)

	case *Alias:
		args, err := im.list(t.Args)
		if err != nil {
			return NoVariable, err
		}
		real, err := im.convert(t.Real)
		if err != nil {
			return NoVariable, err
		}
		return a.FreshShape(im.rank, &FlatAlias{Name: t.Name, Args: args, Real: real}), nil

	case *Recursive:
		if im.links == nil {
			im.links = make(map[Variable]Variable)
		}
		self := a.Fresh(im.rank)
		im.links[t.Id] = self
		body, err := im.convert(t.Body)
		delete(im.links, t.Id)
		if err != nil {
			return NoVariable, err
		}
		a.Link(self, body)
		return body, nil

	case *RecursiveLink:
		self, ok := im.links[t.Id]
		if !ok {
			return NoVariable, fmt.Errorf("%w: recursive link %d outside of its recursive type", ErrMalformedType, t.Id)
		}
		im.backEdges++
		return self, nil

	case Error:
		return a.FreshContent(im.rank, BrokenContent), nil
	}
	return NoVariable, fmt.Errorf("%w: %T", ErrMalformedType, t)
}

func (im *importer) list(ts []Type) ([]Variable, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	vs := make([]Variable, len(ts))
	for i, t := range ts {
		v, err := im.convert(t)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func (im *importer) labels(m TypeMap) (LabelMap, error) {
	out := EmptyLabelMap
	var err error
	m.Range(func(label string, ts TypeList) bool {
		var vs []Variable
		vs, err = im.list(ts.Slice())
		if err != nil {
			return false
		}
		out = out.Set(label, NewVarList(vs...))
		return true
	})
	return out, err
}

func (im *importer) ext(t Type, record bool) (Variable, error) {
	if IsClosed(t) {
		if record {
			return im.a.FreshShape(im.rank, FlatEmptyRecord{}), nil
		}
		return im.a.FreshShape(im.rank, FlatEmptyTagUnion{}), nil
	}
	return im.convert(t)
}
