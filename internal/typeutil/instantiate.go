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
	"github.com/wdamron/rowinfer/types"
)

// Instantiate copies the generic type-variables reachable from v at the given rank. Non-generic
// type-variables are shared with the copy. Quantified rigid type-variables are instantiated as
// unbound type-variables with the same name hint.
//
// The size of an instance is the size of its type written out as a tree: a type-variable shared
// by n parents counts n times. Instantiation of a scheme larger than MaxInstantiationSize returns
// a *LimitError, which keeps schemes built by repeated self-application from growing unbounded.
func (ctx *Context) Instantiate(rank types.Rank, v types.Variable) (types.Variable, error) {
	if !ctx.IsGeneric(v) {
		// Non-generic types can be shared:
		return ctx.Arena.Find(v), nil
	}
	size := 0
	next, err := ctx.visitInstantiate(rank, v, &size)
	ctx.ClearInstantiationLookup()
	return next, err
}

// visitInstantiate copies v and adds the tree size of v to size.
func (ctx *Context) visitInstantiate(rank types.Rank, v types.Variable, size *int) (types.Variable, error) {
	a := ctx.Arena
	root, c := a.Resolve(v)

	// Non-generic types can be shared:
	if !ctx.IsGeneric(root) {
		*size++
		return root, ctx.checkInstantiationSize(*size)
	}
	if next, ok := ctx.instLookup[root]; ok {
		// in-progress structures are back-edges of recursive tag unions
		*size += max(ctx.instSize[root], 1)
		return next, ctx.checkInstantiationSize(*size)
	}

	switch c.Kind {
	case types.UnboundContent, types.RigidContent:
		next := a.FreshNamed(rank, c.Name)
		ctx.instLookup[root], ctx.instSize[root] = next, 1
		*size++
		return next, ctx.checkInstantiationSize(*size)

	case types.ErrorContent:
		next := a.FreshContent(rank, types.BrokenContent)
		ctx.instLookup[root], ctx.instSize[root] = next, 1
		*size++
		return next, ctx.checkInstantiationSize(*size)

	case types.StructureContent:
		// The placeholder breaks cycles through recursive tag unions:
		next := a.Fresh(rank)
		ctx.instLookup[root] = next
		inner := 1
		shape, err := ctx.instantiateShape(rank, c.Shape, &inner)
		if err != nil {
			return types.NoVariable, err
		}
		a.SetContent(next, types.StructureOf(shape))
		ctx.instSize[root] = inner
		*size += inner
		return next, ctx.checkInstantiationSize(*size)
	}
	return types.NoVariable, internalf("type-variable %d has invalid content", root)
}

func (ctx *Context) checkInstantiationSize(size int) error {
	if ctx.MaxInstantiationSize > 0 && size > ctx.MaxInstantiationSize {
		return &LimitError{Limit: "instantiation size", Max: ctx.MaxInstantiationSize}
	}
	return nil
}

func (ctx *Context) instantiateList(rank types.Rank, vs []types.Variable, size *int) ([]types.Variable, error) {
	if len(vs) == 0 {
		return nil, nil
	}
	out := make([]types.Variable, len(vs))
	for i, v := range vs {
		next, err := ctx.visitInstantiate(rank, v, size)
		if err != nil {
			return nil, err
		}
		out[i] = next
	}
	return out, nil
}

func (ctx *Context) instantiateLabels(rank types.Rank, m types.LabelMap, size *int) (types.LabelMap, error) {
	out := m
	var err error
	m.Range(func(label string, vs types.VarList) bool {
		var next []types.Variable
		next, err = ctx.instantiateList(rank, vs.Slice(), size)
		if err != nil {
			return false
		}
		out = out.Set(label, types.NewVarList(next...))
		return true
	})
	return out, err
}

func (ctx *Context) instantiateShape(rank types.Rank, shape types.FlatShape, size *int) (types.FlatShape, error) {
	switch shape := shape.(type) {
	case *types.FlatApply:
		args, err := ctx.instantiateList(rank, shape.Args, size)
		if err != nil {
			return nil, err
		}
		return &types.FlatApply{Name: shape.Name, Args: args}, nil

	case *types.FlatFunc:
		args, err := ctx.instantiateList(rank, shape.Args, size)
		if err != nil {
			return nil, err
		}
		ret, err := ctx.visitInstantiate(rank, shape.Ret, size)
		if err != nil {
			return nil, err
		}
		return &types.FlatFunc{Args: args, Ret: ret}, nil

	case *types.FlatRecord:
		fields, err := ctx.instantiateLabels(rank, shape.Fields, size)
		if err != nil {
			return nil, err
		}
		ext, err := ctx.visitInstantiate(rank, shape.Ext, size)
		if err != nil {
			return nil, err
		}
		return &types.FlatRecord{Fields: fields, Ext: ext}, nil

	case *types.FlatTagUnion:
		tags, err := ctx.instantiateLabels(rank, shape.Tags, size)
		if err != nil {
			return nil, err
		}
		ext, err := ctx.visitInstantiate(rank, shape.Ext, size)
		if err != nil {
			return nil, err
		}
		return &types.FlatTagUnion{Tags: tags, Ext: ext, Recursive: shape.Recursive}, nil

	case *types.FlatAlias:
		args, err := ctx.instantiateList(rank, shape.Args, size)
		if err != nil {
			return nil, err
		}
		real, err := ctx.visitInstantiate(rank, shape.Real, size)
		if err != nil {
			return nil, err
		}
		return &types.FlatAlias{Name: shape.Name, Args: args, Real: real}, nil
	}
	// empty rows have no children
	return shape, nil
}
