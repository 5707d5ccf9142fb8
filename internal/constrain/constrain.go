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

// Package constrain generates the constraint tree of a module.
//
// Every expression and pattern is assigned a fresh type-variable, allocated at NoRank and collected by
// the innermost generalizing Let. The solver registers collected type-variables when it enters the Let.
package constrain

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/constraint"
	"github.com/wdamron/rowinfer/internal/astutil"
	"github.com/wdamron/rowinfer/types"
)

// ErrMalformed is returned for syntax trees which cannot be constrained, such as trees with
// missing or duplicate node ids. Canonicalization should never produce such trees.
var ErrMalformed = errors.New("malformed syntax tree")

type collector struct {
	flex  []types.Variable
	rigid []types.Variable
}

// Generator produces constraints for one module. Type-variables are allocated in the module's arena.
type Generator struct {
	arena      *types.Arena
	nodes      map[ast.NodeID]types.Variable
	collectors []*collector
	err        error
}

// Create a generator allocating type-variables in arena.
func New(arena *types.Arena) *Generator {
	return &Generator{arena: arena, nodes: make(map[ast.NodeID]types.Variable, 64)}
}

// Nodes maps each constrained node to its type-variable.
func (g *Generator) Nodes() map[ast.NodeID]types.Variable { return g.nodes }

// Module returns the constraint for a module's definition groups, which must be given in
// dependency order. Each group becomes a generalizing Let nested within the Let of the previous
// group; the node types of a group are finalized once the group is generalized.
func (g *Generator) Module(groups []ast.DefGroup) (constraint.Constraint, error) {
	var root constraint.Constraint = constraint.True{}
	var last *constraint.Let
	for _, group := range groups {
		let := g.group(group.Defs, group.Recursive)
		let.Finalize = nodeIDs(group.Defs)
		let.Body = constraint.True{}
		if last == nil {
			root = let
		} else {
			last.Body = let
		}
		last = let
	}
	return root, g.err
}

func (g *Generator) fail(format string, args ...interface{}) {
	if g.err == nil {
		g.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

func (g *Generator) fresh() types.Variable {
	v := g.arena.Fresh(types.NoRank)
	top := g.collectors[len(g.collectors)-1]
	top.flex = append(top.flex, v)
	return v
}

func (g *Generator) freshRigid(name string) types.Variable {
	v := g.arena.FreshRigid(types.NoRank, name)
	top := g.collectors[len(g.collectors)-1]
	top.rigid = append(top.rigid, v)
	return v
}

// node assigns a fresh type-variable to n.
func (g *Generator) node(n ast.Node) types.Variable {
	v := g.fresh()
	meta := n.Node()
	if meta.ID == 0 {
		g.fail("%T at %s has no node id", n, meta.Region)
		return v
	}
	if _, exists := g.nodes[meta.ID]; exists {
		g.fail("duplicate node id %d at %s", meta.ID, meta.Region)
		return v
	}
	g.nodes[meta.ID] = v
	return v
}

func tv(v types.Variable) types.Type { return &types.Var{Id: v} }

func (g *Generator) freshTypes(n int) []types.Type {
	return lo.Times(n, func(int) types.Type { return tv(g.fresh()) })
}

// equal requires the type of node n to unify with the type expected by its context.
func equal(n ast.Node, v types.Variable, expected types.Type, ctx constraint.Context) constraint.Constraint {
	return &constraint.Equal{Found: tv(v), Expected: expected, Region: n.Node().Region, Context: ctx}
}

func nodeIDs(defs []*ast.Def) []ast.NodeID {
	var ids []ast.NodeID
	for _, def := range defs {
		ast.Walk(def, func(n ast.Node) bool {
			if id := n.Node().ID; id != 0 {
				ids = append(ids, id)
			}
			return true
		})
	}
	return ids
}

// Definitions:

// group returns a generalizing Let for defs, without a body.
func (g *Generator) group(defs []*ast.Def, recursive bool) *constraint.Let {
	g.collectors = append(g.collectors, &collector{})
	var bindings []constraint.Binding
	cs := make([]constraint.Constraint, 0, len(defs))
	for _, def := range defs {
		if def == nil {
			g.fail("nil definition")
			continue
		}
		bs, c := g.def(def)
		bindings = append(bindings, bs...)
		cs = append(cs, c)
	}
	col := g.collectors[len(g.collectors)-1]
	g.collectors = g.collectors[:len(g.collectors)-1]
	return &constraint.Let{
		Rigid:      col.rigid,
		Flex:       col.flex,
		Bindings:   bindings,
		Defs:       constraint.All(cs...),
		Generalize: true,
		Recursive:  recursive,
	}
}

func (g *Generator) def(def *ast.Def) ([]constraint.Binding, constraint.Constraint) {
	v := g.node(def)
	name := def.Name()
	var cs []constraint.Constraint
	valueCtx := constraint.Context{}
	if def.Annotation != nil {
		ann := g.annotation(def.Annotation, make(map[string]types.Variable))
		valueCtx = constraint.Context{Kind: constraint.Annotation, Name: name}
		cs = append(cs, &constraint.Equal{Found: ann, Expected: tv(v), Region: def.AnnotationSpan, Context: valueCtx})
	}
	if def.Pattern == nil {
		g.fail("definition at %s has no pattern", def.Region)
		return nil, constraint.True{}
	}
	bindings, pc := g.pattern(def.Pattern, tv(v), constraint.Context{Kind: constraint.DefPattern, Name: name})
	cs = append(cs, pc, g.expr(def.Value, tv(v), valueCtx))
	return bindings, constraint.All(cs...)
}

// annotation replaces the named type-variables of an annotation with rigid type-variables.
// Unnamed type-variables become flexible type-variables.
func (g *Generator) annotation(t types.Type, rigid map[string]types.Variable) types.Type {
	switch t := t.(type) {
	case *types.Var:
		if t.Name == "" {
			return tv(g.fresh())
		}
		v, ok := rigid[t.Name]
		if !ok {
			v = g.freshRigid(t.Name)
			rigid[t.Name] = v
		}
		return &types.Var{Id: v, Name: t.Name, Kind: types.RigidVar}
	case *types.App:
		return &types.App{Name: t.Name, Args: g.annotations(t.Args, rigid)}
	case *types.Arrow:
		return &types.Arrow{Args: g.annotations(t.Args, rigid), Return: g.annotation(t.Return, rigid)}
	case *types.Record:
		out := &types.Record{Fields: g.annotationMap(t.Fields, rigid)}
		if !types.IsClosed(t.Ext) {
			out.Ext = g.annotation(t.Ext, rigid)
		}
		return out
	case *types.Variant:
		out := &types.Variant{Tags: g.annotationMap(t.Tags, rigid)}
		if !types.IsClosed(t.Ext) {
			out.Ext = g.annotation(t.Ext, rigid)
		}
		return out
	case *types.Alias:
		return &types.Alias{Name: t.Name, Args: g.annotations(t.Args, rigid), Real: g.annotation(t.Real, rigid)}
	case *types.Recursive:
		return &types.Recursive{Id: t.Id, Body: g.annotation(t.Body, rigid)}
	}
	return t
}

func (g *Generator) annotations(ts []types.Type, rigid map[string]types.Variable) []types.Type {
	if len(ts) == 0 {
		return nil
	}
	return lo.Map(ts, func(t types.Type, _ int) types.Type { return g.annotation(t, rigid) })
}

func (g *Generator) annotationMap(m types.TypeMap, rigid map[string]types.Variable) types.TypeMap {
	out := types.EmptyTypeMap
	m.Range(func(label string, ts types.TypeList) bool {
		out = out.Set(label, types.NewTypeList(g.annotations(ts.Slice(), rigid)...))
		return true
	})
	return out
}

// Patterns:

// pattern returns the names bound by p and the constraints matching p against a value of the
// expected type.
func (g *Generator) pattern(p ast.Pattern, expected types.Type, ctx constraint.Context) ([]constraint.Binding, constraint.Constraint) {
	if p == nil {
		g.fail("nil pattern")
		return nil, constraint.True{}
	}
	region := p.Node().Region
	match := func(v types.Variable) constraint.Constraint {
		return &constraint.Pattern{Found: tv(v), Expected: expected, Region: region, Context: ctx}
	}
	switch p := p.(type) {
	case *ast.PVar:
		v := g.node(p)
		return []constraint.Binding{{Name: p.Name, Type: tv(v), Region: region}}, match(v)

	case *ast.PWildcard:
		return nil, match(g.node(p))

	case *ast.PInt:
		v := g.node(p)
		return nil, constraint.All(&constraint.Pattern{Found: types.Int, Expected: tv(v), Region: region}, match(v))

	case *ast.PStr:
		v := g.node(p)
		return nil, constraint.All(&constraint.Pattern{Found: types.Str, Expected: tv(v), Region: region}, match(v))

	case *ast.PTag:
		v := g.node(p)
		payloads := g.freshTypes(len(p.Args))
		cs := []constraint.Constraint{
			match(v),
			&constraint.IncludesTag{Type: tv(v), Tag: p.Name, Payloads: payloads, Region: region, Context: ctx},
		}
		var bindings []constraint.Binding
		for i, arg := range p.Args {
			bs, c := g.pattern(arg, payloads[i], constraint.Context{Kind: constraint.TagPayload, Index: i, Name: p.Name})
			bindings = append(bindings, bs...)
			cs = append(cs, c)
		}
		return bindings, constraint.All(cs...)

	case *ast.PRecord:
		v := g.node(p)
		fields := types.EmptyTypeMap
		fieldTypes := make([]types.Type, len(p.Fields))
		for i, field := range p.Fields {
			if _, exists := fields.Get(field.Label); exists {
				g.fail("duplicate field %s in pattern at %s", field.Label, region)
			}
			fieldTypes[i] = tv(g.fresh())
			fields = fields.Set(field.Label, types.SingletonTypeList(fieldTypes[i]))
		}
		// Record patterns are open: the value may have more fields.
		row := &types.Record{Fields: fields, Ext: tv(g.fresh())}
		cs := []constraint.Constraint{
			match(v),
			&constraint.Pattern{Found: row, Expected: tv(v), Region: region, Context: ctx},
		}
		var bindings []constraint.Binding
		for i, field := range p.Fields {
			bs, c := g.pattern(field.Pattern, fieldTypes[i], constraint.Context{Kind: constraint.RecordField, Name: field.Label})
			bindings = append(bindings, bs...)
			cs = append(cs, c)
		}
		return bindings, constraint.All(cs...)
	}
	g.fail("unknown pattern %s", p.PatternName())
	return nil, constraint.True{}
}

// Expressions:

func calleeName(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Var:
		return e.QualifiedName()
	case *ast.RecordSelect:
		return "." + e.Label
	}
	return ""
}

// expr returns the constraints for e, ending with an Equal between the type of e and the type
// expected by its context.
func (g *Generator) expr(e ast.Expr, expected types.Type, ctx constraint.Context) constraint.Constraint {
	if e == nil {
		g.fail("nil expression")
		return constraint.True{}
	}
	region := e.Node().Region
	switch e := e.(type) {
	case *ast.Int:
		return g.literal(e, types.Int, expected, ctx)

	case *ast.Float:
		return g.literal(e, types.Float, expected, ctx)

	case *ast.Str:
		return g.literal(e, types.Str, expected, ctx)

	case *ast.Var:
		v := g.node(e)
		return constraint.All(
			&constraint.Lookup{Name: e.QualifiedName(), Type: tv(v), Region: region},
			equal(e, v, expected, ctx))

	case *ast.Lambda:
		v := g.node(e)
		args := g.freshTypes(len(e.Args))
		ret := g.fresh()
		var bindings []constraint.Binding
		patterns := make([]constraint.Constraint, len(e.Args))
		for i, arg := range e.Args {
			var bs []constraint.Binding
			bs, patterns[i] = g.pattern(arg, args[i], constraint.Context{Kind: constraint.LambdaArgument, Index: i})
			bindings = append(bindings, bs...)
		}
		body := g.expr(e.Body, tv(ret), constraint.Context{})
		return constraint.All(
			&constraint.Equal{Found: &types.Arrow{Args: args, Return: tv(ret)}, Expected: tv(v), Region: region},
			&constraint.Let{Bindings: bindings, Defs: constraint.All(patterns...), Body: body},
			equal(e, v, expected, ctx))

	case *ast.Call:
		// The type-variable of a call is the return type of the called function.
		v := g.node(e)
		fn := g.fresh()
		name := calleeName(e.Func)
		args := g.freshTypes(len(e.Args))
		cs := make([]constraint.Constraint, 0, len(e.Args)+3)
		cs = append(cs,
			g.expr(e.Func, tv(fn), constraint.Context{}),
			&constraint.Equal{
				Found:    tv(fn),
				Expected: &types.Arrow{Args: args, Return: tv(v)},
				Region:   region,
				Context:  constraint.Context{Kind: constraint.CallFunction, Name: name},
			})
		for i, arg := range e.Args {
			cs = append(cs, g.expr(arg, args[i], constraint.Context{Kind: constraint.CallArgument, Index: i, Name: name}))
		}
		cs = append(cs, equal(e, v, expected, ctx))
		return constraint.All(cs...)

	case *ast.Let:
		v := g.node(e)
		if e.Def == nil {
			g.fail("let-binding at %s has no definition", region)
			return constraint.True{}
		}
		let := g.group([]*ast.Def{e.Def}, false)
		let.Body = g.expr(e.Body, tv(v), constraint.Context{})
		return constraint.All(let, equal(e, v, expected, ctx))

	case *ast.LetGroup:
		v := g.node(e)
		groups, err := astutil.Groups(e.Defs)
		if err != nil {
			g.fail("%v at %s", err, region)
			return constraint.True{}
		}
		// Grouped let-bindings are sorted into strongly-connected components, then solved in dependency order:
		lets := lo.Map(groups, func(group ast.DefGroup, _ int) *constraint.Let {
			return g.group(group.Defs, group.Recursive)
		})
		body := g.expr(e.Body, tv(v), constraint.Context{})
		for i := len(lets) - 1; i >= 0; i-- {
			lets[i].Body = body
			body = lets[i]
		}
		return constraint.All(body, equal(e, v, expected, ctx))

	case *ast.If:
		v := g.node(e)
		return constraint.All(
			g.expr(e.Cond, types.Bool, constraint.Context{Kind: constraint.IfCondition}),
			g.expr(e.Then, tv(v), constraint.Context{}),
			g.expr(e.Else, tv(v), constraint.Context{Kind: constraint.IfBranch}),
			equal(e, v, expected, ctx))

	case *ast.When:
		return g.when(e, expected, ctx)

	case *ast.Record:
		v := g.node(e)
		fields := types.EmptyTypeMap
		cs := make([]constraint.Constraint, 0, len(e.Fields)+2)
		for _, field := range e.Fields {
			if _, exists := fields.Get(field.Label); exists {
				g.fail("duplicate field %s in record at %s", field.Label, region)
			}
			fv := g.fresh()
			fields = fields.Set(field.Label, types.SingletonTypeList(tv(fv)))
			cs = append(cs, g.expr(field.Value, tv(fv), constraint.Context{Kind: constraint.RecordField, Name: field.Label}))
		}
		// Record literals are closed:
		cs = append(cs,
			&constraint.Equal{Found: &types.Record{Fields: fields}, Expected: tv(v), Region: region},
			equal(e, v, expected, ctx))
		return constraint.All(cs...)

	case *ast.RecordSelect:
		v := g.node(e)
		row := &types.Record{Fields: types.SingletonTypeMap(e.Label, tv(v)), Ext: tv(g.fresh())}
		return constraint.All(
			g.expr(e.Record, row, constraint.Context{Kind: constraint.RecordAccess, Name: e.Label}),
			equal(e, v, expected, ctx))

	case *ast.RecordAccessor:
		v := g.node(e)
		field := tv(g.fresh())
		row := &types.Record{Fields: types.SingletonTypeMap(e.Label, field), Ext: tv(g.fresh())}
		return constraint.All(
			&constraint.Equal{Found: types.NewArrow(field, row), Expected: tv(v), Region: region},
			equal(e, v, expected, ctx))

	case *ast.RecordUpdate:
		v := g.node(e)
		cs := make([]constraint.Constraint, 0, 2*len(e.Fields)+2)
		cs = append(cs, g.expr(e.Record, tv(v), constraint.Context{}))
		seen := make(map[string]bool, len(e.Fields))
		for _, field := range e.Fields {
			if seen[field.Label] {
				g.fail("duplicate field %s in record update at %s", field.Label, region)
			}
			seen[field.Label] = true
			fv := g.fresh()
			fieldCtx := constraint.Context{Kind: constraint.RecordUpdate, Name: field.Label}
			// The updated record must already have the field:
			row := &types.Record{Fields: types.SingletonTypeMap(field.Label, tv(fv)), Ext: tv(g.fresh())}
			cs = append(cs,
				&constraint.Equal{Found: tv(v), Expected: row, Region: field.Region, Context: fieldCtx},
				g.expr(field.Value, tv(fv), fieldCtx))
		}
		cs = append(cs, equal(e, v, expected, ctx))
		return constraint.All(cs...)

	case *ast.Tag:
		v := g.node(e)
		payloads := g.freshTypes(len(e.Args))
		cs := make([]constraint.Constraint, 0, len(e.Args)+2)
		for i, arg := range e.Args {
			cs = append(cs, g.expr(arg, payloads[i], constraint.Context{Kind: constraint.TagPayload, Index: i, Name: e.Name}))
		}
		// Tag expressions are open unions:
		union := &types.Variant{Tags: types.SingletonTypeMap(e.Name, payloads...), Ext: tv(g.fresh())}
		cs = append(cs,
			&constraint.Equal{Found: union, Expected: tv(v), Region: region},
			equal(e, v, expected, ctx))
		return constraint.All(cs...)

	case *ast.List:
		v := g.node(e)
		elem := tv(g.fresh())
		cs := make([]constraint.Constraint, 0, len(e.Elems)+2)
		for i, el := range e.Elems {
			cs = append(cs, g.expr(el, elem, constraint.Context{Kind: constraint.ListElement, Index: i}))
		}
		cs = append(cs,
			&constraint.Equal{Found: types.NewList(elem), Expected: tv(v), Region: region},
			equal(e, v, expected, ctx))
		return constraint.All(cs...)
	}
	g.fail("unknown expression %s", e.ExprName())
	return constraint.True{}
}

func (g *Generator) literal(e ast.Expr, t types.Type, expected types.Type, ctx constraint.Context) constraint.Constraint {
	v := g.node(e)
	return constraint.All(
		&constraint.Equal{Found: t, Expected: tv(v), Region: e.Node().Region},
		equal(e, v, expected, ctx))
}

// when constrains each branch within its own scope. The subject's tag union is closed when no
// branch matches every value.
func (g *Generator) when(e *ast.When, expected types.Type, ctx constraint.Context) constraint.Constraint {
	v := g.node(e)
	if len(e.Branches) == 0 {
		g.fail("when-expression at %s has no branches", e.Region)
		return constraint.True{}
	}
	subject := tv(g.fresh())
	cs := make([]constraint.Constraint, 0, len(e.Branches)+3)
	cs = append(cs, g.expr(e.Value, subject, constraint.Context{}))
	catchAll, hasTags := false, false
	for i, b := range e.Branches {
		bv := g.node(b)
		bindings, pc := g.pattern(b.Pattern, subject, constraint.Context{Kind: constraint.WhenPattern, Index: i})
		var guard constraint.Constraint = constraint.True{}
		if b.Guard != nil {
			guard = g.expr(b.Guard, types.Bool, constraint.Context{Kind: constraint.WhenGuard, Index: i})
		} else if ast.IsCatchAll(b.Pattern) {
			catchAll = true
		}
		if _, ok := b.Pattern.(*ast.PTag); ok {
			hasTags = true
		}
		body := constraint.All(
			guard,
			g.expr(b.Body, tv(bv), constraint.Context{}),
			&constraint.Equal{Found: tv(bv), Expected: tv(v), Region: b.Region, Context: constraint.Context{Kind: constraint.WhenBranch, Index: i}})
		cs = append(cs, &constraint.Let{Bindings: bindings, Defs: pc, Body: body})
	}
	if hasTags && !catchAll {
		cs = append(cs, &constraint.CloseUnion{Type: subject, Region: e.Region})
	}
	cs = append(cs, equal(e, v, expected, ctx))
	return constraint.All(cs...)
}
