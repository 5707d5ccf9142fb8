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

package construct

import (
	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/types"
)

// Types

// Type-variable named within an annotation or signature.
func TVar(name string) *types.Var {
	return &types.Var{Name: name, Kind: types.GenericVar}
}

// Type constant or application: `Int`, `List[Int]`
func TApp(name string, args ...types.Type) *types.App {
	return types.NewApp(name, args...)
}

// Function type: `(Int, Int) -> Int`
func TArrow(args []types.Type, ret types.Type) *types.Arrow {
	return &types.Arrow{Args: args, Return: ret}
}

// Function type: `Int -> Int`
func TArrow1(arg types.Type, ret types.Type) *types.Arrow {
	return &types.Arrow{Args: []types.Type{arg}, Return: ret}
}

// Function type: `(Int, Int) -> Int`
func TArrow2(arg1, arg2 types.Type, ret types.Type) *types.Arrow {
	return &types.Arrow{Args: []types.Type{arg1, arg2}, Return: ret}
}

// Record type with fields: `{a : Int | ext}`. A nil ext closes the record.
func TRecord(fields map[string]types.Type, ext types.Type) *types.Record {
	return &types.Record{Fields: types.NewFieldMap(fields), Ext: ext}
}

// Tag union type: `[A Int, B | ext]`. A nil ext closes the union.
func TVariant(tags map[string][]types.Type, ext types.Type) *types.Variant {
	m := types.EmptyTypeMap
	for tag, payloads := range tags {
		m = m.Set(tag, types.NewTypeList(payloads...))
	}
	return &types.Variant{Tags: m, Ext: ext}
}

// Type alias: `Name[args] := real`
func TAlias(name string, real types.Type, args ...types.Type) *types.Alias {
	return &types.Alias{Name: name, Args: args, Real: real}
}

// Expressions:

// Integer literal
func Int(value int64) *ast.Int { return &ast.Int{Value: value} }

// Floating-point literal
func Float(value float64) *ast.Float { return &ast.Float{Value: value} }

// String literal
func Str(value string) *ast.Str { return &ast.Str{Value: value} }

// Variable
func Var(name string) *ast.Var {
	return &ast.Var{Name: name}
}

// Qualified variable: `Module.name`
func QVar(module, name string) *ast.Var {
	return &ast.Var{Module: module, Name: name}
}

// Application: `f(x)`
func Call(f ast.Expr, args ...ast.Expr) *ast.Call {
	return &ast.Call{Func: f, Args: args}
}

// Abstraction over identifiers: `\x, y -> x`
func Func(args []string, body ast.Expr) *ast.Lambda {
	patterns := make([]ast.Pattern, len(args))
	for i, arg := range args {
		patterns[i] = PVar(arg)
	}
	return &ast.Lambda{Args: patterns, Body: body}
}

// Abstraction: `\x -> x`
func Func1(arg string, body ast.Expr) *ast.Lambda {
	return Func([]string{arg}, body)
}

// Abstraction: `\x, y -> x`
func Func2(arg1, arg2 string, body ast.Expr) *ast.Lambda {
	return Func([]string{arg1, arg2}, body)
}

// Abstraction over patterns: `\{a, ..}, Some x -> x`
func Lambda(args []ast.Pattern, body ast.Expr) *ast.Lambda {
	return &ast.Lambda{Args: args, Body: body}
}

// Definition: `x = e`
func Def(name string, value ast.Expr) *ast.Def {
	return &ast.Def{Pattern: PVar(name), Value: value}
}

// Annotated definition: `x : T = e`
func AnnotatedDef(name string, annotation types.Type, value ast.Expr) *ast.Def {
	return &ast.Def{Pattern: PVar(name), Value: value, Annotation: annotation}
}

// Destructuring definition: `{a, ..} = e`
func PatternDef(pattern ast.Pattern, value ast.Expr) *ast.Def {
	return &ast.Def{Pattern: pattern, Value: value}
}

// Let-binding: `let a = 1 in e`
func Let(name string, value ast.Expr, body ast.Expr) *ast.Let {
	return &ast.Let{Def: Def(name, value), Body: body}
}

// Let-binding of a definition: `let a : Int = 1 in e`
func LetDef(def *ast.Def, body ast.Expr) *ast.Let {
	return &ast.Let{Def: def, Body: body}
}

// Mutually-recursive let-bindings: `let rec a = 1 and b = 2 in e`
func LetGroup(defs []*ast.Def, body ast.Expr) *ast.LetGroup {
	return &ast.LetGroup{Defs: defs, Body: body}
}

// Conditional: `if c then a else b`
func If(cond, then, els ast.Expr) *ast.If {
	return &ast.If{Cond: cond, Then: then, Else: els}
}

// Pattern-matching expression: `when e is ...`
func When(value ast.Expr, branches ...*ast.Branch) *ast.When {
	return &ast.When{Value: value, Branches: branches}
}

// Branch within When: `p -> e`
func Branch(pattern ast.Pattern, body ast.Expr) *ast.Branch {
	return &ast.Branch{Pattern: pattern, Body: body}
}

// Guarded branch within When: `p if g -> e`
func GuardedBranch(pattern ast.Pattern, guard, body ast.Expr) *ast.Branch {
	return &ast.Branch{Pattern: pattern, Guard: guard, Body: body}
}

// Record literal: `{a: 1, b: 2}`
func Record(fields ...ast.Field) *ast.Record {
	return &ast.Record{Fields: fields}
}

// Labeled value within a record literal or update
func Field(label string, value ast.Expr) ast.Field {
	return ast.Field{Label: label, Value: value}
}

// Selecting value of label: `r.a`
func RecordSelect(record ast.Expr, label string) *ast.RecordSelect {
	return &ast.RecordSelect{Record: record, Label: label}
}

// Accessor function: `.a`
func RecordAccessor(label string) *ast.RecordAccessor {
	return &ast.RecordAccessor{Label: label}
}

// Updating fields of a record: `{r & a: 1}`
func RecordUpdate(record ast.Expr, fields ...ast.Field) *ast.RecordUpdate {
	return &ast.RecordUpdate{Record: record, Fields: fields}
}

// Tag application: `Cons x xs`
func Tag(name string, args ...ast.Expr) *ast.Tag {
	return &ast.Tag{Name: name, Args: args}
}

// List literal: `[1, 2, 3]`
func List(elems ...ast.Expr) *ast.List {
	return &ast.List{Elems: elems}
}

// Patterns:

// Identifier pattern
func PVar(name string) *ast.PVar { return &ast.PVar{Name: name} }

// Wildcard pattern
func PWildcard() *ast.PWildcard { return &ast.PWildcard{} }

// Integer literal pattern
func PInt(value int64) *ast.PInt { return &ast.PInt{Value: value} }

// String literal pattern
func PStr(value string) *ast.PStr { return &ast.PStr{Value: value} }

// Tag pattern: `Cons x xs`
func PTag(name string, args ...ast.Pattern) *ast.PTag {
	return &ast.PTag{Name: name, Args: args}
}

// Open record pattern binding each label: `{a, b, ..}`
func PRecord(labels ...string) *ast.PRecord {
	fields := make([]ast.PField, len(labels))
	for i, label := range labels {
		fields[i] = ast.PField{Label: label, Pattern: PVar(label)}
	}
	return &ast.PRecord{Fields: fields}
}

// Field within a record pattern: `a: p`
func PField(label string, pattern ast.Pattern) ast.PField {
	return ast.PField{Label: label, Pattern: pattern}
}

// Modules:

// Module with definitions in source order.
func Module(name string, defs ...*ast.Def) *ast.Module {
	return &ast.Module{Name: name, Defs: defs}
}

// Import exposing the given names.
func Import(module string, exposed ...string) ast.Import {
	return ast.Import{Module: module, Exposed: exposed}
}
