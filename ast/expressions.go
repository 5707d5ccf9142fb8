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

package ast

// Expr is the base for all expressions.
type Expr interface {
	Node
	// Name of the syntax-type of the expression.
	ExprName() string
}

var (
	_ Expr = (*Int)(nil)
	_ Expr = (*Float)(nil)
	_ Expr = (*Str)(nil)
	_ Expr = (*Var)(nil)
	_ Expr = (*Lambda)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Let)(nil)
	_ Expr = (*LetGroup)(nil)
	_ Expr = (*If)(nil)
	_ Expr = (*When)(nil)
	_ Expr = (*Record)(nil)
	_ Expr = (*RecordSelect)(nil)
	_ Expr = (*RecordAccessor)(nil)
	_ Expr = (*RecordUpdate)(nil)
	_ Expr = (*Tag)(nil)
	_ Expr = (*List)(nil)
)

// Integer literal: `1`
type Int struct {
	Meta
	Value int64
}

// Floating-point literal: `1.5`
type Float struct {
	Meta
	Value float64
}

// String literal: `"abc"`
type Str struct {
	Meta
	Value string
}

// Variable: `x`, or a qualified variable of an imported module: `List.map`
type Var struct {
	Meta
	Module string
	Name   string
}

// Abstraction: `\x, y -> x`
type Lambda struct {
	Meta
	Args []Pattern
	Body Expr
}

// Application: `f(x)`
type Call struct {
	Meta
	Func Expr
	Args []Expr
}

// Let-binding: `let a = 1 in e`
type Let struct {
	Meta
	Def  *Def
	Body Expr
}

// Mutually-recursive let-bindings: `let rec f = ... and g = ... in e`
type LetGroup struct {
	Meta
	Defs []*Def
	Body Expr
}

// Conditional: `if c then a else b`
type If struct {
	Meta
	Cond Expr
	Then Expr
	Else Expr
}

// Pattern-matching expression:
//
//	when e is
//	    Cons x _ if x > 0 -> expr1
//	    Nil -> expr2
//	    _ -> default_expr
type When struct {
	Meta
	Value    Expr
	Branches []*Branch
}

// Branch within When: `Cons x _ if x > 0 -> expr1`
type Branch struct {
	Meta
	Pattern Pattern
	// Guard is optional.
	Guard Expr
	Body  Expr
}

// Record literal: `{a: 1, b: 2}`
type Record struct {
	Meta
	Fields []Field
}

// Labeled value within a record literal or update
type Field struct {
	Label  string
	Value  Expr
	Region Region
}

// Selecting value of label: `r.a`
type RecordSelect struct {
	Meta
	Record Expr
	Label  string
}

// Accessor function: `.a`
type RecordAccessor struct {
	Meta
	Label string
}

// Updating existing fields of a record: `{r & a: 1}`
type RecordUpdate struct {
	Meta
	Record Expr
	Fields []Field
}

// Tag application: `Cons x xs`
type Tag struct {
	Meta
	Name string
	Args []Expr
}

// List literal: `[1, 2, 3]`
type List struct {
	Meta
	Elems []Expr
}

func (e *Int) ExprName() string            { return "Int" }
func (e *Float) ExprName() string          { return "Float" }
func (e *Str) ExprName() string            { return "Str" }
func (e *Var) ExprName() string            { return "Var" }
func (e *Lambda) ExprName() string         { return "Lambda" }
func (e *Call) ExprName() string           { return "Call" }
func (e *Let) ExprName() string            { return "Let" }
func (e *LetGroup) ExprName() string       { return "LetGroup" }
func (e *If) ExprName() string             { return "If" }
func (e *When) ExprName() string           { return "When" }
func (e *Record) ExprName() string         { return "Record" }
func (e *RecordSelect) ExprName() string   { return "RecordSelect" }
func (e *RecordAccessor) ExprName() string { return "RecordAccessor" }
func (e *RecordUpdate) ExprName() string   { return "RecordUpdate" }
func (e *Tag) ExprName() string            { return "Tag" }
func (e *List) ExprName() string           { return "List" }

// QualifiedName returns `Module.name` for qualified variables.
func (e *Var) QualifiedName() string {
	if e.Module == "" {
		return e.Name
	}
	return e.Module + "." + e.Name
}
