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

// ContentKind discriminates the content of a type-variable slot.
type ContentKind uint8

const (
	// Unknown type; may be bound by unification.
	UnboundContent ContentKind = iota
	// Named type-variable from an annotation; unifies only with unbound type-variables.
	RigidContent
	// Forwarded to another type-variable.
	LinkContent
	// Bound to a flat shape.
	StructureContent
	// Broken type, substituted after a failed unification. Error content absorbs
	// every unification without reporting.
	ErrorContent
)

// Content of a type-variable slot.
type Content struct {
	Kind ContentKind
	// Name hint for unbound and rigid type-variables.
	Name  string
	Link  Variable
	Shape FlatShape
}

// UnboundOf returns unbound content with a name hint.
func UnboundOf(name string) Content { return Content{Kind: UnboundContent, Name: name} }

// RigidOf returns rigid content.
func RigidOf(name string) Content { return Content{Kind: RigidContent, Name: name} }

// StructureOf returns content bound to shape.
func StructureOf(shape FlatShape) Content { return Content{Kind: StructureContent, Shape: shape} }

// BrokenContent is the content of type-variables substituted after a failed unification.
var BrokenContent = Content{Kind: ErrorContent}

func (c Content) IsUnbound() bool   { return c.Kind == UnboundContent }
func (c Content) IsRigid() bool     { return c.Kind == RigidContent }
func (c Content) IsStructure() bool { return c.Kind == StructureContent }
func (c Content) IsError() bool     { return c.Kind == ErrorContent }

// FlatShape is a type-constructor whose children are type-variables.
type FlatShape interface {
	ShapeName() string
	// Children calls f for each child type-variable. Payloads of tag unions are
	// reported with payload set to true.
	Children(f func(v Variable, payload bool))
}

var (
	_ FlatShape = (*FlatApply)(nil)
	_ FlatShape = (*FlatFunc)(nil)
	_ FlatShape = (*FlatRecord)(nil)
	_ FlatShape = (*FlatTagUnion)(nil)
	_ FlatShape = FlatEmptyRecord{}
	_ FlatShape = FlatEmptyTagUnion{}
	_ FlatShape = (*FlatAlias)(nil)
)

// Primitive or opaque type application: `Int`, `List[a]`
type FlatApply struct {
	Name string
	Args []Variable
}

// Function: `(a, b) -> c`
type FlatFunc struct {
	Args []Variable
	Ret  Variable
}

// Record row: `{a : x, b : y | ext}`
type FlatRecord struct {
	Fields LabelMap
	Ext    Variable
}

// Tag union row: `[A x, B | ext]`
type FlatTagUnion struct {
	Tags LabelMap
	Ext  Variable
	// Recursive marks a union through which a cycle in the type graph legally passes.
	Recursive bool
}

// Closed record row: `{}`
type FlatEmptyRecord struct{}

// Closed tag union row: `[]`
type FlatEmptyTagUnion struct{}

// Transparent alias: the name and arguments are kept for diagnostics.
type FlatAlias struct {
	Name string
	Args []Variable
	Real Variable
}

func (s *FlatApply) ShapeName() string      { return "Apply" }
func (s *FlatFunc) ShapeName() string       { return "Func" }
func (s *FlatRecord) ShapeName() string     { return "Record" }
func (s *FlatTagUnion) ShapeName() string   { return "TagUnion" }
func (FlatEmptyRecord) ShapeName() string   { return "EmptyRecord" }
func (FlatEmptyTagUnion) ShapeName() string { return "EmptyTagUnion" }
func (s *FlatAlias) ShapeName() string      { return "Alias" }

func (s *FlatApply) Children(f func(Variable, bool)) {
	for _, arg := range s.Args {
		f(arg, false)
	}
}

func (s *FlatFunc) Children(f func(Variable, bool)) {
	for _, arg := range s.Args {
		f(arg, false)
	}
	f(s.Ret, false)
}

func (s *FlatRecord) Children(f func(Variable, bool)) {
	s.Fields.Range(func(_ string, vs VarList) bool {
		vs.Range(func(_ int, v Variable) bool {
			f(v, false)
			return true
		})
		return true
	})
	f(s.Ext, false)
}

func (s *FlatTagUnion) Children(f func(Variable, bool)) {
	s.Tags.Range(func(_ string, vs VarList) bool {
		vs.Range(func(_ int, v Variable) bool {
			f(v, true)
			return true
		})
		return true
	})
	f(s.Ext, false)
}

func (FlatEmptyRecord) Children(func(Variable, bool))   {}
func (FlatEmptyTagUnion) Children(func(Variable, bool)) {}

func (s *FlatAlias) Children(f func(Variable, bool)) {
	for _, arg := range s.Args {
		f(arg, false)
	}
	f(s.Real, false)
}

// IsRecordRow reports whether shape is a record row (open or closed).
func IsRecordRow(shape FlatShape) bool {
	switch shape.(type) {
	case *FlatRecord, FlatEmptyRecord:
		return true
	}
	return false
}

// IsTagUnionRow reports whether shape is a tag union row (open or closed).
func IsTagUnionRow(shape FlatShape) bool {
	switch shape.(type) {
	case *FlatTagUnion, FlatEmptyTagUnion:
		return true
	}
	return false
}
