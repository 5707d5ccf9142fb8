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

// Type is the base interface for syntactic types: constraint types, snapshots of solved
// type-variables, exported schemes and parsed signatures.
type Type interface {
	TypeName() string
}

var (
	_ Type = (*Var)(nil)
	_ Type = (*App)(nil)
	_ Type = (*Arrow)(nil)
	_ Type = (*Record)(nil)
	_ Type = (*Variant)(nil)
	_ Type = RowEmpty{}
	_ Type = (*Alias)(nil)
	_ Type = (*Recursive)(nil)
	_ Type = (*RecursiveLink)(nil)
	_ Type = Error{}
)

func (t *Var) TypeName() string     { return "Var" }
func (t *App) TypeName() string     { return "App" }
func (t *Arrow) TypeName() string   { return "Arrow" }
func (t *Record) TypeName() string  { return "Record" }
func (t *Variant) TypeName() string { return "Variant" }
func (t RowEmpty) TypeName() string { return "RowEmpty" }
func (t *Alias) TypeName() string   { return "Alias" }
func (t Error) TypeName() string    { return "Error" }

// VarKind distinguishes flexible, rigid and quantified type-variables.
type VarKind uint8

const (
	// Unknown type at some rank; printed as `'_0`, `'_1`, ...
	FlexVar VarKind = iota
	// Named type-variable from an annotation; printed by name.
	RigidVar
	// Quantified type-variable; printed as `'a`, `'b`, ...
	GenericVar
)

// Type variable
//
// Within a constraint tree, Id refers to a type-variable of the module's arena. Within a snapshot
// or an exported scheme, Id only identifies the variable within the tree. Parsed signatures
// identify their variables by Name.
type Var struct {
	Id   Variable
	Name string
	Kind VarKind
}

// Type application or constant: `Int` or `List[Int]`
type App struct {
	Name string
	Args []Type
}

// Function type: `(Int, Int) -> Int`
type Arrow struct {
	Args   []Type
	Return Type
}

// Record type: `{a : Int, b : Str | 'r}`
//
// A nil Ext is equivalent to RowEmpty (a closed record).
type Record struct {
	Fields TypeMap
	Ext    Type
}

// Tag union type: `[Cons Int 'a, Nil | 'r]`
//
// A nil Ext is equivalent to RowEmpty (a closed union).
type Variant struct {
	Tags TypeMap
	Ext  Type
}

// Empty row: closes a record or tag union.
type RowEmpty struct{}

// Type alias: `Pair['a] := {fst : 'a, snd : 'a}`
type Alias struct {
	Name string
	Args []Type
	Real Type
}

// Broken type, substituted for type-variables involved in a failed unification.
type Error struct{}

// Common type constants:
var (
	Int   = &App{Name: "Int"}
	Float = &App{Name: "Float"}
	Str   = &App{Name: "Str"}
	Bool  = &App{Name: "Bool"}
)

// Create a type application.
func NewApp(name string, args ...Type) *App { return &App{Name: name, Args: args} }

// Create a function type.
func NewArrow(ret Type, args ...Type) *Arrow { return &Arrow{Args: args, Return: ret} }

// Create a list type.
func NewList(elem Type) *App { return &App{Name: "List", Args: []Type{elem}} }

// IsClosed reports whether a row extension closes its row.
func IsClosed(ext Type) bool {
	switch ext.(type) {
	case nil, RowEmpty:
		return true
	}
	return false
}

// Walk calls f for t and each type nested within t, in depth-first order.
// If f returns false, the types nested within the current type will not be visited.
func Walk(t Type, f func(Type) bool) {
	if t == nil || !f(t) {
		return
	}
	switch t := t.(type) {
	case *App:
		for _, arg := range t.Args {
			Walk(arg, f)
		}
	case *Arrow:
		for _, arg := range t.Args {
			Walk(arg, f)
		}
		Walk(t.Return, f)
	case *Record:
		t.Fields.Range(func(_ string, ts TypeList) bool {
			ts.Range(func(_ int, t Type) bool {
				Walk(t, f)
				return true
			})
			return true
		})
		Walk(t.Ext, f)
	case *Variant:
		t.Tags.Range(func(_ string, ts TypeList) bool {
			ts.Range(func(_ int, t Type) bool {
				Walk(t, f)
				return true
			})
			return true
		})
		Walk(t.Ext, f)
	case *Alias:
		for _, arg := range t.Args {
			Walk(arg, f)
		}
		Walk(t.Real, f)
	case *Recursive:
		Walk(t.Body, f)
	}
}

// FreeNames returns the names of rigid or named type-variables within t, in order of appearance.
func FreeNames(t Type) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(t, func(t Type) bool {
		if tv, ok := t.(*Var); ok && tv.Name != "" && !seen[tv.Name] {
			seen[tv.Name] = true
			names = append(names, tv.Name)
		}
		return true
	})
	return names
}
