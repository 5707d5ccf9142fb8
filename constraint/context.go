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

package constraint

import (
	"strconv"
)

// ContextKind names the syntactic position of a constraint.
type ContextKind uint8

const (
	NoContext ContextKind = iota
	// Index-th argument of a call to Name
	CallArgument
	// Function called by a call to Name
	CallFunction
	// Condition of an if-expression
	IfCondition
	// Else branch of an if-expression, checked against the then branch
	IfBranch
	// Pattern of the Index-th branch of a when-expression
	WhenPattern
	// Guard of the Index-th branch of a when-expression
	WhenGuard
	// Body of the Index-th branch of a when-expression
	WhenBranch
	// Field Name of a record literal
	RecordField
	// Record whose field Name is accessed
	RecordAccess
	// Record updated with field Name
	RecordUpdate
	// Index-th element of a list literal
	ListElement
	// Index-th payload of tag Name
	TagPayload
	// Annotation of definition Name
	Annotation
	// Index-th argument pattern of a lambda
	LambdaArgument
	// Pattern of definition Name
	DefPattern
)

// Context describes where a constraint was raised.
type Context struct {
	Kind  ContextKind
	Index int
	Name  string
}

// Ordinal returns `1st`, `2nd`, `3rd`, ... for the zero-based index i.
func Ordinal(i int) string {
	n := i + 1
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

func quote(name string) string { return "`" + name + "`" }

func (c Context) callee() string {
	if c.Name == "" {
		return "function"
	}
	return quote(c.Name)
}

// String describes the context, e.g. "2nd argument of call to `add`".
func (c Context) String() string {
	switch c.Kind {
	case CallArgument:
		return Ordinal(c.Index) + " argument of call to " + c.callee()
	case CallFunction:
		return "call to " + c.callee()
	case IfCondition:
		return "condition of if"
	case IfBranch:
		return "else branch of if"
	case WhenPattern:
		return "pattern of " + Ordinal(c.Index) + " branch of when"
	case WhenGuard:
		return "guard of " + Ordinal(c.Index) + " branch of when"
	case WhenBranch:
		return Ordinal(c.Index) + " branch of when"
	case RecordField:
		return "field " + quote(c.Name) + " of record"
	case RecordAccess:
		return "access of field " + quote(c.Name)
	case RecordUpdate:
		return "update of field " + quote(c.Name)
	case ListElement:
		return Ordinal(c.Index) + " element of list"
	case TagPayload:
		return Ordinal(c.Index) + " payload of tag " + c.Name
	case Annotation:
		return "annotation of " + quote(c.Name)
	case LambdaArgument:
		return Ordinal(c.Index) + " argument of function"
	case DefPattern:
		return "definition of " + quote(c.Name)
	}
	return "expression"
}
