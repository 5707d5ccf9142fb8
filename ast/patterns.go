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

// Pattern is the base for all patterns.
type Pattern interface {
	Node
	PatternName() string
}

var (
	_ Pattern = (*PVar)(nil)
	_ Pattern = (*PWildcard)(nil)
	_ Pattern = (*PInt)(nil)
	_ Pattern = (*PStr)(nil)
	_ Pattern = (*PTag)(nil)
	_ Pattern = (*PRecord)(nil)
)

// Identifier pattern: `x`
type PVar struct {
	Meta
	Name string
}

// Wildcard pattern: `_`
type PWildcard struct {
	Meta
}

// Integer literal pattern: `0`
type PInt struct {
	Meta
	Value int64
}

// String literal pattern: `"abc"`
type PStr struct {
	Meta
	Value string
}

// Tag pattern: `Cons x xs`
type PTag struct {
	Meta
	Name string
	Args []Pattern
}

// Open record destructuring pattern: `{a, b: y, ..}`
type PRecord struct {
	Meta
	Fields []PField
}

// Field within a record pattern: `a: p`. The shorthand `{a}` binds `a: a`.
type PField struct {
	Label   string
	Pattern Pattern
	Region  Region
}

func (p *PVar) PatternName() string      { return "PVar" }
func (p *PWildcard) PatternName() string { return "PWildcard" }
func (p *PInt) PatternName() string      { return "PInt" }
func (p *PStr) PatternName() string      { return "PStr" }
func (p *PTag) PatternName() string      { return "PTag" }
func (p *PRecord) PatternName() string   { return "PRecord" }

// IsCatchAll reports whether p matches every value without inspecting it.
func IsCatchAll(p Pattern) bool {
	switch p.(type) {
	case *PVar, *PWildcard:
		return true
	}
	return false
}

// Bindings returns the identifiers bound by p, in order of appearance.
func Bindings(p Pattern) []*PVar {
	var vars []*PVar
	WalkPattern(p, func(p Pattern) {
		if pv, ok := p.(*PVar); ok {
			vars = append(vars, pv)
		}
	})
	return vars
}
