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
	"strconv"
	"strings"
	"sync"
)

var printerPool = sync.Pool{
	New: func() interface{} {
		return &typePrinter{idNames: make(map[varKey]string, 16)}
	},
}

func newTypePrinter() *typePrinter { return printerPool.Get().(*typePrinter) }

func (p *typePrinter) Release() {
	for k := range p.idNames {
		delete(p.idNames, k)
	}
	p.generic, p.flex = 0, 0
	p.size, p.depth = 0, 0
	p.sb.Reset()
	printerPool.Put(p)
}

// TypeString returns a string representation of a Type.
//
// Generic type-variables are named `'a`, `'b`, ... and unbound type-variables are named `'_0`,
// `'_1`, ... in order of appearance. Rigid type-variables are printed by name. Broken types are
// printed as `?`.
//
// Types are printed as trees, so a type which shares structure may print much larger than it is.
// Output is bounded: nodes beyond MaxPrintSize, or nested deeper than MaxPrintDepth, are elided
// as `…`.
func TypeString(t Type) string {
	p := newTypePrinter()
	typeString(p, false, t)
	s := p.sb.String()
	p.Release()
	return s
}

// TypeStrings returns string representations of types which share type-variable names.
func TypeStrings(ts ...Type) []string {
	p := newTypePrinter()
	out := make([]string, len(ts))
	for i, t := range ts {
		typeString(p, false, t)
		out[i] = p.sb.String()
		p.sb.Reset()
		p.size = 0
	}
	p.Release()
	return out
}

// Printing bounds:
const (
	MaxPrintSize  = 1000
	MaxPrintDepth = 64
)

type typePrinter struct {
	idNames map[varKey]string
	generic uint
	flex    uint
	sb      strings.Builder

	// printed nodes and current nesting
	size, depth int
}

var _names [128]string
var _unboundNames [128]string

func init() {
	for i := range _names {
		_names[i] = varName(uint(i))
	}
	for i := range _unboundNames {
		_unboundNames[i] = "'_" + strconv.Itoa(i)
	}
}

func varName(i uint) string {
	if i >= 26 {
		return "'" + string(byte(97+i%26)) + strconv.Itoa(int(i/26))
	}
	return "'" + string(byte(97+i%26))
}

func getVarName(i uint) string {
	if i < uint(len(_names)) {
		return _names[i]
	}
	return varName(i)
}

func getUnboundVarName(i uint) string {
	if i < uint(len(_unboundNames)) {
		return _unboundNames[i]
	}
	return "'_" + strconv.Itoa(int(i))
}

func (p *typePrinter) varName(key varKey, kind VarKind) string {
	if name, ok := p.idNames[key]; ok {
		return name
	}
	var name string
	switch kind {
	case FlexVar:
		name = getUnboundVarName(p.flex)
		p.flex++
	default:
		name = getVarName(p.generic)
		p.generic++
	}
	p.idNames[key] = name
	return name
}

func typeString(p *typePrinter, simple bool, t Type) {
	if p.size >= MaxPrintSize || p.depth >= MaxPrintDepth {
		p.sb.WriteString("…")
		return
	}
	p.size++
	p.depth++
	printType(p, simple, t)
	p.depth--
}

func printType(p *typePrinter, simple bool, t Type) {
	switch t := t.(type) {
	case nil, RowEmpty:
		p.sb.WriteString("{}")

	case Error:
		p.sb.WriteByte('?')

	case *Var:
		if t.Kind == RigidVar && t.Name != "" {
			p.sb.WriteString(t.Name)
			return
		}
		key := varKey{id: t.Id}
		if t.Id == NoVariable {
			key.name = t.Name
		}
		p.sb.WriteString(p.varName(key, t.Kind))

	case *RecursiveLink:
		p.sb.WriteString(p.varName(varKey{id: t.Id, name: "\x00rec"}, GenericVar))

	case *Recursive:
		self := p.varName(varKey{id: t.Id, name: "\x00rec"}, GenericVar)
		if simple {
			p.sb.WriteByte('(')
		}
		typeString(p, false, t.Body)
		p.sb.WriteString(" as ")
		p.sb.WriteString(self)
		if simple {
			p.sb.WriteByte(')')
		}

	case *App:
		p.sb.WriteString(t.Name)
		typeArgs(p, t.Args)

	case *Alias:
		p.sb.WriteString(t.Name)
		typeArgs(p, t.Args)

	case *Arrow:
		if simple {
			p.sb.WriteByte('(')
		}
		if len(t.Args) == 1 {
			typeString(p, true, t.Args[0])
			p.sb.WriteString(" -> ")
			typeString(p, false, t.Return)
		} else {
			p.sb.WriteByte('(')
			for i, arg := range t.Args {
				if i > 0 {
					p.sb.WriteString(", ")
				}
				typeString(p, false, arg)
			}
			p.sb.WriteString(") -> ")
			typeString(p, false, t.Return)
		}
		if simple {
			p.sb.WriteByte(')')
		}

	case *Record:
		p.sb.WriteByte('{')
		i := 0
		t.Fields.Range(func(label string, ts TypeList) bool {
			ts.Range(func(_ int, t Type) bool {
				if i > 0 {
					p.sb.WriteString(", ")
				}
				p.sb.WriteString(label)
				p.sb.WriteString(" : ")
				typeString(p, false, t)
				i++
				return true
			})
			return true
		})
		rowExt(p, t.Ext, i > 0)
		p.sb.WriteByte('}')

	case *Variant:
		p.sb.WriteByte('[')
		i := 0
		t.Tags.Range(func(tag string, ts TypeList) bool {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(tag)
			ts.Range(func(_ int, t Type) bool {
				p.sb.WriteByte(' ')
				typeString(p, true, t)
				return true
			})
			i++
			return true
		})
		rowExt(p, t.Ext, i > 0)
		p.sb.WriteByte(']')
	}
}

func typeArgs(p *typePrinter, args []Type) {
	if len(args) == 0 {
		return
	}
	p.sb.WriteByte('[')
	for i, arg := range args {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		typeString(p, false, arg)
	}
	p.sb.WriteByte(']')
}

func rowExt(p *typePrinter, ext Type, hasLabels bool) {
	if IsClosed(ext) {
		return
	}
	if hasLabels {
		p.sb.WriteString(" | ")
	} else {
		p.sb.WriteString("| ")
	}
	typeString(p, false, ext)
}
