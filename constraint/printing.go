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
	"strings"

	"github.com/sanity-io/litter"

	"github.com/wdamron/rowinfer/types"
)

// String renders a constraint tree, one constraint per line. Type-variables are printed by arena id.
func String(c Constraint) string {
	var sb strings.Builder
	write(&sb, 0, c)
	return sb.String()
}

var dumpOptions = litter.Options{
	StripPackageNames: true,
	HidePrivateFields: true,
	Separator:         " ",
}

// Dump renders the Go structure of a constraint tree, for debug logging.
func Dump(c Constraint) string { return dumpOptions.Sdump(c) }

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("  ")
	}
}

func write(sb *strings.Builder, depth int, c Constraint) {
	switch c := c.(type) {
	case True:
		indent(sb, depth)
		sb.WriteString("true\n")
	case *And:
		for _, inner := range c.Constraints {
			write(sb, depth, inner)
		}
	case *Equal:
		indent(sb, depth)
		sb.WriteString(typeString(c.Found))
		sb.WriteString(" ~ ")
		sb.WriteString(typeString(c.Expected))
		if c.Context.Kind != NoContext {
			sb.WriteString("  (" + c.Context.String() + ")")
		}
		sb.WriteByte('\n')
	case *Pattern:
		indent(sb, depth)
		sb.WriteString("pattern ")
		sb.WriteString(typeString(c.Found))
		sb.WriteString(" ~ ")
		sb.WriteString(typeString(c.Expected))
		sb.WriteByte('\n')
	case *Lookup:
		indent(sb, depth)
		sb.WriteString("lookup ")
		sb.WriteString(c.Name)
		sb.WriteString(" : ")
		sb.WriteString(typeString(c.Type))
		sb.WriteByte('\n')
	case *IncludesTag:
		indent(sb, depth)
		sb.WriteString(typeString(c.Type))
		sb.WriteString(" includes ")
		sb.WriteString(c.Tag)
		for _, p := range c.Payloads {
			sb.WriteByte(' ')
			sb.WriteString(typeString(p))
		}
		sb.WriteByte('\n')
	case *CloseUnion:
		indent(sb, depth)
		sb.WriteString("close ")
		sb.WriteString(typeString(c.Type))
		sb.WriteByte('\n')
	case *Let:
		indent(sb, depth)
		sb.WriteString("let")
		if c.Recursive {
			sb.WriteString(" rec")
		}
		if c.Generalize {
			sb.WriteString(" gen")
		}
		if len(c.Rigid) > 0 {
			sb.WriteString(" rigid(" + vars(c.Rigid) + ")")
		}
		if len(c.Flex) > 0 {
			sb.WriteString(" flex(" + vars(c.Flex) + ")")
		}
		for i, b := range c.Bindings {
			if i == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(", ")
			}
			sb.WriteString(b.Name)
			sb.WriteString(" : ")
			sb.WriteString(typeString(b.Type))
		}
		sb.WriteByte('\n')
		write(sb, depth+1, c.Defs)
		indent(sb, depth)
		sb.WriteString("in\n")
		write(sb, depth+1, c.Body)
	}
}

func vars(vs []types.Variable) string {
	ids := make([]string, len(vs))
	for i, v := range vs {
		ids[i] = strconv.Itoa(int(v))
	}
	return strings.Join(ids, " ")
}

// typeString prints constraint types with type-variables named by arena id.
func typeString(t types.Type) string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	typeText(&sb, t)
	return sb.String()
}

func typeText(sb *strings.Builder, t types.Type) {
	switch t := t.(type) {
	case *types.Var:
		sb.WriteString("#" + strconv.Itoa(int(t.Id)))
		if t.Name != "" {
			sb.WriteString("(" + t.Name + ")")
		}
	case *types.Arrow:
		sb.WriteByte('(')
		for i, arg := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			typeText(sb, arg)
		}
		sb.WriteString(") -> ")
		typeText(sb, t.Return)
	case *types.App:
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteByte('[')
			for i, arg := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				typeText(sb, arg)
			}
			sb.WriteByte(']')
		}
	case *types.Record:
		sb.WriteByte('{')
		i := 0
		t.Fields.Range(func(label string, ts types.TypeList) bool {
			if i > 0 {
				sb.WriteString(", ")
			}
			i++
			sb.WriteString(label + " : ")
			typeText(sb, ts.Get(0))
			return true
		})
		if !types.IsClosed(t.Ext) {
			sb.WriteString(" | ")
			typeText(sb, t.Ext)
		}
		sb.WriteByte('}')
	case *types.Variant:
		sb.WriteByte('[')
		i := 0
		t.Tags.Range(func(tag string, ts types.TypeList) bool {
			if i > 0 {
				sb.WriteString(", ")
			}
			i++
			sb.WriteString(tag)
			ts.Range(func(_ int, t types.Type) bool {
				sb.WriteByte(' ')
				typeText(sb, t)
				return true
			})
			return true
		})
		if !types.IsClosed(t.Ext) {
			sb.WriteString(" | ")
			typeText(sb, t.Ext)
		}
		sb.WriteByte(']')
	default:
		// Aliases, recursive types and errors only appear within annotations.
		sb.WriteString(types.TypeString(t))
	}
}
