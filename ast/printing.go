package ast

import (
	"strconv"
	"strings"

	"github.com/wdamron/rowinfer/types"
)

func ExprString(e Expr) string {
	var sb strings.Builder
	exprString(&sb, false, e)
	return sb.String()
}

func PatternString(p Pattern) string {
	var sb strings.Builder
	patternString(&sb, false, p)
	return sb.String()
}

func DefString(d *Def) string {
	var sb strings.Builder
	defString(&sb, d)
	return sb.String()
}

func defString(sb *strings.Builder, d *Def) {
	patternString(sb, false, d.Pattern)
	if d.Annotation != nil {
		sb.WriteString(" : ")
		sb.WriteString(types.TypeString(d.Annotation))
	}
	sb.WriteString(" = ")
	exprString(sb, false, d.Value)
}

func exprString(sb *strings.Builder, simple bool, e Expr) {
	switch et := e.(type) {
	case *Int:
		sb.WriteString(strconv.FormatInt(et.Value, 10))

	case *Float:
		sb.WriteString(strconv.FormatFloat(et.Value, 'g', -1, 64))
		if et.Value == float64(int64(et.Value)) {
			sb.WriteString(".0")
		}

	case *Str:
		sb.WriteString(strconv.Quote(et.Value))

	case *Var:
		sb.WriteString(et.QualifiedName())

	case *Call:
		exprString(sb, true, et.Func)
		sb.WriteByte('(')
		for i, arg := range et.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			exprString(sb, false, arg)
		}
		sb.WriteByte(')')

	case *Lambda:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteByte('\\')
		for i, arg := range et.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			patternString(sb, true, arg)
		}
		sb.WriteString(" -> ")
		exprString(sb, false, et.Body)
		if simple {
			sb.WriteByte(')')
		}

	case *Let:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("let ")
		defString(sb, et.Def)
		sb.WriteString(" in ")
		exprString(sb, false, et.Body)
		if simple {
			sb.WriteByte(')')
		}

	case *LetGroup:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("let rec ")
		for i, def := range et.Defs {
			if i > 0 {
				sb.WriteString(" and ")
			}
			defString(sb, def)
		}
		sb.WriteString(" in ")
		exprString(sb, false, et.Body)
		if simple {
			sb.WriteByte(')')
		}

	case *If:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("if ")
		exprString(sb, false, et.Cond)
		sb.WriteString(" then ")
		exprString(sb, false, et.Then)
		sb.WriteString(" else ")
		exprString(sb, false, et.Else)
		if simple {
			sb.WriteByte(')')
		}

	case *When:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString("when ")
		exprString(sb, false, et.Value)
		sb.WriteString(" is")
		for i, b := range et.Branches {
			if i > 0 {
				sb.WriteString(" |")
			}
			sb.WriteByte(' ')
			patternString(sb, false, b.Pattern)
			if b.Guard != nil {
				sb.WriteString(" if ")
				exprString(sb, false, b.Guard)
			}
			sb.WriteString(" -> ")
			exprString(sb, false, b.Body)
		}
		if simple {
			sb.WriteByte(')')
		}

	case *Record:
		sb.WriteByte('{')
		fieldsString(sb, et.Fields)
		sb.WriteByte('}')

	case *RecordSelect:
		exprString(sb, true, et.Record)
		sb.WriteByte('.')
		sb.WriteString(et.Label)

	case *RecordAccessor:
		sb.WriteByte('.')
		sb.WriteString(et.Label)

	case *RecordUpdate:
		sb.WriteByte('{')
		exprString(sb, false, et.Record)
		sb.WriteString(" & ")
		fieldsString(sb, et.Fields)
		sb.WriteByte('}')

	case *Tag:
		if simple && len(et.Args) > 0 {
			sb.WriteByte('(')
		}
		sb.WriteString(et.Name)
		for _, arg := range et.Args {
			sb.WriteByte(' ')
			exprString(sb, true, arg)
		}
		if simple && len(et.Args) > 0 {
			sb.WriteByte(')')
		}

	case *List:
		sb.WriteByte('[')
		for i, elem := range et.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			exprString(sb, false, elem)
		}
		sb.WriteByte(']')
	}
}

func fieldsString(sb *strings.Builder, fields []Field) {
	for i, field := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(field.Label)
		sb.WriteString(": ")
		exprString(sb, false, field.Value)
	}
}

func patternString(sb *strings.Builder, simple bool, p Pattern) {
	switch pt := p.(type) {
	case *PVar:
		sb.WriteString(pt.Name)

	case *PWildcard:
		sb.WriteByte('_')

	case *PInt:
		sb.WriteString(strconv.FormatInt(pt.Value, 10))

	case *PStr:
		sb.WriteString(strconv.Quote(pt.Value))

	case *PTag:
		if simple && len(pt.Args) > 0 {
			sb.WriteByte('(')
		}
		sb.WriteString(pt.Name)
		for _, arg := range pt.Args {
			sb.WriteByte(' ')
			patternString(sb, true, arg)
		}
		if simple && len(pt.Args) > 0 {
			sb.WriteByte(')')
		}

	case *PRecord:
		sb.WriteByte('{')
		for i, field := range pt.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(field.Label)
			if pv, ok := field.Pattern.(*PVar); !ok || pv.Name != field.Label {
				sb.WriteString(": ")
				patternString(sb, false, field.Pattern)
			}
		}
		if len(pt.Fields) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("..}")
	}
}
