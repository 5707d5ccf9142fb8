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
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"
)

// ErrSyntax is returned for malformed type signatures.
var ErrSyntax = errors.New("invalid type signature")

// ParseSignature parses a type signature:
//
//	(List['a], 'a -> 'b) -> List['b]
//	{name : Str | r} -> Str
//	[Ok a, Err Str] -> Bool
//
// Lowercase identifiers (optionally prefixed with `'`) are type-variables named by the identifier.
// Capitalized identifiers are type constants; arguments are applied in brackets. Records and tag
// unions are closed unless an extension type-variable follows `|`.
func ParseSignature(src string) (Type, error) {
	p := sigParser{src: src}
	p.next()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.tok != tokEOF {
		return nil, p.errorf("unexpected %s", p.describe())
	}
	return t, nil
}

// MustParse parses a type signature and panics if the signature is malformed.
func MustParse(src string) Type {
	t, err := ParseSignature(src)
	if err != nil {
		panic(err)
	}
	return t
}

type sigToken uint8

const (
	tokEOF sigToken = iota
	tokLower
	tokUpper
	tokArrow
	tokPunct
	tokInvalid
)

type sigParser struct {
	src  string
	pos  int
	tok  sigToken
	text string
	at   int
}

func (p *sigParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.at, fmt.Sprintf(format, args...))
}

func (p *sigParser) describe() string {
	if p.tok == tokEOF {
		return "end of signature"
	}
	return fmt.Sprintf("%q", p.text)
}

func (p *sigParser) next() {
	for p.pos < len(p.src) {
		r, n := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		p.pos += n
	}
	p.at = p.pos
	if p.pos >= len(p.src) {
		p.tok, p.text = tokEOF, ""
		return
	}
	start := p.pos
	r, n := utf8.DecodeRuneInString(p.src[p.pos:])
	switch {
	case r == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '>':
		p.pos += 2
		p.tok = tokArrow
	case r == '\'' || r == '_' || xid.Start(r):
		p.pos += n
		for p.pos < len(p.src) {
			r, n := utf8.DecodeRuneInString(p.src[p.pos:])
			if !xid.Continue(r) {
				break
			}
			p.pos += n
		}
		word := p.src[start:p.pos]
		first, _ := utf8.DecodeRuneInString(word)
		switch {
		case first == '\'':
			if len(word) == 1 {
				p.tok = tokInvalid
			} else {
				p.tok, word = tokLower, word[1:]
			}
		case unicode.IsUpper(first):
			p.tok = tokUpper
		default:
			p.tok = tokLower
		}
		p.text = word
		return
	case r == '(' || r == ')' || r == '[' || r == ']' || r == '{' || r == '}' || r == ',' || r == ':' || r == '|':
		p.pos += n
		p.tok = tokPunct
	default:
		p.pos += n
		p.tok = tokInvalid
	}
	p.text = p.src[start:p.pos]
}

func (p *sigParser) isPunct(s string) bool { return p.tok == tokPunct && p.text == s }

func (p *sigParser) expect(s string) error {
	if !p.isPunct(s) {
		return p.errorf("expected %q, found %s", s, p.describe())
	}
	p.next()
	return nil
}

// type := '(' ')' '->' type | '(' type {',' type} ')' ['->' type] | atom ['->' type]
func (p *sigParser) parseType() (Type, error) {
	if p.isPunct("(") {
		p.next()
		var args []Type
		for !p.isPunct(")") {
			if len(args) > 0 {
				if err := p.expect(","); err != nil {
					return nil, err
				}
			}
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		p.next()
		if p.tok == tokArrow {
			p.next()
			ret, err := p.parseType()
			if err != nil {
				return nil, err
			}
			return &Arrow{Args: args, Return: ret}, nil
		}
		if len(args) != 1 {
			return nil, p.errorf("expected \"->\" after argument list")
		}
		return args[0], nil
	}
	t, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.tok == tokArrow {
		p.next()
		ret, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &Arrow{Args: []Type{t}, Return: ret}, nil
	}
	return t, nil
}

func (p *sigParser) parseAtom() (Type, error) {
	switch {
	case p.tok == tokLower:
		name := p.text
		p.next()
		return &Var{Name: name, Kind: GenericVar}, nil

	case p.tok == tokUpper:
		name := p.text
		p.next()
		if !p.isPunct("[") {
			return &App{Name: name}, nil
		}
		p.next()
		var args []Type
		for !p.isPunct("]") {
			if len(args) > 0 {
				if err := p.expect(","); err != nil {
					return nil, err
				}
			}
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		p.next()
		return &App{Name: name, Args: args}, nil

	case p.isPunct("("):
		p.next()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return t, p.expect(")")

	case p.isPunct("{"):
		p.next()
		fields := EmptyTypeMap
		for p.tok == tokLower {
			label := p.text
			if _, dup := fields.Get(label); dup {
				return nil, p.errorf("duplicate field %q", label)
			}
			p.next()
			if err := p.expect(":"); err != nil {
				return nil, err
			}
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			fields = fields.Set(label, SingletonTypeList(t))
			if !p.isPunct(",") {
				break
			}
			p.next()
		}
		ext, err := p.parseExt("}")
		if err != nil {
			return nil, err
		}
		return &Record{Fields: fields, Ext: ext}, nil

	case p.isPunct("["):
		p.next()
		tags := EmptyTypeMap
		for p.tok == tokUpper {
			tag := p.text
			if _, dup := tags.Get(tag); dup {
				return nil, p.errorf("duplicate tag %q", tag)
			}
			p.next()
			payloads := EmptyTypeList
			for p.tok == tokLower || p.tok == tokUpper || p.isPunct("(") || p.isPunct("{") || p.isPunct("[") {
				t, err := p.parseAtom()
				if err != nil {
					return nil, err
				}
				payloads = payloads.Append(t)
			}
			tags = tags.Set(tag, payloads)
			if !p.isPunct(",") {
				break
			}
			p.next()
		}
		ext, err := p.parseExt("]")
		if err != nil {
			return nil, err
		}
		return &Variant{Tags: tags, Ext: ext}, nil
	}
	return nil, p.errorf("unexpected %s", p.describe())
}

// ext := ['|' lower] close
func (p *sigParser) parseExt(close string) (Type, error) {
	var ext Type
	if p.isPunct("|") {
		p.next()
		if p.tok != tokLower {
			return nil, p.errorf("expected an extension type-variable, found %s", p.describe())
		}
		ext = &Var{Name: p.text, Kind: GenericVar}
		p.next()
	}
	return ext, p.expect(close)
}
