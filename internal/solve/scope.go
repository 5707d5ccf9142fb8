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

package solve

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/wdamron/rowinfer/types"
)

// Scope maps names to type-variables: generalized schemes, or monomorphic types of names bound by
// lambdas, patterns and recursive definitions which are still being solved.
//
// Bindings shadowed by a nested scope are stashed and restored when the nested scope ends.
type Scope struct {
	names map[string]types.Variable
	stash []stashedName
}

type stashedName struct {
	name     string
	v        types.Variable
	shadowed bool
}

// Create an empty scope.
func NewScope() *Scope {
	return &Scope{names: make(map[string]types.Variable, 32)}
}

// Declare binds name for the lifetime of the scope.
func (s *Scope) Declare(name string, v types.Variable) { s.names[name] = v }

// Lookup the type-variable bound to name.
func (s *Scope) Lookup(name string) (types.Variable, bool) {
	v, ok := s.names[name]
	return v, ok
}

// Names returns the sorted names bound in the scope.
func (s *Scope) Names() []string {
	names := maps.Keys(s.names)
	slices.Sort(names)
	return names
}

func (s *Scope) mark() int { return len(s.stash) }

// push binds name until the scope is restored to an earlier mark.
func (s *Scope) push(name string, v types.Variable) {
	prev, shadowed := s.names[name]
	s.stash = append(s.stash, stashedName{name: name, v: prev, shadowed: shadowed})
	s.names[name] = v
}

// restore removes the bindings pushed since mark, restoring shadowed bindings.
func (s *Scope) restore(mark int) {
	for i := len(s.stash) - 1; i >= mark; i-- {
		e := s.stash[i]
		if e.shadowed {
			s.names[e.name] = e.v
		} else {
			delete(s.names, e.name)
		}
	}
	s.stash = s.stash[:mark]
}
