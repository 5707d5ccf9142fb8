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

package rowinfer

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/wdamron/rowinfer/config"
	"github.com/wdamron/rowinfer/types"
)

// Env contains mappings from identifiers to declared type schemes, visible within every module
// checked with the environment.
//
// An environment must not be modified while modules are checked; it may be shared by concurrent
// checks. To extend a shared environment, create a child environment which inherits from it.
type Env struct {
	// Predeclared types in the parent of the current environment
	Parent *Env
	// Mappings from identifiers to declared types in the current environment
	Types map[string]types.Type
}

// Create an environment. The new environment will inherit bindings from the parent, if the parent is not nil.
func NewEnv(parent *Env) *Env {
	return &Env{Parent: parent, Types: make(map[string]types.Type)}
}

// NewPrelude creates an environment containing the prelude declarations of cfg.
func NewPrelude(cfg *config.Config) (*Env, error) {
	env := NewEnv(nil)
	names := maps.Keys(cfg.Prelude)
	slices.Sort(names)
	for _, name := range names {
		if err := env.DeclareSignature(name, cfg.Prelude[name]); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// Declare the type of an identifier. Type-variables within t are generalized.
func (e *Env) Declare(name string, t types.Type) { e.Types[name] = t }

// DeclareSignature parses and declares the type of an identifier: `(List[a], a -> b) -> List[b]`
func (e *Env) DeclareSignature(name, sig string) error {
	t, err := types.ParseSignature(sig)
	if err != nil {
		return fmt.Errorf("declaring %s: %w", name, err)
	}
	e.Declare(name, t)
	return nil
}

// Lookup the type for an identifier in the environment or its parent environment(s).
func (e *Env) Lookup(name string) (types.Type, bool) {
	for env := e; env != nil; env = env.Parent {
		if t, ok := env.Types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Remove the assigned type for an identifier in the environment. Parent environments will not be affected.
func (e *Env) Remove(name string) { delete(e.Types, name) }

// Names returns the sorted identifiers declared in the environment and its parent environment(s).
func (e *Env) Names() []string {
	seen := make(map[string]struct{})
	for env := e; env != nil; env = env.Parent {
		for name := range env.Types {
			seen[name] = struct{}{}
		}
	}
	names := maps.Keys(seen)
	slices.Sort(names)
	return names
}
