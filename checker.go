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
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/config"
	"github.com/wdamron/rowinfer/constraint"
	"github.com/wdamron/rowinfer/diagnostics"
	"github.com/wdamron/rowinfer/internal/astutil"
	"github.com/wdamron/rowinfer/internal/constrain"
	"github.com/wdamron/rowinfer/internal/solve"
	"github.com/wdamron/rowinfer/internal/typeutil"
	"github.com/wdamron/rowinfer/types"
)

// Checker infers the types of modules.
//
// A checker holds no per-module state and may be used concurrently for distinct modules; each
// module is solved within its own arena. Check numbers the nodes of its module in place, so one
// module must not be checked by concurrent calls.
type Checker struct {
	config *config.Config
	env    *Env
	logger *slog.Logger
}

// Create a checker. A nil cfg selects the default configuration; a nil env declares nothing
// beyond the prelude of cfg. Debug events are written to logger, which may be nil.
func NewChecker(cfg *config.Config, env *Env, logger *slog.Logger) (*Checker, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	prelude, err := NewPrelude(cfg)
	if err != nil {
		return nil, err
	}
	if env != nil {
		// Declarations of env take precedence over the configured prelude:
		child := NewEnv(prelude)
		for _, name := range env.Names() {
			t, _ := env.Lookup(name)
			child.Declare(name, t)
		}
		prelude = child
	}
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &Checker{config: cfg, env: prelude, logger: logger}, nil
}

// Check infers the types of a module. Imported modules must already be checked; imports maps
// module names to their results. Nodes of m without an id are numbered in place.
//
// Type errors are reported as diagnostics within the result. The returned error is non-nil only for
// malformed modules, missing imports, or defects of the checker (wrapping ErrInternal).
func (c *Checker) Check(m *ast.Module, imports map[string]*Result) (*Result, error) {
	if m == nil {
		return nil, errors.New("nil module")
	}
	ast.Number(m)
	groups := m.Groups
	if len(groups) == 0 {
		var err error
		if groups, err = astutil.Groups(m.Defs); err != nil {
			return nil, fmt.Errorf("module %s: %w", m.Name, err)
		}
	}

	arena := types.NewArena()
	ctx := typeutil.NewContext(arena)
	ctx.MaxUnifyDepth = c.config.Limits.MaxUnifyDepth
	ctx.MaxInstantiationSize = c.config.Limits.MaxInstantiationSize
	c.logger.Debug("checking module", "module", m.Name, "arena", arena.ID(), "groups", len(groups))

	scope := solve.NewScope()
	for _, name := range c.env.Names() {
		t, _ := c.env.Lookup(name)
		if err := declare(arena, scope, name, t); err != nil {
			return nil, fmt.Errorf("module %s: prelude %s: %w", m.Name, name, err)
		}
	}
	var importDiagnostics []*diagnostics.Diagnostic
	for _, imp := range m.Imports {
		res, ok := imports[imp.Module]
		if !ok || res == nil {
			return nil, fmt.Errorf("module %s: import of unchecked module %s", m.Name, imp.Module)
		}
		for _, name := range res.ExportNames {
			if err := declare(arena, scope, imp.Module+"."+name, res.Exports[name]); err != nil {
				return nil, fmt.Errorf("module %s: import %s.%s: %w", m.Name, imp.Module, name, err)
			}
		}
		for _, name := range imp.Exposed {
			t, ok := res.Exports[name]
			if !ok {
				d := diagnostics.UnboundNameError(name).
					WithLocation(m.Name, imp.Region).
					WithNote("module " + imp.Module + " does not export `" + name + "`")
				importDiagnostics = append(importDiagnostics, d)
				continue
			}
			if err := declare(arena, scope, name, t); err != nil {
				return nil, fmt.Errorf("module %s: import %s.%s: %w", m.Name, imp.Module, name, err)
			}
		}
	}

	gen := constrain.New(arena)
	root, err := gen.Module(groups)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", m.Name, err)
	}
	c.logger.Debug("generated constraints", "module", m.Name, "count", constraint.Count(root), "tree", dump{root})

	solver := solve.New(ctx, scope, gen.Nodes(), solve.Options{Validate: c.config.Validate, Logger: c.logger.With("module", m.Name)})
	if err := solver.Solve(root); err != nil {
		var internal *typeutil.InternalError
		if errors.As(err, &internal) {
			return nil, fmt.Errorf("%w: module %s: %v", ErrInternal, m.Name, err)
		}
		return nil, fmt.Errorf("module %s: %w", m.Name, err)
	}

	res := &Result{
		Module:  m.Name,
		ArenaID: arena.ID(),
		Exports: make(map[string]types.Type),
		nodes:   solver.Env(),
	}
	for _, e := range solver.Exports() {
		res.Exports[e.Name] = arena.Export(e.Var)
		res.ExportNames = append(res.ExportNames, e.Name)
	}
	res.Diagnostics = append(importDiagnostics, lo.Map(solver.Failures(), func(f diagnostics.Failure, _ int) *diagnostics.Diagnostic {
		return diagnostics.Build(m.Name, f)
	})...)
	c.logger.Debug("checked module", "module", m.Name, "arena", arena.ID(), "nodes", res.nodes.Len(), "diagnostics", len(res.Diagnostics))
	return res, nil
}

// declare copies the scheme t into arena and binds it to name.
func declare(arena *types.Arena, scope *solve.Scope, name string, t types.Type) error {
	v, err := arena.Import(t)
	if err != nil {
		return err
	}
	scope.Declare(name, v)
	return nil
}

// dump renders a constraint tree only when the debug record is emitted.
type dump struct{ c constraint.Constraint }

func (d dump) LogValue() slog.Value { return slog.StringValue(constraint.Dump(d.c)) }
