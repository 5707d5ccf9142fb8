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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/diagnostics"
	"github.com/wdamron/rowinfer/internal/util"
)

// ErrImportCycle is returned when modules import each other.
var ErrImportCycle = errors.New("import cycle")

// Program is the result of checking a set of modules.
type Program struct {
	// Results by module name
	Results map[string]*Result
	// Diagnostics of every module, sorted by module and source position
	Diagnostics []*diagnostics.Diagnostic
}

// CheckModules checks modules in import order. Modules which do not depend on each other are
// checked concurrently, with at most the configured number of workers; each module is solved in its
// own arena, and imported schemes are copied into the importing module's arena.
//
// Every imported module must be among modules. Checking stops at the first Go error (a malformed
// module, an import cycle or an internal error); type errors are reported as diagnostics.
func (c *Checker) CheckModules(ctx context.Context, modules []*ast.Module) (*Program, error) {
	index := make(map[string]int, len(modules))
	for i, m := range modules {
		if m == nil {
			return nil, errors.New("nil module")
		}
		if _, exists := index[m.Name]; exists {
			return nil, fmt.Errorf("duplicate module %s", m.Name)
		}
		index[m.Name] = i
	}
	g := util.NewGraph(len(modules))
	for i, m := range modules {
		for _, imp := range m.Imports {
			j, ok := index[imp.Module]
			if !ok {
				return nil, fmt.Errorf("module %s: import of unknown module %s", m.Name, imp.Module)
			}
			g.AddEdge(j, i)
		}
	}
	levels, cycle := g.Levels()
	if cycle != nil {
		names := lo.Map(cycle, func(i int, _ int) string { return modules[i].Name })
		return nil, fmt.Errorf("%w between modules %s", ErrImportCycle, strings.Join(names, ", "))
	}

	workers := c.config.Workers
	if workers <= 0 {
		workers = -1
	}
	results := make([]*Result, len(modules))
	bag := diagnostics.NewBag()
	for depth, level := range levels {
		c.logger.Debug("checking modules", "level", depth, "modules", lo.Map(level, func(i int, _ int) string { return modules[i].Name }))
		grp, gctx := errgroup.WithContext(ctx)
		grp.SetLimit(workers)
		for _, i := range level {
			i := i
			grp.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				m := modules[i]
				imports := make(map[string]*Result, len(m.Imports))
				for _, imp := range m.Imports {
					imports[imp.Module] = results[index[imp.Module]]
				}
				res, err := c.Check(m, imports)
				if err != nil {
					return err
				}
				results[i] = res
				bag.Add(res.Diagnostics...)
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return nil, err
		}
	}

	prog := &Program{Results: make(map[string]*Result, len(modules)), Diagnostics: bag.Sorted()}
	for i, m := range modules {
		prog.Results[m.Name] = results[i]
	}
	return prog, nil
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
