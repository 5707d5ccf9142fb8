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

package astutil

import (
	"errors"
	"fmt"

	set "github.com/hashicorp/go-set/v3"
	"golang.org/x/exp/slices"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/internal/util"
)

// Analysis for grouped definitions which may be mutually-recursive; borrowed from Haskell.
// https://prime.haskell.org/wiki/RelaxedDependencyAnalysis
//
//   In Haskell 98, a group of bindings is sorted into strongly-connected components, and then type-checked
//   in dependency order (H98 s4.5.1). As each dependency group is type-checked, all binders of the group
//   are monomorphic until the group is generalized (H98 s4.5.2).
//
// Groups partitions defs into dependency groups, ordered so that each group only refers to the
// definitions of earlier groups and of itself. A group is recursive if any of its definitions
// refers to a definition of the same group.
func Groups(defs []*ast.Def) ([]ast.DefGroup, error) {
	index := make(map[string]int, len(defs))
	for i, def := range defs {
		if def == nil || def.Pattern == nil {
			return nil, errors.New("Failed to analyze incomplete definition")
		}
		for _, pv := range ast.Bindings(def.Pattern) {
			if _, exists := index[pv.Name]; exists {
				return nil, errors.New("Found duplicate bindings for " + pv.Name + " within definition group")
			}
			index[pv.Name] = i
		}
	}

	g := util.NewGraph(len(defs))
	selfRef := make([]bool, len(defs))
	for i, def := range defs {
		free, err := FreeNames(def.Value)
		if err != nil {
			return nil, err
		}
		for _, name := range free {
			j, ok := index[name]
			switch {
			case !ok:
			case i == j:
				selfRef[i] = true
			default:
				// def i depends on def j:
				g.AddEdge(j, i)
			}
		}
	}

	sccs := g.SCC()
	groups := make([]ast.DefGroup, len(sccs))
	for i, scc := range sccs {
		group := ast.DefGroup{Defs: make([]*ast.Def, len(scc)), Recursive: len(scc) > 1 || selfRef[scc[0]]}
		for j, defNum := range scc {
			group.Defs[j] = defs[defNum]
		}
		groups[i] = group
	}
	return groups, nil
}

// FreeNames returns the sorted, unqualified names referenced but not bound within e.
func FreeNames(e ast.Expr) ([]string, error) {
	a := analysis{bound: make(map[string]int, 16), free: set.New[string](16)}
	if err := a.analyzeExpr(e); err != nil {
		return nil, err
	}
	names := a.free.Slice()
	slices.Sort(names)
	return names, nil
}

type analysis struct {
	// number of enclosing bindings of each name
	bound map[string]int
	free  *set.Set[string]
}

func (a *analysis) stash(p ast.Pattern) []*ast.PVar {
	vars := ast.Bindings(p)
	for _, pv := range vars {
		a.bound[pv.Name]++
	}
	return vars
}

func (a *analysis) unstash(vars []*ast.PVar) {
	for _, pv := range vars {
		if a.bound[pv.Name]--; a.bound[pv.Name] <= 0 {
			delete(a.bound, pv.Name)
		}
	}
}

func (a *analysis) analyzeExprs(exprs ...ast.Expr) error {
	for _, e := range exprs {
		if err := a.analyzeExpr(e); err != nil {
			return err
		}
	}
	return nil
}

func (a *analysis) analyzeExpr(expr ast.Expr) error {
	switch expr := expr.(type) {
	case *ast.Int, *ast.Float, *ast.Str, *ast.RecordAccessor:
		// nothing to check

	case *ast.Var:
		if expr.Module == "" && a.bound[expr.Name] == 0 {
			a.free.Insert(expr.Name)
		}

	case *ast.Lambda:
		var stashed []*ast.PVar
		for _, arg := range expr.Args {
			stashed = append(stashed, a.stash(arg)...)
		}
		err := a.analyzeExpr(expr.Body)
		a.unstash(stashed)
		return err

	case *ast.Call:
		if err := a.analyzeExpr(expr.Func); err != nil {
			return err
		}
		return a.analyzeExprs(expr.Args...)

	case *ast.Let:
		if expr.Def == nil {
			return errors.New("Failed to analyze let-binding without a definition")
		}
		if err := a.analyzeExpr(expr.Def.Value); err != nil {
			return err
		}
		stashed := a.stash(expr.Def.Pattern)
		err := a.analyzeExpr(expr.Body)
		a.unstash(stashed)
		return err

	case *ast.LetGroup:
		var stashed []*ast.PVar
		for _, def := range expr.Defs {
			stashed = append(stashed, a.stash(def.Pattern)...)
		}
		for _, def := range expr.Defs {
			if err := a.analyzeExpr(def.Value); err != nil {
				a.unstash(stashed)
				return err
			}
		}
		err := a.analyzeExpr(expr.Body)
		a.unstash(stashed)
		return err

	case *ast.If:
		return a.analyzeExprs(expr.Cond, expr.Then, expr.Else)

	case *ast.When:
		if err := a.analyzeExpr(expr.Value); err != nil {
			return err
		}
		for _, b := range expr.Branches {
			stashed := a.stash(b.Pattern)
			var err error
			if b.Guard != nil {
				err = a.analyzeExpr(b.Guard)
			}
			if err == nil {
				err = a.analyzeExpr(b.Body)
			}
			a.unstash(stashed)
			if err != nil {
				return err
			}
		}

	case *ast.Record:
		for _, field := range expr.Fields {
			if err := a.analyzeExpr(field.Value); err != nil {
				return err
			}
		}

	case *ast.RecordSelect:
		return a.analyzeExpr(expr.Record)

	case *ast.RecordUpdate:
		if err := a.analyzeExpr(expr.Record); err != nil {
			return err
		}
		for _, field := range expr.Fields {
			if err := a.analyzeExpr(field.Value); err != nil {
				return err
			}
		}

	case *ast.Tag:
		return a.analyzeExprs(expr.Args...)

	case *ast.List:
		return a.analyzeExprs(expr.Elems...)

	case nil:
		return errors.New("Failed to analyze nil expression")

	default:
		return fmt.Errorf("Failed to analyze %s expression", expr.ExprName())
	}
	return nil
}
