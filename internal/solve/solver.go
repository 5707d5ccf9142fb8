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

// Package solve solves constraint trees over a module's arena, generalizing let-bound definitions
// and recording type errors without aborting.
package solve

import (
	"errors"
	"io"
	"log/slog"

	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/constraint"
	"github.com/wdamron/rowinfer/diagnostics"
	"github.com/wdamron/rowinfer/internal/typeutil"
	"github.com/wdamron/rowinfer/types"
)

// Options control a Solver.
type Options struct {
	// Validate the structure of each top-level definition group after it is generalized.
	Validate bool
	// Debug events are logged here. When nil, nothing is logged.
	Logger *slog.Logger
}

// Export is a top-level binding, in definition order.
type Export struct {
	Name string
	Var  types.Variable
}

// Solver solves the constraints generated for one module. A Solver is not safe for concurrent use;
// independent modules are solved by independent solvers over independent arenas.
type Solver struct {
	ctx      *typeutil.Context
	arena    *types.Arena
	scope    *Scope
	nodes    map[ast.NodeID]types.Variable
	env      *SolvedEnv
	failures []diagnostics.Failure
	exports  []Export
	frames   []*frame
	validate bool
	logger   *slog.Logger
}

// frame tracks the definition group being solved, so that a failed instantiation can poison it.
type frame struct {
	names    []string
	poisoned bool
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Create a solver. The scope holds the (generalized) types of imported and prelude names; nodes maps
// node ids to the type-variables allocated for them by constraint generation.
func New(ctx *typeutil.Context, scope *Scope, nodes map[ast.NodeID]types.Variable, opts Options) *Solver {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger
	}
	return &Solver{
		ctx:      ctx,
		arena:    ctx.Arena,
		scope:    scope,
		nodes:    nodes,
		env:      newSolvedEnv(len(nodes)),
		validate: opts.Validate,
		logger:   logger,
	}
}

// Failures returns the type errors found so far, in the order they were found.
func (s *Solver) Failures() []diagnostics.Failure { return s.failures }

// Env returns the solved types of finalized nodes.
func (s *Solver) Env() *SolvedEnv { return s.env }

// Exports returns the generalized top-level bindings, in definition order.
func (s *Solver) Exports() []Export { return s.exports }

// Solve the constraint tree of a module. Type errors are recorded as failures; the returned error
// is non-nil only for malformed constraints or a corrupted arena (an *typeutil.InternalError).
func (s *Solver) Solve(root constraint.Constraint) error {
	return s.solve(types.OutermostRank, root)
}

func (s *Solver) solve(rank types.Rank, c constraint.Constraint) error {
	switch c := c.(type) {
	case nil, constraint.True:
		return nil
	case *constraint.And:
		for _, inner := range c.Constraints {
			if err := s.solve(rank, inner); err != nil {
				return err
			}
		}
		return nil
	case *constraint.Equal:
		return s.equal(rank, c.Expected, c.Found, c.Region, c.Context)
	case *constraint.Pattern:
		return s.equal(rank, c.Expected, c.Found, c.Region, c.Context)
	case *constraint.Lookup:
		return s.lookup(rank, c)
	case *constraint.IncludesTag:
		return s.includesTag(rank, c)
	case *constraint.CloseUnion:
		return s.closeUnion(rank, c)
	case *constraint.Let:
		if c.Generalize {
			return s.generalizingLet(rank, c)
		}
		return s.let(rank, c)
	}
	return &typeutil.InternalError{Message: "unknown constraint " + c.ConstraintName()}
}

func (s *Solver) fromType(t types.Type, rank types.Rank) (types.Variable, error) {
	v, err := s.arena.FromType(t, rank)
	if err != nil {
		return types.NoVariable, &typeutil.InternalError{Message: err.Error()}
	}
	return v, nil
}

func (s *Solver) equal(rank types.Rank, expected, found types.Type, region ast.Region, ctx constraint.Context) error {
	ve, err := s.fromType(expected, rank)
	if err != nil {
		return err
	}
	vf, err := s.fromType(found, rank)
	if err != nil {
		return err
	}
	return s.unify(rank, ve, vf, region, ctx)
}

// unify expected and found within a transaction. A failed unification is rolled back and recorded;
// both sides are then replaced by a broken type, which absorbs later constraints without further
// errors.
func (s *Solver) unify(rank types.Rank, expected, found types.Variable, region ast.Region, ctx constraint.Context) error {
	txn := s.arena.Begin()
	err := s.ctx.Unify(expected, found)
	if err == nil {
		s.arena.Commit(txn)
		return nil
	}
	s.arena.Rollback(txn)
	s.ctx.Reset()

	var (
		mismatch *typeutil.Mismatch
		limit    *typeutil.LimitError
	)
	switch {
	case errors.As(err, &mismatch):
		ts := s.arena.ExportAll(expected, found, mismatch.Expected, mismatch.Found)
		kind := diagnostics.TypeMismatch
		switch mismatch.Kind {
		case typeutil.RowMismatch:
			kind = diagnostics.RowMismatch
		case typeutil.OccursMismatch:
			kind = diagnostics.OccursCheckFailure
		}
		s.fail(diagnostics.Failure{
			Kind:          kind,
			Region:        region,
			Context:       ctx,
			Expected:      ts[0],
			Found:         ts[1],
			InnerExpected: ts[2],
			InnerFound:    ts[3],
			Path:          mismatch.Path,
			Missing:       mismatch.Missing,
			Extra:         mismatch.Extra,
			Detail:        mismatch.Detail,
		})
	case errors.As(err, &limit):
		s.fail(diagnostics.Failure{
			Kind:    diagnostics.RecursionLimitExceeded,
			Region:  region,
			Context: ctx,
			Name:    s.poison(),
			Detail:  limit.Error(),
		})
	default:
		return err
	}
	s.breakVars(rank, expected, found)
	return nil
}

// breakVars links each of vs to a fresh broken type-variable.
func (s *Solver) breakVars(rank types.Rank, vs ...types.Variable) {
	broken := s.arena.FreshContent(rank, types.BrokenContent)
	for _, v := range vs {
		s.arena.Link(v, broken)
	}
}

func (s *Solver) fail(f diagnostics.Failure) {
	s.logger.Debug("type error", "kind", f.Kind, "region", f.Region.String(), "context", f.Context.String())
	s.failures = append(s.failures, f)
}

// poison the innermost definition group, whose bindings will be broken instead of generalized.
// The name of the group's first binding is returned.
func (s *Solver) poison() string {
	if len(s.frames) == 0 {
		return ""
	}
	f := s.frames[len(s.frames)-1]
	f.poisoned = true
	if len(f.names) == 0 {
		return ""
	}
	return f.names[0]
}

func (s *Solver) lookup(rank types.Rank, c *constraint.Lookup) error {
	v, err := s.fromType(c.Type, rank)
	if err != nil {
		return err
	}
	scheme, ok := s.scope.Lookup(c.Name)
	if !ok {
		s.fail(diagnostics.Failure{Kind: diagnostics.UnboundName, Region: c.Region, Name: c.Name})
		s.breakVars(rank, v)
		return nil
	}
	inst, err := s.ctx.Instantiate(rank, scheme)
	if err != nil {
		var limit *typeutil.LimitError
		if !errors.As(err, &limit) {
			return err
		}
		s.ctx.Reset()
		s.fail(diagnostics.Failure{
			Kind:   diagnostics.RecursionLimitExceeded,
			Region: c.Region,
			Name:   s.poison(),
			Detail: limit.Error(),
		})
		s.breakVars(rank, v)
		return nil
	}
	return s.unify(rank, v, inst, c.Region, constraint.Context{})
}

func (s *Solver) includesTag(rank types.Rank, c *constraint.IncludesTag) error {
	v, err := s.fromType(c.Type, rank)
	if err != nil {
		return err
	}
	payloads := make([]types.Variable, len(c.Payloads))
	for i, p := range c.Payloads {
		if payloads[i], err = s.fromType(p, rank); err != nil {
			return err
		}
	}
	union := s.arena.FreshShape(rank, &types.FlatTagUnion{
		Tags: types.SingletonLabelMap(c.Tag, payloads...),
		Ext:  s.arena.Fresh(rank),
	})
	return s.unify(rank, v, union, c.Region, c.Context)
}

func (s *Solver) closeUnion(rank types.Rank, c *constraint.CloseUnion) error {
	v, err := s.fromType(c.Type, rank)
	if err != nil {
		return err
	}
	_, ext, _ := s.arena.GatherTags(v)
	if !s.arena.Content(ext).IsUnbound() {
		return nil
	}
	empty := s.arena.FreshShape(rank, types.FlatEmptyTagUnion{})
	return s.unify(rank, ext, empty, c.Region, constraint.Context{})
}

// let solves a non-generalizing Let at the rank of the enclosing scope.
func (s *Solver) let(rank types.Rank, c *constraint.Let) error {
	if err := s.solve(rank, c.Defs); err != nil {
		return err
	}
	mark := s.scope.mark()
	defer s.scope.restore(mark)
	for _, b := range c.Bindings {
		v, err := s.fromType(b.Type, rank)
		if err != nil {
			return err
		}
		s.scope.push(b.Name, v)
	}
	return s.solve(rank, c.Body)
}

// generalizingLet solves the definitions of a Let one rank deeper than the enclosing scope, then
// generalizes its bindings and solves the body with the generalized bindings in scope.
func (s *Solver) generalizingLet(rank types.Rank, c *constraint.Let) error {
	next := rank + 1
	for _, v := range c.Rigid {
		s.arena.SetRank(v, next)
	}
	for _, v := range c.Flex {
		s.arena.SetRank(v, next)
	}

	f := &frame{names: make([]string, len(c.Bindings))}
	vars := make([]types.Variable, len(c.Bindings))
	for i, b := range c.Bindings {
		v, err := s.fromType(b.Type, next)
		if err != nil {
			return err
		}
		vars[i], f.names[i] = v, b.Name
	}

	mark := s.scope.mark()
	defer s.scope.restore(mark)
	if c.Recursive {
		for i, b := range c.Bindings {
			s.scope.push(b.Name, vars[i])
		}
	}
	s.frames = append(s.frames, f)
	err := s.solve(next, c.Defs)
	s.frames = s.frames[:len(s.frames)-1]
	if err != nil {
		return err
	}
	s.scope.restore(mark)

	if f.poisoned {
		s.breakVars(next, vars...)
	}
	quantified := s.ctx.Generalize(rank, vars...)
	// Type-variables of the group which are unreachable from its bindings (e.g. within discarded
	// subexpressions) are generalized as well, so that no young type-variable escapes its rank.
	s.ctx.Generalize(rank, c.Flex...)
	s.ctx.Generalize(rank, c.Rigid...)
	s.logger.Debug("generalized", "bindings", f.names, "quantified", quantified.Size(), "poisoned", f.poisoned)

	if c.Finalize != nil {
		if err := s.finalize(c, vars); err != nil {
			return err
		}
	}
	for i, b := range c.Bindings {
		s.scope.push(b.Name, vars[i])
	}
	return s.solve(rank, c.Body)
}

// finalize records the solved types of a top-level definition group.
func (s *Solver) finalize(c *constraint.Let, vars []types.Variable) error {
	if s.validate {
		nodes := make([]types.Variable, 0, len(vars)+len(c.Finalize))
		nodes = append(nodes, vars...)
		for _, id := range c.Finalize {
			if v, ok := s.nodes[id]; ok {
				nodes = append(nodes, v)
			}
		}
		if err := s.ctx.Validate(nodes...); err != nil {
			return err
		}
	}
	// One export for the whole group, so that shared structure is converted once.
	ids := make([]ast.NodeID, 0, len(c.Finalize))
	nodes := make([]types.Variable, 0, len(c.Finalize))
	for _, id := range c.Finalize {
		if v, ok := s.nodes[id]; ok {
			ids, nodes = append(ids, id), append(nodes, v)
		}
	}
	for i, t := range s.arena.ExportAll(nodes...) {
		if err := s.env.Finalize(ids[i], t); err != nil {
			return err
		}
	}
	for i, b := range c.Bindings {
		s.exports = append(s.exports, Export{Name: b.Name, Var: vars[i]})
	}
	return nil
}
