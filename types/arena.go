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
	"github.com/google/uuid"
)

// Variable addresses a type-variable slot within an Arena.
type Variable uint32

// NoVariable is never allocated; slot 0 of every arena is reserved.
const NoVariable Variable = 0

// Rank is the let-nesting depth at which a type-variable was introduced.
type Rank int32

// Special ranks (used as flags):
const (
	// Allocated during constraint generation, not yet registered by the solver.
	NoRank Rank = 0
	// Rank of the module scope (imports and prelude).
	OutermostRank Rank = 1
	// Quantified type-variables.
	GenericRank Rank = 1<<31 - 1
)

type slot struct {
	content Content
	rank    Rank
	mark    uint32
}

type trailEntry struct {
	v    Variable
	prev slot
}

// Arena owns every type-variable of one module (or one parallel worker). Variables are
// indexes into the arena and must never be used with another arena; schemes cross arena
// boundaries through Export and Import.
//
// An arena cannot be used concurrently.
type Arena struct {
	id    uuid.UUID
	slots []slot
	trail []trailEntry
	txns  int
	marks uint32
}

// Create an empty arena.
func NewArena() *Arena {
	a := &Arena{id: uuid.New(), slots: make([]slot, 1, 256)}
	a.slots[0] = slot{content: Content{Kind: ErrorContent}, rank: GenericRank}
	return a
}

// ID uniquely identifies the arena.
func (a *Arena) ID() uuid.UUID { return a.id }

// Len returns the number of allocated type-variables.
func (a *Arena) Len() int { return len(a.slots) - 1 }

func (a *Arena) push(c Content, rank Rank) Variable {
	a.slots = append(a.slots, slot{content: c, rank: rank})
	return Variable(len(a.slots) - 1)
}

// Create an unbound type-variable at the given rank.
func (a *Arena) Fresh(rank Rank) Variable { return a.push(Content{Kind: UnboundContent}, rank) }

// Create an unbound type-variable with a name hint.
func (a *Arena) FreshNamed(rank Rank, name string) Variable {
	return a.push(UnboundOf(name), rank)
}

// Create a rigid (annotated) type-variable.
func (a *Arena) FreshRigid(rank Rank, name string) Variable {
	return a.push(RigidOf(name), rank)
}

// Create a type-variable with the given content.
func (a *Arena) FreshContent(rank Rank, c Content) Variable { return a.push(c, rank) }

// Create a type-variable bound to a structure.
func (a *Arena) FreshShape(rank Rank, shape FlatShape) Variable {
	return a.push(Content{Kind: StructureContent, Shape: shape}, rank)
}

// Valid reports whether v was allocated by the arena.
func (a *Arena) Valid(v Variable) bool { return v != NoVariable && int(v) < len(a.slots) }

func (a *Arena) set(v Variable, s slot) {
	if a.txns > 0 {
		a.trail = append(a.trail, trailEntry{v, a.slots[v]})
	}
	a.slots[v] = s
}

// Find returns the representative of v's equivalence class. Link chains are compressed in place.
func (a *Arena) Find(v Variable) Variable {
	root := v
	for a.slots[root].content.Kind == LinkContent {
		root = a.slots[root].content.Link
	}
	// Path compression:
	for v != root {
		next := a.slots[v].content.Link
		if next != root {
			s := a.slots[v]
			s.content.Link = root
			a.set(v, s)
		}
		v = next
	}
	return root
}

// Resolve returns the representative of v and its content.
func (a *Arena) Resolve(v Variable) (Variable, Content) {
	root := a.Find(v)
	return root, a.slots[root].content
}

// Content returns the content of v's representative.
func (a *Arena) Content(v Variable) Content { return a.slots[a.Find(v)].content }

// Rank returns the rank of v's representative.
func (a *Arena) Rank(v Variable) Rank { return a.slots[a.Find(v)].rank }

// Set the rank of v's representative.
func (a *Arena) SetRank(v Variable, rank Rank) {
	root := a.Find(v)
	s := a.slots[root]
	if s.rank == rank {
		return
	}
	s.rank = rank
	a.set(root, s)
}

// Set the content of v's representative.
func (a *Arena) SetContent(v Variable, c Content) {
	root := a.Find(v)
	s := a.slots[root]
	s.content = c
	a.set(root, s)
}

// Link from to to. The representative of to keeps its content; its rank becomes
// the minimum of both ranks.
func (a *Arena) Link(from, to Variable) {
	from, to = a.Find(from), a.Find(to)
	if from == to {
		return
	}
	rf, rt := a.slots[from].rank, a.slots[to].rank
	s := a.slots[from]
	s.content = Content{Kind: LinkContent, Link: to}
	a.set(from, s)
	if rf < rt {
		a.SetRank(to, rf)
	}
}

// Equivalent reports whether x and y belong to the same equivalence class.
func (a *Arena) Equivalent(x, y Variable) bool { return a.Find(x) == a.Find(y) }

// Transactions:

// Txn marks a point in the arena's mutation trail.
type Txn struct {
	trailLen int
}

// Begin recording mutations. Every mutation until the matching Commit or Rollback can be undone.
func (a *Arena) Begin() Txn {
	a.txns++
	return Txn{len(a.trail)}
}

// Rollback undoes every mutation recorded since txn began.
func (a *Arena) Rollback(txn Txn) {
	for i := len(a.trail) - 1; i >= txn.trailLen; i-- {
		e := a.trail[i]
		a.slots[e.v] = e.prev
	}
	a.trail = a.trail[:txn.trailLen]
	a.txns--
}

// Commit keeps every mutation recorded since txn began. Within an enclosing transaction,
// the mutations remain recorded for the enclosing transaction.
func (a *Arena) Commit(txn Txn) {
	a.txns--
	if a.txns == 0 {
		a.trail = a.trail[:0]
	}
}

// Marks:

// Mark is a traversal epoch. Marks are not recorded in transactions.
type Mark uint32

// NewMark returns a mark which no type-variable carries yet.
func (a *Arena) NewMark() Mark {
	a.marks++
	return Mark(a.marks)
}

// Marked reports whether v's representative carries m.
func (a *Arena) Marked(v Variable, m Mark) bool { return a.slots[a.Find(v)].mark == uint32(m) }

// Set the mark of v's representative.
func (a *Arena) SetMark(v Variable, m Mark) { a.slots[a.Find(v)].mark = uint32(m) }
