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

package diagnostics

import (
	"sync"

	"golang.org/x/exp/slices"
)

// Bag collects diagnostics, possibly from several goroutines, in insertion order.
type Bag struct {
	mu          sync.Mutex
	diagnostics []*Diagnostic
	counts      map[Kind]int
}

// NewBag creates an empty bag.
func NewBag() *Bag {
	return &Bag{counts: make(map[Kind]int)}
}

// Add adds diagnostics to the bag
func (b *Bag) Add(ds ...*Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range ds {
		b.diagnostics = append(b.diagnostics, d)
		b.counts[d.Kind]++
	}
}

// Len returns the number of diagnostics.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.diagnostics)
}

// Count returns the number of diagnostics of a kind.
func (b *Bag) Count(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[kind]
}

// Diagnostics returns a copy of all diagnostics in insertion order.
func (b *Bag) Diagnostics() []*Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.diagnostics)
}

// Sorted returns a copy of all diagnostics ordered by module and region. Diagnostics at the same
// location keep their insertion order.
func (b *Bag) Sorted() []*Diagnostic {
	out := b.Diagnostics()
	slices.SortStableFunc(out, func(x, y *Diagnostic) int {
		switch {
		case x.Module != y.Module:
			if x.Module < y.Module {
				return -1
			}
			return 1
		case x.Region.Less(y.Region):
			return -1
		case y.Region.Less(x.Region):
			return 1
		}
		return 0
	})
	return out
}
