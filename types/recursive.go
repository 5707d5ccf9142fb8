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

// Recursive binds Id within Body. Each RecursiveLink with the same Id within Body points back
// to the recursive type: `[Cons Int 'a, Nil] as 'a`
//
// Cycles in the type graph only pass through tag unions marked recursive; exported types
// represent such cycles with a Recursive node wrapping the outermost type on the cycle.
type Recursive struct {
	Id   Variable
	Body Type
}

// Recursive link to the enclosing Recursive type with the same Id.
type RecursiveLink struct {
	Id Variable
}

func (t *Recursive) TypeName() string     { return "Recursive" }
func (t *RecursiveLink) TypeName() string { return "RecursiveLink" }
