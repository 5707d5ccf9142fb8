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

// rowinfer provides type inference for a purely functional language with structural records and
// tag unions.
//
// The type-system is Hindley-Milner extended with row polymorphism: records and tag unions are rows
// of labels with an optional extension, so functions may accept any record with at least the fields
// they use, and `when` expressions may match open or closed unions of tags.
//
// Inference is split into constraint generation and solving. Type-variables live in a per-module
// arena of union-find slots; each slot holds a rank used for let-generalization. Type errors never
// abort inference: a failed unification is rolled back, recorded as a diagnostic, and replaced by a
// broken type which absorbs later constraints.
//
//
// Supported Features:
//
//   * Open and closed records, field access, accessor functions and record update
//   * Open and closed tag unions, with payloads and `when` pattern matching
//   * Recursive tag unions, inferred through the occurs check
//   * Let-polymorphism and mutually-recursive definition groups
//   * Annotations with rigid type-variables
//   * Parallel checking of independent modules, one arena per module
//   * Limits on unification depth and instantiation size
//
//
// Links:
//
// Extensible Records with Scoped Labels (Leijen, 2005): https://www.microsoft.com/en-us/research/publication/extensible-records-with-scoped-labels/
//
// Efficient Generalization with Levels (Oleg Kiselyov): http://okmij.org/ftp/ML/generalization.html#levels
//
// Hindley-Milner type system: https://en.wikipedia.org/wiki/Hindley–Milner_type_system
package rowinfer
