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

// Kind is a stable tag identifying the class of a diagnostic, for tooling to key on.
type Kind string

const (
	// Incompatible types, such as a function and a record.
	TypeMismatch Kind = "TypeMismatch"
	// A closed record or tag union would gain or lose labels.
	RowMismatch Kind = "RowMismatch"
	// A type grew beyond a configured limit.
	RecursionLimitExceeded Kind = "RecursionLimitExceeded"
	// A name was not bound in scope.
	UnboundName Kind = "UnboundName"
	// A type would contain itself outside of a recursive tag union.
	OccursCheckFailure Kind = "OccursCheckFailure"
)

// Error codes for type checking
const (
	ErrTypeMismatch           = "T0001"
	ErrRowMismatch            = "T0002"
	ErrRecursionLimitExceeded = "T0003"
	ErrUnboundName            = "T0004"
	ErrOccursCheckFailure     = "T0005"
)

// Code returns the error code of a kind.
func (k Kind) Code() string {
	switch k {
	case TypeMismatch:
		return ErrTypeMismatch
	case RowMismatch:
		return ErrRowMismatch
	case RecursionLimitExceeded:
		return ErrRecursionLimitExceeded
	case UnboundName:
		return ErrUnboundName
	case OccursCheckFailure:
		return ErrOccursCheckFailure
	}
	return ""
}
