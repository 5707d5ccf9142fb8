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
	"github.com/wdamron/rowinfer/ast"
	"github.com/wdamron/rowinfer/types"
)

// Diagnostic is a located type error.
type Diagnostic struct {
	Kind    Kind
	Code    string
	Module  string
	Region  ast.Region
	Context string
	Message string
	// Snapshots of the expected and found types, taken before the failed unification.
	Expected types.Type
	Found    types.Type
	// Rendered snapshots; type-variable names are shared between both.
	ExpectedText string
	FoundText    string
	// For row mismatches: labels expected but not found, and labels found but not expected.
	Missing []string
	Extra   []string
	Notes   []string
	Help    string
}

// NewDiagnostic creates a diagnostic with the code of kind.
func NewDiagnostic(kind Kind, message string) *Diagnostic {
	return &Diagnostic{Kind: kind, Code: kind.Code(), Message: message}
}

// WithLocation sets the module and region of the diagnostic.
func (d *Diagnostic) WithLocation(module string, region ast.Region) *Diagnostic {
	d.Module, d.Region = module, region
	return d
}

// WithContext sets the description of the syntactic position.
func (d *Diagnostic) WithContext(context string) *Diagnostic {
	d.Context = context
	return d
}

// WithTypes attaches the expected and found snapshots.
func (d *Diagnostic) WithTypes(expected, found types.Type) *Diagnostic {
	d.Expected, d.Found = expected, found
	texts := types.TypeStrings(expected, found)
	d.ExpectedText, d.FoundText = texts[0], texts[1]
	return d
}

// WithLabels attaches missing and unexpected labels of a row mismatch.
func (d *Diagnostic) WithLabels(missing, extra []string) *Diagnostic {
	d.Missing, d.Extra = missing, extra
	return d
}

// WithNote adds a note to the diagnostic
func (d *Diagnostic) WithNote(message string) *Diagnostic {
	d.Notes = append(d.Notes, message)
	return d
}

// WithHelp sets a suggestion for fixing the error
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// Error implements the error interface, so diagnostics can be returned or wrapped by tools.
func (d *Diagnostic) Error() string {
	prefix := d.Region.String()
	if d.Module != "" {
		prefix = d.Module + ": " + prefix
	}
	return prefix + ": " + d.Message
}
