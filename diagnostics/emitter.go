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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ColorMode selects whether the emitter colors its output.
type ColorMode uint8

const (
	// Color when writing to a terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses `auto`, `always` or `never`. The empty string is `auto`.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (expected auto, always or never)", s)
}

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[34m"
	ansiCyan  = "\x1b[36m"
)

// Emitter renders diagnostics as text.
type Emitter struct {
	writer io.Writer
	color  bool
}

// NewEmitter creates an emitter writing to w. In ColorAuto mode, output is colored when w is a terminal.
func NewEmitter(w io.Writer, mode ColorMode) *Emitter {
	color := mode == ColorAlways
	if mode == ColorAuto {
		if f, ok := w.(*os.File); ok {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return &Emitter{writer: w, color: color}
}

func (e *Emitter) paint(code, s string) string {
	if !e.color {
		return s
	}
	return code + s + ansiReset
}

// Emit writes one diagnostic:
//
//	error[T0001]: type mismatch in 2nd argument of call to `add`: expected Int, found Str
//	  --> main:3:9
//	   = expected: Int
//	   =    found: Str
func (e *Emitter) Emit(d *Diagnostic) error {
	var sb strings.Builder
	sb.WriteString(e.paint(ansiBold+ansiRed, "error["+d.Code+"]"))
	sb.WriteString(e.paint(ansiBold, ": "+d.Message))
	sb.WriteByte('\n')
	location := d.Region.String()
	if d.Module != "" && d.Region.File == "" {
		location = d.Module + " " + location
	}
	sb.WriteString("  " + e.paint(ansiBlue, "-->") + " " + location + "\n")
	if d.ExpectedText != "" || d.FoundText != "" {
		sb.WriteString("   " + e.paint(ansiBlue, "=") + " expected: " + d.ExpectedText + "\n")
		sb.WriteString("   " + e.paint(ansiBlue, "=") + "    found: " + d.FoundText + "\n")
	}
	for _, note := range d.Notes {
		sb.WriteString("   " + e.paint(ansiBlue, "=") + " note: " + note + "\n")
	}
	if d.Help != "" {
		sb.WriteString("   " + e.paint(ansiCyan, "help") + ": " + d.Help + "\n")
	}
	_, err := io.WriteString(e.writer, sb.String())
	return err
}

// EmitAll writes every diagnostic followed by a summary line.
func (e *Emitter) EmitAll(ds []*Diagnostic) error {
	for _, d := range ds {
		if err := e.Emit(d); err != nil {
			return err
		}
	}
	if len(ds) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(e.writer, e.paint(ansiRed, fmt.Sprintf("\nType checking failed with %d error(s)", len(ds))))
	return err
}
