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
	"github.com/benbjohnson/immutable"
)

var emptyVarList = immutable.NewList()

// EmptyLabelMap contains no labels.
var EmptyLabelMap = LabelMap{emptyMap}

// VarList is an immutable list of type-variables, used for tag payloads and record fields.
type VarList struct {
	l *immutable.List
}

// Create a VarList from a slice of type-variables.
func NewVarList(vs ...Variable) VarList {
	l := emptyVarList
	for _, v := range vs {
		l = l.Append(v)
	}
	return VarList{l}
}

func (l VarList) Len() int {
	if l.l == nil {
		return 0
	}
	return l.l.Len()
}

func (l VarList) Get(i int) Variable { return l.l.Get(i).(Variable) }

// Append returns a new list with v appended.
func (l VarList) Append(v Variable) VarList {
	if l.l == nil {
		return VarList{emptyVarList.Append(v)}
	}
	return VarList{l.l.Append(v)}
}

// If f returns false, iteration will be stopped.
func (l VarList) Range(f func(int, Variable) bool) {
	if l.l == nil {
		return
	}
	iter := l.l.Iterator()
	for !iter.Done() {
		i, v := iter.Next()
		if !f(i, v.(Variable)) {
			return
		}
	}
}

// Slice copies the list into a new slice.
func (l VarList) Slice() []Variable {
	vs := make([]Variable, 0, l.Len())
	l.Range(func(_ int, v Variable) bool {
		vs = append(vs, v)
		return true
	})
	return vs
}

// LabelMap contains immutable mappings from labels to immutable lists of type-variables.
// Records map each field to a single-element list; tag unions map each tag to its payloads.
type LabelMap struct {
	m *immutable.SortedMap
}

// Create a LabelMap with a single entry.
func SingletonLabelMap(label string, vs ...Variable) LabelMap {
	return LabelMap{emptyMap.Set(label, NewVarList(vs...).l)}
}

func (m LabelMap) Len() int {
	if m.m == nil {
		return 0
	}
	return m.m.Len()
}

// Get the list of type-variables for a label.
func (m LabelMap) Get(label string) (VarList, bool) {
	if m.m == nil {
		return VarList{}, false
	}
	l, ok := m.m.Get(label)
	if !ok {
		return VarList{}, false
	}
	return VarList{l.(*immutable.List)}, true
}

// Field returns the single type-variable for a record field.
func (m LabelMap) Field(label string) (Variable, bool) {
	vs, ok := m.Get(label)
	if !ok || vs.Len() == 0 {
		return NoVariable, false
	}
	return vs.Get(0), true
}

// Set returns a new map with label mapped to vs.
func (m LabelMap) Set(label string, vs VarList) LabelMap {
	imm := m.m
	if imm == nil {
		imm = emptyMap
	}
	if vs.l == nil {
		vs.l = emptyVarList
	}
	return LabelMap{imm.Set(label, vs.l)}
}

// SetField returns a new map with a record field mapped to v.
func (m LabelMap) SetField(label string, v Variable) LabelMap {
	return m.Set(label, NewVarList(v))
}

// Delete returns a new map without label.
func (m LabelMap) Delete(label string) LabelMap {
	if m.m == nil {
		return m
	}
	return LabelMap{m.m.Delete(label)}
}

// Iterate over entries in the map, sorted by label.
// If f returns false, iteration will be stopped.
func (m LabelMap) Range(f func(string, VarList) bool) {
	if m.m == nil {
		return
	}
	iter := m.m.Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		if !f(k.(string), VarList{v.(*immutable.List)}) {
			return
		}
	}
}

// Labels returns the sorted labels of the map.
func (m LabelMap) Labels() []string {
	labels := make([]string, 0, m.Len())
	m.Range(func(label string, _ VarList) bool {
		labels = append(labels, label)
		return true
	})
	return labels
}

// Merge returns a new map containing the entries of m and other. Entries of other take precedence.
func (m LabelMap) Merge(other LabelMap) LabelMap {
	if m.Len() == 0 {
		return other
	}
	other.Range(func(label string, vs VarList) bool {
		m = m.Set(label, vs)
		return true
	})
	return m
}
