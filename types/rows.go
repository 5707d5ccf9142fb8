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

// GatherFields decomposes a record row into its known fields and its extension. Links, nested
// record rows and aliases are followed until the extension is not a non-empty record row: an
// unbound, rigid or broken type-variable, the empty record, or a non-record structure.
func (a *Arena) GatherFields(v Variable) (fields LabelMap, ext Variable) {
	fields = EmptyLabelMap
	for {
		root, c := a.Resolve(v)
		if c.Kind != StructureContent {
			return fields, root
		}
		switch shape := c.Shape.(type) {
		case *FlatRecord:
			if fields.Len() == 0 {
				fields = shape.Fields
			} else {
				fields = shape.Fields.Merge(fields)
			}
			v = shape.Ext
		case *FlatAlias:
			if _, rc := a.Resolve(shape.Real); rc.Kind != StructureContent || !IsRecordRow(rc.Shape) {
				return fields, root
			}
			v = shape.Real
		default:
			return fields, root
		}
	}
}

// GatherTags decomposes a tag union row into its known tags and its extension, following links,
// nested tag union rows and aliases. Recursive reports whether any union along the row is marked
// recursive.
func (a *Arena) GatherTags(v Variable) (tags LabelMap, ext Variable, recursive bool) {
	tags = EmptyLabelMap
	for {
		root, c := a.Resolve(v)
		if c.Kind != StructureContent {
			return tags, root, recursive
		}
		switch shape := c.Shape.(type) {
		case *FlatTagUnion:
			if tags.Len() == 0 {
				tags = shape.Tags
			} else {
				tags = shape.Tags.Merge(tags)
			}
			recursive = recursive || shape.Recursive
			v = shape.Ext
		case *FlatAlias:
			if _, rc := a.Resolve(shape.Real); rc.Kind != StructureContent || !IsTagUnionRow(rc.Shape) {
				return tags, root, recursive
			}
			v = shape.Real
		default:
			return tags, root, recursive
		}
	}
}

// IsEmptyRow reports whether v resolves to a closed record or tag union row.
func (a *Arena) IsEmptyRow(v Variable) bool {
	c := a.Content(v)
	if c.Kind != StructureContent {
		return false
	}
	switch c.Shape.(type) {
	case FlatEmptyRecord, FlatEmptyTagUnion:
		return true
	}
	return false
}
