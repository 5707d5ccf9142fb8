package types

import (
	"github.com/benbjohnson/immutable"
)

var emptyList = immutable.NewList()

var EmptyTypeList = TypeList{emptyList}

// TypeList is an immutable list of types.
type TypeList struct {
	l *immutable.List
}

// Create a TypeList from types.
func NewTypeList(ts ...Type) TypeList {
	l := emptyList
	for _, t := range ts {
		l = l.Append(t)
	}
	return TypeList{l}
}

// Create a TypeList with a single type.
func SingletonTypeList(t Type) TypeList { return TypeList{emptyList.Append(t)} }

func (l TypeList) Len() int {
	if l.l == nil {
		return 0
	}
	return l.l.Len()
}

func (l TypeList) Get(i int) Type { return l.l.Get(i).(Type) }

func (l TypeList) Append(t Type) TypeList {
	if l.l == nil {
		return SingletonTypeList(t)
	}
	return TypeList{l.l.Append(t)}
}

// If f returns false, iteration will be stopped.
func (l TypeList) Range(f func(int, Type) bool) {
	if l.l == nil {
		return
	}
	iter := l.l.Iterator()
	for !iter.Done() {
		i, v := iter.Next()
		if !f(i, v.(Type)) {
			return
		}
	}
}

// Slice copies the list into a new slice.
func (l TypeList) Slice() []Type {
	ts := make([]Type, 0, l.Len())
	l.Range(func(_ int, t Type) bool {
		ts = append(ts, t)
		return true
	})
	return ts
}
