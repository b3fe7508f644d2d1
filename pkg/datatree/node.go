// Package datatree is a small ordered document model shared by the catalog
// renderers. Building one tree and rendering it twice keeps the JSON
// interchange document and the Luau module from drifting apart.
package datatree

import "sort"

// Kind identifies the type of a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

// Node is an immutable scalar, list or ordered map.
type Node struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	items  []Node
	fields []Field
}

// Field is one key/value entry of a map node. Field order is preserved.
type Field struct {
	Key   string
	Value Node
}

func Null() Node                 { return Node{kind: KindNull} }
func Bool(b bool) Node           { return Node{kind: KindBool, b: b} }
func Int(i int64) Node           { return Node{kind: KindInt, i: i} }
func Float(f float64) Node       { return Node{kind: KindFloat, f: f} }
func String(s string) Node       { return Node{kind: KindString, s: s} }
func F(key string, v Node) Field { return Field{Key: key, Value: v} }

// List builds a list node. A nil or empty argument yields an empty list.
func List(items ...Node) Node {
	return Node{kind: KindList, items: append([]Node{}, items...)}
}

// Map builds an ordered map node.
func Map(fields ...Field) Node {
	return Node{kind: KindMap, fields: append([]Field{}, fields...)}
}

// Strings is a convenience for a list of string nodes.
func Strings(ss []string) Node {
	items := make([]Node, 0, len(ss))
	for _, s := range ss {
		items = append(items, String(s))
	}
	return List(items...)
}

func (n Node) Kind() Kind          { return n.kind }
func (n Node) BoolValue() bool     { return n.b }
func (n Node) IntValue() int64     { return n.i }
func (n Node) FloatValue() float64 { return n.f }
func (n Node) StringValue() string { return n.s }

// Items returns a copy of a list node's elements.
func (n Node) Items() []Node { return append([]Node(nil), n.items...) }

// Fields returns a copy of a map node's entries.
func (n Node) Fields() []Field { return append([]Field(nil), n.fields...) }

// Lookup returns the value stored under key in a map node.
func (n Node) Lookup(key string) (Node, bool) {
	for _, f := range n.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Node{}, false
}

// IsEmpty reports whether n is null, an empty list or an empty map.
func (n Node) IsEmpty() bool {
	switch n.kind {
	case KindNull:
		return true
	case KindList:
		return len(n.items) == 0
	case KindMap:
		return len(n.fields) == 0
	default:
		return false
	}
}

// SortedKeys returns a copy of a map node with its top-level fields ordered
// by key. Nested maps keep their order. Other kinds are returned unchanged.
func (n Node) SortedKeys() Node {
	if n.kind != KindMap {
		return n
	}
	fields := n.Fields()
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return Node{kind: KindMap, fields: fields}
}

func (n Node) hasContainer() bool {
	for _, it := range n.items {
		if it.kind == KindList || it.kind == KindMap {
			return true
		}
	}
	return false
}
