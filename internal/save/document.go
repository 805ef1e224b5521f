// Package save converts globe entities to and from YAML save documents and
// re-links cross-entity references after a whole save has been read.
package save

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is one YAML mapping inside a save file. Keys keep insertion order.
type Document struct {
	node *yaml.Node
}

// NewDocument returns an empty mapping.
func NewDocument() *Document {
	return &Document{node: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

// Wrap views n as a document. A document node is unwrapped to its root.
func Wrap(n *yaml.Node) (*Document, error) {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping", ErrMalformedRecord)
	}
	return &Document{node: n}, nil
}

// Node returns the underlying mapping node.
func (d *Document) Node() *yaml.Node { return d.node }

func (d *Document) lookup(key string) *yaml.Node {
	c := d.node.Content
	for i := 0; i+1 < len(c); i += 2 {
		if c[i].Value == key {
			return c[i+1]
		}
	}
	return nil
}

// isNull reports whether n is missing or an explicit null (~, null, or empty).
func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// del removes key if present.
func (d *Document) del(key string) {
	c := d.node.Content
	for i := 0; i+1 < len(c); i += 2 {
		if c[i].Value == key {
			d.node.Content = append(c[:i], c[i+2:]...)
			return
		}
	}
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool { return d.lookup(key) != nil }

// Keys returns the keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.node.Content)/2)
	for i := 0; i+1 < len(d.node.Content); i += 2 {
		keys = append(keys, d.node.Content[i].Value)
	}
	return keys
}

// Get returns the raw value node for key, nil if absent.
func (d *Document) Get(key string) *yaml.Node { return d.lookup(key) }

// Put sets key to a prepared value node, replacing an existing entry.
func (d *Document) Put(key string, val *yaml.Node) {
	c := d.node.Content
	for i := 0; i+1 < len(c); i += 2 {
		if c[i].Value == key {
			c[i+1] = val
			return
		}
	}
	d.node.Content = append(d.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
}

func (d *Document) set(key string, v any) {
	var val yaml.Node
	if err := val.Encode(v); err != nil {
		// Only scalars are passed here and yaml.v3 cannot fail on them.
		panic(fmt.Sprintf("save: encode %s: %v", key, err))
	}
	d.Put(key, &val)
}

func (d *Document) SetString(key, v string)        { d.set(key, v) }
func (d *Document) SetInt(key string, v int)       { d.set(key, v) }
func (d *Document) SetInt64(key string, v int64)   { d.set(key, v) }
func (d *Document) SetFloat(key string, v float64) { d.set(key, v) }
func (d *Document) SetBool(key string, v bool)     { d.set(key, v) }

// field is a value read from a document, tagged with whether the key was
// there at all. Callers collapse it to a concrete value right away with or.
type field[T any] struct {
	value   T
	present bool
}

func (f field[T]) or(def T) T {
	if f.present {
		return f.value
	}
	return def
}

func read[T any](d *Document, key string) (field[T], error) {
	n := d.lookup(key)
	if isNull(n) {
		return field[T]{}, nil
	}
	var v T
	if err := n.Decode(&v); err != nil {
		return field[T]{}, malformed(key, "%v", err)
	}
	return field[T]{value: v, present: true}, nil
}

func need[T any](d *Document, key string) (T, error) {
	f, err := read[T](d, key)
	if err != nil {
		return f.value, err
	}
	if !f.present {
		return f.value, malformed(key, "required key missing")
	}
	return f.value, nil
}

// seq returns the items of a sequence value, nil when the key is absent or null.
func seq(d *Document, key string) ([]*yaml.Node, error) {
	n := d.lookup(key)
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, malformed(key, "expected a sequence")
	}
	return n.Content, nil
}

func newSeq(items []*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}
