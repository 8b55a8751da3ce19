package sexp

import (
	"fmt"
	"strconv"
)

// Node is an atom or a list.
type Node struct {
	Value  string  // atom text, unquoted
	Quoted bool    // the atom was written as a string
	Items  []*Node // list elements; nil for atoms
	Line   int     // line the node starts on, zero for built nodes

	list bool
}

// Atom returns a bare atom node.
func Atom(v string) *Node {
	return &Node{Value: v}
}

// String returns a quoted string node.
func String(v string) *Node {
	return &Node{Value: v, Quoted: true}
}

// Number returns an atom holding f in its shortest decimal form.
func Number(f float64) *Node {
	return Atom(strconv.FormatFloat(f, 'f', -1, 64))
}

// List returns a list whose first element is the keyword name.
func List(name string, items ...*Node) *Node {
	n := &Node{list: true, Items: make([]*Node, 0, len(items)+1)}
	n.Items = append(n.Items, Atom(name))
	n.Items = append(n.Items, items...)
	return n
}

// IsList reports whether n is a list.
func (n *Node) IsList() bool {
	return n != nil && n.list
}

// Len returns the number of list elements, zero for atoms and nil.
func (n *Node) Len() int {
	if !n.IsList() {
		return 0
	}
	return len(n.Items)
}

// Name returns the keyword of a list: its first element when that is a
// bare atom.
func (n *Node) Name() string {
	if n.Len() == 0 || n.Items[0].IsList() || n.Items[0].Quoted {
		return ""
	}
	return n.Items[0].Value
}

// Child returns the first child list named key, or nil.
func (n *Node) Child(key string) *Node {
	if !n.IsList() {
		return nil
	}
	for _, c := range n.Items {
		if c.Name() == key {
			return c
		}
	}
	return nil
}

// Children returns every child list named key.
func (n *Node) Children(key string) []*Node {
	if !n.IsList() {
		return nil
	}
	var out []*Node
	for _, c := range n.Items {
		if c.Name() == key {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether n has a bare atom argument equal to flag, as in
// (segment ... locked ...).
func (n *Node) Has(flag string) bool {
	if !n.IsList() {
		return false
	}
	for _, c := range n.Items[1:] {
		if !c.IsList() && !c.Quoted && c.Value == flag {
			return true
		}
	}
	return false
}

// Arg returns element i of a list.
func (n *Node) Arg(i int) (*Node, error) {
	if n == nil {
		return nil, fmt.Errorf("missing node")
	}
	if !n.IsList() {
		return nil, fmt.Errorf("line %d: %q is not a list", n.Line, n.Value)
	}
	if i < 0 || i >= len(n.Items) {
		return nil, fmt.Errorf("line %d: (%s) has no argument %d", n.Line, n.Name(), i)
	}
	return n.Items[i], nil
}

// Str returns the text of atom argument i, quoted or not.
func (n *Node) Str(i int) (string, error) {
	a, err := n.Arg(i)
	if err != nil {
		return "", err
	}
	if a.IsList() {
		return "", fmt.Errorf("line %d: argument %d of (%s) is a list", a.Line, i, n.Name())
	}
	return a.Value, nil
}

// Float returns argument i as a number.
func (n *Node) Float(i int) (float64, error) {
	s, err := n.Str(i)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: argument %d of (%s): %w", n.Line, i, n.Name(), err)
	}
	return f, nil
}

// Int returns argument i as an integer.
func (n *Node) Int(i int) (int, error) {
	s, err := n.Str(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: argument %d of (%s): %w", n.Line, i, n.Name(), err)
	}
	return v, nil
}

// Strings returns the text of every atom argument after the keyword.
func (n *Node) Strings() []string {
	if n.Len() < 2 {
		return nil
	}
	var out []string
	for _, c := range n.Items[1:] {
		if !c.IsList() {
			out = append(out, c.Value)
		}
	}
	return out
}
