package sexp

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse reads every top-level expression from r.
func Parse(r io.Reader) ([]*Node, error) {
	lx := newLexer(r)
	var out []*Node
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEOF {
			return out, nil
		}
		n, err := parseNode(lx, tok)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
}

// ParseString reads every top-level expression from s.
func ParseString(s string) ([]*Node, error) {
	return Parse(strings.NewReader(s))
}

// ParseOne reads a document with a single root list, the layout of every
// KiCad file.
func ParseOne(r io.Reader) (*Node, error) {
	nodes, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if !nodes[0].IsList() {
		return nil, fmt.Errorf("line %d: document root %q is not a list", nodes[0].Line, nodes[0].Value)
	}
	return nodes[0], nil
}

// ParseFile reads the single-root document at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ParseOne(f)
}

func parseNode(lx *lexer, tok token) (*Node, error) {
	switch tok.kind {
	case tokAtom:
		return &Node{Value: tok.value, Line: tok.line}, nil
	case tokString:
		return &Node{Value: tok.value, Quoted: true, Line: tok.line}, nil
	case tokOpen:
		return parseList(lx, tok.line)
	default:
		return nil, fmt.Errorf("line %d: unexpected %v", tok.line, tok.kind)
	}
}

func parseList(lx *lexer, line int) (*Node, error) {
	n := &Node{list: true, Line: line}
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokClose:
			return n, nil
		case tokEOF:
			return nil, fmt.Errorf("line %d: list opened here is not closed", line)
		}
		item, err := parseNode(lx, tok)
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, item)
	}
}
