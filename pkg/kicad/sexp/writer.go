package sexp

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

// String returns n on one line in KiCad syntax.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch {
	case n == nil:
		return
	case n.list:
		sb.WriteByte('(')
		for i, c := range n.Items {
			if i > 0 {
				sb.WriteByte(' ')
			}
			c.write(sb)
		}
		sb.WriteByte(')')
	case n.Quoted || needsQuotes(n.Value):
		sb.WriteByte('"')
		sb.WriteString(quoter.Replace(n.Value))
		sb.WriteByte('"')
	default:
		sb.WriteString(n.Value)
	}
}

func needsQuotes(s string) bool {
	return s == "" || strings.ContainsAny(s, " \t\r\n()\"#")
}

// Encode writes each node on its own line, prefixed by indent.
func Encode(w io.Writer, indent string, nodes ...*Node) error {
	bw := bufio.NewWriter(w)
	for _, n := range nodes {
		if _, err := fmt.Fprintf(bw, "%s%s\n", indent, n); err != nil {
			return fmt.Errorf("failed to write s-expression: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write s-expression: %w", err)
	}
	return nil
}
