// Package sexp reads and writes the s-expression files KiCad uses for
// boards. The reader streams from an io.Reader, so large boards never need
// to be held as text, and keeps line numbers for error messages.
//
// A document is a tree of Nodes. KiCad lists start with a keyword atom,
// which Node.Name returns; the query helpers find child lists by keyword
// and convert their arguments:
//
//	root, err := sexp.ParseOne(r)
//	ver, err := root.Child("version").Int(1)
package sexp
