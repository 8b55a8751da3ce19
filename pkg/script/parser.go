package script

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

var parser = participle.MustBuild[Script](
	participle.Lexer(ScriptLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)

// Parse reads a route script from r.
func Parse(r io.Reader) (*Script, error) {
	s, err := parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return s, nil
}

// ParseString parses a route script held in a string.
func ParseString(input string) (*Script, error) {
	s, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return s, nil
}

// ParseFile parses the route script at path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
