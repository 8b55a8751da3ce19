package sexp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOpen
	tokClose
	tokAtom
	tokString
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokOpen:
		return "'('"
	case tokClose:
		return "')'"
	case tokAtom:
		return "atom"
	default:
		return "string"
	}
}

type token struct {
	kind  tokenKind
	value string
	line  int
}

// lexer splits KiCad s-expression text into tokens.
type lexer struct {
	r    *bufio.Reader
	line int
}

func newLexer(r io.Reader) *lexer {
	return &lexer{r: bufio.NewReader(r), line: 1}
}

func (l *lexer) readRune() (rune, error) {
	ch, _, err := l.r.ReadRune()
	if err == nil && ch == '\n' {
		l.line++
	}
	return ch, err
}

func (l *lexer) unreadRune(ch rune) {
	// UnreadRune only fails without a preceding ReadRune.
	_ = l.r.UnreadRune()
	if ch == '\n' {
		l.line--
	}
}

// next returns the next token. Whitespace and # comments are skipped.
func (l *lexer) next() (token, error) {
	for {
		ch, err := l.readRune()
		if errors.Is(err, io.EOF) {
			return token{kind: tokEOF, line: l.line}, nil
		}
		if err != nil {
			return token{}, fmt.Errorf("line %d: %w", l.line, err)
		}

		switch {
		case unicode.IsSpace(ch):
			continue
		case ch == '#':
			if err := l.skipLine(); err != nil {
				return token{}, err
			}
			continue
		case ch == '(':
			return token{kind: tokOpen, value: "(", line: l.line}, nil
		case ch == ')':
			return token{kind: tokClose, value: ")", line: l.line}, nil
		case ch == '"':
			return l.quoted()
		default:
			l.unreadRune(ch)
			return l.atom()
		}
	}
}

func (l *lexer) skipLine() error {
	for {
		ch, err := l.readRune()
		if errors.Is(err, io.EOF) || ch == '\n' {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", l.line, err)
		}
	}
}

func (l *lexer) quoted() (token, error) {
	start := l.line
	var sb strings.Builder
	for {
		ch, err := l.readRune()
		if err != nil {
			return token{}, fmt.Errorf("line %d: unterminated string", start)
		}
		switch ch {
		case '"':
			return token{kind: tokString, value: sb.String(), line: start}, nil
		case '\\':
			esc, err := l.readRune()
			if err != nil {
				return token{}, fmt.Errorf("line %d: unterminated string", start)
			}
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			default:
				sb.WriteRune(esc)
			}
		default:
			sb.WriteRune(ch)
		}
	}
}

func (l *lexer) atom() (token, error) {
	line := l.line
	var sb strings.Builder
	for {
		ch, err := l.readRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return token{}, fmt.Errorf("line %d: %w", l.line, err)
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			l.unreadRune(ch)
			break
		}
		sb.WriteRune(ch)
	}
	return token{kind: tokAtom, value: sb.String(), line: line}, nil
}
