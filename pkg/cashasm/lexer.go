package cashasm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tdex-network/template-scenarios/pkg/compiler"
)

type tokenKind int

const (
	tokenPushOpen tokenKind = iota
	tokenPushClose
	tokenHex
	tokenString
	tokenNumber
	tokenWord
)

type token struct {
	kind  tokenKind
	text  string
	rng   compiler.Range
	start int
	end   int
}

type lexer struct {
	src    []rune
	pos    int
	line   int
	column int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, column: 1}
}

func (l *lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.src)
}

// tokenize splits src into tokens, dropping whitespace and comments.
func tokenize(src string) ([]token, *compiler.CompilationError) {
	l := newLexer(src)
	tokens := make([]token, 0)

	for {
		if err := l.skipBlank(); err != nil {
			return nil, err
		}
		if l.eof() {
			return tokens, nil
		}

		startLine, startColumn, start := l.line, l.column, l.pos
		var kind tokenKind

		switch r := l.peek(0); {
		case r == '<':
			l.advance()
			kind = tokenPushOpen
		case r == '>':
			l.advance()
			kind = tokenPushClose
		case r == '"' || r == '\'':
			if err := l.readString(r); err != nil {
				return nil, err
			}
			kind = tokenString
		case r == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X'):
			l.advance()
			l.advance()
			for !l.eof() && isHexDigit(l.peek(0)) {
				l.advance()
			}
			kind = tokenHex
		case unicode.IsDigit(r) || (r == '-' && unicode.IsDigit(l.peek(1))):
			l.advance()
			for !l.eof() && unicode.IsDigit(l.peek(0)) {
				l.advance()
			}
			kind = tokenNumber
		case isWordRune(r):
			for !l.eof() && isWordRune(l.peek(0)) {
				l.advance()
			}
			kind = tokenWord
		default:
			l.advance()
			return nil, &compiler.CompilationError{
				Message: fmt.Sprintf("Unexpected character %q.", r),
				Range: compiler.Range{
					StartLine: startLine, StartColumn: startColumn,
					EndLine: l.line, EndColumn: l.column,
				},
			}
		}

		// tokens must be separated by blanks, push delimiters excepted
		if kind != tokenPushOpen && kind != tokenPushClose && !l.eof() {
			if next := l.peek(0); !unicode.IsSpace(next) && next != '<' &&
				next != '>' && !l.atComment() {
				for !l.eof() && !unicode.IsSpace(l.peek(0)) &&
					l.peek(0) != '<' && l.peek(0) != '>' {
					l.advance()
				}
				return nil, &compiler.CompilationError{
					Message: fmt.Sprintf(
						"Unexpected token %q.", string(l.src[start:l.pos]),
					),
					Range: compiler.Range{
						StartLine: startLine, StartColumn: startColumn,
						EndLine: l.line, EndColumn: l.column,
					},
				}
			}
		}

		tokens = append(tokens, token{
			kind: kind,
			text: string(l.src[start:l.pos]),
			rng: compiler.Range{
				StartLine: startLine, StartColumn: startColumn,
				EndLine: l.line, EndColumn: l.column,
			},
			start: start,
			end:   l.pos,
		})
	}
}

func (l *lexer) atComment() bool {
	return l.peek(0) == '/' && (l.peek(1) == '/' || l.peek(1) == '*')
}

func (l *lexer) skipBlank() *compiler.CompilationError {
	for !l.eof() {
		switch {
		case unicode.IsSpace(l.peek(0)):
			l.advance()
		case l.peek(0) == '/' && l.peek(1) == '/':
			for !l.eof() && l.peek(0) != '\n' {
				l.advance()
			}
		case l.peek(0) == '/' && l.peek(1) == '*':
			startLine, startColumn := l.line, l.column
			l.advance()
			l.advance()
			for !(l.peek(0) == '*' && l.peek(1) == '/') {
				if l.eof() {
					return &compiler.CompilationError{
						Message: "Unterminated comment.",
						Range: compiler.Range{
							StartLine: startLine, StartColumn: startColumn,
							EndLine: l.line, EndColumn: l.column,
						},
					}
				}
				l.advance()
			}
			l.advance()
			l.advance()
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) readString(quote rune) *compiler.CompilationError {
	startLine, startColumn := l.line, l.column
	l.advance()
	for !l.eof() && l.peek(0) != quote {
		l.advance()
	}
	if l.eof() {
		return &compiler.CompilationError{
			Message: "Unterminated string.",
			Range: compiler.Range{
				StartLine: startLine, StartColumn: startColumn,
				EndLine: l.line, EndColumn: l.column,
			},
		}
	}
	l.advance()
	return nil
}

func isHexDigit(r rune) bool {
	return strings.ContainsRune("0123456789abcdefABCDEF", r)
}

func isWordRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
