/*
NAME
  tokenizer.go

DESCRIPTION
  tokenizer.go scans an SJSON ("simplified JSON") buffer into a stream
  of tokens: braces, brackets, the key/value equal sign, commas,
  quoted or bare keys, strings, numbers, booleans and null. SJSON
  tolerates quoteless keys and line (//) and block comments, which is the
  whole reason it isn't read with encoding/json.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package sjson reads and writes the "simplified JSON" clip-file
// format: JSON-like objects and arrays with quoteless keys, // and
// /* */ comments, and tolerated trailing commas.
package sjson

import (
	"unicode"

	"github.com/ausocean/acl/errclass"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOpeningBrace
	tokClosingBrace
	tokOpeningBracket
	tokClosingBracket
	tokEquals
	tokComma
	tokString // value between double quotes, unescaped
	tokBareword
	tokNumber
)

type token struct {
	kind tokenKind
	text string
	line int
}

// tokenizer is a single-pass scanner over an SJSON buffer.
type tokenizer struct {
	buf  []byte
	pos  int
	line int
}

func newTokenizer(buf []byte) *tokenizer {
	t := &tokenizer{buf: buf, line: 1}
	t.skipBOM()
	return t
}

func (t *tokenizer) skipBOM() {
	if len(t.buf) >= 3 && t.buf[0] == 0xEF && t.buf[1] == 0xBB && t.buf[2] == 0xBF {
		t.pos = 3
	}
}

func (t *tokenizer) eof() bool { return t.pos >= len(t.buf) }

func (t *tokenizer) peek() byte {
	if t.eof() {
		return 0
	}
	return t.buf[t.pos]
}

func (t *tokenizer) advance() {
	if t.eof() {
		return
	}
	if t.buf[t.pos] == '\n' {
		t.line++
	}
	t.pos++
}

// skipTrivia consumes whitespace and comments, returning an error only
// if a comment is left unterminated.
func (t *tokenizer) skipTrivia() error {
	for !t.eof() {
		c := t.peek()
		switch {
		case unicode.IsSpace(rune(c)):
			t.advance()
		case c == '/':
			if err := t.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (t *tokenizer) skipComment() error {
	start := t.line
	t.advance() // first '/'
	if t.eof() {
		return errclass.Errorf(errclass.Truncated, "sjson:%d: input ends inside a comment", start)
	}
	switch t.peek() {
	case '/':
		for !t.eof() && t.peek() != '\n' {
			t.advance()
		}
		return nil
	case '*':
		t.advance()
		prevStar := false
		for {
			if t.eof() {
				return errclass.Errorf(errclass.Truncated, "sjson:%d: unterminated block comment", start)
			}
			c := t.peek()
			if prevStar && c == '/' {
				t.advance()
				return nil
			}
			prevStar = c == '*'
			t.advance()
		}
	default:
		return errclass.Errorf(errclass.InvalidFormat, "sjson:%d: comment must begin with // or /*", start)
	}
}

// next returns the next token, or a tokEOF token once the input is
// exhausted.
func (t *tokenizer) next() (token, error) {
	if err := t.skipTrivia(); err != nil {
		return token{}, err
	}
	if t.eof() {
		return token{kind: tokEOF, line: t.line}, nil
	}

	line := t.line
	c := t.peek()
	switch c {
	case '{':
		t.advance()
		return token{kind: tokOpeningBrace, line: line}, nil
	case '}':
		t.advance()
		return token{kind: tokClosingBrace, line: line}, nil
	case '[':
		t.advance()
		return token{kind: tokOpeningBracket, line: line}, nil
	case ']':
		t.advance()
		return token{kind: tokClosingBracket, line: line}, nil
	case '=':
		t.advance()
		return token{kind: tokEquals, line: line}, nil
	case ',':
		t.advance()
		return token{kind: tokComma, line: line}, nil
	case '"':
		return t.readString()
	}
	if c == '-' || isDigit(c) {
		return t.readNumber()
	}
	return t.readBareword()
}

func (t *tokenizer) readString() (token, error) {
	line := t.line
	t.advance() // opening quote
	start := t.pos
	for {
		if t.eof() {
			return token{}, errclass.Errorf(errclass.Truncated, "sjson:%d: unterminated string", line)
		}
		c := t.peek()
		if c == '"' {
			text := string(t.buf[start:t.pos])
			t.advance() // closing quote
			return token{kind: tokString, text: text, line: line}, nil
		}
		if c == '\\' {
			t.advance()
			if t.eof() {
				return token{}, errclass.Errorf(errclass.Truncated, "sjson:%d: unterminated escape", line)
			}
		}
		t.advance()
	}
}

func (t *tokenizer) readNumber() (token, error) {
	line := t.line
	start := t.pos
	if t.peek() == '-' {
		t.advance()
	}
	hex := false
	if t.pos+1 < len(t.buf) && t.buf[t.pos] == '0' && (t.buf[t.pos+1] == 'x' || t.buf[t.pos+1] == 'X') {
		hex = true
		t.advance()
		t.advance()
	}
	for !t.eof() && (isDigit(t.peek()) || (hex && isHexLetter(t.peek()))) {
		t.advance()
	}
	if !t.eof() && t.peek() == '.' {
		t.advance()
		for !t.eof() && isDigit(t.peek()) {
			t.advance()
		}
	}
	if !t.eof() && (t.peek() == 'e' || t.peek() == 'E') {
		t.advance()
		if !t.eof() && (t.peek() == '+' || t.peek() == '-') {
			t.advance()
		}
		for !t.eof() && isDigit(t.peek()) {
			t.advance()
		}
	}
	return token{kind: tokNumber, text: string(t.buf[start:t.pos]), line: line}, nil
}

// readBareword reads an unquoted key or literal (true, false, null, or
// a quoteless identifier), terminated by '=', whitespace or a
// structural character.
func (t *tokenizer) readBareword() (token, error) {
	line := t.line
	start := t.pos
	for !t.eof() {
		c := t.peek()
		if unicode.IsSpace(rune(c)) || c == '=' || c == ',' || c == '{' || c == '}' || c == '[' || c == ']' {
			break
		}
		if c == '"' {
			return token{}, errclass.Errorf(errclass.InvalidFormat, "sjson:%d: quotation mark not allowed in unquoted token", line)
		}
		t.advance()
	}
	if t.pos == start {
		return token{}, errclass.Errorf(errclass.InvalidFormat, "sjson:%d: expected a value or key", line)
	}
	return token{kind: tokBareword, text: string(t.buf[start:t.pos]), line: line}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexLetter(c byte) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
