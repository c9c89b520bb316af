/*
NAME
  reader.go

DESCRIPTION
  reader.go implements Reader, a small recursive-descent reader over
  the SJSON grammar: named objects and arrays, and typed key/value
  pairs. Every read advances past the token(s) it consumed and leaves
  the reader positioned at the next token on success; on failure the
  reader is left wherever it stopped, except for the Try* methods,
  which restore the position they started from.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sjson

import (
	"strconv"

	"github.com/ausocean/acl/errclass"
)

// Reader reads an SJSON document token by token.
type Reader struct {
	tok *tokenizer
}

// NewReader returns a Reader over buf. buf is not copied; it must not
// be modified while the Reader is in use.
func NewReader(buf []byte) *Reader {
	return &Reader{tok: newTokenizer(buf)}
}

type readerState struct {
	pos  int
	line int
}

func (r *Reader) save() readerState {
	return readerState{pos: r.tok.pos, line: r.tok.line}
}

func (r *Reader) restore(s readerState) {
	r.tok.pos = s.pos
	r.tok.line = s.line
}

// ObjectBegins consumes an opening '{'.
func (r *Reader) ObjectBegins() error { return r.expect(tokOpeningBrace, "'{'") }

// ObjectEnds consumes a closing '}'.
func (r *Reader) ObjectEnds() error { return r.expect(tokClosingBrace, "'}'") }

// ArrayBegins consumes an opening '['.
func (r *Reader) ArrayBegins() error { return r.expect(tokOpeningBracket, "'['") }

// ArrayEnds consumes a closing ']'.
func (r *Reader) ArrayEnds() error { return r.expect(tokClosingBracket, "']'") }

// NamedObjectBegins consumes `key = {`.
func (r *Reader) NamedObjectBegins(key string) error {
	if err := r.Key(key); err != nil {
		return err
	}
	if err := r.expect(tokEquals, "'='"); err != nil {
		return err
	}
	return r.ObjectBegins()
}

// NamedArrayBegins consumes `key = [`.
func (r *Reader) NamedArrayBegins(key string) error {
	if err := r.Key(key); err != nil {
		return err
	}
	if err := r.expect(tokEquals, "'='"); err != nil {
		return err
	}
	return r.ArrayBegins()
}

// TryNamedObjectBegins reports whether `key = {` is next, consuming it
// if so and leaving the reader unchanged otherwise.
func (r *Reader) TryNamedObjectBegins(key string) bool {
	s := r.save()
	if err := r.NamedObjectBegins(key); err != nil {
		r.restore(s)
		return false
	}
	return true
}

// TryNamedArrayBegins reports whether `key = [` is next, consuming it
// if so and leaving the reader unchanged otherwise.
func (r *Reader) TryNamedArrayBegins(key string) bool {
	s := r.save()
	if err := r.NamedArrayBegins(key); err != nil {
		r.restore(s)
		return false
	}
	return true
}

// Key consumes a key, quoted or bare, and requires it equal name.
func (r *Reader) Key(name string) error {
	s := r.save()
	tk, err := r.tok.next()
	if err != nil {
		return err
	}
	if (tk.kind != tokString && tk.kind != tokBareword) || tk.text != name {
		r.restore(s)
		return errclass.Errorf(errclass.InvalidFormat, "sjson:%d: expected key %q", tk.line, name)
	}
	return nil
}

func (r *Reader) expect(kind tokenKind, what string) error {
	tk, err := r.tok.next()
	if err != nil {
		return err
	}
	if tk.kind != kind {
		return errclass.Errorf(errclass.InvalidFormat, "sjson:%d: expected %s", tk.line, what)
	}
	return nil
}

// Comma consumes a ',' separator.
func (r *Reader) Comma() error { return r.expect(tokComma, "','") }

// TryComma consumes a ',' if present, reporting whether it did.
func (r *Reader) TryComma() bool {
	s := r.save()
	if r.Comma() != nil {
		r.restore(s)
		return false
	}
	return true
}

// String reads `key = "value"` and returns the unescaped-as-is string
// contents (SJSON strings are returned raw, as the original parser
// does; callers needing unescaped unicode must post-process).
func (r *Reader) String(key string) (string, error) {
	if err := r.Key(key); err != nil {
		return "", err
	}
	if err := r.expect(tokEquals, "'='"); err != nil {
		return "", err
	}
	tk, err := r.tok.next()
	if err != nil {
		return "", err
	}
	if tk.kind != tokString {
		return "", errclass.Errorf(errclass.InvalidFormat, "sjson:%d: expected a string for key %q", tk.line, key)
	}
	return tk.text, nil
}

// Bool reads `key = true|false`.
func (r *Reader) Bool(key string) (bool, error) {
	if err := r.Key(key); err != nil {
		return false, err
	}
	if err := r.expect(tokEquals, "'='"); err != nil {
		return false, err
	}
	return r.readBool()
}

func (r *Reader) readBool() (bool, error) {
	tk, err := r.tok.next()
	if err != nil {
		return false, err
	}
	switch {
	case tk.kind == tokBareword && tk.text == "true":
		return true, nil
	case tk.kind == tokBareword && tk.text == "false":
		return false, nil
	default:
		return false, errclass.Errorf(errclass.InvalidFormat, "sjson:%d: expected true or false", tk.line)
	}
}

// Float reads `key = <number>` as a float64.
func (r *Reader) Float(key string) (float64, error) {
	if err := r.Key(key); err != nil {
		return 0, err
	}
	if err := r.expect(tokEquals, "'='"); err != nil {
		return 0, err
	}
	return r.readFloat()
}

func (r *Reader) readFloat() (float64, error) {
	tk, err := r.tok.next()
	if err != nil {
		return 0, err
	}
	if tk.kind != tokNumber {
		return 0, errclass.Errorf(errclass.InvalidFormat, "sjson:%d: expected a number", tk.line)
	}
	v, err := strconv.ParseFloat(tk.text, 64)
	if err != nil {
		return 0, errclass.Wrap(errclass.InvalidFormat, err, "sjson: parsing number")
	}
	return v, nil
}

// Int reads `key = <integer>` as an int64. Hex literals (0x...) are
// accepted, matching the original grammar's integer reader.
func (r *Reader) Int(key string) (int64, error) {
	if err := r.Key(key); err != nil {
		return 0, err
	}
	if err := r.expect(tokEquals, "'='"); err != nil {
		return 0, err
	}
	tk, err := r.tok.next()
	if err != nil {
		return 0, err
	}
	if tk.kind != tokNumber {
		return 0, errclass.Errorf(errclass.InvalidFormat, "sjson:%d: expected an integer", tk.line)
	}
	v, err := strconv.ParseInt(tk.text, 0, 64)
	if err != nil {
		return 0, errclass.Wrap(errclass.InvalidFormat, err, "sjson: parsing integer")
	}
	return v, nil
}

// FloatArray reads `key = [v0, v1, ..., v(n-1)]`.
func (r *Reader) FloatArray(key string, n int) ([]float64, error) {
	if err := r.Key(key); err != nil {
		return nil, err
	}
	if err := r.expect(tokEquals, "'='"); err != nil {
		return nil, err
	}
	return r.readFloatArray(n)
}

func (r *Reader) readFloatArray(n int) ([]float64, error) {
	if err := r.ArrayBegins(); err != nil {
		return nil, err
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := r.readFloat()
		if err != nil {
			return nil, err
		}
		values[i] = v
		if i < n-1 {
			if err := r.Comma(); err != nil {
				return nil, err
			}
		}
	}
	r.TryComma() // SJSON tolerates a trailing comma
	if err := r.ArrayEnds(); err != nil {
		return nil, err
	}
	return values, nil
}

// FloatArrayList reads `key = [ [e0..e(elemLen-1)], [e0..e(elemLen-1)], ... ]`,
// a keyless array of fixed-length float arrays: the shape
// rotation/translation/scale track data is stored in.
func (r *Reader) FloatArrayList(key string, elemLen int) ([][]float64, error) {
	if err := r.Key(key); err != nil {
		return nil, err
	}
	if err := r.expect(tokEquals, "'='"); err != nil {
		return nil, err
	}
	if err := r.ArrayBegins(); err != nil {
		return nil, err
	}

	var out [][]float64
	for {
		s := r.save()
		if r.ArrayEnds() == nil {
			break
		}
		r.restore(s)

		v, err := r.readFloatArray(elemLen)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		r.TryComma()
	}
	return out, nil
}

// TryFloat reads `key = <number>` if present, otherwise returns def
// without consuming anything.
func (r *Reader) TryFloat(key string, def float64) float64 {
	s := r.save()
	v, err := r.Float(key)
	if err != nil {
		r.restore(s)
		return def
	}
	return v
}

// TryString reads `key = "value"` if present, otherwise returns def
// without consuming anything.
func (r *Reader) TryString(key, def string) string {
	s := r.save()
	v, err := r.String(key)
	if err != nil {
		r.restore(s)
		return def
	}
	return v
}

// TryBool reads `key = true|false` if present, otherwise returns def
// without consuming anything.
func (r *Reader) TryBool(key string, def bool) bool {
	s := r.save()
	v, err := r.Bool(key)
	if err != nil {
		r.restore(s)
		return def
	}
	return v
}

// TryFloatArrayList reads `key = [ [...], ... ]` if present, returning
// nil without consuming anything otherwise. Used for track data that
// may legitimately be absent (a default or constant track stores
// nothing or a single sample rather than one sample per frame).
func (r *Reader) TryFloatArrayList(key string, elemLen int) [][]float64 {
	s := r.save()
	v, err := r.FloatArrayList(key, elemLen)
	if err != nil {
		r.restore(s)
		return nil
	}
	return v
}

// AtEOF reports whether only trivia (whitespace, comments) remains.
func (r *Reader) AtEOF() bool {
	s := r.save()
	defer r.restore(s)
	if err := r.tok.skipTrivia(); err != nil {
		return false
	}
	return r.tok.eof()
}

// Remainder requires that only trivia remains in the buffer, reporting
// InvalidFormat if unexpected content follows.
func (r *Reader) Remainder() error {
	if err := r.tok.skipTrivia(); err != nil {
		return err
	}
	if !r.tok.eof() {
		return errclass.Errorf(errclass.InvalidFormat, "sjson:%d: unexpected content at end of input", r.tok.line)
	}
	return nil
}
