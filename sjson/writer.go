/*
NAME
  writer.go

DESCRIPTION
  writer.go implements Writer, an indenting SJSON serializer. Nesting
  is scoped with a callback, mirroring the original library's
  push_object/push_array closures, rather than requiring the caller to
  track indentation or remember to close braces.

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
	"strings"
)

// Writer builds an indented SJSON document in memory.
type Writer struct {
	b      strings.Builder
	indent int
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the document written so far.
func (w *Writer) Bytes() []byte { return []byte(w.b.String()) }

func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.b.WriteString("\t")
	}
}

func (w *Writer) writeKey(key string) {
	w.writeIndent()
	w.b.WriteString(key)
	w.b.WriteString(" = ")
}

// String writes `key = "value"`.
func (w *Writer) String(key, value string) {
	w.writeKey(key)
	w.b.WriteByte('"')
	w.b.WriteString(value)
	w.b.WriteByte('"')
	w.b.WriteString("\n")
}

// Bool writes `key = true|false`.
func (w *Writer) Bool(key string, value bool) {
	w.writeKey(key)
	w.b.WriteString(strconv.FormatBool(value))
	w.b.WriteString("\n")
}

// Float writes `key = <number>`.
func (w *Writer) Float(key string, value float64) {
	w.writeKey(key)
	w.b.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
	w.b.WriteString("\n")
}

// Int writes `key = <integer>`.
func (w *Writer) Int(key string, value int64) {
	w.writeKey(key)
	w.b.WriteString(strconv.FormatInt(value, 10))
	w.b.WriteString("\n")
}

// FloatArray writes `key = [v0, v1, ...]` on a single line.
func (w *Writer) FloatArray(key string, values []float64) {
	w.writeKey(key)
	w.b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			w.b.WriteString(", ")
		}
		w.b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	w.b.WriteString("]\n")
}

// FloatArrayItem writes `[v0, v1, ...]` as a keyless array element,
// for a nested array whose entries are themselves arrays (e.g. one
// row per animation sample).
func (w *Writer) FloatArrayItem(values []float64) {
	w.writeIndent()
	w.b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			w.b.WriteString(", ")
		}
		w.b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	w.b.WriteString("]\n")
}

// Object writes `key = { ... }`, invoking fn with indentation
// increased by one level, then closes the brace at the outer level.
func (w *Writer) Object(key string, fn func(*Writer)) {
	w.writeIndent()
	if key != "" {
		w.b.WriteString(key)
		w.b.WriteString(" = ")
	}
	w.b.WriteString("{\n")
	w.indent++
	fn(w)
	w.indent--
	w.writeIndent()
	w.b.WriteString("}\n")
}

// Array writes `key = [ ... ]`, invoking fn with indentation increased
// by one level, for arrays of objects (one push per element).
func (w *Writer) Array(key string, fn func(*Writer)) {
	w.writeIndent()
	if key != "" {
		w.b.WriteString(key)
		w.b.WriteString(" = ")
	}
	w.b.WriteString("[\n")
	w.indent++
	fn(w)
	w.indent--
	w.writeIndent()
	w.b.WriteString("]\n")
}

// ArrayObject writes one `{ ... }` element of an enclosing Array,
// without a leading key.
func (w *Writer) ArrayObject(fn func(*Writer)) {
	w.Object("", fn)
}

// Comment writes a `// text` line comment at the current indentation.
func (w *Writer) Comment(text string) {
	w.writeIndent()
	w.b.WriteString("// ")
	w.b.WriteString(text)
	w.b.WriteString("\n")
}
