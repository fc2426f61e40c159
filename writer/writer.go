// Package writer serializes a raw document to PDF bytes: header, body in
// ascending object number, cross-reference table, trailer. Dictionary keys
// are emitted in sorted order so output is deterministic.
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"pdfoutline/ir/raw"
)

// Write emits doc as a complete PDF file. The trailer must name a Root.
func Write(doc *raw.Document, w io.Writer) error {
	if doc == nil || doc.Trailer == nil {
		return errors.New("document and trailer are required")
	}
	if _, ok := doc.Trailer.Get(raw.NameLiteral("Root")); !ok {
		return errors.New("trailer has no Root")
	}

	version := doc.Version
	if version == "" {
		version = "1.7"
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", version)

	ordered := make([]raw.ObjectRef, 0, len(doc.Objects))
	for ref := range doc.Objects {
		ordered = append(ordered, ref)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Num < ordered[j].Num })

	offsets := make(map[int]int64, len(ordered))
	maxNum := 0
	for _, ref := range ordered {
		offsets[ref.Num] = int64(buf.Len())
		fmt.Fprintf(&buf, "%d %d obj\n", ref.Num, ref.Gen)
		buf.Write(serializePrimitive(doc.Objects[ref]))
		buf.WriteString("\nendobj\n")
		if ref.Num > maxNum {
			maxNum = ref.Num
		}
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxNum+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxNum; i++ {
		if off, ok := offsets[i]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}

	trailer := raw.Dict()
	for _, key := range doc.Trailer.Keys() {
		if val, ok := doc.Trailer.Get(key); ok {
			trailer.Set(key, val)
		}
	}
	trailer.Set(raw.NameLiteral("Size"), raw.NumberInt(int64(maxNum+1)))
	buf.WriteString("trailer\n")
	buf.Write(serializePrimitive(trailer))
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	_, err := w.Write(buf.Bytes())
	return err
}

func serializePrimitive(o raw.Object) []byte {
	switch v := o.(type) {
	case raw.NameObj:
		return []byte("/" + v.Value())
	case raw.NumberObj:
		if v.IsInteger() {
			return strconv.AppendInt(nil, v.Int(), 10)
		}
		return strconv.AppendFloat(nil, v.Float(), 'f', -1, 64)
	case raw.BoolObj:
		if v.Value() {
			return []byte("true")
		}
		return []byte("false")
	case raw.NullObj:
		return []byte("null")
	case raw.StringObj:
		return escapeString(v.Value())
	case *raw.ArrayObj:
		var b bytes.Buffer
		b.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.Write(serializePrimitive(it))
		}
		b.WriteByte(']')
		return b.Bytes()
	case *raw.DictObj:
		var b bytes.Buffer
		b.WriteString("<<")
		keys := make([]string, 0, len(v.KV))
		for k := range v.KV {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("/" + k + " ")
			b.Write(serializePrimitive(v.KV[k]))
		}
		b.WriteString(">>")
		return b.Bytes()
	case *raw.StreamObj:
		var b bytes.Buffer
		b.Write(serializePrimitive(v.Dict))
		b.WriteString("\nstream\n")
		b.Write(v.Data)
		b.WriteString("\nendstream")
		return b.Bytes()
	case raw.RefObj:
		return []byte(v.Ref().String())
	default:
		return []byte("null")
	}
}

// escapeString emits a literal string with delimiters, backslashes, and
// line-break bytes escaped (PDF 32000-1 §7.3.4.2).
func escapeString(s []byte) []byte {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '(')
	for _, c := range s {
		switch c {
		case '(', ')', '\\':
			out = append(out, '\\', c)
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		default:
			out = append(out, c)
		}
	}
	return append(out, ')')
}
