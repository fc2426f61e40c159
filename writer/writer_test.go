package writer

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"pdfoutline/ir/raw"
)

func TestWriteLayout(t *testing.T) {
	doc := raw.NewDocument()
	doc.AddPage(612, 792)

	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "%PDF-1.7\n") {
		t.Fatalf("output does not start with a header: %q", out[:20])
	}
	for _, want := range []string{"/Type /Catalog", "/Type /Pages", "/Type /Page", "xref", "trailer", "%%EOF\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.HasSuffix(out, "%%EOF\n") {
		t.Error("output does not end with the EOF marker")
	}
}

func TestWriteStartxrefPointsAtTable(t *testing.T) {
	doc := raw.NewDocument()
	doc.AddPage(612, 792)

	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	marker := "startxref\n"
	idx := strings.LastIndex(out, marker)
	if idx < 0 {
		t.Fatal("no startxref")
	}
	tail := strings.TrimSuffix(out[idx+len(marker):], "%%EOF\n")
	offset, err := strconv.Atoi(strings.TrimSpace(tail))
	if err != nil {
		t.Fatalf("startxref value %q: %v", tail, err)
	}
	if !strings.HasPrefix(out[offset:], "xref\n") {
		t.Fatalf("startxref %d does not point at the xref table", offset)
	}
}

func TestWriteObjectOffsetsAreExact(t *testing.T) {
	doc := raw.NewDocument()
	doc.AddPage(612, 792)

	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	// Every in-use xref entry must point at "<num> <gen> obj".
	xrefStart := strings.LastIndex(out, "xref\n")
	lines := strings.Split(out[xrefStart:], "\n")
	num := 0
	for _, line := range lines[2:] {
		if !strings.HasSuffix(line, " n ") {
			num++
			continue
		}
		offset, err := strconv.Atoi(line[:10])
		if err != nil {
			t.Fatalf("entry %q: %v", line, err)
		}
		want := strconv.Itoa(num) + " 0 obj\n"
		if !strings.HasPrefix(out[offset:], want) {
			t.Errorf("object %d: offset %d points at %q", num, offset, out[offset:offset+10])
		}
		num++
	}
}

func TestWriteRequiresRoot(t *testing.T) {
	doc := &raw.Document{Objects: map[raw.ObjectRef]raw.Object{}, Trailer: raw.Dict()}
	if err := Write(doc, &bytes.Buffer{}); err == nil {
		t.Fatal("a trailer without Root was accepted")
	}
	if err := Write(nil, &bytes.Buffer{}); err == nil {
		t.Fatal("a nil document was accepted")
	}
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "(plain)"},
		{"a(b)c", "(a\\(b\\)c)"},
		{`back\slash`, `(back\\slash)`},
		{"line\nbreak\r", `(line\nbreak\r)`},
	}
	for _, tt := range tests {
		if got := string(escapeString([]byte(tt.in))); got != tt.want {
			t.Errorf("escapeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
