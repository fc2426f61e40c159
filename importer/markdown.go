package importer

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"pdfoutline/outline"
)

// Markdown builds a bookmark forest from the headings of a Markdown
// document. Heading levels give the nesting.
func Markdown(src []byte, opts Options) []*outline.Item {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	hs := &headingStack{opts: opts}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if heading, ok := n.(*ast.Heading); ok {
			hs.add(string(heading.Text(src)), heading.Level)
		}
	}
	return hs.roots
}
