// Package importer builds bookmark forests from outside sources: Markdown
// and HTML heading structure, or the outline of an existing PDF file.
package importer

import (
	"pdfoutline/outline"
)

// Options configures how imported headings become bookmarks.
type Options struct {
	// PageFor maps the i-th heading (document order, zero-based) to a
	// zero-based page index. Nil leaves items without destinations.
	PageFor func(heading int) int
	// Location is the viewport fit applied to generated destinations.
	Location outline.Location
}

func (o Options) target(heading int) outline.Target {
	if o.PageFor == nil {
		return nil
	}
	return outline.PageDest{Page: o.PageFor(heading), Loc: o.Location}
}

// headingStack nests items by heading level; h2 under h1 and so on, with
// skipped levels tolerated. Shared by the Markdown and HTML importers.
type headingStack struct {
	opts  Options
	roots []*outline.Item
	stack []stackEntry
	seen  int
}

type stackEntry struct {
	item  *outline.Item
	level int
}

func (h *headingStack) add(title string, level int) {
	item := outline.NewItem(title, h.opts.target(h.seen))
	h.seen++
	for len(h.stack) > 0 && h.stack[len(h.stack)-1].level >= level {
		h.stack = h.stack[:len(h.stack)-1]
	}
	if len(h.stack) == 0 {
		h.roots = append(h.roots, item)
	} else {
		parent := h.stack[len(h.stack)-1].item
		parent.Children = append(parent.Children, item)
	}
	h.stack = append(h.stack, stackEntry{item: item, level: level})
}
