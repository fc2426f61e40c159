package importer

import (
	"fmt"

	pdflib "github.com/ledongthuc/pdf"

	"pdfoutline/outline"
)

// PDF reads the outline of an existing file. Byte-stream parsing stays
// outside this module; the reader library carries it. Titles and nesting
// are preserved; destinations are not recoverable through the reader, so
// the returned items are container-only until the caller assigns targets.
func PDF(path string) ([]*outline.Item, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	return convertOutline(reader.Outline().Child), nil
}

func convertOutline(src []pdflib.Outline) []*outline.Item {
	items := make([]*outline.Item, 0, len(src))
	for _, entry := range src {
		item := outline.NewItem(entry.Title, nil)
		item.Children = convertOutline(entry.Child)
		items = append(items, item)
	}
	return items
}
