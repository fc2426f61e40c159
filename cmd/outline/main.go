package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdfoutline/importer"
	"pdfoutline/ir/raw"
	"pdfoutline/outline"
	"pdfoutline/writer"
)

type options struct {
	inputPath string
	outPath   string
	pages     int
	maxDepth  int
	strict    bool
	dumpJSON  bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "outline: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "outline: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: go run ./cmd/outline [flags] <input.md|input.html|input.pdf>\n")
		flag.PrintDefaults()
	}
	out := flag.String("o", "outline_output.pdf", "Path for the generated PDF")
	pages := flag.Int("pages", 1, "Number of pages in the generated PDF; headings are assigned round-robin")
	depth := flag.Int("depth", 0, "Maximum bookmark depth (0 uses the default)")
	strict := flag.Bool("strict", false, "Fail on malformed outline structure instead of repairing")
	dumpJSON := flag.Bool("json", false, "Print the bookmark tree as JSON to stdout")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing input path")
	}
	opts.inputPath = flag.Arg(0)
	opts.outPath = *out
	opts.pages = *pages
	opts.maxDepth = *depth
	opts.strict = *strict
	opts.dumpJSON = *dumpJSON
	if opts.pages < 1 {
		return options{}, fmt.Errorf("pages must be at least 1")
	}
	return opts, nil
}

func run(opts options) error {
	items, err := importItems(opts)
	if err != nil {
		return err
	}

	doc := raw.NewDocument()
	for i := 0; i < opts.pages; i++ {
		doc.AddPage(612, 792)
	}

	ol := outline.New(doc, outline.Config{MaxDepth: opts.maxDepth, Strict: opts.strict})
	ol.SetRoot(items)
	if err := ol.Save(); err != nil {
		return fmt.Errorf("save outline: %w", err)
	}

	if opts.dumpJSON {
		if err := emitTree(items); err != nil {
			return err
		}
	}

	file, err := os.Create(opts.outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()
	if err := writer.Write(doc, file); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func importItems(opts options) ([]*outline.Item, error) {
	pageFor := func(heading int) int { return heading % opts.pages }
	importOpts := importer.Options{PageFor: pageFor}

	switch strings.ToLower(filepath.Ext(opts.inputPath)) {
	case ".md", ".markdown":
		src, err := os.ReadFile(opts.inputPath)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return importer.Markdown(src, importOpts), nil
	case ".html", ".htm":
		file, err := os.Open(opts.inputPath)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		items, err := importer.HTML(file, importOpts)
		if err != nil {
			return nil, fmt.Errorf("import html: %w", err)
		}
		return items, nil
	case ".pdf":
		items, err := importer.PDF(opts.inputPath)
		if err != nil {
			return nil, fmt.Errorf("import pdf: %w", err)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unsupported input type %q", filepath.Ext(opts.inputPath))
	}
}

type nodeSummary struct {
	Title    string        `json:"title"`
	Page     *int          `json:"page,omitempty"`
	Closed   bool          `json:"closed,omitempty"`
	Children []nodeSummary `json:"children,omitempty"`
}

func emitTree(items []*outline.Item) error {
	data, err := json.MarshalIndent(summarize(items), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bookmarks: %w", err)
	}
	fmt.Printf("%s\n", data)
	return nil
}

func summarize(items []*outline.Item) []nodeSummary {
	out := make([]nodeSummary, 0, len(items))
	for _, item := range items {
		summary := nodeSummary{
			Title:    item.Title,
			Closed:   item.Closed,
			Children: summarize(item.Children),
		}
		if dest, ok := item.Target.(outline.PageDest); ok {
			page := dest.Page
			summary.Page = &page
		}
		out = append(out, summary)
	}
	return out
}
