// Package outline reads and edits a document's bookmark tree as an
// ordinary in-memory forest and reconciles edits back into the linked
// outline dictionaries of the document graph (PDF 32000-1 §12.3.3).
//
// The backing graph is untrusted input: it may contain cycles, shared
// nodes, or pathological nesting. Loading and saving are bounded by a
// depth limit and an identity-visited set, so both terminate on any
// input. Lenient mode truncates what it cannot trust; strict mode fails
// with ErrStructure instead.
package outline

import (
	"errors"

	"pdfoutline/ir/raw"
	"pdfoutline/observability"
)

// DefaultMaxDepth bounds outline recursion when Config.MaxDepth is zero.
const DefaultMaxDepth = 15

// Config tunes a single Outline view of a document.
type Config struct {
	// MaxDepth bounds how deep load and save walk the tree. Zero selects
	// DefaultMaxDepth; negative means the top level only.
	MaxDepth int
	// Strict raises ErrStructure on every anomaly instead of truncating.
	Strict bool
	Logger observability.Logger
}

// Outline is the aggregate root owning the top-level bookmark forest of
// one document. It borrows the document; closing the document invalidates
// every Backing reference held by its items.
type Outline struct {
	doc      *raw.Document
	maxDepth int
	strict   bool
	logger   observability.Logger

	root   []*Item
	loaded bool
}

// New builds an outline view over doc. Nothing is read until Root is
// first called.
func New(doc *raw.Document, cfg Config) *Outline {
	depth := cfg.MaxDepth
	if depth == 0 {
		depth = DefaultMaxDepth
	} else if depth < 0 {
		depth = 0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger{}
	}
	return &Outline{doc: doc, maxDepth: depth, strict: cfg.Strict, logger: logger}
}

// Root returns the top-level forest, loading it from the document graph on
// first access. The returned slice is the live forest: mutate items freely,
// then Save. Replacing the forest itself goes through SetRoot or Append.
func (o *Outline) Root() ([]*Item, error) {
	if !o.loaded {
		if err := o.load(); err != nil {
			o.root = nil
			return nil, err
		}
		o.loaded = true
	}
	return o.root, nil
}

// SetRoot replaces the top-level forest. The next Save writes it out even
// if the outline was never loaded from the document.
func (o *Outline) SetRoot(items []*Item) {
	o.root = items
	o.loaded = true
}

// Append adds top-level bookmarks, loading the existing forest first.
func (o *Outline) Append(items ...*Item) error {
	if _, err := o.Root(); err != nil {
		return err
	}
	o.root = append(o.root, items...)
	return nil
}

// Edit loads the outline, applies fn, and saves unless fn failed. It is
// the scoped-edit form: every change made inside fn lands in the document
// in one reconciliation pass.
func (o *Outline) Edit(fn func(*Outline) error) error {
	if _, err := o.Root(); err != nil {
		return err
	}
	if err := fn(o); err != nil {
		return err
	}
	return o.Save()
}

func (o *Outline) load() error {
	o.root = []*Item{}
	catalog := o.doc.Catalog()
	if catalog == nil {
		return nil
	}
	outlinesObj, ok := catalog.Get(raw.NameLiteral("Outlines"))
	if !ok {
		return nil
	}
	outlines := o.doc.DerefDict(outlinesObj)
	if outlines == nil {
		return nil
	}
	first, ok := outlines.Get(raw.NameLiteral("First"))
	if !ok {
		return nil
	}
	visited := make(map[*raw.DictObj]bool)
	if err := o.loadLevel(first, &o.root, 0, visited); err != nil {
		return err
	}
	o.logger.Debug("outline loaded", observability.Int("nodes", len(visited)))
	return nil
}

// loadLevel walks one sibling chain starting at node, appending extracted
// items to out and recursing into child chains while the depth budget
// lasts. The visited set is shared across the whole load so cycles and
// illegal sharing anywhere in the graph are caught.
func (o *Outline) loadLevel(node raw.Object, out *[]*Item, level int, visited map[*raw.DictObj]bool) error {
	current := node
	for current != nil {
		ind, err := o.resolveNode(current)
		if err != nil {
			return err
		}
		if visited[ind.Dict] {
			if o.strict {
				return structuralf("outline chain revisits a node at depth %d", level)
			}
			o.logger.Warn("outline chain revisits a node; truncating",
				observability.Int("depth", level))
			return nil
		}
		visited[ind.Dict] = true
		item, err := FromDict(o.doc, ind)
		if err != nil {
			return err
		}
		if first, ok := ind.Dict.Get(raw.NameLiteral("First")); ok && level < o.maxDepth {
			if err := o.loadLevel(first, &item.Children, level+1, visited); err != nil {
				return err
			}
			// The sign of Count distinguishes collapsed from expanded
			// nodes; the magnitude is recomputed on save.
			if count, ok := intFromDict(o.doc, ind.Dict, "Count"); ok && count < 0 {
				item.Closed = true
			}
		}
		*out = append(*out, item)
		next, ok := ind.Dict.Get(raw.NameLiteral("Next"))
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

// Save rewrites the document's outline dictionaries from the current
// in-memory forest: a full rewrite of every First/Last/Next/Prev/Parent
// pointer and Count field, not an incremental diff. A no-op until the
// forest has been loaded or set.
func (o *Outline) Save() error {
	if !o.loaded {
		return nil
	}
	root, err := o.ensureOutlinesRoot()
	if err != nil {
		return err
	}
	visited := make(map[*raw.DictObj]bool)
	count, err := o.saveLevel(root, o.root, 0, visited)
	if err != nil {
		return err
	}
	o.logger.Debug("outline saved",
		observability.Int("items", len(o.root)),
		observability.Int64("visible", count))
	return nil
}

// saveLevel writes one sibling chain under parent and returns the number
// of entries a viewer shows at this level with every ancestor open.
func (o *Outline) saveLevel(parent *raw.IndirectDict, items []*Item, level int, visited map[*raw.DictObj]bool) (int64, error) {
	var first, prev *raw.IndirectDict
	var count int64
	for _, item := range items {
		if err := item.materialize(o.doc, false); err != nil {
			return 0, err
		}
		if visited[item.Backing.Dict] {
			// The same dictionary cannot belong to two parents; either
			// refuse or give this occurrence its own object.
			if o.strict {
				return 0, structuralf("dictionary %s claimed by two bookmarks", item.Backing.Ref)
			}
			o.logger.Warn("duplicate bookmark dictionary; forcing a new object",
				observability.String("ref", item.Backing.Ref.String()))
			if err := item.materialize(o.doc, true); err != nil {
				return 0, err
			}
		}
		visited[item.Backing.Dict] = true
		d := item.Backing.Dict
		d.Set(raw.NameLiteral("Parent"), raw.Ref(parent.Ref.Num, parent.Ref.Gen))
		if prev != nil {
			prev.Dict.Set(raw.NameLiteral("Next"), raw.Ref(item.Backing.Ref.Num, item.Backing.Ref.Gen))
			d.Set(raw.NameLiteral("Prev"), raw.Ref(prev.Ref.Num, prev.Ref.Gen))
		} else {
			first = item.Backing
			d.Delete(raw.NameLiteral("Prev"))
		}
		count++
		children := item.Children
		if level >= o.maxDepth {
			// At the depth cap the item is written childless, clearing any
			// child pointers left from an earlier pass; the in-memory
			// children survive for a later, deeper save.
			children = nil
		}
		childCount, err := o.saveLevel(item.Backing, children, level+1, visited)
		if err != nil {
			return 0, err
		}
		if item.Closed {
			// A collapsed node records how many entries it hides, as a
			// negative number, and contributes only itself upward.
			d.Set(raw.NameLiteral("Count"), raw.NumberInt(-childCount))
		} else {
			count += childCount
		}
		prev = item.Backing
	}
	if count != 0 {
		prev.Dict.Delete(raw.NameLiteral("Next"))
		parent.Dict.Set(raw.NameLiteral("First"), raw.Ref(first.Ref.Num, first.Ref.Gen))
		parent.Dict.Set(raw.NameLiteral("Last"), raw.Ref(prev.Ref.Num, prev.Ref.Gen))
	} else {
		parent.Dict.Delete(raw.NameLiteral("First"))
		parent.Dict.Delete(raw.NameLiteral("Last"))
	}
	parent.Dict.Set(raw.NameLiteral("Count"), raw.NumberInt(count))
	return count, nil
}

// ensureOutlinesRoot returns the catalog's /Outlines dictionary, creating
// a typed one when the document has none yet.
func (o *Outline) ensureOutlinesRoot() (*raw.IndirectDict, error) {
	catalog := o.doc.Catalog()
	if catalog == nil {
		return nil, errors.New("document has no catalog")
	}
	if obj, ok := catalog.Get(raw.NameLiteral("Outlines")); ok {
		if dict := o.doc.DerefDict(obj); dict != nil {
			ind := &raw.IndirectDict{Dict: dict}
			if ref, ok := obj.(raw.Reference); ok {
				ind.Ref = ref.Ref()
			} else {
				ind.Ref = o.doc.Register(dict)
				catalog.Set(raw.NameLiteral("Outlines"), raw.Ref(ind.Ref.Num, ind.Ref.Gen))
			}
			return ind, nil
		}
	}
	ind := o.doc.AllocDict()
	ind.Dict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Outlines"))
	catalog.Set(raw.NameLiteral("Outlines"), raw.Ref(ind.Ref.Num, ind.Ref.Gen))
	return ind, nil
}

// resolveNode resolves a chain pointer to the dictionary it must be.
func (o *Outline) resolveNode(obj raw.Object) (*raw.IndirectDict, error) {
	ind := &raw.IndirectDict{}
	if ref, ok := obj.(raw.Reference); ok {
		ind.Ref = ref.Ref()
	}
	dict, ok := o.doc.Resolve(obj).(*raw.DictObj)
	if !ok {
		return nil, structuralf("outline node is a %s, want dictionary", o.doc.Resolve(obj).Type())
	}
	ind.Dict = dict
	return ind, nil
}

func intFromDict(doc *raw.Document, dict raw.Dictionary, key string) (int64, bool) {
	val, ok := dict.Get(raw.NameLiteral(key))
	if !ok {
		return 0, false
	}
	if num, ok := doc.Resolve(val).(raw.Number); ok {
		return num.Int(), true
	}
	return 0, false
}
