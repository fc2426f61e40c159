package outline

import (
	"pdfoutline/ir/raw"
)

// Item is one bookmark node of the in-memory forest.
type Item struct {
	Title    string
	Target   Target
	Closed   bool
	Children []*Item

	// Backing is the node's dictionary in the document graph; nil until the
	// item has been saved once or was loaded from an existing outline. It is
	// a non-owning identity reference: other parts of the document may point
	// at the same dictionary, so saves mutate it in place rather than
	// replacing it.
	Backing *raw.IndirectDict
}

// NewItem builds a bookmark with the given title and target. Target may be
// nil for a container-only node.
func NewItem(title string, target Target) *Item {
	return &Item{Title: title, Target: target}
}

// NewPageItem builds a bookmark pointing at a zero-based page index.
func NewPageItem(title string, page int, loc Location) *Item {
	return &Item{Title: title, Target: PageDest{Page: page, Loc: loc}}
}

// FromDict extracts a single item from a backing outline dictionary.
// Chain pointers (First/Next/Count) are ignored here; walking them is the
// loader's job.
func FromDict(doc *raw.Document, ind *raw.IndirectDict) (*Item, error) {
	dict := ind.Dict
	item := &Item{Backing: ind}
	if title, ok := dict.Get(raw.NameLiteral("Title")); ok {
		if s, ok := doc.Resolve(title).(raw.String); ok {
			item.Title = string(s.Value())
		}
	}
	actionObj, hasAction := dict.Get(raw.NameLiteral("A"))
	if hasAction && doc.DerefDict(actionObj) == nil {
		return nil, structuralf("bookmark action is not a dictionary")
	}
	if destObj, ok := dict.Get(raw.NameLiteral("Dest")); ok {
		switch v := doc.Resolve(destObj).(type) {
		case *raw.ArrayObj:
			item.Target = ExplicitDest{Array: v}
		case raw.String:
			item.Target = NamedDestBytes{Name: v.Value()}
		case raw.Name:
			item.Target = NamedDest{Name: v.Value()}
		default:
			return nil, structuralf("bookmark destination is a %s, want array, string, or name", v.Type())
		}
		return item, nil
	}
	if hasAction {
		item.Target = Action{Obj: actionObj}
	}
	return item, nil
}

// materialize writes the item's fields into its backing dictionary,
// allocating one first if the item has none or forceNew is set. A backing
// dictionary that was loaded inline is registered so it can be referenced.
// Children are untouched; linking them is the save walk's job.
func (it *Item) materialize(doc *raw.Document, forceNew bool) error {
	if it.Backing == nil || forceNew {
		it.Backing = doc.AllocDict()
	} else if it.Backing.Ref.IsZero() {
		it.Backing.Ref = doc.Register(it.Backing.Dict)
	}
	d := it.Backing.Dict
	d.Set(raw.NameLiteral("Title"), raw.Str([]byte(it.Title)))
	switch t := it.Target.(type) {
	case PageDest:
		arr, err := DestArray(doc, t.Page, t.Loc)
		if err != nil {
			return err
		}
		it.Target = ExplicitDest{Array: arr}
		d.Set(raw.NameLiteral("Dest"), arr)
		d.Delete(raw.NameLiteral("A"))
	case ExplicitDest:
		d.Set(raw.NameLiteral("Dest"), t.Array)
		d.Delete(raw.NameLiteral("A"))
	case NamedDestBytes:
		d.Set(raw.NameLiteral("Dest"), raw.Str(t.Name))
		d.Delete(raw.NameLiteral("A"))
	case NamedDest:
		d.Set(raw.NameLiteral("Dest"), raw.NameLiteral(t.Name))
		d.Delete(raw.NameLiteral("A"))
	case Action:
		d.Set(raw.NameLiteral("A"), t.Obj)
		d.Delete(raw.NameLiteral("Dest"))
	case nil:
		// container-only node: Title only, existing fields left alone
	}
	return nil
}
