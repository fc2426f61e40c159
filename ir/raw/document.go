package raw

// Document is the root container for raw PDF objects. It doubles as the
// object store: indirect allocation, identity registration, and reference
// resolution all go through it.
type Document struct {
	Objects map[ObjectRef]Object
	Trailer Dictionary
	Version string

	next int
}

// NewDocument builds an empty document with a trailer, catalog, and page
// tree root, ready to receive pages and an outline.
func NewDocument() *Document {
	doc := &Document{
		Objects: make(map[ObjectRef]Object),
		Version: "1.7",
	}
	catalog := doc.AllocDict()
	pages := doc.AllocDict()
	catalog.Dict.Set(NameLiteral("Type"), NameLiteral("Catalog"))
	catalog.Dict.Set(NameLiteral("Pages"), Ref(pages.Ref.Num, pages.Ref.Gen))
	pages.Dict.Set(NameLiteral("Type"), NameLiteral("Pages"))
	pages.Dict.Set(NameLiteral("Kids"), NewArray())
	pages.Dict.Set(NameLiteral("Count"), NumberInt(0))
	trailer := Dict()
	trailer.Set(NameLiteral("Root"), Ref(catalog.Ref.Num, catalog.Ref.Gen))
	doc.Trailer = trailer
	return doc
}

func (d *Document) nextNum() int {
	if d.next == 0 {
		max := 0
		for ref := range d.Objects {
			if ref.Num > max {
				max = ref.Num
			}
		}
		d.next = max + 1
	}
	n := d.next
	d.next++
	return n
}

// AllocDict allocates a fresh indirect dictionary in the object table.
func (d *Document) AllocDict() *IndirectDict {
	if d.Objects == nil {
		d.Objects = make(map[ObjectRef]Object)
	}
	ref := ObjectRef{Num: d.nextNum(), Gen: 0}
	dict := Dict()
	d.Objects[ref] = dict
	return &IndirectDict{Ref: ref, Dict: dict}
}

// Register assigns an object number to a dictionary that was found inline
// in the graph, preserving its identity. A dictionary already in the table
// keeps its existing slot.
func (d *Document) Register(dict *DictObj) ObjectRef {
	for ref, obj := range d.Objects {
		if obj == Object(dict) {
			return ref
		}
	}
	if d.Objects == nil {
		d.Objects = make(map[ObjectRef]Object)
	}
	ref := ObjectRef{Num: d.nextNum(), Gen: 0}
	d.Objects[ref] = dict
	return ref
}

// Resolve follows indirect references until a direct object is reached.
// Dangling references resolve to null; reference cycles are cut short.
func (d *Document) Resolve(obj Object) Object {
	for hops := 0; hops < 32; hops++ {
		ref, ok := obj.(Reference)
		if !ok {
			return obj
		}
		resolved, ok := d.Objects[ref.Ref()]
		if !ok {
			return NullObj{}
		}
		obj = resolved
	}
	return NullObj{}
}

// DerefDict resolves obj to a dictionary, unwrapping stream dictionaries.
func (d *Document) DerefDict(obj Object) *DictObj {
	if obj == nil {
		return nil
	}
	switch v := d.Resolve(obj).(type) {
	case *DictObj:
		return v
	case Stream:
		if dict, ok := v.Dictionary().(*DictObj); ok {
			return dict
		}
	}
	return nil
}

// DerefArray resolves obj to an array.
func (d *Document) DerefArray(obj Object) *ArrayObj {
	if obj == nil {
		return nil
	}
	if arr, ok := d.Resolve(obj).(*ArrayObj); ok {
		return arr
	}
	return nil
}

// Catalog returns the document catalog named by the trailer, if any.
func (d *Document) Catalog() *DictObj {
	if d.Trailer == nil {
		return nil
	}
	rootObj, ok := d.Trailer.Get(NameLiteral("Root"))
	if !ok {
		return nil
	}
	return d.DerefDict(rootObj)
}

// AddPage appends a blank page of the given size to the page tree and
// returns its reference.
func (d *Document) AddPage(width, height float64) ObjectRef {
	catalog := d.Catalog()
	if catalog == nil {
		return ObjectRef{}
	}
	pagesObj, _ := catalog.Get(NameLiteral("Pages"))
	pages := d.DerefDict(pagesObj)
	if pages == nil {
		return ObjectRef{}
	}
	page := d.AllocDict()
	page.Dict.Set(NameLiteral("Type"), NameLiteral("Page"))
	if ref, ok := pagesObj.(Reference); ok {
		page.Dict.Set(NameLiteral("Parent"), Ref(ref.Ref().Num, ref.Ref().Gen))
	}
	page.Dict.Set(NameLiteral("MediaBox"), NewArray(
		NumberInt(0), NumberInt(0), NumberFloat(width), NumberFloat(height),
	))
	kids := d.DerefArray(valueFromDict(pages, "Kids"))
	if kids == nil {
		kids = NewArray()
		pages.Set(NameLiteral("Kids"), kids)
	}
	kids.Append(Ref(page.Ref.Num, page.Ref.Gen))
	pages.Set(NameLiteral("Count"), NumberInt(int64(kids.Len())))
	return page.Ref
}

// PageRefs returns the references of all leaf pages in document order.
// A page stored inline in the tree is registered on the way so it can be
// referenced.
func (d *Document) PageRefs() []ObjectRef {
	catalog := d.Catalog()
	if catalog == nil {
		return nil
	}
	var refs []ObjectRef
	seen := make(map[ObjectRef]bool)
	d.walkPageTree(valueFromDict(catalog, "Pages"), seen, &refs)
	return refs
}

func (d *Document) walkPageTree(obj Object, seen map[ObjectRef]bool, out *[]ObjectRef) {
	ref, isRef := obj.(Reference)
	if isRef {
		if seen[ref.Ref()] {
			return
		}
		seen[ref.Ref()] = true
	}
	dict := d.DerefDict(obj)
	if dict == nil {
		return
	}
	typ, _ := nameFromDict(dict, "Type")
	switch typ {
	case "Pages":
		if kids := d.DerefArray(valueFromDict(dict, "Kids")); kids != nil {
			for _, kid := range kids.Items {
				d.walkPageTree(kid, seen, out)
			}
		}
	case "Page":
		var pageRef ObjectRef
		if isRef {
			pageRef = ref.Ref()
		} else {
			// A page found inline gets registered so destinations can
			// reference it.
			pageRef = d.Register(dict)
			if seen[pageRef] {
				return
			}
			seen[pageRef] = true
		}
		*out = append(*out, pageRef)
	}
}

func valueFromDict(dict Dictionary, key string) Object {
	if dict == nil {
		return nil
	}
	val, _ := dict.Get(NameLiteral(key))
	return val
}

func nameFromDict(dict Dictionary, key string) (string, bool) {
	val, ok := dict.Get(NameLiteral(key))
	if !ok {
		return "", false
	}
	if name, ok := val.(Name); ok {
		return name.Value(), true
	}
	return "", false
}
