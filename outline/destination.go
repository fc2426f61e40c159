package outline

import (
	"fmt"

	"pdfoutline/ir/raw"
)

// Fit selects one of the viewport-framing modes defined for PDF
// destinations (PDF 32000-1 table 151).
type Fit string

const (
	FitXYZ  Fit = "XYZ"
	FitPage Fit = "Fit"
	FitH    Fit = "FitH"
	FitV    Fit = "FitV"
	FitR    Fit = "FitR"
	FitB    Fit = "FitB"
	FitBH   Fit = "FitBH"
	FitBV   Fit = "FitBV"
)

// Location pins down the viewport placement for a page destination. Only
// the coordinates the fit style defines are consumed; unset ones are
// written as null.
type Location struct {
	Fit    Fit
	Left   *float64
	Top    *float64
	Right  *float64
	Bottom *float64
	Zoom   *float64
}

// args returns the numeric tail of the destination array in the order the
// fit style defines.
func (l Location) args() ([]*float64, error) {
	switch l.Fit {
	case FitXYZ:
		return []*float64{l.Left, l.Top, l.Zoom}, nil
	case FitPage, FitB:
		return nil, nil
	case FitH, FitBH:
		return []*float64{l.Top}, nil
	case FitV, FitBV:
		return []*float64{l.Left}, nil
	case FitR:
		return []*float64{l.Left, l.Bottom, l.Right, l.Top}, nil
	default:
		return nil, fmt.Errorf("unknown fit style %q", string(l.Fit))
	}
}

// DestArray builds an explicit destination array for the zero-based page
// index. Page lookup errors are ordinary errors, not structural ones; they
// belong to the resolver, not to the outline walk.
func DestArray(doc *raw.Document, pageIndex int, loc Location) (*raw.ArrayObj, error) {
	pages := doc.PageRefs()
	if pageIndex < 0 || pageIndex >= len(pages) {
		return nil, fmt.Errorf("page index %d out of range (document has %d pages)", pageIndex, len(pages))
	}
	if loc.Fit == "" {
		loc.Fit = FitPage
	}
	args, err := loc.args()
	if err != nil {
		return nil, err
	}
	ref := pages[pageIndex]
	arr := raw.NewArray(raw.Ref(ref.Num, ref.Gen), raw.NameLiteral(string(loc.Fit)))
	for _, v := range args {
		if v == nil {
			arr.Append(raw.NullObj{})
		} else {
			arr.Append(raw.NumberFloat(*v))
		}
	}
	return arr, nil
}

// Target is where a bookmark points: a destination or an action. The two
// are mutually exclusive by construction; an Item holds a single Target.
// A nil Target is a container-only node.
type Target interface{ isTarget() }

// PageDest is a destination still awaiting resolution to a page reference.
// It resolves (once, on first save) into an ExplicitDest.
type PageDest struct {
	Page int
	Loc  Location
}

// ExplicitDest is a fully resolved destination array.
type ExplicitDest struct{ Array *raw.ArrayObj }

// NamedDestBytes names a destination by byte string, looked up through the
// document's name tree by the viewer.
type NamedDestBytes struct{ Name []byte }

// NamedDest names a destination by name object (the PDF 1.1 form).
type NamedDest struct{ Name string }

// Action wraps an arbitrary action dictionary. The outline records it
// opaquely; what happens when it is followed is out of scope.
type Action struct{ Obj raw.Object }

func (PageDest) isTarget()       {}
func (ExplicitDest) isTarget()   {}
func (NamedDestBytes) isTarget() {}
func (NamedDest) isTarget()      {}
func (Action) isTarget()         {}
