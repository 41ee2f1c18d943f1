package chartling

import "github.com/matt-g-everett/chartling/dom"

type baseKind int

const (
	baseNone baseKind = iota
	baseHandle
	baseID
	baseElement
)

// BaseRef names the chartling whose last state a new chartling continues
// from. The zero value is NoBase.
type BaseRef struct {
	kind    baseKind
	handle  *Chartling
	id      string
	element *dom.Element
}

// NoBase means the chartling always animates from a clean sheet.
var NoBase = BaseRef{}

// BaseHandle refers to an existing chartling.
func BaseHandle(h *Chartling) BaseRef {
	if h == nil {
		return NoBase
	}
	return BaseRef{kind: baseHandle, handle: h}
}

// BaseID refers to a chartling by id.
func BaseID(id string) BaseRef {
	return BaseRef{kind: baseID, id: id}
}

// BaseElement refers to the chartling bound to a container element.
func BaseElement(e *dom.Element) BaseRef {
	if e == nil {
		return NoBase
	}
	return BaseRef{kind: baseElement, element: e}
}

// IsNone reports whether r names no base.
func (r BaseRef) IsNone() bool {
	return r.kind == baseNone
}

func (r BaseRef) String() string {
	switch r.kind {
	case baseHandle:
		return r.handle.id
	case baseID:
		return r.id
	case baseElement:
		return dom.ElementRef(r.element).String()
	default:
		return ""
	}
}
