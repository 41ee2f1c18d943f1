package dom

import "strings"

// Ref refers to a container either directly or through a selector.
type Ref struct {
	element  *Element
	selector string
}

// ElementRef refers to e directly.
func ElementRef(e *Element) Ref {
	return Ref{element: e}
}

// Selector refers to the first element matching sel.
func Selector(sel string) Ref {
	return Ref{selector: sel}
}

// String returns the selector, or the element's id for direct references.
func (r Ref) String() string {
	if r.element != nil {
		if id := r.element.ID(); id != "" {
			return "#" + id
		}
		return "<" + r.element.Tag() + ">"
	}
	return r.selector
}

// A Resolver turns a container reference into a concrete element. A non-empty
// tag restricts matches to elements with that tag.
type Resolver interface {
	Resolve(ref Ref, tag string) (*Element, bool)
}

// Resolve implements Resolver for elements and selectors in d.
func (d *Document) Resolve(ref Ref, tag string) (*Element, bool) {
	e := ref.element
	if e == nil {
		if ref.selector == "" {
			return nil, false
		}
		var ok bool
		if e, ok = d.QuerySelector(ref.selector); !ok {
			return nil, false
		}
	}
	if tag != "" && !strings.EqualFold(e.Tag(), tag) {
		return nil, false
	}
	return e, true
}
