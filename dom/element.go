// Package dom provides the element tree that chartlings are bound to.
//
// It stands in for a host page: a Document is an HTML node tree, and elements
// are resolved from direct references or CSS selectors.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a container node. It is detached until appended under a
// Document's body.
type Element struct {
	node *html.Node
	doc  *Document
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string) *Element {
	tag = strings.ToLower(tag)
	return &Element{node: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

// Node returns the underlying HTML node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Tag returns the lower case tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// ID returns the element id, or an empty string if it has none.
func (e *Element) ID() string {
	return e.attr("id")
}

// SetID changes the element id. An empty id removes the attribute.
func (e *Element) SetID(id string) {
	e.setAttr("id", id)
}

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.attr("class"))
}

// SetClasses replaces the element's class list.
func (e *Element) SetClasses(classes ...string) {
	e.setAttr("class", strings.Join(classes, " "))
}

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// Parent returns the parent element, or nil at the top of the tree and for
// detached elements.
func (e *Element) Parent() *Element {
	if e.doc == nil || e.node.Parent == nil {
		return nil
	}
	return e.doc.elements[e.node.Parent]
}

// Children returns the element's children in document order.
func (e *Element) Children() []*Element {
	if e.doc == nil {
		return nil
	}
	var children []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if child, ok := e.doc.elements[c]; ok {
			children = append(children, child)
		}
	}
	return children
}

// Attached reports whether the element is part of a document tree.
func (e *Element) Attached() bool {
	if e.doc == nil {
		return false
	}
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

func (e *Element) attr(key string) string {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (e *Element) setAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Namespace != "" || a.Key != key {
			continue
		}
		if val == "" {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
		} else {
			e.node.Attr[i].Val = val
		}
		return
	}
	if val != "" {
		e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
	}
}
