package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrAttached is returned when appending an element that already has a parent.
var ErrAttached = errors.New("dom: element already attached")

// ErrNoBody is returned when a parsed page has no body element.
var ErrNoBody = errors.New("dom: page has no body")

// Document is an HTML node tree with a body element.
type Document struct {
	root     *html.Node
	body     *Element
	elements map[*html.Node]*Element
}

// NewDocument creates an empty document with a body element.
func NewDocument() *Document {
	d := new(Document)
	d.elements = make(map[*html.Node]*Element)
	d.root = &html.Node{Type: html.DocumentNode}

	page := NewElement("html")
	d.root.AppendChild(page.node)
	d.body = d.CreateElement("body")
	page.node.AppendChild(d.body.node)
	return d
}

// ParseDocument reads an HTML page. Every element in it becomes resolvable.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}

	d := new(Document)
	d.elements = make(map[*html.Node]*Element)
	d.root = root
	d.adopt(root)

	n := cascadia.Query(root, tagMatcher(atom.Body))
	if n == nil {
		return nil, ErrNoBody
	}
	d.body = d.elements[n]
	return d, nil
}

// Body returns the element new containers are appended under.
func (d *Document) Body() *Element {
	return d.body
}

// CreateElement creates an element that is not yet part of the tree.
func (d *Document) CreateElement(tag string) *Element {
	e := NewElement(tag)
	e.doc = d
	d.elements[e.node] = e
	return e
}

// Append adds child, and its subtree, under parent.
func (d *Document) Append(parent, child *Element) error {
	if child.node.Parent != nil || child == d.body {
		return ErrAttached
	}
	for _, e := range []*Element{parent, child} {
		if e.doc != d {
			e.doc = d
			d.elements[e.node] = e
		}
	}
	parent.node.AppendChild(child.node)
	d.adopt(child.node)
	return nil
}

// GetElementByID returns the first element in document order with the id.
func (d *Document) GetElementByID(id string) (*Element, bool) {
	if id == "" {
		return nil, false
	}
	return d.lookup(cascadia.Query(d.root, idMatcher(id)))
}

// QuerySelector returns the first element in document order matching sel.
// A selector that does not compile matches nothing.
func (d *Document) QuerySelector(sel string) (*Element, bool) {
	if strings.TrimSpace(sel) == "" {
		return nil, false
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, false
	}
	return d.lookup(cascadia.Query(d.root, s))
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) lookup(n *html.Node) (*Element, bool) {
	if n == nil {
		return nil, false
	}
	e, ok := d.elements[n]
	return e, ok
}

// adopt records every element node under n, keeping existing wrappers.
func (d *Document) adopt(n *html.Node) {
	if _, ok := d.elements[n]; !ok && n.Type == html.ElementNode {
		d.elements[n] = &Element{node: n, doc: d}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.adopt(c)
	}
}

type idMatcher string

func (m idMatcher) Match(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "id" {
			return a.Val == string(m)
		}
	}
	return false
}

type tagMatcher atom.Atom

func (m tagMatcher) Match(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Atom(m)
}
