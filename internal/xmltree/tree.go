// Package xmltree provides a small addressable XML element tree. Project
// documents carry large subtrees (renderers, styles, canvas state) that the
// rest of the code treats as opaque, so elements are kept generic and copied
// verbatim rather than mapped onto structs field by field.
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type Attr struct {
	Name  string
	Value string
}

// Element is a single node: tag, attributes, direct character data, and
// child elements in document order.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Element
}

func New(tag string, attrs ...Attr) *Element {
	return &Element{Tag: tag, Attrs: attrs}
}

// Parse reads an XML document and returns its root element. Comments,
// processing instructions and directives are dropped. Namespace prefixes
// are ignored; elements are addressed by local name.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			e := &Element{Tag: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				e.Attrs = append(e.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// SetAttr sets or replaces the named attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Find returns the first direct child with the given tag, or nil.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns all direct children with the given tag, in document order.
func (e *Element) FindAll(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// FindText returns the trimmed text of the first direct child with the
// given tag, or "" when the child is absent.
func (e *Element) FindText(tag string) string {
	c := e.Find(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

// Append adds a child element.
func (e *Element) Append(children ...*Element) {
	e.Children = append(e.Children, children...)
}

// Copy returns a deep copy of the element and everything below it.
func (e *Element) Copy() *Element {
	out := &Element{Tag: e.Tag, Text: e.Text}
	out.Attrs = append([]Attr(nil), e.Attrs...)
	for _, c := range e.Children {
		out.Children = append(out.Children, c.Copy())
	}
	return out
}

// Encode writes the tree as an XML document with a declaration carrying the
// given encoding label. The bytes themselves are always UTF-8; the label
// records what the source document declared.
func Encode(w io.Writer, root *Element, encoding string) error {
	if encoding == "" {
		encoding = "UTF-8"
	}
	if _, err := fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", encoding); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	if err := encodeElement(enc, root); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func encodeElement(enc *xml.Encoder, e *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Tag}}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := encodeElement(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}
