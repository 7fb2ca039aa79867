package xmlmerge

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Document owns a tree of nodes: an optional prolog (declaration, comments,
// doctype) followed by a single root element.
type Document struct {
	node Node
	// Indent is the per-level indentation used when writing. Empty writes
	// the tree without added whitespace.
	Indent string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	d := &Document{Indent: "  "}
	d.node = Node{kind: DocumentNode, doc: d}
	return d
}

// Node returns the document node, the parent of the prolog and the root element.
func (d *Document) Node() *Node { return &d.node }

// Root returns the root element, or nil for an empty document.
func (d *Document) Root() *Node {
	for c := d.node.first; c != nil; c = c.next {
		if c.kind == ElementNode {
			return c
		}
	}
	return nil
}

// CreateElement creates an unattached element. A name of the form
// prefix:local keeps its prefix; the namespace URI is resolved against the
// root element's declarations.
func (d *Document) CreateElement(name string) *Node {
	prefix, local := splitName(name)
	uri := ""
	if root := d.Root(); root != nil {
		uri = root.LookupNamespace(prefix)
	}
	return d.CreateElementNS(prefix, local, uri)
}

// CreateElementNS creates an unattached element in an explicit namespace.
func (d *Document) CreateElementNS(prefix, local, uri string) *Node {
	return &Node{kind: ElementNode, prefix: prefix, local: local, uri: uri, doc: d}
}

// CreateText creates an unattached text node.
func (d *Document) CreateText(value string) *Node {
	return &Node{kind: TextNode, value: value, doc: d}
}

// CreateComment creates an unattached comment node.
func (d *Document) CreateComment(value string) *Node {
	return &Node{kind: CommentNode, value: value, doc: d}
}

// Parse reads a document. Whitespace-only text is dropped; indentation is
// regenerated when the document is written.
func Parse(r io.Reader) (*Document, error) {
	doc := NewDocument()
	dec := xml.NewDecoder(r)
	cur := &doc.node
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if cur.kind == DocumentNode && doc.Root() != nil {
				return nil, fmt.Errorf("parse xml: multiple root elements")
			}
			el := &Node{kind: ElementNode, prefix: t.Name.Space, local: t.Name.Local, doc: doc}
			for _, a := range t.Attr {
				el.addAttr(a.Name.Space, a.Name.Local, "", a.Value)
			}
			if err := cur.AppendChild(el); err != nil {
				return nil, err
			}
			if err := resolveNamespaces(el); err != nil {
				return nil, err
			}
			cur = el
		case xml.EndElement:
			if cur.kind != ElementNode || cur.prefix != t.Name.Space || cur.local != t.Name.Local {
				return nil, fmt.Errorf("parse xml: unexpected end element </%s>", qualified(t.Name))
			}
			cur = cur.parent
		case xml.CharData:
			if len(bytes.TrimSpace(t)) == 0 {
				continue
			}
			if cur.kind == DocumentNode {
				return nil, fmt.Errorf("parse xml: text outside the root element")
			}
			if err := cur.AppendChild(doc.CreateText(string(t))); err != nil {
				return nil, err
			}
		case xml.Comment:
			if err := cur.AppendChild(doc.CreateComment(string(t))); err != nil {
				return nil, err
			}
		case xml.ProcInst:
			pi := &Node{kind: ProcInstNode, local: t.Target, value: string(t.Inst), doc: doc}
			if err := cur.AppendChild(pi); err != nil {
				return nil, err
			}
		case xml.Directive:
			if err := cur.AppendChild(&Node{kind: DirectiveNode, value: string(t), doc: doc}); err != nil {
				return nil, err
			}
		}
	}
	if cur != &doc.node {
		return nil, fmt.Errorf("parse xml: unclosed element <%s>", cur.Name())
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse xml: %w", ErrNoRoot)
	}
	return doc, nil
}

// ParseString parses a document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// LoadFile parses the document stored at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot find file at %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// SaveFile writes the document to path, replacing any existing file.
func (d *Document) SaveFile(path string) error {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// String returns the serialized document.
func (d *Document) String() string {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.String()
}

func resolveNamespaces(el *Node) error {
	for _, a := range el.attrs {
		switch {
		case a.IsNamespaceDecl():
			a.uri = xmlnsURI
		case a.prefix != "":
			a.uri = el.LookupNamespace(a.prefix)
			if a.uri == "" {
				return fmt.Errorf("parse xml: undeclared namespace prefix %q on attribute %s", a.prefix, a.Name())
			}
		}
	}
	el.uri = el.LookupNamespace(el.prefix)
	if el.prefix != "" && el.uri == "" {
		return fmt.Errorf("parse xml: undeclared namespace prefix %q on element %s", el.prefix, el.Name())
	}
	return nil
}

func splitName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func qualified(n xml.Name) string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}
