package xmlmerge

import "strings"

// NodeKind identifies what a Node represents.
type NodeKind int

const (
	DocumentNode NodeKind = iota + 1
	ElementNode
	TextNode
	AttributeNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

func (k NodeKind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case AttributeNode:
		return "attribute"
	case CommentNode:
		return "comment"
	case ProcInstNode:
		return "processing-instruction"
	case DirectiveNode:
		return "directive"
	default:
		return "unknown"
	}
}

const (
	xmlnsURI = "http://www.w3.org/2000/xmlns/"
	xmlURI   = "http://www.w3.org/XML/1998/namespace"
)

// Node is an element, attribute, text, comment, processing instruction or
// directive owned by a Document.
type Node struct {
	kind   NodeKind
	prefix string
	local  string
	uri    string
	value  string

	doc    *Document
	parent *Node

	attrs []*Node

	first, last *Node
	prev, next  *Node
}

func (n *Node) Kind() NodeKind          { return n.kind }
func (n *Node) Prefix() string          { return n.prefix }
func (n *Node) LocalName() string       { return n.local }
func (n *Node) NamespaceURI() string    { return n.uri }
func (n *Node) Value() string           { return n.value }
func (n *Node) SetValue(v string)       { n.value = v }
func (n *Node) Document() *Document     { return n.doc }
func (n *Node) Parent() *Node           { return n.parent }
func (n *Node) FirstChild() *Node       { return n.first }
func (n *Node) LastChild() *Node        { return n.last }
func (n *Node) NextSibling() *Node      { return n.next }
func (n *Node) PrevSibling() *Node      { return n.prev }
func (n *Node) HasChildren() bool       { return n.first != nil }
func (n *Node) HasAttrs() bool          { return len(n.attrs) > 0 }
func (n *Node) IsElement() bool         { return n.kind == ElementNode }

// Name returns the qualified name: prefix:local for elements and attributes,
// the target for processing instructions, and #text, #comment or #document
// for the other kinds.
func (n *Node) Name() string {
	switch n.kind {
	case ElementNode, AttributeNode:
		if n.prefix != "" {
			return n.prefix + ":" + n.local
		}
		return n.local
	case ProcInstNode:
		return n.local
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	case DirectiveNode:
		return "#directive"
	case DocumentNode:
		return "#document"
	}
	return ""
}

// IsNamespaceDecl reports whether an attribute declares a namespace.
func (n *Node) IsNamespaceDecl() bool {
	return n.kind == AttributeNode && (n.prefix == "xmlns" || (n.prefix == "" && n.local == "xmlns"))
}

// IsBlank reports whether n is a text node holding only whitespace.
func (n *Node) IsBlank() bool {
	return n.kind == TextNode && strings.TrimSpace(n.value) == ""
}

// Children returns the child nodes in order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.first; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// ChildCount returns the number of child nodes of every kind.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.first; c != nil; c = c.next {
		count++
	}
	return count
}

// Elements returns the child elements, optionally restricted to a qualified name.
func (n *Node) Elements(name ...string) []*Node {
	var out []*Node
	for c := n.first; c != nil; c = c.next {
		if c.kind != ElementNode {
			continue
		}
		if len(name) > 0 && c.Name() != name[0] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Attrs returns the attribute nodes in document order, namespace declarations included.
func (n *Node) Attrs() []*Node {
	out := make([]*Node, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Attr returns the attribute with the given local name and namespace URI.
func (n *Node) Attr(local, uri string) *Node {
	for _, a := range n.attrs {
		if a.local == local && a.uri == uri {
			return a
		}
	}
	return nil
}

// AttrValue returns the value of an attribute, or "" when it is absent.
func (n *Node) AttrValue(local, uri string) string {
	if a := n.Attr(local, uri); a != nil {
		return a.value
	}
	return ""
}

// SetAttr sets an attribute identified by local name and namespace URI,
// creating it when absent. A new namespaced attribute takes the prefix bound
// to uri in scope, if any.
func (n *Node) SetAttr(local, uri, value string) *Node {
	if a := n.Attr(local, uri); a != nil {
		a.value = value
		return a
	}
	prefix := ""
	if uri != "" {
		prefix = n.LookupPrefix(uri)
	}
	return n.addAttr(prefix, local, uri, value)
}

// RemoveAttr deletes an attribute and reports whether it existed.
func (n *Node) RemoveAttr(local, uri string) bool {
	for i, a := range n.attrs {
		if a.local == local && a.uri == uri {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			a.parent = nil
			return true
		}
	}
	return false
}

func (n *Node) addAttr(prefix, local, uri, value string) *Node {
	a := &Node{kind: AttributeNode, prefix: prefix, local: local, uri: uri, value: value, doc: n.doc, parent: n}
	n.attrs = append(n.attrs, a)
	return a
}

// AppendChild adds child as the last child of n, detaching it from its
// previous parent. Both nodes must belong to the same document.
func (n *Node) AppendChild(child *Node) error {
	if n.doc == nil || child.doc == nil {
		return structuralError(ErrNoOwner, "cannot append child").Build()
	}
	if n.doc != child.doc {
		return structuralError(ErrCrossDocument, "cannot append child").
			WithContext("parent", n.Name()).
			WithContext("child", child.Name()).
			Build()
	}
	if child.kind == AttributeNode || child.kind == DocumentNode {
		return structuralError(ErrKindMismatch, "cannot append "+child.kind.String()+" as a child").Build()
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	child.prev = n.last
	if n.last != nil {
		n.last.next = child
	} else {
		n.first = child
	}
	n.last = child
	return nil
}

// RemoveChild unlinks child from n and reports whether it was a child of n.
func (n *Node) RemoveChild(child *Node) bool {
	if child.parent != n {
		return false
	}
	if child.prev != nil {
		child.prev.next = child.next
	} else {
		n.first = child.next
	}
	if child.next != nil {
		child.next.prev = child.prev
	} else {
		n.last = child.prev
	}
	child.parent, child.prev, child.next = nil, nil, nil
	return true
}

// ReplaceChild puts newChild in the position of oldChild, which is unlinked.
func (n *Node) ReplaceChild(newChild, oldChild *Node) error {
	if oldChild.parent != n {
		return structuralError(ErrKindMismatch, "replaced node is not a child").Build()
	}
	if err := n.AppendChild(newChild); err != nil {
		return err
	}
	// Move newChild from the tail into oldChild's slot.
	n.last = newChild.prev
	if n.last != nil {
		n.last.next = nil
	} else {
		n.first = nil
	}
	newChild.prev, newChild.next = oldChild.prev, oldChild.next
	if oldChild.prev != nil {
		oldChild.prev.next = newChild
	} else {
		n.first = newChild
	}
	if oldChild.next != nil {
		oldChild.next.prev = newChild
	} else {
		n.last = newChild
	}
	oldChild.parent, oldChild.prev, oldChild.next = nil, nil, nil
	return nil
}

// Text returns the concatenated values of the text children of n.
func (n *Node) Text() string {
	var b strings.Builder
	for c := n.first; c != nil; c = c.next {
		if c.kind == TextNode {
			b.WriteString(c.value)
		}
	}
	return b.String()
}

// LookupNamespace returns the URI bound to prefix in scope at n.
func (n *Node) LookupNamespace(prefix string) string {
	switch prefix {
	case "xml":
		return xmlURI
	case "xmlns":
		return xmlnsURI
	}
	for e := n; e != nil; e = e.parent {
		if e.kind != ElementNode {
			continue
		}
		for _, a := range e.attrs {
			if !a.IsNamespaceDecl() {
				continue
			}
			if (prefix == "" && a.prefix == "") || (a.prefix == "xmlns" && a.local == prefix) {
				return a.value
			}
		}
	}
	return ""
}

// LookupPrefix returns a prefix bound to uri in scope at n, or "".
func (n *Node) LookupPrefix(uri string) string {
	if uri == xmlURI {
		return "xml"
	}
	for e := n; e != nil; e = e.parent {
		if e.kind != ElementNode {
			continue
		}
		for _, a := range e.attrs {
			if a.prefix == "xmlns" && a.value == uri {
				return a.local
			}
		}
	}
	return ""
}
