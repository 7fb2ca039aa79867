package xmlmerge

// Clone returns a deep copy of n owned by doc. The copy is not attached to
// any parent. Namespace declarations are not copied.
func Clone(n *Node, doc *Document) (*Node, error) {
	if n == nil || n.doc == nil || doc == nil {
		return nil, structuralError(ErrNoOwner, "cannot clone node").Build()
	}
	if n.kind == DocumentNode {
		return nil, structuralError(ErrKindMismatch, "cannot clone a document node").Build()
	}
	return cloneNode(n, doc), nil
}

func cloneNode(n *Node, doc *Document) *Node {
	c := &Node{kind: n.kind, prefix: n.prefix, local: n.local, uri: n.uri, value: n.value, doc: doc}
	for _, a := range n.attrs {
		if a.IsNamespaceDecl() {
			continue
		}
		c.addAttr(a.prefix, a.local, a.uri, a.value)
	}
	for ch := n.first; ch != nil; ch = ch.next {
		cc := cloneNode(ch, doc)
		cc.parent = c
		cc.prev = c.last
		if c.last != nil {
			c.last.next = cc
		} else {
			c.first = cc
		}
		c.last = cc
	}
	return c
}

// CloneTo copies src into the existing node dst. Values of text and attribute
// nodes are copied; for elements, attributes missing on dst are added and
// existing ones are left alone. Each child of src is cloned and appended
// unless a child of dst already compares equal to it.
func CloneTo(src, dst *Node) error {
	if err := checkPair(src, dst); err != nil {
		return err
	}
	switch src.kind {
	case TextNode, AttributeNode, CommentNode:
		dst.value = src.value
	case ElementNode:
		copyMissingAttrs(src, dst)
	}
	for s := src.first; s != nil; s = s.next {
		if findEqualChild(dst, s) != nil {
			continue
		}
		if err := dst.AppendChild(cloneNode(s, dst.doc)); err != nil {
			return err
		}
	}
	return nil
}

func checkPair(src, dst *Node) error {
	if src == nil || dst == nil || src.doc == nil || dst.doc == nil {
		return structuralError(ErrNoOwner, "cannot combine nodes").Build()
	}
	if src.kind != dst.kind {
		return structuralError(ErrKindMismatch, "cannot combine nodes of different kinds").
			WithContext("source", src.kind.String()).
			WithContext("destination", dst.kind.String()).
			Build()
	}
	return nil
}

func copyMissingAttrs(src, dst *Node) {
	for _, a := range src.attrs {
		if a.IsNamespaceDecl() || dst.Attr(a.local, a.uri) != nil {
			continue
		}
		dst.addAttr(a.prefix, a.local, a.uri, a.value)
	}
}

func findEqualChild(parent, n *Node) *Node {
	for d := parent.first; d != nil; d = d.next {
		if Compare(d, n, false) {
			return d
		}
	}
	return nil
}
