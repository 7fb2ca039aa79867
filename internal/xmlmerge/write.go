package xmlmerge

import (
	"bytes"
	"io"
	"strconv"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", "\"", "&quot;", "\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")
)

// WriteTo serializes the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	p := &printer{indent: d.Indent}
	first := true
	for c := d.node.first; c != nil; c = c.next {
		if !first && p.indent != "" {
			p.buf.WriteByte('\n')
		}
		first = false
		p.node(c, 0, nil)
	}
	if p.indent != "" {
		p.buf.WriteByte('\n')
	}
	return p.buf.WriteTo(w)
}

// OuterXML serializes a single node and its subtree without indentation.
// Namespace declarations needed by the subtree are emitted on its top element.
func OuterXML(n *Node) string {
	if n == nil {
		return ""
	}
	if n.kind == DocumentNode {
		return n.doc.String()
	}
	p := &printer{}
	p.node(n, 0, nil)
	return p.buf.String()
}

type nsScope struct {
	parent   *nsScope
	bindings map[string]string
}

func (s *nsScope) lookup(prefix string) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if uri, ok := sc.bindings[prefix]; ok {
			return uri, true
		}
	}
	return "", false
}

func (s *nsScope) uri(prefix string) string {
	uri, _ := s.lookup(prefix)
	return uri
}

// prefixFor returns an in-scope prefix bound to uri that is not shadowed.
func (s *nsScope) prefixFor(uri string, allowDefault bool) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		for prefix, bound := range sc.bindings {
			if bound != uri || (prefix == "" && !allowDefault) {
				continue
			}
			if s.uri(prefix) == uri {
				return prefix, true
			}
		}
	}
	return "", false
}

func (s *nsScope) bind(prefix, uri string) {
	if s.bindings == nil {
		s.bindings = make(map[string]string)
	}
	s.bindings[prefix] = uri
}

type printer struct {
	buf    bytes.Buffer
	indent string
}

func (p *printer) newline(depth int) {
	if p.indent == "" {
		return
	}
	p.buf.WriteByte('\n')
	for range depth {
		p.buf.WriteString(p.indent)
	}
}

func (p *printer) node(n *Node, depth int, scope *nsScope) {
	switch n.kind {
	case ElementNode:
		p.element(n, depth, scope)
	case TextNode:
		p.buf.WriteString(textEscaper.Replace(n.value))
	case CommentNode:
		p.buf.WriteString("<!--")
		p.buf.WriteString(n.value)
		p.buf.WriteString("-->")
	case ProcInstNode:
		p.buf.WriteString("<?")
		p.buf.WriteString(n.local)
		if n.value != "" {
			p.buf.WriteByte(' ')
			p.buf.WriteString(n.value)
		}
		p.buf.WriteString("?>")
	case DirectiveNode:
		p.buf.WriteString("<!")
		p.buf.WriteString(n.value)
		p.buf.WriteByte('>')
	case AttributeNode:
		p.buf.WriteString(n.Name())
		p.buf.WriteString(`="`)
		p.buf.WriteString(attrEscaper.Replace(n.value))
		p.buf.WriteByte('"')
	}
}

type attrOut struct {
	name  string
	value string
}

func (p *printer) element(n *Node, depth int, parent *nsScope) {
	scope := &nsScope{parent: parent}
	for _, a := range n.attrs {
		if a.IsNamespaceDecl() {
			if a.prefix == "" {
				scope.bind("", a.value)
			} else {
				scope.bind(a.local, a.value)
			}
		}
	}

	var extra []attrOut
	declare := func(prefix, uri string) {
		scope.bind(prefix, uri)
		name := "xmlns"
		if prefix != "" {
			name += ":" + prefix
		}
		extra = append(extra, attrOut{name: name, value: uri})
	}

	prefix := n.prefix
	if scope.uri(prefix) != n.uri {
		switch {
		case n.uri == "":
			prefix = ""
			if scope.uri("") != "" {
				declare("", "")
			}
		default:
			if other, ok := scope.prefixFor(n.uri, true); ok {
				prefix = other
			} else {
				declare(prefix, n.uri)
			}
		}
	}
	name := n.local
	if prefix != "" {
		name = prefix + ":" + n.local
	}

	attrs := make([]attrOut, 0, len(n.attrs))
	generated := 0
	for _, a := range n.attrs {
		if a.IsNamespaceDecl() {
			attrs = append(attrs, attrOut{name: a.Name(), value: a.value})
			continue
		}
		attrName := a.local
		switch {
		case a.uri == "":
			attrName = a.Name()
		case a.uri == xmlURI:
			attrName = "xml:" + a.local
		case a.prefix != "" && scope.uri(a.prefix) == a.uri:
			attrName = a.prefix + ":" + a.local
		default:
			ap, ok := scope.prefixFor(a.uri, false)
			if !ok {
				ap = a.prefix
				if _, taken := scope.lookup(ap); ap == "" || taken {
					for {
						ap = "ns" + strconv.Itoa(generated)
						generated++
						if _, taken := scope.lookup(ap); !taken {
							break
						}
					}
				}
				declare(ap, a.uri)
			}
			attrName = ap + ":" + a.local
		}
		attrs = append(attrs, attrOut{name: attrName, value: a.value})
	}
	attrs = append(attrs, extra...)

	p.buf.WriteByte('<')
	p.buf.WriteString(name)
	for _, a := range attrs {
		p.buf.WriteByte(' ')
		p.buf.WriteString(a.name)
		p.buf.WriteString(`="`)
		p.buf.WriteString(attrEscaper.Replace(a.value))
		p.buf.WriteByte('"')
	}
	if n.first == nil {
		p.buf.WriteString("/>")
		return
	}
	p.buf.WriteByte('>')

	mixed := false
	for c := n.first; c != nil; c = c.next {
		if c.kind == TextNode {
			mixed = true
			break
		}
	}
	for c := n.first; c != nil; c = c.next {
		if !mixed {
			p.newline(depth + 1)
		}
		p.node(c, depth+1, scope)
	}
	if !mixed {
		p.newline(depth)
	}
	p.buf.WriteString("</")
	p.buf.WriteString(name)
	p.buf.WriteByte('>')
}
