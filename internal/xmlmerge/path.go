package xmlmerge

import (
	"strings"
)

// parsePath splits an absolute slash separated element path such as
// /manifest/application into its qualified name segments.
func parsePath(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") || len(path) == 1 {
		return nil, pathError(path, "path must be absolute and name at least one element")
	}
	segs := strings.Split(path[1:], "/")
	for _, seg := range segs {
		if seg == "" {
			return nil, pathError(path, "empty path segment")
		}
		if strings.ContainsAny(seg, "[]@*()='\" \t\r\n|") || strings.Count(seg, ":") > 1 ||
			strings.HasPrefix(seg, ":") || strings.HasSuffix(seg, ":") {
			return nil, pathError(path, "invalid path segment "+seg)
		}
	}
	return segs, nil
}

func pathError(path, message string) error {
	return structuralError(ErrInvalidPath, message).WithContext("path", path).Build()
}

// selectPath returns every element reached by segs, in document order.
func selectPath(doc *Document, segs []string) []*Node {
	level := []*Node{&doc.node}
	for _, seg := range segs {
		var next []*Node
		for _, n := range level {
			next = append(next, n.Elements(seg)...)
		}
		if len(next) == 0 {
			return nil
		}
		level = next
	}
	return level
}

// FindFirst returns the first element at path, or nil when none exists.
func FindFirst(doc *Document, path string) (*Node, error) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	if found := selectPath(doc, segs); len(found) > 0 {
		return found[0], nil
	}
	return nil, nil
}

// FindElements returns every element at path. When attr is not empty only
// elements carrying attr with the given value are returned; prefix names the
// attribute's namespace prefix as declared on the root element.
func FindElements(doc *Document, path, prefix, attr, value string) ([]*Node, error) {
	root := doc.Root()
	if root == nil {
		return nil, structuralError(ErrNoRoot, "cannot search document").Build()
	}
	segs, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	found := selectPath(doc, segs)
	if attr == "" {
		return found, nil
	}
	uri := ""
	if prefix != "" {
		uri = root.LookupNamespace(prefix)
		if uri == "" {
			return nil, pathError(path, "namespace prefix "+prefix+" is not declared on the root element")
		}
	}
	out := found[:0]
	for _, el := range found {
		if a := el.Attr(attr, uri); a != nil && a.value == value {
			out = append(out, el)
		}
	}
	return out, nil
}

// FindOrCreateByPath returns the first element at path, creating the missing
// suffix of the path when no such element exists.
func FindOrCreateByPath(doc *Document, path string) (*Node, error) {
	el, err := FindFirst(doc, path)
	if err != nil || el != nil {
		return el, err
	}
	return CreateElementWithPath(doc, path)
}

// CreateElementWithPath appends a new element named by the last segment of
// path under the first element at the parent path, creating parents as
// needed. A single segment path resolves to the root element, which is
// created when the document is empty.
func CreateElementWithPath(doc *Document, path string) (*Node, error) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	if len(segs) == 1 {
		root := doc.Root()
		switch {
		case root == nil:
			root = doc.CreateElement(segs[0])
			if err := doc.node.AppendChild(root); err != nil {
				return nil, err
			}
			return root, nil
		case root.Name() == segs[0]:
			return root, nil
		default:
			return nil, pathError(path, "document root is "+root.Name())
		}
	}
	parent, err := FindOrCreateByPath(doc, "/"+strings.Join(segs[:len(segs)-1], "/"))
	if err != nil {
		return nil, err
	}
	return CreateSubElement(parent, segs[len(segs)-1])
}

// CreateSubElement appends a new element called name to parent. A prefixed
// name is resolved against the namespaces in scope at parent.
func CreateSubElement(parent *Node, name string) (*Node, error) {
	if parent == nil || parent.doc == nil {
		return nil, structuralError(ErrNoOwner, "cannot create element "+name).Build()
	}
	prefix, local := splitName(name)
	el := parent.doc.CreateElementNS(prefix, local, parent.LookupNamespace(prefix))
	if err := parent.AppendChild(el); err != nil {
		return nil, err
	}
	return el, nil
}
