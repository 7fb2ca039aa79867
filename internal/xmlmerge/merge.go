package xmlmerge

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/pluginlit/internal/logfields"
)

// MergeInto folds src into dst, which may belong to another document.
//
// Attributes present only on src are added to dst. An attribute present on
// both keeps the destination value; with strict set, differing (trimmed)
// values are a conflict instead. Text and attribute nodes merged directly
// take the source value, or conflict under strict when they differ.
//
// Each child of src is matched against the children of dst in order. A
// destination child matches when it compares equal to the source child, or
// when both are elements with the same name and either one of them has no
// attributes or the first key in keys carrying a non-empty value on both
// sides, read in namespace ns, has the same value. Matched elements are
// merged recursively; other matches are left as they are. Unmatched source
// children are cloned and appended.
func MergeInto(src, dst *Node, strict bool, ns string, keys ...string) error {
	if err := checkPair(src, dst); err != nil {
		return err
	}

	switch src.kind {
	case TextNode, AttributeNode:
		if strict && strings.TrimSpace(src.value) != strings.TrimSpace(dst.value) {
			return conflictError(fmt.Sprintf("%s values differ", src.kind)).
				WithContext(logfields.KeyElement, OuterXML(src.parent)).
				WithContext("source", src.value).
				WithContext("destination", dst.value).
				Build()
		}
		if !strict {
			dst.value = src.value
		}
	case ElementNode:
		if err := mergeAttrs(src, dst, strict); err != nil {
			return err
		}
	}

	for s := src.first; s != nil; s = s.next {
		match := matchChild(dst, s, ns, keys)
		switch {
		case match == nil:
			if err := dst.AppendChild(cloneNode(s, dst.doc)); err != nil {
				return err
			}
		case sameElement(s, match):
			if err := MergeInto(s, match, strict, ns, keys...); err != nil {
				return err
			}
		}
	}
	return nil
}

// sameElement reports whether a and b are elements with the same name. Compare
// skips comments, so a matched pair is not necessarily of the same kind.
func sameElement(a, b *Node) bool {
	return a.kind == ElementNode && b.kind == ElementNode && a.local == b.local && a.uri == b.uri
}

func mergeAttrs(src, dst *Node, strict bool) error {
	for _, a := range src.attrs {
		if a.IsNamespaceDecl() {
			continue
		}
		existing := dst.Attr(a.local, a.uri)
		if existing == nil {
			dst.addAttr(a.prefix, a.local, a.uri, a.value)
			continue
		}
		if strict && strings.TrimSpace(existing.value) != strings.TrimSpace(a.value) {
			return conflictError(fmt.Sprintf("different attribute values with name %s in element %s", a.local, OuterXML(src))).
				WithContext(logfields.KeyAttribute, a.Name()).
				WithContext(logfields.KeyElement, OuterXML(src)).
				WithContext("source", a.value).
				WithContext("destination", existing.value).
				Build()
		}
	}
	return nil
}

// matchChild returns the first child of parent that compares equal to s or
// matches it by key.
func matchChild(parent, s *Node, ns string, keys []string) *Node {
	for d := parent.first; d != nil; d = d.next {
		if Compare(d, s, false) || keyMatch(s, d, ns, keys) {
			return d
		}
	}
	return nil
}

func keyMatch(s, d *Node, ns string, keys []string) bool {
	if s.kind != ElementNode || d.kind != ElementNode || s.local != d.local || s.uri != d.uri {
		return false
	}
	if countAttrs(s) == 0 || countAttrs(d) == 0 {
		return true
	}
	for _, key := range keys {
		sv := s.AttrValue(key, ns)
		if sv == "" {
			continue
		}
		dv := d.AttrValue(key, ns)
		if dv == "" || sv != dv {
			continue
		}
		return true
	}
	return false
}
