package xmlmerge

import "strings"

// Compare reports whether a and b are structurally equal, ignoring comments
// and whitespace-only text. Nodes must share kind, qualified local name and
// namespace, trimmed value, and attribute set (namespace declarations
// excluded, order ignored).
//
// Children are only examined when the two elements have a different number
// of child nodes; the walk then starts at the first child pair and follows
// siblings. Elements with equal child counts compare equal on their own
// properties alone.
//
// With followingSiblings set, the next sibling pairs are compared as well
// until both runs end together.
func Compare(a, b *Node, followingSiblings bool) bool {
	for {
		a = skipIgnorable(a)
		b = skipIgnorable(b)
		if a == b {
			return true
		}
		if a == nil || b == nil {
			return false
		}
		if a.kind != b.kind || a.local != b.local || a.uri != b.uri {
			return false
		}
		if a.uri == "" && a.prefix != b.prefix {
			return false
		}
		if strings.TrimSpace(a.value) != strings.TrimSpace(b.value) {
			return false
		}
		if !sameAttrs(a, b) {
			return false
		}
		if a.kind == ElementNode && a.ChildCount() != b.ChildCount() && !Compare(a.first, b.first, true) {
			return false
		}
		if !followingSiblings {
			return true
		}
		a, b = a.next, b.next
	}
}

func skipIgnorable(n *Node) *Node {
	for n != nil && (n.kind == CommentNode || n.IsBlank()) {
		n = n.next
	}
	return n
}

func sameAttrs(a, b *Node) bool {
	if countAttrs(a) != countAttrs(b) {
		return false
	}
	for _, x := range a.attrs {
		if x.IsNamespaceDecl() {
			continue
		}
		y := b.Attr(x.local, x.uri)
		if y == nil || strings.TrimSpace(x.value) != strings.TrimSpace(y.value) {
			return false
		}
	}
	return true
}

func countAttrs(n *Node) int {
	count := 0
	for _, a := range n.attrs {
		if !a.IsNamespaceDecl() {
			count++
		}
	}
	return count
}
