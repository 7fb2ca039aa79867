package native

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
	"git.home.luguber.info/inful/pluginlit/internal/xmlmerge"
)

// MergePlist folds the top-level dict of src into the top-level dict of dst.
//
// Property lists pair a key element with the value element that follows it,
// so they are merged by key rather than structurally: missing entries are
// appended, nested dicts merge recursively, arrays gain the items they lack,
// and differing scalars take the source value, or conflict when strict.
func MergePlist(src, dst *xmlmerge.Document, strict bool) error {
	srcDict, err := topDict(src)
	if err != nil {
		return err
	}
	dstDict, err := topDict(dst)
	if err != nil {
		return err
	}
	return mergeDict(srcDict, dstDict, strict)
}

func topDict(doc *xmlmerge.Document) (*xmlmerge.Node, error) {
	dict, err := xmlmerge.FindFirst(doc, "/plist/dict")
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, errors.StructuralError("property list has no top-level dict").
			WithCause(xmlmerge.ErrInvalidPath).
			Build()
	}
	return dict, nil
}

type plistEntry struct {
	key   *xmlmerge.Node
	value *xmlmerge.Node
}

func entries(dict *xmlmerge.Node) []plistEntry {
	var out []plistEntry
	els := dict.Elements()
	for i := 0; i+1 < len(els); i += 2 {
		if els[i].Name() != "key" {
			continue
		}
		out = append(out, plistEntry{key: els[i], value: els[i+1]})
	}
	return out
}

func lookup(dict *xmlmerge.Node, key string) *plistEntry {
	for _, e := range entries(dict) {
		if strings.TrimSpace(e.key.Text()) == key {
			return &e
		}
	}
	return nil
}

func mergeDict(src, dst *xmlmerge.Node, strict bool) error {
	for _, e := range entries(src) {
		key := strings.TrimSpace(e.key.Text())
		existing := lookup(dst, key)
		if existing == nil {
			if err := appendClone(dst, e.key); err != nil {
				return err
			}
			if err := appendClone(dst, e.value); err != nil {
				return err
			}
			continue
		}
		if err := mergeValue(key, e.value, existing.value, strict); err != nil {
			return err
		}
	}
	return nil
}

func mergeValue(key string, src, dst *xmlmerge.Node, strict bool) error {
	switch {
	case src.Name() == "dict" && dst.Name() == "dict":
		return mergeDict(src, dst, strict)
	case src.Name() == "array" && dst.Name() == "array":
		for _, item := range src.Elements() {
			if containsEqual(dst, item) {
				continue
			}
			if err := appendClone(dst, item); err != nil {
				return err
			}
		}
		return nil
	case xmlmerge.Compare(src, dst, false) && strings.TrimSpace(src.Text()) == strings.TrimSpace(dst.Text()):
		return nil
	case strict:
		return errors.MergeConflictError(fmt.Sprintf("different values for plist key %s", key)).
			WithCause(xmlmerge.ErrConflict).
			WithContext(logfields.KeyKey, key).
			WithContext(logfields.KeyElement, xmlmerge.OuterXML(src)).
			WithContext("destination", xmlmerge.OuterXML(dst)).
			Build()
	default:
		clone, err := xmlmerge.Clone(src, dst.Document())
		if err != nil {
			return err
		}
		return dst.Parent().ReplaceChild(clone, dst)
	}
}

func containsEqual(array, item *xmlmerge.Node) bool {
	for _, el := range array.Elements() {
		if el.Name() == item.Name() && xmlmerge.OuterXML(el) == xmlmerge.OuterXML(item) {
			return true
		}
	}
	return false
}

func appendClone(parent, n *xmlmerge.Node) error {
	clone, err := xmlmerge.Clone(n, parent.Document())
	if err != nil {
		return err
	}
	return parent.AppendChild(clone)
}
