package buildctx

import (
	"slices"

	"git.home.luguber.info/inful/pluginlit/internal/xmlmerge"
)

type linkEntry struct {
	assembly string
	// types is nil when the whole assembly is preserved.
	types []string
}

// AddLinkAssembly asks the linker to keep types of assembly. Calls
// accumulate: type lists are unioned in first-seen order. An empty type list
// preserves the whole assembly and cannot be narrowed by later calls.
func (c *Context) AddLinkAssembly(assembly string, types ...string) {
	for _, e := range c.links {
		if e.assembly != assembly {
			continue
		}
		if e.types == nil {
			return
		}
		if len(types) == 0 {
			e.types = nil
			return
		}
		e.types = appendUnique(e.types, types...)
		return
	}
	var list []string
	if len(types) > 0 {
		list = appendUnique(make([]string, 0, len(types)), types...)
	}
	c.links = append(c.links, &linkEntry{assembly: assembly, types: list})
}

func appendUnique(list []string, items ...string) []string {
	for _, it := range items {
		if !slices.Contains(list, it) {
			list = append(list, it)
		}
	}
	return list
}

// LinkDocument builds the preservation manifest: a linker root with one
// assembly element per registered assembly. It returns nil when nothing was
// registered.
func (c *Context) LinkDocument() (*xmlmerge.Document, error) {
	if len(c.links) == 0 {
		return nil, nil
	}
	doc := xmlmerge.NewDocument()
	if _, err := xmlmerge.CreateElementWithPath(doc, "/linker"); err != nil {
		return nil, err
	}
	for _, e := range c.links {
		asm, err := xmlmerge.CreateElementWithPath(doc, "/linker/assembly")
		if err != nil {
			return nil, err
		}
		asm.SetAttr("fullname", "", e.assembly)
		if e.types == nil {
			asm.SetAttr("preserve", "", "all")
			continue
		}
		for _, typeName := range e.types {
			t, err := xmlmerge.CreateSubElement(asm, "type")
			if err != nil {
				return nil, err
			}
			t.SetAttr("fullname", "", typeName)
			t.SetAttr("preserve", "", "all")
		}
	}
	return doc, nil
}
