package commands

import (
	"fmt"

	ferrors "git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/native"
	"git.home.luguber.info/inful/pluginlit/internal/xmlmerge"
)

// MergeCmd implements the 'merge' command.
type MergeCmd struct {
	Into      string   `short:"i" required:"" type:"existingfile" help:"Document the fragments are merged into"`
	Fragments []string `arg:"" type:"existingfile" help:"Fragment files, merged in order"`
	Keys      []string `short:"k" help:"Attribute names that identify matching elements"`
	NS        string   `name:"ns" help:"Namespace URI of the key attributes" default:"${android_ns}"`
	Strict    bool     `help:"Fail on conflicting attribute values instead of keeping the destination's"`
	Plist     bool     `help:"Merge property lists by key instead of by structure"`
	Output    string   `short:"o" help:"Write the result here instead of over --into"`
}

func (m *MergeCmd) Run(g *Global, _ *CLI) error {
	dst, err := xmlmerge.LoadFile(m.Into)
	if err != nil {
		return err
	}
	for _, path := range m.Fragments {
		src, err := xmlmerge.LoadFile(path)
		if err != nil {
			return err
		}
		if err := m.mergeOne(src, dst); err != nil {
			return fmt.Errorf("merge %s: %w", path, err)
		}
	}

	out := m.Output
	if out == "" {
		out = m.Into
	}
	if err := dst.SaveFile(out); err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "merged %d fragment(s) into %s\n", len(m.Fragments), out)
	return nil
}

func (m *MergeCmd) mergeOne(src, dst *xmlmerge.Document) error {
	if m.Plist {
		return native.MergePlist(src, dst, m.Strict)
	}
	if src.Root() == nil || dst.Root() == nil {
		return ferrors.StructuralError("cannot merge a document without a root element").
			WithCause(xmlmerge.ErrNoRoot).
			Build()
	}
	return xmlmerge.MergeInto(src.Root(), dst.Root(), m.Strict, m.NS, m.Keys...)
}
