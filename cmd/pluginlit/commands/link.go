package commands

import (
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
)

// LinkCmd implements the 'link' command.
type LinkCmd struct {
	Platform   string   `short:"p" help:"Override the active platform (android|ios|webgl)"`
	Assemblies []string `name:"assembly" short:"a" help:"Assembly to preserve, optionally with types: Name or Name:Type1,Type2"`
}

func (l *LinkCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	platform, err := resolvePlatform(l.Platform, cfg)
	if err != nil {
		return err
	}
	bc, err := loadContext(g, root, cfg, platform, nil)
	if err != nil {
		return err
	}
	for _, entry := range l.Assemblies {
		name, types, _ := strings.Cut(entry, ":")
		if name == "" {
			return ferrors.ArgumentError(fmt.Sprintf("invalid assembly %q", entry)).Build()
		}
		var list []string
		if types != "" {
			list = strings.Split(types, ",")
		}
		bc.AddLinkAssembly(name, list...)
	}

	doc, err := bc.LinkDocument()
	if err != nil {
		return err
	}
	if doc == nil {
		fmt.Fprintln(g.Out, "no link directives")
		return nil
	}
	fmt.Fprint(g.Out, doc.String())
	return nil
}
