package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pluginlit/cmd/pluginlit/commands"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("pluginlit"),
		kong.Description("Channel-driven build orchestration with typed extension points"),
		kong.UsageOnError(),
		commands.Vars(),
	)

	if err := parser.Run(commands.NewGlobal(os.Stdout), cli); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
