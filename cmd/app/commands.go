package main

import (
	"github.com/urfave/cli/v3"
)

// getCommands returns every subcommand, grouped by category in help output.
func getCommands(version string) []*cli.Command {
	groups := []struct {
		category string
		commands []*cli.Command
	}{
		{category: "service", commands: getSystemCommands(version)},
		{category: "auth", commands: getAuthCommands()},
	}

	var cmds []*cli.Command
	for _, group := range groups {
		for _, cmd := range group.commands {
			cmd.Category = group.category
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
