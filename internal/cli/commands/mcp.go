package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/kutbudev/todolists/internal/mcp"
	"github.com/kutbudev/todolists/internal/todo"
)

// NewMCPCommand serves the lists to MCP clients over stdio.
func NewMCPCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the lists to MCP clients over stdio",
		Action: func(c *cli.Context) error {
			cfg, client, err := newClient(c)
			if err != nil {
				return err
			}
			opts := todo.DefaultOptions()
			opts.Tags = cfg.TagOptions()
			opts.DeleteMode = cfg.Deletion()
			return mcp.ServeStdio(c.Context, client, opts, cfg.Timeout(), c.App.Version)
		},
	}
}
