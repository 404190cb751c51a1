package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/kutbudev/todolists/internal/tui"
)

func NewTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Open the interactive view",
		Action: func(c *cli.Context) error {
			cfg, client, err := newClient(c)
			if err != nil {
				return err
			}
			return tui.Run(c.Context, client, cfg)
		},
	}
}
