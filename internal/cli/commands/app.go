package commands

import "github.com/urfave/cli/v2"

// NewApp builds the todolists command line application.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "todolists",
		Usage:   "Todo lists with tags, search and delayed delete",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "API base URL (overrides config and TODOLISTS_API_URL)",
				EnvVars: []string{"TODOLISTS_API_URL"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log failed remote operations to stderr",
			},
		},
		Commands: []*cli.Command{
			// Lists & items
			NewListCommand(),
			NewItemCommand(),

			// Finding things
			NewTagsCommand(),
			NewSearchCommand(),

			// Views
			NewTUICommand(),
			NewMCPCommand(),

			// Meta
			NewConfigCommand(),
		},
	}
}
