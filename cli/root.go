// Package cli holds the cobra commands of todolists-server.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/kutbudev/todolists/pkg/config"
)

// NewRootCommand builds the todolists-server command tree.
func NewRootCommand() *cobra.Command {
	var (
		envFile    string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "todolists-server",
		Short: "Reference server for todo lists",
		Long: `todolists-server serves the todo list HTTP API used by the todolists client.

Examples:
  todolists-server migrate
  todolists-server serve --port 8080
  TODOLISTS_STORE=memory todolists-server serve`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file")
	cmd.PersistentFlags().StringVar(&configPath, "config-dir", "", "Directory holding config.yaml")

	load := func() (*config.Config, error) {
		if configPath != "" {
			return config.LoadFrom(envFile, configPath)
		}
		return config.LoadFrom(envFile, ".", "./config")
	}

	cmd.AddCommand(newServeCommand(load))
	cmd.AddCommand(newMigrateCommand(load))
	cmd.AddCommand(NewConfigCommand(load))

	return cmd
}

type loader func() (*config.Config, error)
