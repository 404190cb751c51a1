package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewConfigCommand shows the configuration the server would run with.
func NewConfigCommand(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	cmd.AddCommand(newConfigShowCommand(load))

	return cmd
}

func newConfigShowCommand(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			password := ""
			if cfg.Database.Password != "" {
				password = strings.Repeat("*", 8)
			}
			fmt.Fprintf(out, "store:    %s\n", cfg.Store)
			fmt.Fprintf(out, "debug:    %t\n", cfg.Debug)
			fmt.Fprintf(out, "server:   %s\n", cfg.Server.Addr())
			fmt.Fprintf(out, "database: %s@%s:%d/%s (sslmode=%s) password=%s\n",
				cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name, cfg.Database.SSLMode, password)
			return nil
		},
	}

	return cmd
}
