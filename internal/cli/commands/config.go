package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/kutbudev/todolists/internal/config"
)

func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change the client configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the configuration",
				Action: func(c *cli.Context) error {
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					path, _ := config.GetConfigPath()
					key := "(not set)"
					if k := cfg.Key(); k != "" {
						key = fmt.Sprintf("%s (%s)", maskKey(k), cfg.KeySource())
					}
					out := c.App.Writer
					fmt.Fprintf(out, "file:                 %s\n", path)
					fmt.Fprintf(out, "api_base_url:         %s\n", cfg.BaseURL())
					fmt.Fprintf(out, "api_key:              %s\n", key)
					fmt.Fprintf(out, "include_deleted_tags: %t\n", cfg.TagOptions().IncludeDeleted)
					fmt.Fprintf(out, "delete_mode:          %s\n", cfg.Deletion())
					fmt.Fprintf(out, "timeout:              %s\n", cfg.Timeout())
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "Set a configuration value",
				ArgsUsage: "[key] [value]",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("usage: todolists config set <key> <value>")
					}
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					if err := cfg.Set(c.Args().Get(0), c.Args().Get(1)); err != nil {
						return err
					}
					if err := config.SaveConfig(cfg); err != nil {
						return fmt.Errorf("failed to save config: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "✅ %s updated\n", c.Args().Get(0))
					return nil
				},
			},
			{
				Name:  "api-key",
				Usage: "Enter the API key without echoing it and keep it in the system keyring",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "clear", Usage: "Forget the stored API key"},
				},
				Action: func(c *cli.Context) error {
					if c.Bool("clear") {
						return clearAPIKey(c)
					}
					if !term.IsTerminal(int(os.Stdin.Fd())) {
						return fmt.Errorf("api-key needs a terminal; use 'todolists config set api_key <key>'")
					}
					fmt.Fprint(c.App.Writer, "Enter your API key: ")
					raw, err := term.ReadPassword(int(syscall.Stdin))
					fmt.Fprintln(c.App.Writer)
					if err != nil {
						return fmt.Errorf("could not read API key: %w", err)
					}
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					key := strings.TrimSpace(string(raw))
					where := "system keyring"
					if err := config.StoreAPIKey(key); err != nil {
						if !errors.Is(err, config.ErrKeyringUnavailable) {
							return err
						}
						cfg.APIKey = key
						where = "config file"
					} else {
						cfg.APIKey = ""
					}
					if err := config.SaveConfig(cfg); err != nil {
						return fmt.Errorf("failed to save config: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "✅ API key saved in the %s\n", where)
					return nil
				},
			},
		},
		Action: func(c *cli.Context) error {
			return cli.ShowCommandHelp(c, "config")
		},
	}
}

func clearAPIKey(c *cli.Context) error {
	if err := config.DeleteAPIKey(); err != nil {
		return err
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.APIKey != "" {
		cfg.APIKey = ""
		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}
	fmt.Fprintln(c.App.Writer, "✅ API key removed")
	return nil
}

func maskKey(k string) string {
	if len(k) <= 4 {
		return strings.Repeat("*", 8)
	}
	return k[:4] + strings.Repeat("*", 8)
}
