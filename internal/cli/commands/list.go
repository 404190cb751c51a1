package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"

	"github.com/kutbudev/todolists/internal/todo"
)

// NewListCommand creates all subcommands for the 'list' command group.
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"l"},
		Usage:   "Manage todo lists",
		Subcommands: []*cli.Command{
			listLsCmd(),
			listShowCmd(),
			listCreateCmd(),
			listRenameCmd(),
			listDeleteCmd(),
		},
	}
}

func listLsCmd() *cli.Command {
	return &cli.Command{
		Name:    "ls",
		Aliases: []string{"list"},
		Usage:   "List all todo lists",
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}

			lists := s.state.Lists()
			if len(lists) == 0 {
				fmt.Fprintln(s.out, "No lists found. Use 'todolists list create' to add one.")
				return nil
			}

			w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tITEMS\tREMAINING")
			fmt.Fprintln(w, "--\t-----\t-----\t---------")
			for _, l := range lists {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", l.ID, truncateString(l.Title, 40), len(l.Items), todo.RemainingItems(l))
			}
			w.Flush()
			return nil
		},
	}
}

func listShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the items of a list",
		ArgsUsage: "[list-id]",
		Action: func(c *cli.Context) error {
			id, err := parseID(c, 0, "list")
			if err != nil {
				return err
			}
			s, err := openSession(c)
			if err != nil {
				return err
			}
			l, err := s.list(id)
			if err != nil {
				return err
			}

			items := s.state.VisibleItems(l)
			fmt.Fprintf(s.out, "%s (%d remaining)\n\n", l.Title, todo.RemainingItems(l))
			printItems(s.out, s.state, items)
			return nil
		},
	}
}

func listCreateCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a new list",
		ArgsUsage: "[title]",
		Action: func(c *cli.Context) error {
			title := strings.Join(c.Args().Slice(), " ")
			s, err := openSession(c)
			if err != nil {
				return err
			}
			if err := s.state.AddList(title); err != nil {
				return err
			}
			if err := s.done(); err != nil {
				return err
			}

			l := s.state.SelectedList()
			fmt.Fprintf(s.out, "✅ List '%s' created (ID: %d)\n", l.Title, l.ID)
			return nil
		},
	}
}

func listRenameCmd() *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a list",
		ArgsUsage: "[list-id] [title]",
		Action: func(c *cli.Context) error {
			id, err := parseID(c, 0, "list")
			if err != nil {
				return err
			}
			title := strings.Join(c.Args().Tail(), " ")
			s, err := openSession(c)
			if err != nil {
				return err
			}
			l, err := s.list(id)
			if err != nil {
				return err
			}
			if err := s.state.RenameList(l, title); err != nil {
				return err
			}
			if err := s.done(); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "✅ List %d renamed to '%s'\n", l.ID, l.Title)
			return nil
		},
	}
}

func listDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a list and all of its items",
		ArgsUsage: "[list-id]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Do not ask for confirmation",
			},
		},
		Action: func(c *cli.Context) error {
			id, err := parseID(c, 0, "list")
			if err != nil {
				return err
			}
			s, err := openSession(c)
			if err != nil {
				return err
			}
			l, err := s.list(id)
			if err != nil {
				return err
			}

			if !c.Bool("yes") {
				ok, err := confirmDelete(l.Title, len(l.Items))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(s.out, "Cancelled.")
					return nil
				}
			}

			if err := s.state.DeleteList(l); err != nil {
				return err
			}
			if err := s.done(); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "🗑  List '%s' deleted\n", l.Title)
			return nil
		},
	}
}

var errNeedsConfirmation = errors.New("refusing to delete without confirmation; pass --yes")

// confirmDelete asks before a list goes away. Without a terminal nothing
// can be asked, so it refuses.
var confirmDelete = func(title string, items int) (bool, error) {
	if !isTerminal() {
		return false, errNeedsConfirmation
	}
	ok := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Delete list '%s' and its %d items?", title, items),
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
