package commands

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kutbudev/todolists/internal/models"
)

// NewItemCommand creates all subcommands for the 'item' command group.
func NewItemCommand() *cli.Command {
	return &cli.Command{
		Name:    "item",
		Aliases: []string{"i"},
		Usage:   "Manage the items of a list",
		Subcommands: []*cli.Command{
			itemAddCmd(),
			itemDoneCmd(),
			itemTitleCmd(),
			itemDetailsCmd(),
			itemRemoveCmd(),
			itemShowCmd(),
		},
	}
}

func detailFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "Priority level name or number"},
		&cli.StringFlag{Name: "color", Aliases: []string{"c"}, Usage: "Color name or number"},
		&cli.StringFlag{Name: "tags", Aliases: []string{"t"}, Usage: "Comma-separated tags"},
		&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "Note (markdown)"},
	}
}

// applyDetailFlags overrides d with the flags that were given.
func (s *session) applyDetailFlags(c *cli.Context, d *models.ItemDetails) error {
	if c.IsSet("priority") {
		p, err := s.state.LookupPriority(c.String("priority"))
		if err != nil {
			return err
		}
		d.Priority = p
	}
	if c.IsSet("color") {
		col, err := s.state.LookupColor(c.String("color"))
		if err != nil {
			return err
		}
		d.Color = col
	}
	if c.IsSet("tags") {
		d.Tags = c.String("tags")
	}
	if c.IsSet("note") {
		d.Note = c.String("note")
	}
	return nil
}

func itemAddCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add an item to a list",
		ArgsUsage: "[list-id] [title]",
		Flags:     detailFlags(),
		Action: func(c *cli.Context) error {
			listID, err := parseID(c, 0, "list")
			if err != nil {
				return err
			}
			title := strings.Join(c.Args().Tail(), " ")
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("item title is required")
			}
			s, err := openSession(c)
			if err != nil {
				return err
			}
			if !s.state.SelectList(listID) {
				return fmt.Errorf("list %d not found", listID)
			}

			draft := s.state.AddItem()
			d := models.DetailsOf(draft)
			if err := s.applyDetailFlags(c, &d); err != nil {
				s.state.DeleteItem(draft)
				return err
			}
			draft.Priority = d.Priority
			draft.Color = d.Color

			if err := s.state.CommitItem(draft, models.QuickFields{Title: title}); err != nil {
				return err
			}
			if err := s.done(); err != nil {
				return err
			}
			if d.Tags != "" || d.Note != "" {
				d.ListID = draft.ListID
				if err := s.state.SaveDetails(draft, d); err != nil {
					return err
				}
				if err := s.done(); err != nil {
					return err
				}
			}

			fmt.Fprintf(s.out, "✅ Item '%s' added (ID: %d)\n", draft.Title, draft.ID)
			return nil
		},
	}
}

func itemDoneCmd() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Mark an item as done",
		ArgsUsage: "[item-id]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "undo", Aliases: []string{"u"}, Usage: "Mark as not done instead"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseID(c, 0, "item")
			if err != nil {
				return err
			}
			s, err := openSession(c)
			if err != nil {
				return err
			}
			it, err := s.item(id)
			if err != nil {
				return err
			}

			done := !c.Bool("undo")
			if err := s.state.CommitItem(it, models.QuickFields{Title: it.Title, Done: done}); err != nil {
				return err
			}
			if err := s.done(); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s %s\n", checkbox(it.Done), it.Title)
			return nil
		},
	}
}

func itemTitleCmd() *cli.Command {
	return &cli.Command{
		Name:      "title",
		Usage:     "Change the title of an item; a blank title deletes it",
		ArgsUsage: "[item-id] [title]",
		Action: func(c *cli.Context) error {
			id, err := parseID(c, 0, "item")
			if err != nil {
				return err
			}
			title := strings.Join(c.Args().Tail(), " ")
			s, err := openSession(c)
			if err != nil {
				return err
			}
			it, err := s.item(id)
			if err != nil {
				return err
			}

			if err := s.state.EditTitle(it, title); err != nil {
				return err
			}
			if err := s.done(); err != nil {
				return err
			}
			if s.state.FindItem(id) == nil {
				fmt.Fprintf(s.out, "🗑  Item %d deleted\n", id)
				return nil
			}
			fmt.Fprintf(s.out, "✅ Item %d renamed to '%s'\n", id, it.Title)
			return nil
		},
	}
}

func itemDetailsCmd() *cli.Command {
	flags := append(detailFlags(), &cli.IntFlag{Name: "list", Aliases: []string{"l"}, Usage: "Move the item to this list"})
	return &cli.Command{
		Name:      "details",
		Usage:     "Change list, priority, color, tags or note of an item",
		ArgsUsage: "[item-id]",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			id, err := parseID(c, 0, "item")
			if err != nil {
				return err
			}
			s, err := openSession(c)
			if err != nil {
				return err
			}
			it, err := s.item(id)
			if err != nil {
				return err
			}

			d := models.DetailsOf(it)
			if c.IsSet("list") {
				d.ListID = c.Int("list")
			}
			if err := s.applyDetailFlags(c, &d); err != nil {
				return err
			}
			if err := s.state.SaveDetails(it, d); err != nil {
				return err
			}
			if err := s.done(); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "✅ Item %d updated\n", id)
			return nil
		},
	}
}

func itemRemoveCmd() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Aliases:   []string{"delete"},
		Usage:     "Delete an item",
		ArgsUsage: "[item-id]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "soft", Usage: "Only flag the item as deleted"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseID(c, 0, "item")
			if err != nil {
				return err
			}
			s, err := openSession(c)
			if err != nil {
				return err
			}
			it, err := s.item(id)
			if err != nil {
				return err
			}

			if c.Bool("soft") {
				s.state.SoftDeleteItem(it)
			} else {
				s.state.DeleteItem(it)
			}
			if err := s.done(); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "🗑  Item %d deleted\n", id)
			return nil
		},
	}
}

func itemShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show details for an item",
		ArgsUsage: "[item-id]",
		Action: func(c *cli.Context) error {
			id, err := parseID(c, 0, "item")
			if err != nil {
				return err
			}
			s, err := openSession(c)
			if err != nil {
				return err
			}
			it, err := s.item(id)
			if err != nil {
				return err
			}

			listTitle := ""
			if l := s.state.FindList(it.ListID); l != nil {
				listTitle = l.Title
			}
			fmt.Fprintf(s.out, "Item %d\n", it.ID)
			fmt.Fprintf(s.out, "----------------------------------\n")
			fmt.Fprintf(s.out, "Title:    %s %s\n", checkbox(it.Done), it.Title)
			fmt.Fprintf(s.out, "List:     %s (%d)\n", listTitle, it.ListID)
			fmt.Fprintf(s.out, "Priority: %s\n", s.state.PriorityName(it.Priority))
			fmt.Fprintf(s.out, "Color:    %s\n", s.state.ColorName(it.Color))
			fmt.Fprintf(s.out, "Tags:     %s\n", strings.Join(tagList(it.Tags), ", "))
			if it.Note != "" {
				fmt.Fprintf(s.out, "\n%s\n", renderNote(it.Note))
			}
			return nil
		},
	}
}
