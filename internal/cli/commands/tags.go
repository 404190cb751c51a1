package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/kutbudev/todolists/internal/models"
)

func NewTagsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "List the tags used across all lists",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "top", Usage: "Only the most used tags"},
		},
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}

			idx := s.state.TagIndex()
			names := idx.All
			if c.Bool("top") {
				names = idx.Top
			}
			if len(names) == 0 {
				fmt.Fprintln(s.out, "No tags found.")
				return nil
			}

			w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tITEMS")
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%d\n", name, idx.Counts[name])
			}
			w.Flush()
			return nil
		},
	}
}

func NewSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Find items by title and tag across all lists",
		ArgsUsage: "[term]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Only items carrying this tag"},
		},
		Action: func(c *cli.Context) error {
			term := strings.Join(c.Args().Slice(), " ")
			tag := c.String("tag")
			s, err := openSession(c)
			if err != nil {
				return err
			}
			if tag != "" && !s.state.TagIndex().Contains(tag) {
				return fmt.Errorf("unknown tag %q", tag)
			}

			s.state.FilterByTag(tag)
			s.state.Search(term)

			var found []*models.TodoItem
			for _, l := range s.state.Lists() {
				found = append(found, s.state.VisibleItems(l)...)
			}
			printItems(s.out, s.state, found)
			return nil
		},
	}
}
