package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/todo"
)

func terminalWidth() int {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	return width
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// printItems writes items as a table sized to the terminal.
func printItems(w io.Writer, st *todo.State, items []*models.TodoItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}
	titleWidth := terminalWidth() - 50
	if titleWidth < 20 {
		titleWidth = 20
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tCOLOR\tTITLE\tTAGS")
	fmt.Fprintln(tw, "--\t----\t--------\t-----\t-----\t----")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			it.ID,
			checkbox(it.Done),
			st.PriorityName(it.Priority),
			st.ColorName(it.Color),
			truncateString(it.Title, titleWidth),
			strings.Join(tagList(it.Tags), ", "))
	}
	tw.Flush()
}

func tagList(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// renderNote renders a markdown note for the terminal. Output that is not
// a terminal gets the note unchanged.
func renderNote(note string) string {
	if !isTerminal() {
		return note
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth()-4),
	)
	if err != nil {
		return note
	}
	out, err := r.Render(note)
	if err != nil {
		return note
	}
	return out
}
