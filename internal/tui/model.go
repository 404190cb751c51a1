// Package tui is the interactive view: lists as tabs, the items of the
// selected list below, a tag and search filter and a delete countdown.
package tui

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kutbudev/todolists/internal/config"
	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/reconcile"
	"github.com/kutbudev/todolists/internal/remote"
	"github.com/kutbudev/todolists/internal/todo"
)

type uiMode int

const (
	modeNormal uiMode = iota
	modeAddItem
	modeEditTitle
	modeEditTags
	modeSearch
	modeAddList
	modeRenameList
	modeConfirmDeleteList
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

type model struct {
	state  *todo.State
	sched  *scheduler
	runner *runner

	keys  keyMap
	help  help.Model
	input textinput.Model
	mode  uiMode

	// item the open input applies to
	editing *models.TodoItem

	status    string
	statusErr bool
	loaded    bool

	width  int
	height int
}

// Run opens the interactive view on rem until the user quits or ctx ends.
// Setting TODOLISTS_TUI_LOG sends failed operations to that file.
func Run(ctx context.Context, rem remote.Remote, cfg *config.Config) error {
	opts := todo.DefaultOptions()
	opts.Tags = cfg.TagOptions()
	opts.DeleteMode = cfg.Deletion()
	if path := os.Getenv("TODOLISTS_TUI_LOG"); path != "" {
		f, err := tea.LogToFile(path, "todolists")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		opts.Logger = log.Default()
	}

	m := newModel(ctx, rem, opts, cfg.Timeout())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func newModel(ctx context.Context, rem remote.Remote, opts todo.Options, timeout time.Duration) *model {
	m := &model{
		sched:  newScheduler(),
		runner: &runner{ctx: ctx, remote: rem, timeout: timeout},
		keys:   defaultKeys(),
		help:   help.New(),
		input:  textinput.New(),
		status: "Loading...",
	}
	m.input.Prompt = "> "
	m.input.CharLimit = 200
	m.input.Cursor.SetMode(cursor.CursorStatic)

	opts.Scheduler = m.sched
	opts.OnError = func(_ reconcile.Kind, err error) { m.setErr(err) }
	m.state = todo.New(m.runner, opts)
	return m
}

func (m *model) Init() tea.Cmd {
	return m.runner.load()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case loadMsg:
		if msg.err != nil {
			m.setErr(fmt.Errorf("failed to load lists: %w", msg.err))
			break
		}
		m.state.Load(msg.snap)
		m.loaded = true
		m.setStatus(fmt.Sprintf("%d lists loaded", len(m.state.Lists())))
	case resultMsg:
		m.state.Complete(msg.res)
		m.ensureSelection()
	case tickMsg:
		m.sched.fire(msg.id)
		m.ensureSelection()
	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.mode == modeNormal {
			cmd = m.updateNormal(msg)
		} else {
			cmd = m.updateInput(msg)
		}
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.runner.drain()...)
	cmds = append(cmds, m.sched.drain()...)
	return m, tea.Batch(cmds...)
}

func (m *model) updateNormal(msg tea.KeyMsg) tea.Cmd {
	st := m.state
	item := st.SelectedItem()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Reload):
		m.setStatus("Reloading...")
		return m.runner.load()
	case !m.loaded:
		// nothing to act on until the first load lands
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PrevList):
		m.switchList(-1)
	case key.Matches(msg, m.keys.NextList):
		m.switchList(1)
	case key.Matches(msg, m.keys.Add):
		draft := st.AddItem()
		if draft == nil {
			m.setErr(fmt.Errorf("no list selected; press N to create one"))
			return nil
		}
		m.openInput(modeAddItem, draft, "", "New item title...")
	case key.Matches(msg, m.keys.Edit):
		if item != nil {
			m.openInput(modeEditTitle, item, item.Title, "Title (empty deletes)")
		}
	case key.Matches(msg, m.keys.Toggle):
		st.ToggleDone(item)
	case key.Matches(msg, m.keys.Tags):
		if item != nil && !item.IsNew() {
			m.openInput(modeEditTags, item, item.Tags, "comma, separated, tags")
		}
	case key.Matches(msg, m.keys.Priority):
		m.saveDetails(item, func(d *models.ItemDetails) {
			d.Priority = nextPriority(st.PriorityLevels(), d.Priority)
		})
	case key.Matches(msg, m.keys.Color):
		m.saveDetails(item, func(d *models.ItemDetails) {
			d.Color = nextColor(st.Colors(), d.Color)
		})
	case key.Matches(msg, m.keys.Move):
		m.saveDetails(item, func(d *models.ItemDetails) {
			d.ListID = nextListID(st.Lists(), d.ListID)
		})
	case key.Matches(msg, m.keys.Delete):
		m.toggleCountdown(item)
	case key.Matches(msg, m.keys.SoftDelete):
		if item != nil {
			st.SoftDeleteItem(item)
			m.setStatus(fmt.Sprintf("'%s' moved to deleted", item.Title))
			m.ensureSelection()
		}
	case key.Matches(msg, m.keys.TopTag):
		m.cycleTopTag()
	case key.Matches(msg, m.keys.Search):
		m.openInput(modeSearch, nil, st.SearchTerm(), "Search titles...")
	case key.Matches(msg, m.keys.ClearFilters):
		st.ClearFilters()
		m.setStatus("Filters cleared")
	case key.Matches(msg, m.keys.NewList):
		m.openInput(modeAddList, nil, "", "New list title...")
	case key.Matches(msg, m.keys.RenameList):
		if l := st.SelectedList(); l != nil {
			m.openInput(modeRenameList, nil, l.Title, "List title")
		}
	case key.Matches(msg, m.keys.DeleteList):
		if l := st.SelectedList(); l != nil {
			m.mode = modeConfirmDeleteList
			m.setStatus(fmt.Sprintf("Delete list '%s' and its %d items? (y/n)", l.Title, len(l.Items)))
		}
	case key.Matches(msg, m.keys.Yank):
		m.yank(item)
	}
	return nil
}

func (m *model) updateInput(msg tea.KeyMsg) tea.Cmd {
	if m.mode == modeConfirmDeleteList {
		if msg.String() == "y" {
			m.state.DeleteList(m.state.SelectedList())
			m.setStatus("List deleted")
		} else {
			m.setStatus("Cancelled")
		}
		m.mode = modeNormal
		return nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		m.submitInput()
		return nil
	case tea.KeyEsc:
		m.cancelInput()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeSearch {
		m.state.Search(m.input.Value())
		m.ensureSelection()
	}
	return cmd
}

func (m *model) openInput(mode uiMode, item *models.TodoItem, value, placeholder string) {
	m.mode = mode
	m.editing = item
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *model) closeInput() {
	m.mode = modeNormal
	m.editing = nil
	m.input.SetValue("")
	m.input.Blur()
}

func (m *model) submitInput() {
	st := m.state
	value := m.input.Value()
	item := m.editing
	mode := m.mode
	m.closeInput()

	switch mode {
	case modeAddItem:
		st.CommitItem(item, models.QuickFields{Title: value})
	case modeEditTitle:
		st.EditTitle(item, value)
	case modeEditTags:
		d := models.DetailsOf(item)
		d.Tags = value
		st.SaveDetails(item, d)
	case modeSearch:
		st.Search(value)
	case modeAddList:
		st.AddList(value)
	case modeRenameList:
		st.RenameList(st.SelectedList(), value)
	}
	m.ensureSelection()
}

func (m *model) cancelInput() {
	item := m.editing
	mode := m.mode
	m.closeInput()

	switch mode {
	case modeAddItem:
		m.state.DeleteItem(item)
	case modeSearch:
		m.state.Search("")
	}
	m.ensureSelection()
}

func (m *model) saveDetails(item *models.TodoItem, change func(d *models.ItemDetails)) {
	if item == nil {
		return
	}
	if item.IsNew() {
		m.setErr(fmt.Errorf("'%s' is not saved yet", item.Title))
		return
	}
	d := models.DetailsOf(item)
	change(&d)
	m.state.SaveDetails(item, d)
}

func (m *model) toggleCountdown(item *models.TodoItem) {
	if item == nil {
		return
	}
	if _, started := m.state.ToggleDeleteCountdown(item); started {
		m.setStatus(fmt.Sprintf("Deleting '%s'... press x to cancel", item.Title))
		return
	}
	m.setStatus("Delete cancelled")
}

// cycleTopTag steps the tag filter through the top tags and back to none.
func (m *model) cycleTopTag() {
	top := m.state.TopTags()
	if len(top) == 0 {
		m.setStatus("No tags yet")
		return
	}
	next := 0
	for i, t := range top {
		if t == m.state.CurrentTag() {
			next = i + 1
		}
	}
	if next >= len(top) {
		m.state.FilterByTag("")
		m.setStatus("Tag filter off")
	} else {
		m.state.FilterByTag(top[next])
		m.setStatus("Tag: " + top[next])
	}
	m.ensureSelection()
}

func (m *model) yank(item *models.TodoItem) {
	if item == nil {
		return
	}
	if err := writeClipboard(item.Title); err != nil {
		m.setErr(fmt.Errorf("could not copy: %w", err))
		return
	}
	m.setStatus(fmt.Sprintf("📋 Copied '%s'", item.Title))
}

func (m *model) moveCursor(delta int) {
	items := m.state.VisibleItems(m.state.SelectedList())
	if len(items) == 0 {
		return
	}
	idx := indexOf(items, m.state.SelectedItem())
	if idx < 0 {
		m.state.SelectItem(items[0])
		return
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(items) {
		idx = len(items) - 1
	}
	m.state.SelectItem(items[idx])
}

func (m *model) switchList(delta int) {
	lists := m.state.Lists()
	if len(lists) == 0 {
		return
	}
	idx := 0
	for i, l := range lists {
		if l == m.state.SelectedList() {
			idx = i
		}
	}
	idx = (idx + delta + len(lists)) % len(lists)
	m.state.SelectList(lists[idx].ID)
	m.ensureSelection()
}

// ensureSelection moves the cursor onto a visible item after the view
// changed underneath it.
func (m *model) ensureSelection() {
	items := m.state.VisibleItems(m.state.SelectedList())
	sel := m.state.SelectedItem()
	if sel != nil && indexOf(items, sel) >= 0 {
		return
	}
	if sel != nil && sel.IsNew() {
		return
	}
	if len(items) == 0 {
		m.state.SelectItem(nil)
		return
	}
	m.state.SelectItem(items[0])
}

func (m *model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *model) setErr(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func indexOf(items []*models.TodoItem, item *models.TodoItem) int {
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return -1
}

func nextPriority(levels []models.PriorityLevel, cur models.Priority) models.Priority {
	for i, lvl := range levels {
		if lvl.Value == cur {
			return levels[(i+1)%len(levels)].Value
		}
	}
	if len(levels) > 0 {
		return levels[0].Value
	}
	return cur
}

func nextColor(colors []models.ColorOption, cur models.Color) models.Color {
	for i, c := range colors {
		if c.Value == cur {
			return colors[(i+1)%len(colors)].Value
		}
	}
	if len(colors) > 0 {
		return colors[0].Value
	}
	return cur
}

func nextListID(lists []*models.TodoList, cur int) int {
	for i, l := range lists {
		if l.ID == cur {
			return lists[(i+1)%len(lists)].ID
		}
	}
	return cur
}

// View

func (m *model) View() string {
	st := m.state
	var b strings.Builder

	b.WriteString(titleStyle.Render("Todo Lists"))
	b.WriteString("  ")
	for _, l := range st.Lists() {
		label := fmt.Sprintf("%s (%d)", l.Title, todo.RemainingItems(l))
		if l == st.SelectedList() {
			b.WriteString(activeTab.Render(label))
		} else {
			b.WriteString(tabStyle.Render(label))
		}
	}
	b.WriteString("\n")

	if st.FiltersActive() {
		var parts []string
		if t := st.CurrentTag(); t != "" {
			parts = append(parts, "tag: "+t)
		}
		if s := st.SearchTerm(); s != "" {
			parts = append(parts, "search: "+s)
		}
		b.WriteString(mutedStyle.Render(strings.Join(parts, "  ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	items := st.VisibleItems(st.SelectedList())
	switch {
	case !m.loaded:
	case st.SelectedList() == nil:
		b.WriteString(mutedStyle.Render("No lists. Press N to create one."))
		b.WriteString("\n")
	case len(items) == 0:
		b.WriteString(mutedStyle.Render("No items. Press a to add one."))
		b.WriteString("\n")
	}
	for _, it := range items {
		b.WriteString(m.renderItem(it))
		b.WriteString("\n")
	}

	if m.mode != modeNormal && m.mode != modeConfirmDeleteList {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(errorStyle.Render("✖ " + m.status))
		} else {
			b.WriteString(successStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return panel(b.String())
}

func (m *model) renderItem(it *models.TodoItem) string {
	st := m.state
	prefix := "  "
	if it == st.SelectedItem() {
		prefix = selectedStyle.Render("> ")
	}

	box := mutedStyle.Render(boxUnchecked)
	title := itemColor(it.Color).Render(it.Title)
	if it.Title == "" {
		title = mutedStyle.Render("(new item)")
	}
	if it.Done {
		box = successStyle.Render(boxChecked)
		title = doneStyle.Render(it.Title)
	}

	line := prefix + box + " " + title
	if it.Priority != models.PriorityNone {
		line += " " + mutedStyle.Render("!"+st.PriorityName(it.Priority))
	}
	if tags := renderTags(it.Tags); tags != "" {
		line += " " + tagStyle.Render(tags)
	}
	if it == st.CountdownItem() {
		line += " " + countdown.Render(fmt.Sprintf("deleting in %d…", st.CountdownRemaining()))
	}
	return line
}

func renderTags(raw string) string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, "#"+t)
		}
	}
	return strings.Join(out, " ")
}
