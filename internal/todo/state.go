// Package todo holds the aggregate a user interface binds to: the loaded
// lists, the selection, the tag and search filters and the pending delete
// countdown. Every mutating method leaves the tag index and the visibility
// of every item up to date before it returns.
package todo

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/kutbudev/todolists/internal/deletion"
	"github.com/kutbudev/todolists/internal/filter"
	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/reconcile"
	"github.com/kutbudev/todolists/internal/remote"
	"github.com/kutbudev/todolists/internal/tags"
)

// Runner carries ops to the remote store. Implementations must hand every
// Result back to State.Complete on the loop that owns the State.
type Runner interface {
	Run(op reconcile.Op)
}

// Options configure a State.
type Options struct {
	Tags       tags.Options
	DeleteMode deletion.Mode // what a finished countdown does
	Scheduler  deletion.Scheduler
	Logger     *log.Logger

	// OnError is told about every failed op. Failures are also kept in Err.
	OnError func(kind reconcile.Kind, err error)
}

func DefaultOptions() Options {
	return Options{
		Tags:       tags.DefaultOptions(),
		DeleteMode: deletion.Hard,
	}
}

// State is not safe for concurrent use.
type State struct {
	opts   Options
	runner Runner
	rec    *reconcile.Reconciler
	graph  *reconcile.Graph
	logger *log.Logger

	priorityLevels []models.PriorityLevel
	colors         []models.ColorOption

	selectedList *models.TodoList
	selectedItem *models.TodoItem

	criteria filter.Criteria
	index    tags.Index
	visible  map[*models.TodoItem]bool

	countdown     *deletion.Countdown
	countdownItem *models.TodoItem

	pendingLists map[reconcile.Op]bool
	lastErr      error
}

// New returns an empty State. runner may be set later with SetRunner but
// must be in place before the first mutation.
func New(runner Runner, opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = &deletion.ManualScheduler{}
	}
	g := &reconcile.Graph{}
	s := &State{
		opts:         opts,
		runner:       runner,
		rec:          reconcile.New(g),
		graph:        g,
		logger:       logger,
		countdown:    deletion.NewCountdown(sched),
		visible:      map[*models.TodoItem]bool{},
		pendingLists: map[reconcile.Op]bool{},
	}
	s.refresh()
	return s
}

func (s *State) SetRunner(r Runner) { s.runner = r }

// Load replaces everything held with snap. Items the store reports as
// deleted are left out. The selection moves to the first list and any
// running countdown is stopped; filters are kept.
func (s *State) Load(snap *models.Snapshot) {
	s.StopDeleteCountdown()
	s.graph.Lists = nil
	s.priorityLevels = nil
	s.colors = nil
	if snap != nil {
		s.graph.Lists = snap.Lists
		s.priorityLevels = snap.PriorityLevels
		s.colors = snap.Colors
	}
	for _, l := range s.graph.Lists {
		live := make([]*models.TodoItem, 0, len(l.Items))
		for _, it := range l.Items {
			if it.IsDeleted {
				continue
			}
			it.ListID = l.ID
			live = append(live, it)
		}
		l.Items = live
	}
	if len(s.priorityLevels) == 0 {
		s.priorityLevels = models.DefaultPriorityLevels()
	}
	if len(s.colors) == 0 {
		s.colors = models.DefaultColors()
	}
	s.selectedItem = nil
	s.selectedList = nil
	if len(s.graph.Lists) > 0 {
		s.selectedList = s.graph.Lists[0]
	}
	s.lastErr = nil

	s.index = tags.Build(s.graph.Items(), s.opts.Tags)
	if s.criteria.Active() {
		// filters survive a reload
		s.applyFilter()
	} else {
		s.showAll()
	}
}

// Selection

func (s *State) SelectList(id int) bool {
	l := s.graph.List(id)
	if l == nil {
		return false
	}
	if l != s.selectedList {
		s.SelectItem(nil)
	}
	s.selectedList = l
	return true
}

// SelectItem changes the item under edit. Leaving an item stops its
// countdown.
func (s *State) SelectItem(item *models.TodoItem) {
	if item != s.selectedItem && s.countdownItem != nil {
		s.StopDeleteCountdown()
	}
	s.selectedItem = item
}

// Filters

func (s *State) FilterByTag(tag string) {
	s.criteria = filter.NewCriteria(tag, s.criteria.Search)
	s.refresh()
}

func (s *State) Search(term string) {
	s.criteria = filter.NewCriteria(s.criteria.Tag, term)
	s.refresh()
}

func (s *State) ClearFilters() {
	s.criteria = filter.Criteria{}
	s.refresh()
}

func (s *State) CurrentTag() string  { return s.criteria.Tag }
func (s *State) SearchTerm() string  { return s.criteria.Search }
func (s *State) FiltersActive() bool { return s.criteria.Active() }

// Lists

// AddList begins creating a list. The list appears, selected, once the
// store confirms it.
func (s *State) AddList(title string) error {
	op, err := s.rec.CreateList(title)
	if err != nil {
		return s.report(reconcile.CreateList, err)
	}
	s.pendingLists[op] = true
	s.run(op)
	return nil
}

func (s *State) RenameList(list *models.TodoList, title string) error {
	op, err := s.rec.UpdateList(list, title)
	if err != nil {
		return s.report(reconcile.UpdateList, err)
	}
	s.run(op)
	return nil
}

func (s *State) DeleteList(list *models.TodoList) error {
	op, err := s.rec.DeleteList(list)
	if err != nil {
		return s.report(reconcile.DeleteList, err)
	}
	s.run(op)
	return nil
}

// Items

// AddItem appends an empty draft to the selected list with the first
// priority level and color, selects it and returns it.
func (s *State) AddItem() *models.TodoItem {
	if s.selectedList == nil {
		return nil
	}
	var (
		priority models.Priority
		color    models.Color
	)
	if len(s.priorityLevels) > 0 {
		priority = s.priorityLevels[0].Value
	}
	if len(s.colors) > 0 {
		color = s.colors[0].Value
	}
	item := s.rec.Draft(s.selectedList, priority, color)
	s.SelectItem(item)
	s.refresh()
	return item
}

// CommitItem saves the quick fields of item. An unsaved item is created; a
// blank title discards the item.
func (s *State) CommitItem(item *models.TodoItem, fields models.QuickFields) error {
	if item == nil {
		return nil
	}
	var (
		op  reconcile.Op
		err error
	)
	kind := reconcile.UpdateItem
	if item.IsNew() {
		kind = reconcile.CreateItem
	}
	if item.IsNew() && !s.rec.Creating(item) {
		item.Title = fields.Title
		item.Done = fields.Done
		owner := s.graph.Owner(item)
		if owner == nil {
			owner = s.selectedList
		}
		op, err = s.rec.CreateItem(owner, item)
	} else {
		op, err = s.rec.UpdateQuick(item, fields)
	}
	if err != nil {
		s.refresh()
		return s.report(kind, err)
	}
	s.dropSelectionIfGone()
	s.refresh()
	s.run(op)
	return nil
}

// EditTitle commits a new title and keeps the done flag.
func (s *State) EditTitle(item *models.TodoItem, title string) error {
	if item == nil {
		return nil
	}
	return s.CommitItem(item, models.QuickFields{Title: title, Done: item.Done})
}

func (s *State) ToggleDone(item *models.TodoItem) error {
	if item == nil {
		return nil
	}
	return s.CommitItem(item, models.QuickFields{Title: item.Title, Done: !item.Done})
}

// SaveDetails sends the details editor fields. They are applied, and the
// item moved, only after the store accepts them.
func (s *State) SaveDetails(item *models.TodoItem, d models.ItemDetails) error {
	if item == nil {
		return nil
	}
	op, err := s.rec.UpdateDetails(item, d)
	if err != nil {
		return s.report(reconcile.UpdateItemDetails, err)
	}
	s.run(op)
	return nil
}

func (s *State) DeleteItem(item *models.TodoItem) {
	s.deleteItem(item, deletion.Hard)
}

func (s *State) SoftDeleteItem(item *models.TodoItem) {
	s.deleteItem(item, deletion.Soft)
}

func (s *State) deleteItem(item *models.TodoItem, mode deletion.Mode) {
	if item == nil {
		return
	}
	if item == s.countdownItem {
		s.StopDeleteCountdown()
	}
	op := s.rec.Delete(item, mode)
	s.dropSelectionIfGone()
	s.refresh()
	s.run(op)
}

// Countdown

// ToggleDeleteCountdown starts the countdown for item, or cancels it when
// one is already running. When it runs out item is deleted with the
// configured mode.
func (s *State) ToggleDeleteCountdown(item *models.TodoItem) (deletion.Handle, bool) {
	if item == nil {
		return deletion.Handle{}, false
	}
	if s.countdown.State() == deletion.Counting {
		s.StopDeleteCountdown()
		return deletion.Handle{}, false
	}
	s.countdownItem = item
	return s.countdown.Toggle(func() {
		target := s.countdownItem
		s.countdownItem = nil
		s.deleteItem(target, s.opts.DeleteMode)
	})
}

func (s *State) StopDeleteCountdown() {
	s.countdown.Stop()
	s.countdownItem = nil
}

func (s *State) CountdownState() deletion.State { return s.countdown.State() }
func (s *State) CountdownRemaining() int        { return s.countdown.Remaining() }

// CountdownItem returns the item a running countdown will delete.
func (s *State) CountdownItem() *models.TodoItem {
	if s.countdown.State() != deletion.Counting {
		return nil
	}
	return s.countdownItem
}

// Completion

// Complete applies the outcome of an op started by this State and runs any
// follow-up op it needs.
func (s *State) Complete(res reconcile.Result) {
	next, err := s.rec.Complete(res)
	if res.Op != nil && s.pendingLists[res.Op] {
		delete(s.pendingLists, res.Op)
		if err == nil && res.List != nil {
			s.selectedList = res.List
			s.SelectItem(nil)
		}
	}
	if err != nil && res.Op != nil {
		s.report(res.Op.Kind(), err)
	}
	s.afterStructuralChange()
	s.refresh()
	s.run(next)
}

// Err returns the last reported failure, if any.
func (s *State) Err() error { return s.lastErr }

func (s *State) ClearErr() { s.lastErr = nil }

// Reads

func (s *State) Lists() []*models.TodoList              { return s.graph.Lists }
func (s *State) SelectedList() *models.TodoList         { return s.selectedList }
func (s *State) SelectedItem() *models.TodoItem         { return s.selectedItem }
func (s *State) AllTags() []string                      { return s.index.All }
func (s *State) TopTags() []string                      { return s.index.Top }
func (s *State) TagIndex() tags.Index                   { return s.index }
func (s *State) PriorityLevels() []models.PriorityLevel { return s.priorityLevels }
func (s *State) Colors() []models.ColorOption           { return s.colors }

func (s *State) IsVisible(item *models.TodoItem) bool { return s.visible[item] }

func (s *State) FindList(id int) *models.TodoList { return s.graph.List(id) }
func (s *State) FindItem(id int) *models.TodoItem { return s.graph.Item(id) }

// VisibleItems returns the visible items of list in display order.
func (s *State) VisibleItems(list *models.TodoList) []*models.TodoItem {
	if list == nil {
		return nil
	}
	var out []*models.TodoItem
	for _, it := range list.Items {
		if s.visible[it] {
			out = append(out, it)
		}
	}
	return out
}

// RemainingItems counts the items of list that are neither done nor deleted.
func RemainingItems(list *models.TodoList) int {
	if list == nil {
		return 0
	}
	n := 0
	for _, it := range list.Items {
		if !it.Done && !it.IsDeleted {
			n++
		}
	}
	return n
}

// ColorName looks color up in the loaded table, falling back to the
// built-in names.
func (s *State) ColorName(c models.Color) string {
	for _, opt := range s.colors {
		if opt.Value == c {
			return strings.ToLower(opt.Name)
		}
	}
	return c.Name()
}

// PriorityName looks p up in the loaded table.
func (s *State) PriorityName(p models.Priority) string {
	for _, lvl := range s.priorityLevels {
		if lvl.Value == p {
			return lvl.Name
		}
	}
	return ""
}

// LookupPriority accepts a level name from the loaded table, in any case,
// or its number.
func (s *State) LookupPriority(v string) (models.Priority, error) {
	v = strings.TrimSpace(v)
	for _, lvl := range s.priorityLevels {
		if strings.EqualFold(lvl.Name, v) || strconv.Itoa(int(lvl.Value)) == v {
			return lvl.Value, nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", v)
}

func (s *State) LookupColor(v string) (models.Color, error) {
	v = strings.TrimSpace(v)
	for _, opt := range s.colors {
		if strings.EqualFold(opt.Name, v) || strconv.Itoa(int(opt.Value)) == v {
			return opt.Value, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", v)
}

func (s *State) run(op reconcile.Op) {
	if op == nil {
		return
	}
	if s.runner == nil {
		s.report(op.Kind(), errNoRunner)
		return
	}
	s.runner.Run(op)
}

func (s *State) report(kind reconcile.Kind, err error) error {
	s.lastErr = err
	s.logger.Printf("%s failed (%s): %v", kind, remote.KindOf(err), err)
	if s.opts.OnError != nil {
		s.opts.OnError(kind, err)
	}
	return err
}

// afterStructuralChange repairs the selection after lists or items went away.
func (s *State) afterStructuralChange() {
	if s.selectedList != nil && s.graph.List(s.selectedList.ID) != s.selectedList {
		s.selectedList = nil
		if len(s.graph.Lists) > 0 {
			s.selectedList = s.graph.Lists[0]
		}
	}
	if s.selectedList == nil && len(s.graph.Lists) > 0 {
		s.selectedList = s.graph.Lists[0]
	}
	s.dropSelectionIfGone()
	if s.countdownItem != nil && !s.graph.Contains(s.countdownItem) {
		s.StopDeleteCountdown()
	}
}

func (s *State) dropSelectionIfGone() {
	if s.selectedItem != nil && !s.graph.Contains(s.selectedItem) {
		s.selectedItem = nil
	}
}

// refresh rebuilds the tag index, then visibility.
func (s *State) refresh() {
	s.index = tags.Build(s.graph.Items(), s.opts.Tags)
	s.applyFilter()
}

func (s *State) showAll() {
	items := s.graph.Items()
	clear(s.visible)
	for i, v := range filter.AllVisible(items) {
		s.visible[items[i]] = v
	}
}

func (s *State) applyFilter() {
	items := s.graph.Items()
	clear(s.visible)
	for i, v := range filter.Apply(items, s.criteria) {
		s.visible[items[i]] = v
	}
}
