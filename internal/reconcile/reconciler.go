// Package reconcile begins list and item mutations against the in-memory
// graph and applies the remote store's answers back onto it.
package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kutbudev/todolists/internal/deletion"
	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/remote"
)

var (
	ErrNotPersisted = errors.New("item has not been saved yet")
	ErrUnknownList  = errors.New("list is not loaded")
)

// Reconciler is not safe for concurrent use.
type Reconciler struct {
	g *Graph

	// creates sent to the store whose id has not arrived yet
	creating map[*models.TodoItem]bool
	// drafts the user threw away while their create was in flight
	discarded map[*models.TodoItem]bool
}

func New(g *Graph) *Reconciler {
	return &Reconciler{
		g:         g,
		creating:  map[*models.TodoItem]bool{},
		discarded: map[*models.TodoItem]bool{},
	}
}

func (r *Reconciler) Graph() *Graph { return r.g }

// Creating reports whether item has a create in flight.
func (r *Reconciler) Creating(item *models.TodoItem) bool {
	return r.creating[item]
}

// CreateList validates title and begins a list create. The list is added
// to the graph only once the store returns its id.
func (r *Reconciler) CreateList(title string) (Op, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, remote.Validation(CreateList.String(), "Title", "Title is required.")
	}
	return &createListOp{list: &models.TodoList{Title: title}, title: title}, nil
}

func (r *Reconciler) UpdateList(list *models.TodoList, title string) (Op, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, remote.Validation(UpdateList.String(), "Title", "Title is required.")
	}
	if list == nil || list.ID == 0 {
		return nil, ErrUnknownList
	}
	return &updateListOp{list: list, id: list.ID, title: title}, nil
}

func (r *Reconciler) DeleteList(list *models.TodoList) (Op, error) {
	if list == nil || list.ID == 0 {
		return nil, ErrUnknownList
	}
	return &deleteListOp{list: list, id: list.ID}, nil
}

// Draft appends a new, unsaved item to list.
func (r *Reconciler) Draft(list *models.TodoList, priority models.Priority, color models.Color) *models.TodoItem {
	item := &models.TodoItem{ListID: list.ID, Priority: priority, Color: color}
	list.Items = append(list.Items, item)
	return item
}

// CreateItem appends draft to list right away and begins its create. A
// draft with a blank title is discarded instead and no op is returned.
func (r *Reconciler) CreateItem(list *models.TodoList, draft *models.TodoItem) (Op, error) {
	if list == nil || !r.g.containsList(list) {
		return nil, ErrUnknownList
	}
	if strings.TrimSpace(draft.Title) == "" {
		r.discard(draft)
		return nil, nil
	}
	if r.creating[draft] {
		return nil, nil
	}
	draft.ListID = list.ID
	appendOnce(list, draft)
	r.creating[draft] = true
	return &createItemOp{
		item:     draft,
		listID:   list.ID,
		title:    draft.Title,
		priority: draft.Priority,
		color:    draft.Color,
	}, nil
}

// UpdateQuick applies title and done to item at once and begins the update.
// A blank title is taken as a request to discard the item and is routed to
// a hard delete.
func (r *Reconciler) UpdateQuick(item *models.TodoItem, fields models.QuickFields) (Op, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return r.Delete(item, deletion.Hard), nil
	}
	item.Title = fields.Title
	item.Done = fields.Done
	if item.IsNew() {
		if r.creating[item] {
			// flushed by Complete once the id is known
			return nil, nil
		}
		return r.CreateItem(r.g.Owner(item), item)
	}
	return &updateItemOp{item: item, id: item.ID, fields: fields}, nil
}

// UpdateDetails begins a details update. Nothing changes locally until the
// store accepts it.
func (r *Reconciler) UpdateDetails(item *models.TodoItem, details models.ItemDetails) (Op, error) {
	if item.IsNew() {
		return nil, ErrNotPersisted
	}
	if r.g.List(details.ListID) == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownList, details.ListID)
	}
	return &detailsOp{item: item, id: item.ID, details: details}, nil
}

// Delete removes an unsaved item at once. For a saved item it returns the
// soft or hard delete op; local state changes only on confirmation.
func (r *Reconciler) Delete(item *models.TodoItem, mode deletion.Mode) Op {
	switch deletion.Decide(item, mode) {
	case deletion.RemoveLocal:
		r.discard(item)
		return nil
	case deletion.RemoteSoft:
		return &deleteItemOp{item: item, id: item.ID, soft: true}
	default:
		return &deleteItemOp{item: item, id: item.ID}
	}
}

// Complete applies res to the graph. It returns a follow-up op when the
// store must be told about local changes made while res was in flight.
func (r *Reconciler) Complete(res Result) (Op, error) {
	switch op := res.Op.(type) {
	case *createListOp:
		if res.Err != nil {
			return nil, res.Err
		}
		op.list.ID = res.ID
		r.g.Lists = append(r.g.Lists, op.list)

	case *updateListOp:
		if res.Err != nil {
			r.dropStaleList(op.list, res.Err)
			return nil, res.Err
		}
		op.list.Title = op.title

	case *deleteListOp:
		if res.Err != nil {
			r.dropStaleList(op.list, res.Err)
			return nil, res.Err
		}
		r.g.removeList(op.list)

	case *createItemOp:
		return r.completeCreate(op, res)

	case *updateItemOp:
		if res.Err != nil {
			// no rollback: the local edit stays and the failure is reported
			r.dropStaleItem(op.item, res.Err)
			return nil, res.Err
		}

	case *detailsOp:
		if res.Err != nil {
			r.dropStaleItem(op.item, res.Err)
			return nil, res.Err
		}
		item := r.live(op.item, op.id)
		if item == nil {
			// deleted, or reloaded without it, while the update was in flight
			return nil, nil
		}
		return nil, r.applyDetails(item, op.details)

	case *deleteItemOp:
		if res.Err != nil {
			r.dropStaleItem(op.item, res.Err)
			return nil, res.Err
		}
		item := r.live(op.item, op.id)
		if item == nil {
			return nil, nil
		}
		if op.soft {
			item.IsDeleted = true
		} else {
			r.g.removeItem(item)
		}
	}
	return nil, nil
}

func (r *Reconciler) completeCreate(op *createItemOp, res Result) (Op, error) {
	item := op.item
	discarded := r.discarded[item]
	delete(r.creating, item)
	delete(r.discarded, item)
	if res.Err != nil {
		switch remote.KindOf(res.Err) {
		case remote.ValidationFailed, remote.NotFound:
			r.g.removeItem(item)
		}
		return nil, res.Err
	}

	item.ID = res.ID
	if discarded {
		return &deleteItemOp{item: item, id: item.ID}, nil
	}
	if !r.g.Contains(item) {
		return r.adoptCreated(op, item), nil
	}
	if item.Title != op.title || item.Done {
		return &updateItemOp{item: item, id: item.ID, fields: models.QuickFields{Title: item.Title, Done: item.Done}}, nil
	}
	return nil, nil
}

// adoptCreated handles a create that finished after the graph was reloaded.
// The user's latest title and done flag win over whatever copy is held.
func (r *Reconciler) adoptCreated(op *createItemOp, item *models.TodoItem) Op {
	if loaded := r.g.Item(item.ID); loaded != nil {
		if loaded.Title == item.Title && loaded.Done == item.Done {
			return nil
		}
		loaded.Title = item.Title
		loaded.Done = item.Done
		return &updateItemOp{item: loaded, id: loaded.ID, fields: models.QuickFields{Title: loaded.Title, Done: loaded.Done}}
	}
	list := r.g.List(op.listID)
	if list == nil {
		return nil
	}
	item.ListID = list.ID
	appendOnce(list, item)
	if item.Title != op.title || item.Done {
		return &updateItemOp{item: item, id: item.ID, fields: models.QuickFields{Title: item.Title, Done: item.Done}}
	}
	return nil
}

func (r *Reconciler) applyDetails(item *models.TodoItem, d models.ItemDetails) error {
	if item.ListID != d.ListID {
		if err := r.move(item, d.ListID); err != nil {
			return err
		}
	}
	item.Priority = d.Priority
	item.Color = d.Color
	item.Tags = d.Tags
	item.Note = d.Note
	return nil
}

// discard drops an unsaved item locally. A create already in flight is
// remembered so its id can be deleted once it arrives.
func (r *Reconciler) discard(item *models.TodoItem) {
	r.g.removeItem(item)
	if r.creating[item] {
		r.discarded[item] = true
	}
}

// live returns the held copy of an item an op was begun for: item itself
// while it is in the graph, otherwise the item a reload brought in with the
// same id. It returns nil when neither is held.
func (r *Reconciler) live(item *models.TodoItem, id int) *models.TodoItem {
	if r.g.Contains(item) {
		return item
	}
	return r.g.Item(id)
}

// move detaches item from its list and appends it to the target, once. The
// item stays where it is when the target list is no longer held.
func (r *Reconciler) move(item *models.TodoItem, listID int) error {
	target := r.g.List(listID)
	if target == nil {
		return fmt.Errorf("move item %d: %w: %d", item.ID, ErrUnknownList, listID)
	}
	r.g.removeItem(item)
	item.ListID = listID
	appendOnce(target, item)
	return nil
}

func (r *Reconciler) dropStaleItem(item *models.TodoItem, err error) {
	if remote.KindOf(err) != remote.NotFound {
		return
	}
	if held := r.live(item, item.ID); held != nil {
		r.g.removeItem(held)
	}
}

func (r *Reconciler) dropStaleList(list *models.TodoList, err error) {
	if remote.KindOf(err) == remote.NotFound {
		r.g.removeList(list)
	}
}
