package reconcile

import (
	"context"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/remote"
)

// Policy says when an op touches local state.
type Policy int

const (
	// Immediate ops are applied locally at Begin; the remote result only
	// confirms them.
	Immediate Policy = iota
	// ConfirmThenApply ops leave local state alone until the store accepts them.
	ConfirmThenApply
)

func (p Policy) String() string {
	if p == ConfirmThenApply {
		return "confirm-then-apply"
	}
	return "immediate"
}

type Kind int

const (
	CreateList Kind = iota
	UpdateList
	DeleteList
	CreateItem
	UpdateItem
	UpdateItemDetails
	SoftDeleteItem
	DeleteItem
)

var kindNames = [...]string{
	CreateList:        "create list",
	UpdateList:        "update list",
	DeleteList:        "delete list",
	CreateItem:        "create item",
	UpdateItem:        "update item",
	UpdateItemDetails: "update item details",
	SoftDeleteItem:    "soft delete item",
	DeleteItem:        "delete item",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Op is one pending remote mutation. Call only reads values captured when
// the op was begun, so it may run off the event loop; its Result must be
// handed back to Reconciler.Complete on the loop.
type Op interface {
	Kind() Kind
	Policy() Policy
	Call(ctx context.Context, r remote.Remote) Result
}

// Result is the outcome of Op.Call.
type Result struct {
	Op   Op
	ID   int // id assigned by the store for creates
	Err  error
	List *models.TodoList
	Item *models.TodoItem
}

type createListOp struct {
	list  *models.TodoList
	title string
}

func (o *createListOp) Kind() Kind     { return CreateList }
func (o *createListOp) Policy() Policy { return ConfirmThenApply }
func (o *createListOp) Call(ctx context.Context, r remote.Remote) Result {
	id, err := r.CreateList(ctx, o.title)
	return Result{Op: o, ID: id, Err: err, List: o.list}
}

type updateListOp struct {
	list  *models.TodoList
	id    int
	title string
}

func (o *updateListOp) Kind() Kind     { return UpdateList }
func (o *updateListOp) Policy() Policy { return ConfirmThenApply }
func (o *updateListOp) Call(ctx context.Context, r remote.Remote) Result {
	return Result{Op: o, Err: r.UpdateList(ctx, o.id, o.title), List: o.list}
}

type deleteListOp struct {
	list *models.TodoList
	id   int
}

func (o *deleteListOp) Kind() Kind     { return DeleteList }
func (o *deleteListOp) Policy() Policy { return ConfirmThenApply }
func (o *deleteListOp) Call(ctx context.Context, r remote.Remote) Result {
	return Result{Op: o, Err: r.DeleteList(ctx, o.id), List: o.list}
}

type createItemOp struct {
	item     *models.TodoItem
	listID   int
	title    string
	priority models.Priority
	color    models.Color
}

func (o *createItemOp) Kind() Kind     { return CreateItem }
func (o *createItemOp) Policy() Policy { return Immediate }
func (o *createItemOp) Call(ctx context.Context, r remote.Remote) Result {
	id, err := r.CreateItem(ctx, o.listID, o.title, o.priority, o.color)
	return Result{Op: o, ID: id, Err: err, Item: o.item}
}

type updateItemOp struct {
	item   *models.TodoItem
	id     int
	fields models.QuickFields
}

func (o *updateItemOp) Kind() Kind     { return UpdateItem }
func (o *updateItemOp) Policy() Policy { return Immediate }
func (o *updateItemOp) Call(ctx context.Context, r remote.Remote) Result {
	return Result{Op: o, Err: r.UpdateItem(ctx, o.id, o.fields.Title, o.fields.Done), Item: o.item}
}

type detailsOp struct {
	item    *models.TodoItem
	id      int
	details models.ItemDetails
}

func (o *detailsOp) Kind() Kind     { return UpdateItemDetails }
func (o *detailsOp) Policy() Policy { return ConfirmThenApply }
func (o *detailsOp) Call(ctx context.Context, r remote.Remote) Result {
	return Result{Op: o, Err: r.UpdateItemDetails(ctx, o.id, o.details), Item: o.item}
}

type deleteItemOp struct {
	item *models.TodoItem
	id   int
	soft bool
}

func (o *deleteItemOp) Kind() Kind {
	if o.soft {
		return SoftDeleteItem
	}
	return DeleteItem
}
func (o *deleteItemOp) Policy() Policy { return ConfirmThenApply }
func (o *deleteItemOp) Call(ctx context.Context, r remote.Remote) Result {
	var err error
	if o.soft {
		err = r.SoftDeleteItem(ctx, o.id)
	} else {
		err = r.DeleteItem(ctx, o.id)
	}
	return Result{Op: o, Err: err, Item: o.item}
}
