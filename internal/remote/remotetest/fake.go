// Package remotetest provides an in-memory remote.Remote that records calls
// and can be told to fail.
package remotetest

import (
	"context"
	"fmt"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/remote"
)

// Call is one recorded invocation.
type Call struct {
	Op     string
	ID     int
	ListID int
	Title  string
}

// Fake assigns ids from NextID and stores nothing beyond the call log.
type Fake struct {
	Snapshot *models.Snapshot
	NextID   int
	Calls    []Call

	// Fail maps an op name ("CreateItem", "DeleteItem", ...) to the error it returns.
	Fail map[string]error
}

func New() *Fake {
	return &Fake{NextID: 100, Fail: map[string]error{}, Snapshot: &models.Snapshot{}}
}

// FailWith makes op return err until cleared with FailWith(op, nil).
func (f *Fake) FailWith(op string, err error) {
	if err == nil {
		delete(f.Fail, op)
		return
	}
	f.Fail[op] = err
}

// Count returns how many times op was called.
func (f *Fake) Count(op string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *Fake) record(c Call) error {
	f.Calls = append(f.Calls, c)
	return f.Fail[c.Op]
}

func (f *Fake) newID() int {
	f.NextID++
	return f.NextID
}

func (f *Fake) LoadAll(ctx context.Context) (*models.Snapshot, error) {
	if err := f.record(Call{Op: "LoadAll"}); err != nil {
		return nil, err
	}
	if f.Snapshot == nil {
		return nil, fmt.Errorf("no snapshot")
	}
	return f.Snapshot, nil
}

func (f *Fake) CreateList(ctx context.Context, title string) (int, error) {
	if err := f.record(Call{Op: "CreateList", Title: title}); err != nil {
		return 0, err
	}
	return f.newID(), nil
}

func (f *Fake) UpdateList(ctx context.Context, id int, title string) error {
	return f.record(Call{Op: "UpdateList", ID: id, Title: title})
}

func (f *Fake) DeleteList(ctx context.Context, id int) error {
	return f.record(Call{Op: "DeleteList", ID: id})
}

func (f *Fake) CreateItem(ctx context.Context, listID int, title string, _ models.Priority, _ models.Color) (int, error) {
	if err := f.record(Call{Op: "CreateItem", ListID: listID, Title: title}); err != nil {
		return 0, err
	}
	return f.newID(), nil
}

func (f *Fake) UpdateItem(ctx context.Context, id int, title string, _ bool) error {
	return f.record(Call{Op: "UpdateItem", ID: id, Title: title})
}

func (f *Fake) UpdateItemDetails(ctx context.Context, id int, d models.ItemDetails) error {
	return f.record(Call{Op: "UpdateItemDetails", ID: id, ListID: d.ListID})
}

func (f *Fake) SoftDeleteItem(ctx context.Context, id int) error {
	return f.record(Call{Op: "SoftDeleteItem", ID: id})
}

func (f *Fake) DeleteItem(ctx context.Context, id int) error {
	return f.record(Call{Op: "DeleteItem", ID: id})
}

var _ remote.Remote = (*Fake)(nil)
