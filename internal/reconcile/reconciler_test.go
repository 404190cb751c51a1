package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/kutbudev/todolists/internal/deletion"
	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/remote"
	"github.com/kutbudev/todolists/internal/remote/remotetest"
)

func fixture() (*Graph, *models.TodoList, *models.TodoList) {
	a := &models.TodoList{ID: 1, Title: "A"}
	b := &models.TodoList{ID: 2, Title: "B"}
	a.Items = []*models.TodoItem{
		{ID: 5, ListID: 1, Title: "move me", Tags: "work"},
		{ID: 7, ListID: 1, Title: "keep me"},
	}
	b.Items = []*models.TodoItem{{ID: 9, ListID: 2, Title: "other"}}
	return &Graph{Lists: []*models.TodoList{a, b}}, a, b
}

func run(t *testing.T, r *Reconciler, f *remotetest.Fake, op Op) error {
	t.Helper()
	for op != nil {
		res := op.Call(context.Background(), f)
		next, err := r.Complete(res)
		if err != nil {
			return err
		}
		op = next
	}
	return nil
}

func count(list *models.TodoList, item *models.TodoItem) int {
	n := 0
	for _, it := range list.Items {
		if it == item {
			n++
		}
	}
	return n
}

func TestUpdateDetailsMovesAfterSuccessOnly(t *testing.T) {
	g, a, b := fixture()
	r := New(g)
	f := remotetest.New()
	item := g.Item(5)

	op, err := r.UpdateDetails(item, models.ItemDetails{ListID: 2, Priority: models.PriorityHigh, Tags: "moved"})
	if err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}
	if op.Policy() != ConfirmThenApply {
		t.Errorf("Policy() = %v, want confirm-then-apply", op.Policy())
	}

	// Begun but not confirmed: nothing moved yet.
	if count(a, item) != 1 || count(b, item) != 0 || item.ListID != 1 || item.Tags != "work" {
		t.Fatalf("details applied before confirmation: A=%d B=%d listId=%d tags=%q",
			count(a, item), count(b, item), item.ListID, item.Tags)
	}

	if err := run(t, r, f, op); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if count(a, item) != 0 || count(b, item) != 1 {
		t.Errorf("after move: A has %d, B has %d, want 0 and 1", count(a, item), count(b, item))
	}
	if b.Items[len(b.Items)-1] != item {
		t.Error("moved item should be appended to the end of B")
	}
	if item.ListID != 2 || item.Priority != models.PriorityHigh || item.Tags != "moved" {
		t.Errorf("fields not applied: %+v", item)
	}
}

func TestUpdateDetailsFailureMutatesNothing(t *testing.T) {
	g, a, b := fixture()
	r := New(g)
	f := remotetest.New()
	f.FailWith("UpdateItemDetails", &remote.Error{Kind: remote.TransientNetworkFailure, Message: "timeout"})
	item := g.Item(5)

	op, _ := r.UpdateDetails(item, models.ItemDetails{ListID: 2, Tags: "moved"})
	if err := run(t, r, f, op); err == nil {
		t.Fatal("expected error from failed details update")
	}
	if count(a, item) != 1 || count(b, item) != 0 || item.Tags != "work" {
		t.Errorf("failed update changed local state: %+v", item)
	}
}

func TestUpdateDetailsRejectsUnsavedAndUnknownList(t *testing.T) {
	g, a, _ := fixture()
	r := New(g)

	draft := r.Draft(a, models.PriorityNone, models.ColorWhite)
	if _, err := r.UpdateDetails(draft, models.ItemDetails{ListID: 1}); !errors.Is(err, ErrNotPersisted) {
		t.Errorf("UpdateDetails(draft) error = %v, want ErrNotPersisted", err)
	}
	if _, err := r.UpdateDetails(g.Item(5), models.ItemDetails{ListID: 42}); !errors.Is(err, ErrUnknownList) {
		t.Errorf("UpdateDetails(unknown list) error = %v, want ErrUnknownList", err)
	}
}

func TestCreateItemBlankTitleMakesNoCall(t *testing.T) {
	g, a, _ := fixture()
	r := New(g)
	before := len(a.Items)

	draft := r.Draft(a, models.PriorityNone, models.ColorWhite)
	op, err := r.CreateItem(a, draft)
	if err != nil || op != nil {
		t.Fatalf("CreateItem(blank) = %v, %v; want nil op and nil error", op, err)
	}
	if len(a.Items) != before {
		t.Errorf("blank draft left in list: %d items, want %d", len(a.Items), before)
	}
	for _, it := range a.Items {
		if it.ID == 0 {
			t.Errorf("unsaved item remains: %+v", it)
		}
	}
}

func TestCreateItemAssignsID(t *testing.T) {
	g, a, _ := fixture()
	r := New(g)
	f := remotetest.New()

	draft := &models.TodoItem{Title: "buy milk"}
	op, err := r.CreateItem(a, draft)
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if op.Policy() != Immediate || count(a, draft) != 1 {
		t.Fatalf("draft not appended optimistically")
	}
	if err := run(t, r, f, op); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if draft.ID != 101 || draft.ListID != 1 {
		t.Errorf("draft = %+v, want id 101 in list 1", draft)
	}
	if f.Count("UpdateItem") != 0 {
		t.Error("no follow-up update expected")
	}
}

func TestCreateItemFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKept bool
	}{
		{"transient keeps draft", &remote.Error{Kind: remote.TransientNetworkFailure, Message: "offline"}, true},
		{"validation drops draft", remote.Validation("create item", "Title", "too long"), false},
		{"missing list drops draft", remote.Missing("create item", "TodoList", 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, a, _ := fixture()
			r := New(g)
			f := remotetest.New()
			f.FailWith("CreateItem", tt.err)

			draft := &models.TodoItem{Title: "x"}
			op, _ := r.CreateItem(a, draft)
			if err := run(t, r, f, op); err == nil {
				t.Fatal("expected error")
			}
			if kept := count(a, draft) == 1; kept != tt.wantKept {
				t.Errorf("draft kept = %v, want %v", kept, tt.wantKept)
			}
			if draft.ID != 0 {
				t.Errorf("failed create assigned id %d", draft.ID)
			}
			if r.Creating(draft) {
				t.Error("draft still marked as creating")
			}
		})
	}
}

func TestEditWhileCreateInFlight(t *testing.T) {
	g, a, _ := fixture()
	r := New(g)
	f := remotetest.New()

	draft := &models.TodoItem{Title: "first"}
	op, _ := r.CreateItem(a, draft)
	res := op.Call(context.Background(), f)

	// Edited before the id arrived: applied locally, no call with id 0.
	next, err := r.UpdateQuick(draft, models.QuickFields{Title: "second", Done: true})
	if err != nil || next != nil {
		t.Fatalf("UpdateQuick during create = %v, %v; want nil, nil", next, err)
	}

	follow, err := r.Complete(res)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if follow == nil || follow.Kind() != UpdateItem {
		t.Fatalf("follow-up = %v, want update item", follow)
	}
	if err := run(t, r, f, follow); err != nil {
		t.Fatal(err)
	}
	last := f.Calls[len(f.Calls)-1]
	if last.Op != "UpdateItem" || last.ID != draft.ID || last.Title != "second" {
		t.Errorf("last call = %+v, want UpdateItem of %d titled second", last, draft.ID)
	}
	for _, c := range f.Calls {
		if c.Op != "CreateItem" && c.ID == 0 {
			t.Errorf("call referenced id 0: %+v", c)
		}
	}
}

func TestDiscardWhileCreateInFlight(t *testing.T) {
	g, a, _ := fixture()
	r := New(g)
	f := remotetest.New()

	draft := &models.TodoItem{Title: "oops"}
	op, _ := r.CreateItem(a, draft)
	res := op.Call(context.Background(), f)

	if del := r.Delete(draft, deletion.Hard); del != nil {
		t.Fatalf("Delete(unsaved) returned op %v", del)
	}
	follow, _ := r.Complete(res)
	if follow == nil || follow.Kind() != DeleteItem {
		t.Fatalf("follow-up = %v, want delete item", follow)
	}
	if err := run(t, r, f, follow); err != nil {
		t.Fatal(err)
	}
	if f.Count("DeleteItem") != 1 || count(a, draft) != 0 {
		t.Errorf("discarded draft not cleaned up remotely")
	}
}

func TestUpdateQuickWhitespaceTitleDeletes(t *testing.T) {
	g, a, _ := fixture()
	r := New(g)
	f := remotetest.New()
	item := g.Item(7)

	op, err := r.UpdateQuick(item, models.QuickFields{Title: "   "})
	if err != nil {
		t.Fatalf("UpdateQuick() error = %v", err)
	}
	if op == nil || op.Kind() != DeleteItem {
		t.Fatalf("op = %v, want delete item", op)
	}
	if item.Title != "keep me" {
		t.Errorf("whitespace title applied locally: %q", item.Title)
	}
	if err := run(t, r, f, op); err != nil {
		t.Fatal(err)
	}
	if f.Count("UpdateItem") != 0 || f.Count("DeleteItem") != 1 {
		t.Errorf("calls = %+v, want a single DeleteItem", f.Calls)
	}
	if count(a, item) != 0 {
		t.Error("item still in list after delete")
	}
}

func TestUpdateQuickAppliesImmediatelyAndKeepsOnFailure(t *testing.T) {
	g, _, _ := fixture()
	r := New(g)
	f := remotetest.New()
	f.FailWith("UpdateItem", errors.New("connection reset"))
	item := g.Item(7)

	op, _ := r.UpdateQuick(item, models.QuickFields{Title: "renamed", Done: true})
	if item.Title != "renamed" || !item.Done {
		t.Fatal("quick fields not applied immediately")
	}
	if err := run(t, r, f, op); err == nil {
		t.Fatal("expected reported failure")
	}
	if item.Title != "renamed" || !item.Done {
		t.Error("quick fields rolled back on failure")
	}
}

func TestDeleteWaitsForConfirmation(t *testing.T) {
	tests := []struct {
		name string
		mode deletion.Mode
		fail error
	}{
		{"hard ok", deletion.Hard, nil},
		{"hard fails", deletion.Hard, errors.New("boom")},
		{"soft ok", deletion.Soft, nil},
		{"soft fails", deletion.Soft, errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, a, _ := fixture()
			r := New(g)
			f := remotetest.New()
			item := g.Item(7)
			f.FailWith("DeleteItem", tt.fail)
			f.FailWith("SoftDeleteItem", tt.fail)

			op := r.Delete(item, tt.mode)
			if count(a, item) != 1 || item.IsDeleted {
				t.Fatal("delete applied before confirmation")
			}
			err := run(t, r, f, op)

			switch {
			case tt.fail != nil:
				if err == nil || count(a, item) != 1 || item.IsDeleted {
					t.Errorf("failed delete mutated state: err=%v in list=%d deleted=%v", err, count(a, item), item.IsDeleted)
				}
			case tt.mode == deletion.Soft:
				if count(a, item) != 1 || !item.IsDeleted {
					t.Errorf("soft delete: in list=%d deleted=%v, want kept and flagged", count(a, item), item.IsDeleted)
				}
			default:
				if count(a, item) != 0 {
					t.Error("hard delete left item in list")
				}
			}
		})
	}
}

func TestNotFoundDropsStaleItem(t *testing.T) {
	g, a, _ := fixture()
	r := New(g)
	f := remotetest.New()
	f.FailWith("UpdateItem", remote.Missing("update item", "TodoItem", 7))
	item := g.Item(7)

	op, _ := r.UpdateQuick(item, models.QuickFields{Title: "x"})
	if err := run(t, r, f, op); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if count(a, item) != 0 {
		t.Error("stale item not removed")
	}
}

func TestListLifecycle(t *testing.T) {
	g, _, b := fixture()
	r := New(g)
	f := remotetest.New()

	if _, err := r.CreateList("  "); remote.KindOf(err) != remote.ValidationFailed {
		t.Fatalf("CreateList(blank) error = %v, want validation", err)
	}
	if len(f.Calls) != 0 {
		t.Fatal("blank list title reached the store")
	}

	op, err := r.CreateList("Groceries")
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Lists) != 2 {
		t.Fatal("list added before confirmation")
	}
	if err := run(t, r, f, op); err != nil {
		t.Fatal(err)
	}
	created := g.Lists[len(g.Lists)-1]
	if created.ID != 101 || created.Title != "Groceries" {
		t.Errorf("created list = %+v", created)
	}

	op, _ = r.UpdateList(b, "Renamed")
	if b.Title != "B" {
		t.Error("rename applied before confirmation")
	}
	if err := run(t, r, f, op); err != nil || b.Title != "Renamed" {
		t.Errorf("rename: err=%v title=%q", err, b.Title)
	}

	op, _ = r.DeleteList(b)
	if err := run(t, r, f, op); err != nil {
		t.Fatal(err)
	}
	if g.List(2) != nil {
		t.Error("deleted list still held")
	}
}

func TestCreateCompletesAfterGraphReplaced(t *testing.T) {
	tests := []struct {
		name       string
		editTo     string
		wantFollow bool
	}{
		{name: "unchanged draft"},
		{name: "edited before the reload", editTo: "second", wantFollow: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, a, _ := fixture()
			r := New(g)
			f := remotetest.New()

			draft := &models.TodoItem{Title: "first"}
			op, _ := r.CreateItem(a, draft)
			res := op.Call(context.Background(), f)
			if tt.editTo != "" {
				if _, err := r.UpdateQuick(draft, models.QuickFields{Title: tt.editTo}); err != nil {
					t.Fatal(err)
				}
			}

			fresh, _, _ := fixture()
			g.Lists = fresh.Lists
			follow, err := r.Complete(res)
			if err != nil {
				t.Fatalf("Complete() error = %v", err)
			}
			if (follow != nil) != tt.wantFollow {
				t.Fatalf("follow-up = %v, want one: %v", follow, tt.wantFollow)
			}
			if follow != nil && follow.Kind() != UpdateItem {
				t.Errorf("follow-up kind = %v, want update item", follow.Kind())
			}
			if err := run(t, r, f, follow); err != nil {
				t.Fatal(err)
			}
			if f.Count("DeleteItem") != 0 {
				t.Errorf("created item was deleted remotely: %+v", f.Calls)
			}
			if got := g.Item(draft.ID); got != draft || g.Owner(draft).ID != 1 {
				t.Errorf("created item not held in list 1 after the reload")
			}
		})
	}
}

func TestDetailsConfirmedAfterHardDelete(t *testing.T) {
	g, _, b := fixture()
	r := New(g)
	f := remotetest.New()
	item := g.Item(5)

	details, _ := r.UpdateDetails(item, models.ItemDetails{ListID: 2, Tags: "moved"})
	res := details.Call(context.Background(), f)
	if err := run(t, r, f, r.Delete(item, deletion.Hard)); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Complete(res); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if g.Item(5) != nil || count(b, item) != 0 {
		t.Error("hard-deleted item reappeared after the details confirmation")
	}
}

func TestMoveTargetDeletedInFlight(t *testing.T) {
	g, a, b := fixture()
	r := New(g)
	f := remotetest.New()
	item := g.Item(5)

	details, _ := r.UpdateDetails(item, models.ItemDetails{ListID: 2, Tags: "moved"})
	res := details.Call(context.Background(), f)
	del, _ := r.DeleteList(b)
	if err := run(t, r, f, del); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Complete(res); !errors.Is(err, ErrUnknownList) {
		t.Fatalf("Complete() error = %v, want ErrUnknownList", err)
	}
	if count(a, item) != 1 || item.ListID != 1 || item.Tags != "work" {
		t.Errorf("item lost or changed: in A=%d %+v", count(a, item), item)
	}
}
