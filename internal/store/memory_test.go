package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/remote"
)

func TestMemoryLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	home, err := m.CreateList(ctx, "Home")
	require.NoError(t, err)
	work, err := m.CreateList(ctx, "Work")
	require.NoError(t, err)

	a, err := m.CreateItem(ctx, home, "Pay rent", models.PriorityHigh, models.ColorRed)
	require.NoError(t, err)
	b, err := m.CreateItem(ctx, home, "Call mom", models.PriorityNone, models.ColorWhite)
	require.NoError(t, err)

	require.NoError(t, m.UpdateItem(ctx, a, "Pay rent today", true))
	require.NoError(t, m.UpdateItemDetails(ctx, b, models.ItemDetails{ListID: work, Tags: "family", Note: "Sunday"}))
	require.NoError(t, m.SoftDeleteItem(ctx, a))

	snap, err := m.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Lists, 2)
	assert.Len(t, snap.PriorityLevels, 4)
	assert.Len(t, snap.Colors, 6)

	require.Len(t, snap.Lists[0].Items, 1)
	got := snap.Lists[0].Items[0]
	assert.Equal(t, "Pay rent today", got.Title)
	assert.True(t, got.Done)
	assert.True(t, got.IsDeleted, "soft-deleted items are still served")

	require.Len(t, snap.Lists[1].Items, 1)
	assert.Equal(t, "family", snap.Lists[1].Items[0].Tags)
	assert.Equal(t, work, snap.Lists[1].Items[0].ListID)

	// snapshots are copies
	got.Title = "mutated"
	again, _ := m.LoadAll(ctx)
	assert.Equal(t, "Pay rent today", again.Lists[0].Items[0].Title)

	require.NoError(t, m.DeleteList(ctx, work))
	assert.True(t, errors.Is(m.DeleteItem(ctx, b), remote.ErrNotFound), "items go with their list")
}

func TestMemoryErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	list, _ := m.CreateList(ctx, "Home")
	item, _ := m.CreateItem(ctx, list, "x", models.PriorityNone, models.ColorWhite)

	tests := []struct {
		name      string
		call      func() error
		wantKind  remote.Kind
		wantField string
	}{
		{"blank list title", func() error { _, err := m.CreateList(ctx, "  "); return err }, remote.ValidationFailed, "Title"},
		{"long list title", func() error { _, err := m.CreateList(ctx, strings.Repeat("a", 201)); return err }, remote.ValidationFailed, "Title"},
		{"duplicate list title", func() error { _, err := m.CreateList(ctx, "home"); return err }, remote.ValidationFailed, "Title"},
		{"item in missing list", func() error {
			_, err := m.CreateItem(ctx, 99, "x", models.PriorityNone, models.ColorWhite)
			return err
		}, remote.NotFound, ""},
		{"bad color", func() error { _, err := m.CreateItem(ctx, list, "x", models.PriorityNone, 42); return err }, remote.ValidationFailed, "Color"},
		{"update missing item", func() error { return m.UpdateItem(ctx, 99, "x", false) }, remote.NotFound, ""},
		{"details to missing list", func() error {
			return m.UpdateItemDetails(ctx, item, models.ItemDetails{ListID: 99})
		}, remote.ValidationFailed, "ListId"},
		{"soft delete missing", func() error { return m.SoftDeleteItem(ctx, 99) }, remote.NotFound, ""},
		{"rename missing list", func() error { return m.UpdateList(ctx, 99, "x") }, remote.NotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			var re *remote.Error
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.wantKind, re.Kind)
			assert.Equal(t, tt.wantField, re.Field)
		})
	}
}
