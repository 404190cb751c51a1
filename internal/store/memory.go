package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/remote"
)

// Memory is a Store held in process memory. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	nextID int
	lists  map[int]*models.TodoList
	items  map[int]*models.TodoItem
}

func NewMemory() *Memory {
	return &Memory{lists: map[int]*models.TodoList{}, items: map[int]*models.TodoItem{}}
}

func (m *Memory) id() int {
	m.nextID++
	return m.nextID
}

func (m *Memory) Health(context.Context) error { return nil }

// LoadAll returns copies of every list and item, deleted items included,
// ordered by id.
func (m *Memory) LoadAll(context.Context) (*models.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &models.Snapshot{
		Lists:          make([]*models.TodoList, 0, len(m.lists)),
		PriorityLevels: models.DefaultPriorityLevels(),
		Colors:         models.DefaultColors(),
	}
	byList := map[int]*models.TodoList{}
	for _, l := range m.lists {
		cp := &models.TodoList{ID: l.ID, Title: l.Title, Items: []*models.TodoItem{}}
		byList[l.ID] = cp
		snap.Lists = append(snap.Lists, cp)
	}
	sort.Slice(snap.Lists, func(i, j int) bool { return snap.Lists[i].ID < snap.Lists[j].ID })

	ids := make([]int, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		it := *m.items[id]
		if l := byList[it.ListID]; l != nil {
			l.Items = append(l.Items, &it)
		}
	}
	return snap, nil
}

func (m *Memory) CreateList(_ context.Context, title string) (int, error) {
	const op = "create list"
	if err := validateTitle(op, title); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.titleTaken(title, 0) {
		return 0, duplicateTitle(op)
	}
	l := &models.TodoList{ID: m.id(), Title: title}
	m.lists[l.ID] = l
	return l.ID, nil
}

func (m *Memory) UpdateList(_ context.Context, id int, title string) error {
	const op = "update list"
	if err := validateTitle(op, title); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return remote.Missing(op, "TodoList", id)
	}
	if m.titleTaken(title, id) {
		return duplicateTitle(op)
	}
	l.Title = title
	return nil
}

// DeleteList removes the list and all of its items.
func (m *Memory) DeleteList(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[id]; !ok {
		return remote.Missing("delete list", "TodoList", id)
	}
	delete(m.lists, id)
	for itemID, it := range m.items {
		if it.ListID == id {
			delete(m.items, itemID)
		}
	}
	return nil
}

func (m *Memory) titleTaken(title string, except int) bool {
	for _, l := range m.lists {
		if l.ID != except && strings.EqualFold(l.Title, title) {
			return true
		}
	}
	return false
}

func (m *Memory) CreateItem(_ context.Context, listID int, title string, priority models.Priority, color models.Color) (int, error) {
	const op = "create item"
	if err := validateTitle(op, title); err != nil {
		return 0, err
	}
	if err := validateLookups(op, priority, color); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[listID]; !ok {
		return 0, remote.Missing(op, "TodoList", listID)
	}
	it := &models.TodoItem{ID: m.id(), ListID: listID, Title: title, Priority: priority, Color: color}
	m.items[it.ID] = it
	return it.ID, nil
}

func (m *Memory) UpdateItem(_ context.Context, id int, title string, done bool) error {
	const op = "update item"
	if err := validateTitle(op, title); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return remote.Missing(op, "TodoItem", id)
	}
	it.Title = title
	it.Done = done
	return nil
}

func (m *Memory) UpdateItemDetails(_ context.Context, id int, d models.ItemDetails) error {
	const op = "update item details"
	if err := validateLookups(op, d.Priority, d.Color); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return remote.Missing(op, "TodoItem", id)
	}
	if _, ok := m.lists[d.ListID]; !ok {
		return unknownList(op)
	}
	it.ListID = d.ListID
	it.Priority = d.Priority
	it.Color = d.Color
	it.Tags = d.Tags
	it.Note = d.Note
	return nil
}

func (m *Memory) SoftDeleteItem(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return remote.Missing("soft delete item", "TodoItem", id)
	}
	it.IsDeleted = true
	return nil
}

func (m *Memory) DeleteItem(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return remote.Missing("delete item", "TodoItem", id)
	}
	delete(m.items, id)
	return nil
}

var _ Store = (*Memory)(nil)
