package reconcile

import "github.com/kutbudev/todolists/internal/models"

// Graph is the in-memory set of lists and their items.
type Graph struct {
	Lists []*models.TodoList
}

// List returns the list with id, or nil.
func (g *Graph) List(id int) *models.TodoList {
	for _, l := range g.Lists {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// Item returns the persisted item with id, or nil.
func (g *Graph) Item(id int) *models.TodoItem {
	if id == 0 {
		return nil
	}
	for _, l := range g.Lists {
		for _, it := range l.Items {
			if it.ID == id {
				return it
			}
		}
	}
	return nil
}

// Owner returns the list currently holding item.
func (g *Graph) Owner(item *models.TodoItem) *models.TodoList {
	for _, l := range g.Lists {
		for _, it := range l.Items {
			if it == item {
				return l
			}
		}
	}
	return nil
}

func (g *Graph) Contains(item *models.TodoItem) bool {
	return g.Owner(item) != nil
}

func (g *Graph) containsList(list *models.TodoList) bool {
	for _, l := range g.Lists {
		if l == list {
			return true
		}
	}
	return false
}

// Items returns every item of every list, in list then display order.
func (g *Graph) Items() []*models.TodoItem {
	var out []*models.TodoItem
	for _, l := range g.Lists {
		out = append(out, l.Items...)
	}
	return out
}

func (g *Graph) removeList(list *models.TodoList) {
	out := g.Lists[:0]
	for _, l := range g.Lists {
		if l != list {
			out = append(out, l)
		}
	}
	clear(g.Lists[len(out):])
	g.Lists = out
}

// removeItem drops item from whichever list holds it.
func (g *Graph) removeItem(item *models.TodoItem) bool {
	removed := false
	for _, l := range g.Lists {
		if removeFrom(l, item) {
			removed = true
		}
	}
	return removed
}

func removeFrom(list *models.TodoList, item *models.TodoItem) bool {
	out := list.Items[:0]
	for _, it := range list.Items {
		if it != item {
			out = append(out, it)
		}
	}
	removed := len(out) != len(list.Items)
	clear(list.Items[len(out):])
	list.Items = out
	return removed
}

func appendOnce(list *models.TodoList, item *models.TodoItem) {
	for _, it := range list.Items {
		if it == item {
			return
		}
	}
	list.Items = append(list.Items, item)
}
