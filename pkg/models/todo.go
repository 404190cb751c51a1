package models

import (
	"time"

	domain "github.com/kutbudev/todolists/internal/models"
)

// TodoList is the todo_lists table.
type TodoList struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"not null;size:200"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	// One-to-Many Relations
	Items []*TodoItem `json:"items,omitempty" gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
}

// TodoItem is the todo_items table. Soft delete is the explicit is_deleted
// flag rather than gorm.DeletedAt, since deleted rows are still served.
type TodoItem struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	ListID    int       `json:"list_id" gorm:"not null;index:idx_todo_items_list"`
	Title     string    `json:"title" gorm:"not null;size:200"`
	Done      bool      `json:"done" gorm:"not null;default:false"`
	Priority  int       `json:"priority" gorm:"not null;default:0"`
	Color     int       `json:"color" gorm:"not null;default:0"`
	Tags      string    `json:"tags" gorm:"not null;default:''"`
	Note      *string   `json:"note,omitempty"`
	IsDeleted bool      `json:"is_deleted" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	// Foreign Key Relations
	List *TodoList `json:"list,omitempty" gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (TodoList) TableName() string { return "todo_lists" }
func (TodoItem) TableName() string { return "todo_items" }

// ToDomain converts a list row with its preloaded items.
func (l *TodoList) ToDomain() *domain.TodoList {
	out := &domain.TodoList{ID: l.ID, Title: l.Title, Items: make([]*domain.TodoItem, 0, len(l.Items))}
	for _, it := range l.Items {
		out.Items = append(out.Items, it.ToDomain())
	}
	return out
}

func (i *TodoItem) ToDomain() *domain.TodoItem {
	out := &domain.TodoItem{
		ID:        i.ID,
		ListID:    i.ListID,
		Title:     i.Title,
		Done:      i.Done,
		Priority:  domain.Priority(i.Priority),
		Color:     domain.Color(i.Color),
		Tags:      i.Tags,
		IsDeleted: i.IsDeleted,
	}
	if i.Note != nil {
		out.Note = *i.Note
	}
	return out
}

// ApplyDetails copies the details editor fields onto the row.
func (i *TodoItem) ApplyDetails(d domain.ItemDetails) {
	i.ListID = d.ListID
	i.Priority = int(d.Priority)
	i.Color = int(d.Color)
	i.Tags = d.Tags
	if d.Note == "" {
		i.Note = nil
	} else {
		note := d.Note
		i.Note = &note
	}
}
