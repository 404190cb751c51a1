package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/remote"
	"github.com/kutbudev/todolists/pkg/repository"

	rows "github.com/kutbudev/todolists/pkg/models"
)

// Gorm is a Store backed by a gorm database, postgres in production.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Health(context.Context) error {
	return repository.Health(g.db)
}

// storeErr wraps a database failure the client may retry.
func storeErr(op string, err error) error {
	return &remote.Error{Kind: remote.TransientNetworkFailure, Op: op, Err: err}
}

func (g *Gorm) LoadAll(ctx context.Context) (*models.Snapshot, error) {
	var lists []*rows.TodoList
	err := g.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("id").
		Find(&lists).Error
	if err != nil {
		return nil, storeErr("load", fmt.Errorf("failed to retrieve lists: %w", err))
	}

	snap := &models.Snapshot{
		Lists:          make([]*models.TodoList, 0, len(lists)),
		PriorityLevels: models.DefaultPriorityLevels(),
		Colors:         models.DefaultColors(),
	}
	for _, l := range lists {
		snap.Lists = append(snap.Lists, l.ToDomain())
	}
	return snap, nil
}

func (g *Gorm) CreateList(ctx context.Context, title string) (int, error) {
	const op = "create list"
	if err := validateTitle(op, title); err != nil {
		return 0, err
	}
	var id int
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkTitleFree(tx, title, 0); err != nil {
			return err
		}
		list := rows.TodoList{Title: title}
		if err := tx.Create(&list).Error; err != nil {
			return err
		}
		id = list.ID
		return nil
	})
	if err != nil {
		return 0, asStoreErr(op, err)
	}
	return id, nil
}

func (g *Gorm) UpdateList(ctx context.Context, id int, title string) error {
	const op = "update list"
	if err := validateTitle(op, title); err != nil {
		return err
	}
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list rows.TodoList
		if err := tx.First(&list, id).Error; err != nil {
			return notFound(op, "TodoList", id, err)
		}
		if err := checkTitleFree(tx, title, id); err != nil {
			return err
		}
		return tx.Model(&list).Update("title", title).Error
	})
	return asStoreErr(op, err)
}

// DeleteList removes the list and its items in one transaction.
func (g *Gorm) DeleteList(ctx context.Context, id int) error {
	const op = "delete list"
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list rows.TodoList
		if err := tx.First(&list, id).Error; err != nil {
			return notFound(op, "TodoList", id, err)
		}
		if err := tx.Where("list_id = ?", id).Delete(&rows.TodoItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&list).Error
	})
	return asStoreErr(op, err)
}

func (g *Gorm) CreateItem(ctx context.Context, listID int, title string, priority models.Priority, color models.Color) (int, error) {
	const op = "create item"
	if err := validateTitle(op, title); err != nil {
		return 0, err
	}
	if err := validateLookups(op, priority, color); err != nil {
		return 0, err
	}
	var id int
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list rows.TodoList
		if err := tx.First(&list, listID).Error; err != nil {
			return notFound(op, "TodoList", listID, err)
		}
		item := rows.TodoItem{ListID: listID, Title: title, Priority: int(priority), Color: int(color)}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		id = item.ID
		return nil
	})
	if err != nil {
		return 0, asStoreErr(op, err)
	}
	return id, nil
}

func (g *Gorm) UpdateItem(ctx context.Context, id int, title string, done bool) error {
	const op = "update item"
	if err := validateTitle(op, title); err != nil {
		return err
	}
	res := g.db.WithContext(ctx).Model(&rows.TodoItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "done": done})
	return rowsAffected(op, "TodoItem", id, res)
}

func (g *Gorm) UpdateItemDetails(ctx context.Context, id int, d models.ItemDetails) error {
	const op = "update item details"
	if err := validateLookups(op, d.Priority, d.Color); err != nil {
		return err
	}
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item rows.TodoItem
		if err := tx.First(&item, id).Error; err != nil {
			return notFound(op, "TodoItem", id, err)
		}
		var count int64
		if err := tx.Model(&rows.TodoList{}).Where("id = ?", d.ListID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return unknownList(op)
		}
		item.ApplyDetails(d)
		return tx.Save(&item).Error
	})
	return asStoreErr(op, err)
}

func (g *Gorm) SoftDeleteItem(ctx context.Context, id int) error {
	const op = "soft delete item"
	res := g.db.WithContext(ctx).Model(&rows.TodoItem{}).Where("id = ?", id).Update("is_deleted", true)
	return rowsAffected(op, "TodoItem", id, res)
}

func (g *Gorm) DeleteItem(ctx context.Context, id int) error {
	const op = "delete item"
	res := g.db.WithContext(ctx).Delete(&rows.TodoItem{}, id)
	return rowsAffected(op, "TodoItem", id, res)
}

func checkTitleFree(tx *gorm.DB, title string, except int) error {
	var count int64
	if err := tx.Model(&rows.TodoList{}).
		Where("LOWER(title) = LOWER(?) AND id <> ?", title, except).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return duplicateTitle("")
	}
	return nil
}

func notFound(op, entity string, id int, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return remote.Missing(op, entity, id)
	}
	return err
}

func rowsAffected(op, entity string, id int, res *gorm.DB) error {
	if res.Error != nil {
		return storeErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return remote.Missing(op, entity, id)
	}
	return nil
}

// asStoreErr passes *remote.Error through, filling in op, and wraps
// anything else as a database failure.
func asStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *remote.Error
	if errors.As(err, &re) {
		if re.Op == "" {
			re.Op = op
		}
		return re
	}
	return storeErr(op, err)
}

var _ Store = (*Gorm)(nil)
