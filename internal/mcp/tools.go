package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/todo"
)

func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_lists",
		Description: "List every todo list with its item count and the number of items still open.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Lists",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(false),
		},
	}, s.handleListLists)

	mcp.AddTool(server, &mcp.Tool{
		Name: "list_items",
		Description: `List items, optionally of one list only.

OPTIONAL: list (id or title), tag (exact tag, any case), search (substring of the title)
Soft-deleted items are never shown.`,
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Items",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(false),
		},
	}, s.handleListItems)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tags",
		Description: "List the tags in use with how many items carry each. Pass top to get only the three most used.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Tags",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(false),
		},
	}, s.handleListTags)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_list",
		Description: "Create a new todo list. REQUIRED: title",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Create List",
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, s.handleCreateList)

	mcp.AddTool(server, &mcp.Tool{
		Name: "add_item",
		Description: `Add an item to a list.

REQUIRED: list (id or title), title
OPTIONAL: priority (name or number), color (name or number), tags (comma-separated), note, force

If an item with a similar title already exists in the list the item is not added and
the similar items are returned. Pass force to add it anyway.`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Add Item",
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, s.handleAddItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_item",
		Description: "Change the title or done flag of an item. REQUIRED: item_id. An empty title deletes the item.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Update Item",
			DestructiveHint: boolPtr(true),
			IdempotentHint:  true,
			OpenWorldHint:   boolPtr(false),
		},
	}, s.handleUpdateItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_item_details",
		Description: "Move an item to another list or change its priority, color, tags or note. REQUIRED: item_id",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Set Item Details",
			DestructiveHint: boolPtr(false),
			IdempotentHint:  true,
			OpenWorldHint:   boolPtr(false),
		},
	}, s.handleSetItemDetails)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_item",
		Description: "Delete an item. REQUIRED: item_id. Pass soft to keep it in the store flagged as deleted.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Delete Item",
			DestructiveHint: boolPtr(true),
			OpenWorldHint:   boolPtr(false),
		},
	}, s.handleDeleteItem)
}

// textResult puts data into the text content as indented JSON.
func textResult(data interface{}) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(`{"error": %q}`, err.Error())}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}
}

// Read tools

type ListListsInput struct{}

func (s *Server) handleListLists(ctx context.Context, req *mcp.CallToolRequest, input ListListsInput) (*mcp.CallToolResult, interface{}, error) {
	st, err := s.session(ctx)
	if err != nil {
		return nil, nil, err
	}
	lists := make([]listView, 0, len(st.Lists()))
	for _, l := range st.Lists() {
		lists = append(lists, viewList(l))
	}
	return textResult(map[string]interface{}{"lists": lists, "count": len(lists)}), nil, nil
}

type ListItemsInput struct {
	List   string `json:"list,omitempty" jsonschema:"list id or title, all lists when empty"`
	Tag    string `json:"tag,omitempty" jsonschema:"only items carrying this tag"`
	Search string `json:"search,omitempty" jsonschema:"only items whose title contains this text"`
}

func (s *Server) handleListItems(ctx context.Context, req *mcp.CallToolRequest, input ListItemsInput) (*mcp.CallToolResult, interface{}, error) {
	st, err := s.session(ctx)
	if err != nil {
		return nil, nil, err
	}
	lists := st.Lists()
	if strings.TrimSpace(input.List) != "" {
		l, err := resolveList(st, input.List)
		if err != nil {
			return nil, nil, err
		}
		lists = []*models.TodoList{l}
	}
	st.FilterByTag(input.Tag)
	st.Search(input.Search)

	items := []itemView{}
	for _, l := range lists {
		for _, it := range st.VisibleItems(l) {
			items = append(items, viewItem(st, it))
		}
	}
	return textResult(map[string]interface{}{"items": items, "count": len(items)}), nil, nil
}

type ListTagsInput struct {
	Top bool `json:"top,omitempty" jsonschema:"only the three most used tags"`
}

type tagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

func (s *Server) handleListTags(ctx context.Context, req *mcp.CallToolRequest, input ListTagsInput) (*mcp.CallToolResult, interface{}, error) {
	st, err := s.session(ctx)
	if err != nil {
		return nil, nil, err
	}
	idx := st.TagIndex()
	names := idx.All
	if input.Top {
		names = idx.Top
	}
	out := make([]tagCount, 0, len(names))
	for _, t := range names {
		out = append(out, tagCount{Tag: t, Count: idx.Counts[t]})
	}
	return textResult(map[string]interface{}{"tags": out}), nil, nil
}

// Write tools

type CreateListInput struct {
	Title string `json:"title" jsonschema:"title of the new list"`
}

func (s *Server) handleCreateList(ctx context.Context, req *mcp.CallToolRequest, input CreateListInput) (*mcp.CallToolResult, interface{}, error) {
	st, err := s.session(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := st.AddList(input.Title); err != nil {
		return nil, nil, err
	}
	if err := st.Err(); err != nil {
		return nil, nil, err
	}
	return textResult(map[string]interface{}{"ok": true, "list": viewList(st.SelectedList())}), nil, nil
}

type AddItemInput struct {
	List     string `json:"list" jsonschema:"list id or title"`
	Title    string `json:"title" jsonschema:"title of the item"`
	Priority string `json:"priority,omitempty" jsonschema:"priority level name or number"`
	Color    string `json:"color,omitempty" jsonschema:"color name or number"`
	Tags     string `json:"tags,omitempty" jsonschema:"comma-separated tags"`
	Note     string `json:"note,omitempty" jsonschema:"free text note"`
	Force    bool   `json:"force,omitempty" jsonschema:"add even when a similar item exists"`
}

func (s *Server) handleAddItem(ctx context.Context, req *mcp.CallToolRequest, input AddItemInput) (*mcp.CallToolResult, interface{}, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, nil, errors.New("title is required")
	}
	st, err := s.session(ctx)
	if err != nil {
		return nil, nil, err
	}
	l, err := resolveList(st, input.List)
	if err != nil {
		return nil, nil, err
	}

	if !input.Force {
		if similar := SimilarItems(l.Items, title, SimilarityThreshold); len(similar) > 0 {
			return textResult(map[string]interface{}{
				"created": false,
				"message": fmt.Sprintf("'%s' already has similar items; pass force to add anyway", l.Title),
				"similar": similar,
			}), nil, nil
		}
	}

	st.SelectList(l.ID)
	draft := st.AddItem()
	d := models.DetailsOf(draft)
	if input.Priority != "" {
		if d.Priority, err = st.LookupPriority(input.Priority); err != nil {
			st.DeleteItem(draft)
			return nil, nil, err
		}
	}
	if input.Color != "" {
		if d.Color, err = st.LookupColor(input.Color); err != nil {
			st.DeleteItem(draft)
			return nil, nil, err
		}
	}
	draft.Priority = d.Priority
	draft.Color = d.Color

	if err := st.CommitItem(draft, models.QuickFields{Title: title}); err != nil {
		return nil, nil, err
	}
	if err := st.Err(); err != nil {
		return nil, nil, err
	}
	if input.Tags != "" || input.Note != "" {
		d.ListID = draft.ListID
		d.Tags = input.Tags
		d.Note = input.Note
		if err := saveDetails(st, draft, d); err != nil {
			return nil, nil, err
		}
	}
	return textResult(map[string]interface{}{"created": true, "item": viewItem(st, draft)}), nil, nil
}

type UpdateItemInput struct {
	ItemID int     `json:"item_id" jsonschema:"id of the item"`
	Title  *string `json:"title,omitempty" jsonschema:"new title, empty deletes the item"`
	Done   *bool   `json:"done,omitempty" jsonschema:"new done flag"`
}

func (s *Server) handleUpdateItem(ctx context.Context, req *mcp.CallToolRequest, input UpdateItemInput) (*mcp.CallToolResult, interface{}, error) {
	if input.Title == nil && input.Done == nil {
		return nil, nil, errors.New("title or done is required")
	}
	st, it, err := s.sessionItem(ctx, input.ItemID)
	if err != nil {
		return nil, nil, err
	}
	fields := models.QuickFields{Title: it.Title, Done: it.Done}
	if input.Title != nil {
		fields.Title = *input.Title
	}
	if input.Done != nil {
		fields.Done = *input.Done
	}
	if err := st.CommitItem(it, fields); err != nil {
		return nil, nil, err
	}
	if err := st.Err(); err != nil {
		return nil, nil, err
	}
	if st.FindItem(input.ItemID) == nil {
		return textResult(map[string]interface{}{"ok": true, "deleted": true, "item_id": input.ItemID}), nil, nil
	}
	return textResult(map[string]interface{}{"ok": true, "item": viewItem(st, it)}), nil, nil
}

type SetItemDetailsInput struct {
	ItemID   int     `json:"item_id" jsonschema:"id of the item"`
	List     string  `json:"list,omitempty" jsonschema:"move the item to this list, id or title"`
	Priority string  `json:"priority,omitempty" jsonschema:"priority level name or number"`
	Color    string  `json:"color,omitempty" jsonschema:"color name or number"`
	Tags     *string `json:"tags,omitempty" jsonschema:"comma-separated tags, empty clears them"`
	Note     *string `json:"note,omitempty" jsonschema:"note, empty clears it"`
}

func (s *Server) handleSetItemDetails(ctx context.Context, req *mcp.CallToolRequest, input SetItemDetailsInput) (*mcp.CallToolResult, interface{}, error) {
	st, it, err := s.sessionItem(ctx, input.ItemID)
	if err != nil {
		return nil, nil, err
	}
	d := models.DetailsOf(it)
	if input.List != "" {
		l, err := resolveList(st, input.List)
		if err != nil {
			return nil, nil, err
		}
		d.ListID = l.ID
	}
	if input.Priority != "" {
		if d.Priority, err = st.LookupPriority(input.Priority); err != nil {
			return nil, nil, err
		}
	}
	if input.Color != "" {
		if d.Color, err = st.LookupColor(input.Color); err != nil {
			return nil, nil, err
		}
	}
	if input.Tags != nil {
		d.Tags = *input.Tags
	}
	if input.Note != nil {
		d.Note = *input.Note
	}
	if err := saveDetails(st, it, d); err != nil {
		return nil, nil, err
	}
	return textResult(map[string]interface{}{"ok": true, "item": viewItem(st, it)}), nil, nil
}

type DeleteItemInput struct {
	ItemID int  `json:"item_id" jsonschema:"id of the item"`
	Soft   bool `json:"soft,omitempty" jsonschema:"only flag the item as deleted"`
}

func (s *Server) handleDeleteItem(ctx context.Context, req *mcp.CallToolRequest, input DeleteItemInput) (*mcp.CallToolResult, interface{}, error) {
	st, it, err := s.sessionItem(ctx, input.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if input.Soft {
		st.SoftDeleteItem(it)
	} else {
		st.DeleteItem(it)
	}
	if err := st.Err(); err != nil {
		return nil, nil, err
	}
	return textResult(map[string]interface{}{"ok": true, "item_id": input.ItemID, "soft": input.Soft}), nil, nil
}

func (s *Server) sessionItem(ctx context.Context, id int) (*todo.State, *models.TodoItem, error) {
	if id <= 0 {
		return nil, nil, errors.New("item_id is required")
	}
	st, err := s.session(ctx)
	if err != nil {
		return nil, nil, err
	}
	it := st.FindItem(id)
	if it == nil {
		return nil, nil, fmt.Errorf("item %d not found", id)
	}
	return st, it, nil
}

func saveDetails(st *todo.State, it *models.TodoItem, d models.ItemDetails) error {
	if err := st.SaveDetails(it, d); err != nil {
		return err
	}
	return st.Err()
}
