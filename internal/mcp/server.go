// Package mcp serves the todo lists to MCP clients over stdio. Every tool
// call loads the lists afresh and goes through the same view state the CLI
// uses, so validation and delete rules are identical.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/remote"
	"github.com/kutbudev/todolists/internal/todo"
)

const instructions = `You are connected to a todo list manager.

- list_lists shows every list with its open item count.
- list_items shows the items of one list, or of all lists, filtered by tag and search term.
- add_item warns about items with a similar title in the same list; pass force to add anyway.
- update_item with an empty title deletes the item.
- delete_item removes an item; pass soft to only flag it as deleted.`

// Server answers tool calls against a remote store.
type Server struct {
	remote  remote.Remote
	opts    todo.Options
	timeout time.Duration
}

func New(rem remote.Remote, opts todo.Options, timeout time.Duration) *Server {
	return &Server{remote: rem, opts: opts, timeout: timeout}
}

// MCPServer builds the go-sdk server with every tool and resource registered.
func (s *Server) MCPServer(version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "todolists", Version: version},
		&mcp.ServerOptions{Instructions: instructions},
	)
	s.registerTools(server)
	s.registerResources(server)
	return server
}

// ServeStdio runs the server over stdin/stdout until ctx ends or the client
// disconnects.
func ServeStdio(ctx context.Context, rem remote.Remote, opts todo.Options, timeout time.Duration, version string) error {
	return New(rem, opts, timeout).MCPServer(version).Run(ctx, &mcp.StdioTransport{})
}

// session loads a fresh view state for one call.
func (s *Server) session(ctx context.Context) (*todo.State, error) {
	st := todo.NewSync(s.remote, s.timeout, s.opts)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := todo.Reload(ctx, st, s.remote); err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}
	return st, nil
}

// resolveList accepts a list id or a title, exact or fuzzy.
func resolveList(st *todo.State, ref string) (*models.TodoList, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("list is required")
	}
	if id, err := strconv.Atoi(ref); err == nil {
		if l := st.FindList(id); l != nil {
			return l, nil
		}
		return nil, fmt.Errorf("list %d not found", id)
	}
	for _, l := range st.Lists() {
		if strings.EqualFold(l.Title, ref) {
			return l, nil
		}
	}

	matches := fuzzyMatchLists(st.Lists(), ref)
	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("no list matches %q", ref)
	case len(matches) > 1 && matches[0].Confidence == matches[1].Confidence:
		return nil, fmt.Errorf("%q matches both '%s' and '%s'", ref, matches[0].List.Title, matches[1].List.Title)
	}
	return matches[0].List, nil
}

func boolPtr(b bool) *bool { return &b }

type listView struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Items     int    `json:"items"`
	Remaining int    `json:"remaining"`
}

type itemView struct {
	ID       int      `json:"id"`
	ListID   int      `json:"list_id"`
	Title    string   `json:"title"`
	Done     bool     `json:"done"`
	Priority string   `json:"priority"`
	Color    string   `json:"color"`
	Tags     []string `json:"tags"`
	Note     string   `json:"note,omitempty"`
}

func viewList(l *models.TodoList) listView {
	return listView{ID: l.ID, Title: l.Title, Items: len(l.Items), Remaining: todo.RemainingItems(l)}
}

func viewItem(st *todo.State, it *models.TodoItem) itemView {
	v := itemView{
		ID:       it.ID,
		ListID:   it.ListID,
		Title:    it.Title,
		Done:     it.Done,
		Priority: st.PriorityName(it.Priority),
		Color:    st.ColorName(it.Color),
		Tags:     []string{},
		Note:     it.Note,
	}
	for _, t := range strings.Split(it.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			v.Tags = append(v.Tags, t)
		}
	}
	return v
}

// Resources

func (s *Server) registerResources(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         "todolists://lists",
		Name:        "lists",
		Description: "Every list with its items",
		MIMEType:    "application/json",
	}, s.handleListsResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "todolists://lists/{id}",
		Name:        "list",
		Description: "One list with its items",
		MIMEType:    "application/json",
	}, s.handleListResource)
}

func (s *Server) handleListsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	st, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, st.Lists())
}

func (s *Server) handleListResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(req.Params.URI, "todolists://lists/"))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	st, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	l := st.FindList(id)
	if l == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, l)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
